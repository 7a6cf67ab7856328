package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/radxa-penta-fan-ctrl/pentafan/cmd/global"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/hwmon"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
	"github.com/warthog618/gpiod"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects all temperature sensors and PWM outputs and prints them as a list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var tables []table.Table

		var zoneRows [][]string
		for _, zone := range hwmon.GetThermalZones(hwmon.DefaultSysBase) {
			zoneRows = append(zoneRows, []string{"", zone.Name, zone.Type, zone.Path, formatTemp(zone.Value)})
		}
		tables = append(tables, table.Table{
			Headers: []string{"Thermal zones", "Name", "Type", "Path", "Value"},
			Rows:    zoneRows,
		})

		var sensorRows [][]string
		for _, controller := range hwmon.GetChips(hwmon.DefaultSysBase) {
			for _, sensor := range controller.Sensors {
				_, file := filepath.Split(sensor.Input)
				sensorRows = append(sensorRows, []string{
					"", controller.Name, controller.Platform, fmt.Sprintf("%s (%s)", sensor.Label, file), formatTemp(sensor.Value),
				})
			}
		}
		tables = append(tables, table.Table{
			Headers: []string{"Hwmon", "Name", "Platform", "Label", "Value"},
			Rows:    sensorRows,
		})

		var pwmRows [][]string
		for _, chip := range hwmon.GetPwmChips(hwmon.DefaultSysBase) {
			pwmRows = append(pwmRows, []string{"", chip.Name, strconv.Itoa(chip.Channels), chip.Path})
		}
		tables = append(tables, table.Table{
			Headers: []string{"PWM", "Chip", "Channels", "Path"},
			Rows:    pwmRows,
		})

		var gpioRows [][]string
		for _, name := range gpiod.Chips() {
			chip, err := gpiod.NewChip(name)
			if err != nil {
				ui.Debug("Cannot open %s: %v", name, err)
				gpioRows = append(gpioRows, []string{"", name, "N/A", "N/A"})
				continue
			}
			gpioRows = append(gpioRows, []string{"", name, chip.Label, strconv.Itoa(chip.Lines())})
			_ = chip.Close()
		}
		tables = append(tables, table.Table{
			Headers: []string{"GPIO", "Chip", "Label", "Lines"},
			Rows:    gpioRows,
		})

		return global.PrintTables(tables...)
	},
}

func formatTemp(value float64) string {
	if value == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f°C", value)
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
