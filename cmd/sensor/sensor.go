package sensor

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/radxa-penta-fan-ctrl/pentafan/cmd/global"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var sensorId string

var Command = &cobra.Command{
	Use:   "sensor",
	Short: "Print the current value of the configured temperature sensors",
	Long: `Reads the CPU sensor and the storage devices once. With --id only
the value of the given sensor is printed, in whole °C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(sensorId) > 0 {
			pterm.DisableOutput()
		}

		if err := global.LoadConfiguration(); err != nil {
			return fmt.Errorf("config validation error: %w", err)
		}
		provider, err := sensors.NewProvider(configuration.CurrentConfig.Sensors)
		if err != nil {
			return err
		}

		ctx := context.Background()
		provider.ReadCPUTemperature(ctx)
		provider.ReadStorageTemperatures(ctx, configuration.MaxStorageDevices)
		readings := provider.LastReadings()

		if len(sensorId) > 0 {
			return printValue(provider, readings, sensorId)
		}

		var rows [][]string
		for _, sensor := range provider.Sensors() {
			value := "not read"
			if reading, ok := readings[sensor.GetId()]; ok {
				value = reading.String()
			}
			rows = append(rows, []string{"", sensor.GetId(), sensor.GetLabel(), value})
		}
		return global.PrintTables(table.Table{
			Headers: []string{"Sensors", "ID", "Label", "Value"},
			Rows:    rows,
		})
	},
}

func printValue(provider *sensors.SensorProvider, readings map[string]sensors.Reading, id string) error {
	var available []string
	for _, sensor := range provider.Sensors() {
		available = append(available, sensor.GetId())
		if sensor.GetId() != id {
			continue
		}
		reading, ok := readings[id]
		if !ok {
			return fmt.Errorf("sensor %s was not read, only the first %d storage devices are used", id, configuration.MaxStorageDevices)
		}
		if !reading.Available {
			return fmt.Errorf("sensor %s is unavailable", id)
		}
		fmt.Printf("%d", int(reading.Value))
		return nil
	}
	return fmt.Errorf("no sensor with id found: %s, options: %s", id, available)
}

func init() {
	Command.Flags().StringVarP(
		&sensorId,
		"id", "i",
		"",
		"Sensor ID, \"cpu\" or a storage device name",
	)
}
