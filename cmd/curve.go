package cmd

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/radxa-penta-fan-ctrl/pentafan/cmd/global"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/thermal"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

const (
	curvePlotFrom = 30.0
	curvePlotTo   = 90.0
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the configured fan curves to console",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := global.LoadConfiguration(); err != nil {
			return fmt.Errorf("config validation error: %w", err)
		}
		config := configuration.CurrentConfig

		curves := []struct {
			name   string
			config configuration.FanCurveConfig
		}{
			{"CPU", config.Fan.FanCurveConfig},
			{"Storage", config.FanSsd},
		}

		for idx, c := range curves {
			if idx > 0 {
				ui.Printfln("")
			}
			ui.Printfln("%s", c.name)

			thresholds := c.config.Thresholds()
			var rows [][]string
			for i, step := range []string{"25%", "50%", "75%", "100%"} {
				rows = append(rows, []string{
					"",
					step,
					fmt.Sprintf("%.1f°C", thresholds[i]),
					fmt.Sprintf("%.1f°C", thresholds[i]-config.Thermal.Hysteresis),
				})
			}
			err := global.PrintTables(table.Table{
				Headers: []string{"Step", "Duty", "Rising", "Falling"},
				Rows:    rows,
			})
			if err != nil {
				return err
			}

			curve := thermal.NewCurve(c.config)
			graph := asciigraph.PlotMany(
				[][]float64{
					curveSamples(curve, curvePlotFrom, curvePlotTo, config.Thermal.Hysteresis, true),
					curveSamples(curve, curvePlotFrom, curvePlotTo, config.Thermal.Hysteresis, false),
				},
				asciigraph.Height(10),
				asciigraph.Width(int(curvePlotTo-curvePlotFrom)*2),
				asciigraph.LowerBound(0),
				asciigraph.UpperBound(100),
				asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
				asciigraph.Caption(fmt.Sprintf("Duty %% / %.0f-%.0f°C (red: rising, blue: falling)", curvePlotFrom, curvePlotTo)),
			)
			ui.Printfln("%s", graph)
		}
		return nil
	},
}

// curveSamples returns the duty step in percent for every full degree in [from, to]
func curveSamples(curve thermal.Curve, from float64, to float64, hysteresis float64, heating bool) []float64 {
	var values []float64
	for temp := from; temp <= to; temp++ {
		values = append(values, curve.Target(temp, hysteresis, heating)*100)
	}
	return values
}

func init() {
	rootCmd.AddCommand(curveCmd)
}
