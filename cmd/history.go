package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/radxa-penta-fan-ctrl/pentafan/cmd/global"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/persistence"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var historySince time.Duration

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the recorded temperatures and duty cycles",
	Long: `Prints the samples recorded by the daemon when history recording is
enabled. The daemon may keep running while this command reads the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := global.LoadConfiguration(); err != nil {
			return fmt.Errorf("config validation error: %w", err)
		}
		config := configuration.CurrentConfig

		if _, err := os.Stat(config.History.DbPath); errors.Is(err, os.ErrNotExist) {
			ui.Printfln("No history database at %s, enable history recording first", config.History.DbPath)
			return nil
		}

		now := time.Now()
		samples, err := persistence.NewPersistence(config.History.DbPath).LoadSamples(now.Add(-historySince), now)
		if err != nil {
			return fmt.Errorf("cannot load history from %s: %w", config.History.DbPath, err)
		}
		if len(samples) <= 0 {
			ui.Printfln("No history recorded in the last %s", historySince)
			return nil
		}

		series := newHistorySeries(samples)
		var rows [][]string
		for _, s := range []struct {
			name   string
			unit   string
			values []float64
		}{
			{"CPU", "°C", series.cpu},
			{"Storage", "°C", series.storage},
			{"Duty", "%", series.duty},
		} {
			rows = append(rows, []string{
				"",
				s.name,
				fmt.Sprintf("%.1f%s", util.Min(s.values...), s.unit),
				fmt.Sprintf("%.1f%s", util.Avg(s.values), s.unit),
				fmt.Sprintf("%.1f%s", util.Max(s.values...), s.unit),
			})
		}
		err = global.PrintTables(table.Table{
			Headers: []string{"History", "Value", "Min", "Avg", "Max"},
			Rows:    rows,
		})
		if err != nil {
			return err
		}

		caption := fmt.Sprintf("%s - %s, %d samples",
			samples[0].Time.Format(time.DateTime), samples[len(samples)-1].Time.Format(time.DateTime), len(samples))
		ui.Printfln("%s", asciigraph.PlotMany(
			[][]float64{series.cpu, series.storage},
			asciigraph.Height(12),
			asciigraph.Width(100),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow),
			asciigraph.Caption("°C (red: CPU, yellow: storage) "+caption),
		))
		ui.Printfln("")
		ui.Printfln("%s", asciigraph.Plot(
			series.duty,
			asciigraph.Height(8),
			asciigraph.Width(100),
			asciigraph.LowerBound(0),
			asciigraph.UpperBound(100),
			asciigraph.Caption("Duty % "+caption),
		))
		return nil
	},
}

type historySeries struct {
	cpu     []float64
	storage []float64
	duty    []float64
}

func newHistorySeries(samples []persistence.Sample) historySeries {
	var series historySeries
	for _, sample := range samples {
		series.cpu = append(series.cpu, sample.Cpu)
		series.storage = append(series.storage, sample.StorageMax)
		series.duty = append(series.duty, sample.Duty*100)
	}
	return series
}

func init() {
	historyCmd.Flags().DurationVarP(&historySince, "since", "s", 1*time.Hour, "How far back to print the history")
	rootCmd.AddCommand(historyCmd)
}
