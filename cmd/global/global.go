package global

import (
	"bytes"

	"github.com/mgutz/ansi"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/tomlazar/table"
)

var (
	CfgFile string
	NoColor bool
	NoStyle bool
	Verbose bool
)

// LoadConfiguration reads, decodes and validates the configuration
func LoadConfiguration() error {
	configPath, err := configuration.DetectAndReadConfigFile()
	if err != nil {
		return err
	}
	if len(configPath) > 0 {
		ui.Info("Using configuration file at: %s", configPath)
	}
	configuration.LoadConfig()
	return configuration.Validate()
}

func tableConfig() *table.Config {
	return &table.Config{
		ShowIndex:       false,
		Color:           !NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	}
}

// PrintTables prints all tables with rows, separated by an empty line
func PrintTables(tables ...table.Table) error {
	for idx, tab := range tables {
		if tab.Rows == nil {
			continue
		}
		var buf bytes.Buffer
		if err := tab.WriteTable(&buf, tableConfig()); err != nil {
			return err
		}
		if idx < (len(tables) - 1) {
			ui.Printf("%s", buf.String())
		} else {
			ui.Printfln("%s", buf.String())
		}
	}
	return nil
}
