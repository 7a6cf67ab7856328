package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/radxa-penta-fan-ctrl/pentafan/cmd/config"
	"github.com/radxa-penta-fan-ctrl/pentafan/cmd/fan"
	"github.com/radxa-penta-fan-ctrl/pentafan/cmd/global"
	"github.com/radxa-penta-fan-ctrl/pentafan/cmd/sensor"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/spf13/cobra"
)

// legacyDebugEnv enables debug output with the values "1" and "2"
const legacyDebugEnv = "RADXA_DEBUG"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pentafan",
	Short: "An adaptive fan control daemon for the Radxa Penta SATA HAT.",
	Long: `pentafan drives the fan of a Radxa Penta SATA HAT based on the
CPU and storage temperatures, using either a hardware PWM channel
or a software PWM signal on a GPIO line.`,
	SilenceUsage: true,
	// this is the default command to run when no subcommand is specified
	RunE: func(cmd *cobra.Command, args []string) error {
		printHeader()

		if err := global.LoadConfiguration(); err != nil {
			return fmt.Errorf("config validation error: %w", err)
		}

		internal.RunDaemon()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is ./pentafan.yaml, $HOME/pentafan.yaml or /etc/pentafan/pentafan.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(fan.Command)
	rootCmd.AddCommand(sensor.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose || legacyDebugEnabled())

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

func legacyDebugEnabled() bool {
	value := os.Getenv(legacyDebugEnv)
	return value == "1" || value == "2"
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("penta", pterm.NewStyle(pterm.FgLightBlue)),
		pterm.NewLettersFromStringWithStyle("fan", pterm.NewStyle(pterm.FgWhite)),
	).Render()
	if err != nil {
		fmt.Println("pentafan")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		setupUi()
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
