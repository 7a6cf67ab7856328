package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
	"github.com/spf13/cobra"
)

var (
	initPath  string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Writes a configuration file containing the default values",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(initPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists, use --force to overwrite it", initPath)
		}
		if err := os.MkdirAll(filepath.Dir(initPath), 0o755); err != nil {
			return err
		}

		content := configuration.FormatConfigFile(configuration.DefaultConfiguration())
		if err := util.WriteFileAtomic(content, initPath); err != nil {
			return fmt.Errorf("cannot write %s: %w", initPath, err)
		}
		ui.Success("Configuration written to %s", initPath)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVarP(&initPath, "output", "o", "/etc/pentafan/pentafan.yaml", "Path of the configuration file to write")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing file")
	Command.AddCommand(initCmd)
}
