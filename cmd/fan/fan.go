package fan

import (
	"fmt"

	"github.com/radxa-penta-fan-ctrl/pentafan/cmd/global"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/fans"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "fan",
	Short:            "Fan related commands",
	Long:             ``,
	TraverseChildren: true,
}

// getFan opens the configured PWM output
func getFan() (fans.Fan, error) {
	if err := global.LoadConfiguration(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return fans.NewFan(configuration.CurrentConfig.Pwm)
}
