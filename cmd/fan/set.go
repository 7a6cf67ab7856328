package fan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/spf13/cobra"
)

var holdDuration time.Duration

var setCmd = &cobra.Command{
	Use:   "set <percent>",
	Short: "Drive the fan at a fixed duty cycle",
	Long: `Drives the fan at the given duty cycle (0-100%) until the hold
duration has passed or the command is interrupted. The fan is stopped
afterwards. Do not run this while the daemon is active.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		duty, err := parsePercent(args[0])
		if err != nil {
			return err
		}

		fan, err := getFan()
		if err != nil {
			return err
		}

		if err := fan.SetDuty(duty); err != nil {
			return errors.Join(err, fan.Close())
		}
		ui.Success("Fan %s set to %.0f%%", fan.GetLabel(), duty*100)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		if holdDuration > 0 {
			var timeoutCancel context.CancelFunc
			ctx, timeoutCancel = context.WithTimeout(ctx, holdDuration)
			defer timeoutCancel()
			ui.Info("Holding for %s, press Ctrl+C to stop early", holdDuration)
		} else {
			ui.Info("Holding until interrupted")
		}
		<-ctx.Done()

		ui.Info("Stopping fan")
		return errors.Join(fan.SetDuty(0), fan.Close())
	},
}

// parsePercent accepts values like "40" or "40%"
func parsePercent(value string) (float64, error) {
	if len(value) > 0 && value[len(value)-1] == '%' {
		value = value[:len(value)-1]
	}
	percent, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duty cycle %q: %w", value, err)
	}
	if percent < 0 || percent > 100 {
		return 0, fmt.Errorf("duty cycle must be between 0 and 100, got %v", percent)
	}
	return percent / 100, nil
}

func init() {
	setCmd.Flags().DurationVar(&holdDuration, "hold", 30*time.Second, "How long to hold the duty cycle, 0 holds until interrupted")
	Command.AddCommand(setCmd)
}
