package fans

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
)

// HardwarePwmFan drives a channel of a sysfs pwmchip.
type HardwarePwmFan struct {
	ChipPath string `json:"chipPath"`
	Channel  int    `json:"channel"`
	PeriodNs int    `json:"periodNs"`

	duty      atomic.Uint64
	closeOnce sync.Once
	closeErr  error
}

// NewHardwarePwmFan exports the configured channel, programs the period and
// enables the output with a duty cycle of 0.
func NewHardwarePwmFan(config configuration.PwmConfig) (*HardwarePwmFan, error) {
	periodNs := config.PeriodNs
	if periodNs <= 0 {
		periodNs = configuration.DefaultPwmPeriodNs
	}
	fan := &HardwarePwmFan{
		ChipPath: filepath.Join(config.SysfsPath, fmt.Sprintf("pwmchip%d", config.Chip)),
		Channel:  config.Channel,
		PeriodNs: periodNs,
	}
	if err := fan.init(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInitializationFailed, fan.channelPath(), err)
	}
	return fan, nil
}

func (fan *HardwarePwmFan) init() error {
	if _, err := os.Stat(fan.channelPath()); errors.Is(err, os.ErrNotExist) {
		err = util.WriteIntToFile(fan.Channel, filepath.Join(fan.ChipPath, "export"))
		if err != nil {
			return fmt.Errorf("cannot export channel %d: %w", fan.Channel, err)
		}
	}

	// duty_cycle must never exceed the period, so it is reset before the period is written
	if err := fan.writeDutyNs(0); err != nil {
		ui.Debug("Resetting duty cycle of %s before setting the period failed: %v", fan.channelPath(), err)
	}
	if err := util.WriteIntToFile(fan.PeriodNs, fan.attribute("period")); err != nil {
		return fmt.Errorf("cannot set period: %w", err)
	}
	if err := util.WriteStringToFile("1", fan.attribute("enable")); err != nil {
		return fmt.Errorf("cannot enable output: %w", err)
	}

	ui.Info("Fan initialized with hardware PWM (%s, period %dns)", fan.channelPath(), fan.PeriodNs)
	return nil
}

func (fan *HardwarePwmFan) GetId() string {
	return fan.channelPath()
}

func (fan *HardwarePwmFan) GetLabel() string {
	return fmt.Sprintf("Hardware PWM (%s)", fan.channelPath())
}

func (fan *HardwarePwmFan) SetDuty(duty float64) error {
	duty = clampDuty(duty)
	fan.duty.Store(math.Float64bits(duty))

	dutyNs := DutyToNs(duty, fan.PeriodNs)
	if err := fan.writeDutyNs(dutyNs); err != nil {
		return fmt.Errorf("%w: %v", ErrActuatorWriteFailed, err)
	}
	ui.Debug("Hardware PWM duty %.0f%% -> %dns of %dns", duty*100, dutyNs, fan.PeriodNs)
	return nil
}

func (fan *HardwarePwmFan) GetDuty() float64 {
	return math.Float64frombits(fan.duty.Load())
}

// Close drives the output to 0%. The channel stays exported and enabled,
// a disabled channel floats and many fans spin at full speed on a floating input.
func (fan *HardwarePwmFan) Close() error {
	fan.closeOnce.Do(func() {
		fan.duty.Store(0)
		if err := fan.writeDutyNs(0); err != nil {
			fan.closeErr = fmt.Errorf("%w: %v", ErrActuatorWriteFailed, err)
		}
	})
	return fan.closeErr
}

// ReadDutyNs reads back the duty_cycle attribute
func (fan *HardwarePwmFan) ReadDutyNs() (int, error) {
	return util.ReadIntFromFile(fan.attribute("duty_cycle"))
}

func (fan *HardwarePwmFan) writeDutyNs(dutyNs int) error {
	return util.WriteIntToFile(dutyNs, fan.attribute("duty_cycle"))
}

func (fan *HardwarePwmFan) channelPath() string {
	return filepath.Join(fan.ChipPath, "pwm"+strconv.Itoa(fan.Channel))
}

func (fan *HardwarePwmFan) attribute(name string) string {
	return filepath.Join(fan.channelPath(), name)
}

// DutyToNs converts a duty cycle into the active time of one period, truncating.
func DutyToNs(duty float64, periodNs int) int {
	return int(float64(periodNs) * clampDuty(duty))
}
