package fans

import (
	"errors"
	"fmt"
	"math"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
)

var (
	ErrActuatorWriteFailed  = errors.New("actuator write failed")
	ErrInitializationFailed = errors.New("actuator initialization failed")
)

// Fan drives the cooling fan with a duty cycle in [0, 1].
type Fan interface {
	GetId() string
	GetLabel() string

	// SetDuty clamps duty to [0, 1] and applies it to the output
	SetDuty(duty float64) error
	// GetDuty returns the last duty cycle handed to SetDuty, after clamping
	GetDuty() float64

	// Close stops the output and releases the underlying channel or line.
	// Calling Close more than once is safe.
	Close() error
}

// NewFan creates the fan output selected by config: a sysfs pwmchip channel
// when Hardware is set, a software PWM signal on a GPIO line otherwise.
func NewFan(config configuration.PwmConfig) (Fan, error) {
	if config.Hardware {
		return NewHardwarePwmFan(config)
	}

	line, err := OpenLine(config.Gpio)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitializationFailed, err)
	}
	return NewSoftwarePwmFan(lineId(config.Gpio), line, config.PeriodNs, config.CloseTimeout), nil
}

// OpenLine requests the GPIO line described by config as an output driven low
func OpenLine(config configuration.GpioConfig) (Line, error) {
	switch config.Backend {
	case configuration.GpioBackendGpiod:
		line, err := openGpiodLine(config.Chip, config.Line)
		if err != nil {
			return nil, err
		}
		return line, nil
	case configuration.GpioBackendPeriph:
		line, err := openPeriphLine(config.Pin)
		if err != nil {
			return nil, err
		}
		return line, nil
	}
	return nil, fmt.Errorf("unknown gpio backend: %s", config.Backend)
}

func lineId(config configuration.GpioConfig) string {
	if config.Backend == configuration.GpioBackendPeriph {
		return config.Pin
	}
	return fmt.Sprintf("gpiochip%d/%d", config.Chip, config.Line)
}

func clampDuty(duty float64) float64 {
	if math.IsNaN(duty) {
		return 0
	}
	return util.Clamp(duty, 0, 1)
}
