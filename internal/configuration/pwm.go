package configuration

import "time"

const (
	DefaultPwmPeriodNs = 40000

	GpioBackendGpiod  = "gpiod"
	GpioBackendPeriph = "periph"
)

type PwmConfig struct {
	// Hardware selects the sysfs pwmchip peripheral instead of a software PWM GPIO line.
	Hardware  bool   `json:"hardware" mapstructure:"hardware"`
	Chip      int    `json:"chip" mapstructure:"chip"`
	Channel   int    `json:"channel" mapstructure:"channel"`
	SysfsPath string `json:"sysfsPath" mapstructure:"sysfs_path"`
	PeriodNs  int    `json:"periodNs" mapstructure:"period_ns"`

	// CloseTimeout bounds how long shutdown waits for the software PWM loop.
	CloseTimeout time.Duration `json:"closeTimeout" mapstructure:"close_timeout"`

	Gpio GpioConfig `json:"gpio" mapstructure:"gpio"`
}

type GpioConfig struct {
	Backend string `json:"backend" mapstructure:"backend"`
	// Chip and Line are used by the gpiod backend (gpiochip<Chip>, offset Line).
	Chip int `json:"chip" mapstructure:"chip"`
	Line int `json:"line" mapstructure:"line"`
	// Pin is the periph.io pin name, e.g. "GPIO27".
	Pin string `json:"pin" mapstructure:"pin"`
}
