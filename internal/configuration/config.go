package configuration

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/spf13/viper"
)

const (
	// LegacyConfigFile is where the original radxa-penta-fan-ctrl daemon kept its INI configuration.
	LegacyConfigFile = "/etc/radxa-penta-fan-ctrl/radxa-penta-fan-ctrl.conf"
)

type Configuration struct {
	// Fan is the curve for the CPU temperature, it also holds the global enable switch.
	Fan CpuFanConfig `json:"fan" mapstructure:"fan"`
	// FanSsd is the curve for the hottest storage device.
	FanSsd FanCurveConfig `json:"fanSsd" mapstructure:"fan_ssd"`

	Thermal ThermalConfig `json:"thermal" mapstructure:"thermal"`

	Pwm     PwmConfig     `json:"pwm" mapstructure:"pwm"`
	Sensors SensorsConfig `json:"sensors" mapstructure:"sensors"`

	ControlLoopRate time.Duration `json:"controlLoopRate" mapstructure:"control_loop_rate"`

	Statistics StatisticsConfig `json:"statistics" mapstructure:"statistics"`
	Api        ApiConfig        `json:"api" mapstructure:"api"`
	History    HistoryConfig    `json:"history" mapstructure:"history"`

	// Oled is only accepted to keep legacy configuration files loadable.
	Oled OledConfig `json:"oled" mapstructure:"oled"`
}

type OledConfig struct {
	Rotate bool `json:"rotate" mapstructure:"rotate"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("pentafan")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		if isIniFile(cfgFile) {
			viper.SetConfigType("ini")
		}
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/pentafan/")
	}

	viper.SetEnvPrefix("pentafan")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	bindLegacyEnv(viper.GetViper())
	setDefaultValues(viper.GetViper())
}

// bindLegacyEnv maps the environment variables understood by the original daemon onto config keys
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("pwm.hardware", "PENTAFAN_PWM_HARDWARE", "HARDWARE_PWM")
	_ = v.BindEnv("pwm.chip", "PENTAFAN_PWM_CHIP", "PWMCHIP")
	_ = v.BindEnv("pwm.gpio.chip", "PENTAFAN_PWM_GPIO_CHIP", "FAN_CHIP")
	_ = v.BindEnv("pwm.gpio.line", "PENTAFAN_PWM_GPIO_LINE", "FAN_LINE")
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("fan.lv0", 55.0)
	v.SetDefault("fan.lv1", 62.0)
	v.SetDefault("fan.lv2", 70.0)
	v.SetDefault("fan.lv3", 78.0)

	v.SetDefault("fan_ssd.lv0", 45.0)
	v.SetDefault("fan_ssd.lv1", 50.0)
	v.SetDefault("fan_ssd.lv2", 55.0)
	v.SetDefault("fan_ssd.lv3", 60.0)

	v.SetDefault("thermal.hysteresis", 3.0)
	v.SetDefault("thermal.deadband", 1.5)
	v.SetDefault("thermal.trend_heat", 0.3)
	v.SetDefault("thermal.trend_fast_heat", 1.0)
	v.SetDefault("thermal.max_dc_change", 0.10)
	v.SetDefault("thermal.up_rate_base", 0.07)
	v.SetDefault("thermal.up_rate_trend_gain", 0.20)
	v.SetDefault("thermal.up_rate_max", 0.30)
	v.SetDefault("thermal.down_rate", 0.05)
	v.SetDefault("thermal.cooldown_hold_sec", 20.0)
	v.SetDefault("thermal.history_size", DefaultHistorySize)

	v.SetDefault("pwm.hardware", false)
	v.SetDefault("pwm.chip", 0)
	v.SetDefault("pwm.channel", 0)
	v.SetDefault("pwm.period_ns", DefaultPwmPeriodNs)
	v.SetDefault("pwm.sysfs_path", "/sys/class/pwm")
	v.SetDefault("pwm.close_timeout", 100*time.Millisecond)
	v.SetDefault("pwm.gpio.backend", GpioBackendGpiod)
	v.SetDefault("pwm.gpio.chip", 0)
	v.SetDefault("pwm.gpio.line", 27)
	v.SetDefault("pwm.gpio.pin", "GPIO27")

	v.SetDefault("sensors.timeout", 2*time.Second)
	v.SetDefault("sensors.cpu.type", CpuSensorTypeFile)
	v.SetDefault("sensors.cpu.path", "/sys/class/thermal/thermal_zone0/temp")
	v.SetDefault("sensors.cpu.sensor_key", "cpu_thermal")
	v.SetDefault("sensors.storage.devices", []string{"sda", "sdb", "sdc", "sdd"})
	v.SetDefault("sensors.storage.method", StorageMethodAuto)
	v.SetDefault("sensors.storage.smartctl_path", "/usr/sbin/smartctl")
	v.SetDefault("sensors.storage.cache_duration", 5*time.Second)

	v.SetDefault("control_loop_rate", 1*time.Second)

	v.SetDefault("statistics.enabled", false)
	v.SetDefault("statistics.port", 9000)

	v.SetDefault("api.enabled", false)
	v.SetDefault("api.host", "localhost")
	v.SetDefault("api.port", 9001)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.db_path", "/var/lib/pentafan/history.db")
	v.SetDefault("history.interval", 10*time.Second)
	v.SetDefault("history.retention", 24*time.Hour)
}

// DefaultConfiguration returns the configuration used when no file is present
func DefaultConfiguration() Configuration {
	v := viper.New()
	setDefaultValues(v)
	config, err := Unmarshal(v)
	if err != nil {
		panic(err)
	}
	return config
}

// DetectAndReadConfigFile reads the configuration file and returns its path.
// When no file can be found, the legacy INI file is tried, and if that is
// missing too, the built-in defaults are used and an empty path is returned.
func DetectAndReadConfigFile() (string, error) {
	err := viper.ReadInConfig()
	if err == nil {
		return viper.ConfigFileUsed(), nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return "", fmt.Errorf("error reading config file: %w", err)
	}

	if _, statErr := os.Stat(LegacyConfigFile); statErr == nil {
		viper.SetConfigFile(LegacyConfigFile)
		viper.SetConfigType("ini")
		if err := viper.ReadInConfig(); err != nil {
			return "", fmt.Errorf("error reading legacy config file: %w", err)
		}
		return LegacyConfigFile, nil
	}

	ui.Warning("No configuration file found, using defaults")
	return "", nil
}

// LoadConfig decodes the current viper state into CurrentConfig
func LoadConfig() {
	config, err := Unmarshal(viper.GetViper())
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
	CurrentConfig = config
}

// Unmarshal decodes the given viper instance into a Configuration
func Unmarshal(v *viper.Viper) (Configuration, error) {
	var config Configuration
	err := v.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			DefaultTrueBoolHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	return config, err
}

func isIniFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".conf", ".ini":
		return true
	}
	return false
}
