package configuration

import (
	"fmt"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"golang.org/x/exp/slices"
)

var (
	knownGpioBackends  = []string{GpioBackendGpiod, GpioBackendPeriph}
	knownCpuSensors    = []string{CpuSensorTypeFile, CpuSensorTypeGopsutil}
	knownStorageMethod = []string{StorageMethodAuto, StorageMethodSysfs, StorageMethodSmartctl}
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if err := validateCurve("fan", config.Fan.FanCurveConfig); err != nil {
		return err
	}
	if err := validateCurve("fan_ssd", config.FanSsd); err != nil {
		return err
	}
	if err := validateThermal(&config.Thermal); err != nil {
		return err
	}
	if err := validatePwm(&config.Pwm); err != nil {
		return err
	}
	if err := validateSensors(&config.Sensors); err != nil {
		return err
	}
	if config.ControlLoopRate <= 0 {
		return fmt.Errorf("control_loop_rate must be positive")
	}
	if config.Statistics.Enabled && !isValidPort(config.Statistics.Port) {
		return fmt.Errorf("statistics: invalid port %d", config.Statistics.Port)
	}
	if config.Api.Enabled && !isValidPort(config.Api.Port) {
		return fmt.Errorf("api: invalid port %d", config.Api.Port)
	}
	if config.History.Enabled {
		if len(config.History.DbPath) <= 0 {
			return fmt.Errorf("history: db_path is missing")
		}
		if config.History.Interval <= 0 {
			return fmt.Errorf("history: interval must be positive")
		}
	}

	if config.Thermal.MinEffectiveDc != 0 {
		ui.Warning("thermal.min_effective_dc is deprecated and has no effect")
	}

	return nil
}

func validateCurve(name string, curve FanCurveConfig) error {
	thresholds := curve.Thresholds()
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i] <= thresholds[i-1] {
			return fmt.Errorf("%s: thresholds must be strictly increasing, lv%d (%.1f) <= lv%d (%.1f)",
				name, i, thresholds[i], i-1, thresholds[i-1])
		}
	}
	return nil
}

func validateThermal(thermal *ThermalConfig) error {
	nonNegative := map[string]float64{
		"hysteresis":         thermal.Hysteresis,
		"deadband":           thermal.Deadband,
		"trend_heat":         thermal.TrendHeat,
		"trend_fast_heat":    thermal.TrendFastHeat,
		"max_dc_change":      thermal.MaxDcChange,
		"up_rate_base":       thermal.UpRateBase,
		"up_rate_trend_gain": thermal.UpRateTrendGain,
		"up_rate_max":        thermal.UpRateMax,
		"down_rate":          thermal.DownRate,
		"cooldown_hold_sec":  thermal.CooldownHoldSec,
	}
	keys := make([]string, 0, len(nonNegative))
	for key := range nonNegative {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if nonNegative[key] < 0 {
			return fmt.Errorf("thermal: %s must not be negative", key)
		}
	}

	rates := []float64{thermal.MaxDcChange, thermal.UpRateBase, thermal.UpRateMax, thermal.DownRate}
	if slices.ContainsFunc(rates, func(rate float64) bool { return rate > 1 }) {
		return fmt.Errorf("thermal: rates are fractions per cycle and must not exceed 1.0")
	}

	if thermal.HistorySize < 3 {
		return fmt.Errorf("thermal: history_size must be at least 3")
	}
	return nil
}

func validatePwm(pwm *PwmConfig) error {
	if pwm.PeriodNs <= 0 {
		return fmt.Errorf("pwm: period_ns must be positive")
	}
	if pwm.Hardware {
		if pwm.Chip < 0 || pwm.Channel < 0 {
			return fmt.Errorf("pwm: chip and channel must not be negative")
		}
		return nil
	}
	if !slices.Contains(knownGpioBackends, pwm.Gpio.Backend) {
		return fmt.Errorf("pwm: unknown gpio backend '%s', use one of: %v", pwm.Gpio.Backend, knownGpioBackends)
	}
	if pwm.Gpio.Backend == GpioBackendGpiod && (pwm.Gpio.Chip < 0 || pwm.Gpio.Line < 0) {
		return fmt.Errorf("pwm: gpio chip and line must not be negative")
	}
	if pwm.Gpio.Backend == GpioBackendPeriph && len(pwm.Gpio.Pin) <= 0 {
		return fmt.Errorf("pwm: gpio pin name is required for the periph backend")
	}
	return nil
}

func validateSensors(sensors *SensorsConfig) error {
	if sensors.Timeout <= 0 {
		return fmt.Errorf("sensors: timeout must be positive")
	}
	if !slices.Contains(knownCpuSensors, sensors.Cpu.Type) {
		return fmt.Errorf("sensors: unknown cpu sensor type '%s', use one of: %v", sensors.Cpu.Type, knownCpuSensors)
	}
	if sensors.Cpu.Type == CpuSensorTypeFile && len(sensors.Cpu.Path) <= 0 {
		return fmt.Errorf("sensors: cpu path is missing")
	}
	if !slices.Contains(knownStorageMethod, sensors.Storage.Method) {
		return fmt.Errorf("sensors: unknown storage method '%s', use one of: %v", sensors.Storage.Method, knownStorageMethod)
	}
	if len(sensors.Storage.Devices) > MaxStorageDevices {
		return fmt.Errorf("sensors: at most %d storage devices are supported, got %d", MaxStorageDevices, len(sensors.Storage.Devices))
	}
	if len(slices.Compact(sortedCopy(sensors.Storage.Devices))) != len(sensors.Storage.Devices) {
		return fmt.Errorf("sensors: duplicate storage device")
	}
	return nil
}

func sortedCopy(values []string) []string {
	result := slices.Clone(values)
	slices.Sort(result)
	return result
}

func isValidPort(port int) bool {
	return port > 0 && port <= 65535
}
