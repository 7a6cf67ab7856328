package configuration

import (
	"fmt"
	"strings"
)

// FormatConfigFile renders config as a commented pentafan.yaml
func FormatConfigFile(config Configuration) string {
	var b strings.Builder
	line := func(format string, a ...any) {
		b.WriteString(fmt.Sprintf(format, a...))
		b.WriteString("\n")
	}
	curve := func(c FanCurveConfig) {
		line("  lv0: %g", c.Lv0)
		line("  lv1: %g", c.Lv1)
		line("  lv2: %g", c.Lv2)
		line("  lv3: %g", c.Lv3)
	}

	line("# CPU temperature (°C) for 25/50/75/100%% duty")
	line("fan:")
	line("  enabled: %t", config.Fan.Enabled.Get())
	curve(config.Fan.FanCurveConfig)
	line("")
	line("# Hottest storage device temperature (°C) for 25/50/75/100%% duty")
	line("fan_ssd:")
	curve(config.FanSsd)
	line("")

	t := config.Thermal
	line("thermal:")
	line("  hysteresis: %g", t.Hysteresis)
	line("  deadband: %g", t.Deadband)
	line("  trend_heat: %g", t.TrendHeat)
	line("  trend_fast_heat: %g", t.TrendFastHeat)
	line("  max_dc_change: %g", t.MaxDcChange)
	line("  up_rate_base: %g", t.UpRateBase)
	line("  up_rate_trend_gain: %g", t.UpRateTrendGain)
	line("  up_rate_max: %g", t.UpRateMax)
	line("  down_rate: %g", t.DownRate)
	line("  cooldown_hold_sec: %g", t.CooldownHoldSec)
	line("  history_size: %d", t.HistorySize)
	line("")

	p := config.Pwm
	line("pwm:")
	line("  # true: sysfs pwmchip, false: software PWM on a GPIO line")
	line("  hardware: %t", p.Hardware)
	line("  chip: %d", p.Chip)
	line("  channel: %d", p.Channel)
	line("  sysfs_path: %s", p.SysfsPath)
	line("  period_ns: %d", p.PeriodNs)
	line("  close_timeout: %s", p.CloseTimeout)
	line("  gpio:")
	line("    # gpiod or periph")
	line("    backend: %s", p.Gpio.Backend)
	line("    chip: %d", p.Gpio.Chip)
	line("    line: %d", p.Gpio.Line)
	line("    pin: %s", p.Gpio.Pin)
	line("")

	s := config.Sensors
	line("sensors:")
	line("  timeout: %s", s.Timeout)
	line("  cpu:")
	line("    # file or gopsutil")
	line("    type: %s", s.Cpu.Type)
	line("    path: %s", s.Cpu.Path)
	line("    sensor_key: %s", s.Cpu.SensorKey)
	line("  storage:")
	line("    devices:")
	for _, device := range s.Storage.Devices {
		line("      - %s", device)
	}
	line("    # auto, sysfs or smartctl")
	line("    method: %s", s.Storage.Method)
	line("    smartctl_path: %s", s.Storage.SmartctlPath)
	line("    cache_duration: %s", s.Storage.CacheDuration)
	line("")

	line("control_loop_rate: %s", config.ControlLoopRate)
	line("")
	line("statistics:")
	line("  enabled: %t", config.Statistics.Enabled)
	line("  port: %d", config.Statistics.Port)
	line("")
	line("api:")
	line("  enabled: %t", config.Api.Enabled)
	line("  host: %s", config.Api.Host)
	line("  port: %d", config.Api.Port)
	line("")
	line("history:")
	line("  enabled: %t", config.History.Enabled)
	line("  db_path: %s", config.History.DbPath)
	line("  interval: %s", config.History.Interval)
	line("  retention: %s", config.History.Retention)
	return b.String()
}
