package configuration

const DefaultHistorySize = 10

// FanCurveConfig maps temperatures (°C) to the duty steps 25%, 50%, 75% and 100%.
type FanCurveConfig struct {
	Lv0 float64 `json:"lv0" mapstructure:"lv0"`
	Lv1 float64 `json:"lv1" mapstructure:"lv1"`
	Lv2 float64 `json:"lv2" mapstructure:"lv2"`
	Lv3 float64 `json:"lv3" mapstructure:"lv3"`
}

// Thresholds returns the curve levels in ascending order
func (c FanCurveConfig) Thresholds() [4]float64 {
	return [4]float64{c.Lv0, c.Lv1, c.Lv2, c.Lv3}
}

type CpuFanConfig struct {
	Enabled        DefaultTrueBool `json:"enabled" mapstructure:"enabled"`
	FanCurveConfig `mapstructure:",squash"`
}

type ThermalConfig struct {
	Hysteresis      float64 `json:"hysteresis" mapstructure:"hysteresis"`
	Deadband        float64 `json:"deadband" mapstructure:"deadband"`
	TrendHeat       float64 `json:"trendHeat" mapstructure:"trend_heat"`
	TrendFastHeat   float64 `json:"trendFastHeat" mapstructure:"trend_fast_heat"`
	MaxDcChange     float64 `json:"maxDcChange" mapstructure:"max_dc_change"`
	UpRateBase      float64 `json:"upRateBase" mapstructure:"up_rate_base"`
	UpRateTrendGain float64 `json:"upRateTrendGain" mapstructure:"up_rate_trend_gain"`
	UpRateMax       float64 `json:"upRateMax" mapstructure:"up_rate_max"`
	DownRate        float64 `json:"downRate" mapstructure:"down_rate"`
	CooldownHoldSec float64 `json:"cooldownHoldSec" mapstructure:"cooldown_hold_sec"`

	HistorySize int `json:"historySize" mapstructure:"history_size"`

	// MinEffectiveDc is accepted for compatibility and has no effect.
	MinEffectiveDc float64 `json:"minEffectiveDc,omitempty" mapstructure:"min_effective_dc"`
}
