package thermal

import "github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"

var dutySteps = [4]float64{0.25, 0.50, 0.75, 1.00}

// Curve maps a temperature onto one of the five duty steps 0, 25, 50, 75 and 100%.
type Curve struct {
	thresholds [4]float64
}

func NewCurve(config configuration.FanCurveConfig) Curve {
	return Curve{thresholds: config.Thresholds()}
}

// Target returns the duty step for temp. While not heating, every threshold
// is lowered by hysteresis, so a higher step is kept longer on the way down.
func (c Curve) Target(temp float64, hysteresis float64, heating bool) float64 {
	offset := hysteresis
	if heating {
		offset = 0
	}
	for i := len(c.thresholds) - 1; i >= 0; i-- {
		if temp >= c.thresholds[i]-offset {
			return dutySteps[i]
		}
	}
	return 0
}

func (c Curve) Thresholds() [4]float64 {
	return c.thresholds
}
