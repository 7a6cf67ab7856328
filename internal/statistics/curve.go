package statistics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/thermal"
)

const subsystemCurve = "curve"

type CurveCollector struct {
	curves    map[string]thermal.Curve
	threshold *prometheus.Desc
}

func NewCurveCollector(curves map[string]thermal.Curve) *CurveCollector {
	return &CurveCollector{
		curves: curves,
		threshold: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemCurve, "threshold_celsius"),
			"Temperature at which the curve reaches a duty level",
			[]string{"id", "level"}, nil,
		),
	}
}

func (collector *CurveCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.threshold
}

// Collect implements required collect function for all prometheus collectors
func (collector *CurveCollector) Collect(ch chan<- prometheus.Metric) {
	for curveId, curve := range collector.curves {
		for level, threshold := range curve.Thresholds() {
			ch <- prometheus.MustNewConstMetric(collector.threshold, prometheus.GaugeValue, threshold, curveId, fmt.Sprintf("lv%d", level))
		}
	}
}
