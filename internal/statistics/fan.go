package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/fans"
)

const fanSubsystem = "fan"

type FanCollector struct {
	fans []fans.Fan

	duty        *prometheus.Desc
	period      *prometheus.Desc
	writeErrors *prometheus.Desc
}

func NewFanCollector(fans []fans.Fan) *FanCollector {
	return &FanCollector{
		fans: fans,
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "duty_ratio"),
			"Current duty cycle of the fan output",
			[]string{"id"}, nil,
		),
		period: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "pwm_period_microseconds"),
			"Measured software PWM period length over the last periods",
			[]string{"id", "stat"}, nil,
		),
		writeErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, fanSubsystem, "line_write_errors_total"),
			"Number of failed GPIO line writes of the software PWM loop",
			[]string{"id"}, nil,
		),
	}
}

func (collector *FanCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.duty
	ch <- collector.period
	ch <- collector.writeErrors
}

// Collect implements required collect function for all prometheus collectors
func (collector *FanCollector) Collect(ch chan<- prometheus.Metric) {
	for _, fan := range collector.fans {
		fanId := fan.GetId()
		ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, fan.GetDuty(), fanId)

		software, ok := fan.(*fans.SoftwarePwmFan)
		if !ok {
			continue
		}
		minimum, average, maximum := software.PeriodStats()
		ch <- prometheus.MustNewConstMetric(collector.period, prometheus.GaugeValue, minimum, fanId, "min")
		ch <- prometheus.MustNewConstMetric(collector.period, prometheus.GaugeValue, average, fanId, "avg")
		ch <- prometheus.MustNewConstMetric(collector.period, prometheus.GaugeValue, maximum, fanId, "max")
		ch <- prometheus.MustNewConstMetric(collector.writeErrors, prometheus.CounterValue, float64(software.WriteErrors()), fanId)
	}
}
