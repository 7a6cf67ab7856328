package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/controller"
)

const controllerSubsystem = "controller"

type ControllerCollector struct {
	controller controller.StatusProvider

	duty         *prometheus.Desc
	appliedDuty  *prometheus.Desc
	target       *prometheus.Desc
	average      *prometheus.Desc
	trend        *prometheus.Desc
	storageMax   *prometheus.Desc
	holdActive   *prometheus.Desc
	deadband     *prometheus.Desc
	stableCycles *prometheus.Desc
	cycles       *prometheus.Desc
	writeErrors  *prometheus.Desc
}

func NewControllerCollector(controller controller.StatusProvider) *ControllerCollector {
	return &ControllerCollector{
		controller: controller,
		duty: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "duty_ratio"),
			"Duty cycle computed in the last control cycle",
			nil, nil,
		),
		appliedDuty: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "applied_duty_ratio"),
			"Last duty cycle that was successfully written to the fan",
			nil, nil,
		),
		target: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "target_ratio"),
			"Target duty cycle of the curves, before rate limiting",
			[]string{"source"}, nil,
		),
		average: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "average_temperature_celsius"),
			"Averaged temperature of the history window",
			[]string{"source"}, nil,
		),
		trend: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "trend_celsius"),
			"Temperature trend of the history window",
			[]string{"source"}, nil,
		),
		storageMax: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "storage_max_temperature_celsius"),
			"Hottest available storage device of the last cycle",
			nil, nil,
		),
		holdActive: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "hold_active"),
			"Whether decreases are currently blocked by the cooldown hold",
			nil, nil,
		),
		deadband: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "deadband_active"),
			"Whether the last cycle kept the duty because of the dead-band",
			nil, nil,
		),
		stableCycles: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "stable_cycles"),
			"Number of consecutive cycles without a duty change",
			nil, nil,
		),
		cycles: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "cycles_total"),
			"Number of control cycles since start",
			nil, nil,
		),
		writeErrors: prometheus.NewDesc(prometheus.BuildFQName(namespace, controllerSubsystem, "write_errors_total"),
			"Number of failed duty cycle writes since start",
			nil, nil,
		),
	}
}

func (collector *ControllerCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.duty
	ch <- collector.appliedDuty
	ch <- collector.target
	ch <- collector.average
	ch <- collector.trend
	ch <- collector.storageMax
	ch <- collector.holdActive
	ch <- collector.deadband
	ch <- collector.stableCycles
	ch <- collector.cycles
	ch <- collector.writeErrors
}

// Collect implements required collect function for all prometheus collectors
func (collector *ControllerCollector) Collect(ch chan<- prometheus.Metric) {
	status := collector.controller.Status()

	ch <- prometheus.MustNewConstMetric(collector.duty, prometheus.GaugeValue, status.Duty)
	ch <- prometheus.MustNewConstMetric(collector.appliedDuty, prometheus.GaugeValue, status.AppliedDuty)
	ch <- prometheus.MustNewConstMetric(collector.target, prometheus.GaugeValue, status.CpuTarget, "cpu")
	ch <- prometheus.MustNewConstMetric(collector.target, prometheus.GaugeValue, status.StorageTarget, "storage")
	ch <- prometheus.MustNewConstMetric(collector.average, prometheus.GaugeValue, status.CpuAvg, "cpu")
	ch <- prometheus.MustNewConstMetric(collector.average, prometheus.GaugeValue, status.StorageAvg, "storage")
	ch <- prometheus.MustNewConstMetric(collector.trend, prometheus.GaugeValue, status.CpuTrend, "cpu")
	ch <- prometheus.MustNewConstMetric(collector.trend, prometheus.GaugeValue, status.StorageTrend, "storage")
	ch <- prometheus.MustNewConstMetric(collector.storageMax, prometheus.GaugeValue, status.StorageMax)
	ch <- prometheus.MustNewConstMetric(collector.holdActive, prometheus.GaugeValue, boolToFloat(status.HoldActive))
	ch <- prometheus.MustNewConstMetric(collector.deadband, prometheus.GaugeValue, boolToFloat(status.Deadband))
	ch <- prometheus.MustNewConstMetric(collector.stableCycles, prometheus.GaugeValue, float64(status.StableCycles))
	ch <- prometheus.MustNewConstMetric(collector.cycles, prometheus.CounterValue, float64(status.Cycles))
	ch <- prometheus.MustNewConstMetric(collector.writeErrors, prometheus.CounterValue, float64(status.WriteErrors))
}
