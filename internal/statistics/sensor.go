package statistics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
)

const subsystemSensor = "sensor"

// SensorSource is implemented by sensors.SensorProvider
type SensorSource interface {
	Sensors() []sensors.Sensor
	LastReadings() map[string]sensors.Reading
}

type SensorCollector struct {
	source    SensorSource
	value     *prometheus.Desc
	available *prometheus.Desc
}

func NewSensorCollector(source SensorSource) *SensorCollector {
	return &SensorCollector{
		source: source,
		value: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "temperature_celsius"),
			"Last temperature read from the sensor",
			[]string{"id"}, nil,
		),
		available: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemSensor, "available"),
			"Whether the last read of the sensor succeeded",
			[]string{"id"}, nil,
		),
	}
}

func (collector *SensorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.value
	ch <- collector.available
}

// Collect implements required collect function for all prometheus collectors
func (collector *SensorCollector) Collect(ch chan<- prometheus.Metric) {
	readings := collector.source.LastReadings()
	for _, sensor := range collector.source.Sensors() {
		sensorId := sensor.GetId()
		reading, ok := readings[sensorId]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(collector.available, prometheus.GaugeValue, boolToFloat(reading.Available), sensorId)
		if reading.Available {
			ch <- prometheus.MustNewConstMetric(collector.value, prometheus.GaugeValue, reading.Value, sensorId)
		}
	}
}
