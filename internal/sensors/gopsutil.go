package sensors

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// GopsutilSensor picks a temperature from the kernel thermal and hwmon
// interfaces, matching SensorKey as a case-insensitive substring.
type GopsutilSensor struct {
	Id        string `json:"id"`
	SensorKey string `json:"sensorKey"`

	temperatures func(ctx context.Context) ([]host.TemperatureStat, error)
}

func NewGopsutilSensor(id string, sensorKey string) *GopsutilSensor {
	return &GopsutilSensor{
		Id:           id,
		SensorKey:    sensorKey,
		temperatures: host.SensorsTemperaturesWithContext,
	}
}

func (sensor *GopsutilSensor) GetId() string {
	return sensor.Id
}

func (sensor *GopsutilSensor) GetLabel() string {
	return fmt.Sprintf("gopsutil (%s)", sensor.SensorKey)
}

func (sensor *GopsutilSensor) GetValue(ctx context.Context) (float64, error) {
	stats, err := sensor.temperatures(ctx)
	// partial results come with a warnings error
	if len(stats) == 0 {
		if err == nil {
			err = fmt.Errorf("no temperature sensors found")
		}
		return 0, fmt.Errorf("%w: %v", ErrSensorUnavailable, err)
	}

	key := strings.ToLower(sensor.SensorKey)
	for _, stat := range stats {
		if strings.Contains(strings.ToLower(stat.SensorKey), key) {
			return stat.Temperature, nil
		}
	}
	return 0, fmt.Errorf("%w: no sensor matching '%s'", ErrSensorUnavailable, sensor.SensorKey)
}
