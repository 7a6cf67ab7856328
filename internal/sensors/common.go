package sensors

import (
	"context"
	"fmt"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
)

// Sensor is a single temperature source
type Sensor interface {
	GetId() string
	GetLabel() string

	// GetValue returns the current temperature in °C
	GetValue(ctx context.Context) (float64, error)
}

func NewCpuSensor(config configuration.CpuSensorConfig) (Sensor, error) {
	switch config.Type {
	case configuration.CpuSensorTypeFile:
		return &FileSensor{
			Id:   "cpu",
			Path: config.Path,
		}, nil
	case configuration.CpuSensorTypeGopsutil:
		return NewGopsutilSensor("cpu", config.SensorKey), nil
	}
	return nil, fmt.Errorf("no matching sensor type for cpu sensor: %s", config.Type)
}

// readWithTimeout runs read in the background and gives up after timeout.
// File and ioctl reads cannot be interrupted, a stuck read is abandoned.
func readWithTimeout(ctx context.Context, timeout time.Duration, read func(ctx context.Context) (float64, error)) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value float64
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := read(ctx)
		done <- result{value, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %v", ErrSensorUnavailable, ctx.Err())
	}
}
