package sensors

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
)

// Provider delivers the temperatures the control loop works with.
type Provider interface {
	ReadCPUTemperature(ctx context.Context) Reading
	// ReadStorageTemperatures returns at most maxDevices readings
	ReadStorageTemperatures(ctx context.Context, maxDevices int) []Reading
}

type SensorProvider struct {
	cpu     Sensor
	storage *StorageSensors
	timeout time.Duration

	// last holds the latest reading per sensor id
	last cmap.ConcurrentMap[string, Reading]
}

func NewProvider(config configuration.SensorsConfig) (*SensorProvider, error) {
	cpu, err := NewCpuSensor(config.Cpu)
	if err != nil {
		return nil, err
	}

	var storage []Sensor
	for _, device := range config.Storage.Devices {
		storage = append(storage, NewDiskSensor(device, config.Storage))
	}

	return NewSensorProvider(cpu, NewStorageSensors(storage, config.Storage.CacheDuration, config.Timeout), config.Timeout), nil
}

func NewSensorProvider(cpu Sensor, storage *StorageSensors, timeout time.Duration) *SensorProvider {
	return &SensorProvider{
		cpu:     cpu,
		storage: storage,
		timeout: timeout,
		last:    cmap.New[Reading](),
	}
}

func (p *SensorProvider) ReadCPUTemperature(ctx context.Context) Reading {
	reading := readSensor(ctx, p.cpu, p.timeout)
	p.remember(p.cpu, reading)
	return reading
}

func (p *SensorProvider) ReadStorageTemperatures(ctx context.Context, maxDevices int) []Reading {
	readings := p.storage.Read(ctx, maxDevices)
	for i, reading := range readings {
		p.remember(p.storage.sensors[i], reading)
	}
	return readings
}

// Sensors returns all known sensors, the CPU sensor first
func (p *SensorProvider) Sensors() []Sensor {
	return append([]Sensor{p.cpu}, p.storage.Sensors()...)
}

// LastReadings returns the latest reading of every sensor that was read at least once
func (p *SensorProvider) LastReadings() map[string]Reading {
	return p.last.Items()
}

// remember stores the reading and logs availability changes
func (p *SensorProvider) remember(sensor Sensor, reading Reading) {
	previous, known := p.last.Get(sensor.GetId())
	p.last.Set(sensor.GetId(), reading)

	if reading.Available == previous.Available && known {
		return
	}
	if reading.Available {
		if known {
			ui.Info("Sensor %s is available again", sensor.GetLabel())
		}
	} else {
		ui.Warning("Sensor %s is unavailable, treating it as 0°C", sensor.GetLabel())
	}
}

func readSensor(ctx context.Context, sensor Sensor, timeout time.Duration) Reading {
	value, err := readWithTimeout(ctx, timeout, sensor.GetValue)
	if err != nil {
		ui.Debug("Error reading sensor %s: %v", sensor.GetId(), err)
		return Unavailable()
	}
	return Available(value)
}
