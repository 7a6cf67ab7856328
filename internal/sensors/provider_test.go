package sensors

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSensor struct {
	id    string
	value float64
	err   error
	delay time.Duration
	reads atomic.Int32
}

func (s *fakeSensor) GetId() string {
	return s.id
}

func (s *fakeSensor) GetLabel() string {
	return "fake " + s.id
}

func (s *fakeSensor) GetValue(ctx context.Context) (float64, error) {
	s.reads.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.value, s.err
}

func TestProviderReadsCpu(t *testing.T) {
	// GIVEN
	cpu := &fakeSensor{id: "cpu", value: 48.5}
	provider := NewSensorProvider(cpu, NewStorageSensors(nil, 5*time.Second, time.Second), time.Second)

	// WHEN
	reading := provider.ReadCPUTemperature(context.Background())

	// THEN
	assert.Equal(t, Available(48.5), reading)
	assert.Equal(t, map[string]Reading{"cpu": Available(48.5)}, provider.LastReadings())
}

func TestProviderCpuFailureIsUnavailable(t *testing.T) {
	// GIVEN
	cpu := &fakeSensor{id: "cpu", err: errors.New("i/o error")}
	provider := NewSensorProvider(cpu, NewStorageSensors(nil, 5*time.Second, time.Second), time.Second)

	// WHEN
	reading := provider.ReadCPUTemperature(context.Background())

	// THEN
	assert.False(t, reading.Available)
	assert.Equal(t, "n/a", reading.String())
}

func TestProviderCpuTimeoutIsUnavailable(t *testing.T) {
	// GIVEN
	cpu := &fakeSensor{id: "cpu", value: 50, delay: 200 * time.Millisecond}
	provider := NewSensorProvider(cpu, NewStorageSensors(nil, 5*time.Second, time.Second), 20*time.Millisecond)

	// WHEN
	start := time.Now()
	reading := provider.ReadCPUTemperature(context.Background())

	// THEN
	assert.False(t, reading.Available)
	assert.Less(t, time.Since(start), 150*time.Millisecond)
}

func TestStorageReadsKeepOrderAndLimit(t *testing.T) {
	// GIVEN
	sda := &fakeSensor{id: "sda", value: 38}
	sdb := &fakeSensor{id: "sdb", err: ErrSensorUnavailable}
	sdc := &fakeSensor{id: "sdc", value: 44}
	storage := NewStorageSensors([]Sensor{sda, sdb, sdc}, 5*time.Second, time.Second)
	provider := NewSensorProvider(&fakeSensor{id: "cpu"}, storage, time.Second)

	// WHEN
	readings := provider.ReadStorageTemperatures(context.Background(), 2)

	// THEN
	require.Len(t, readings, 2)
	assert.Equal(t, Available(38), readings[0])
	assert.Equal(t, Unavailable(), readings[1])
	assert.Equal(t, int32(0), sdc.reads.Load())
}

func TestStorageReadsZeroDevices(t *testing.T) {
	storage := NewStorageSensors([]Sensor{&fakeSensor{id: "sda"}}, 5*time.Second, time.Second)
	assert.Empty(t, storage.Read(context.Background(), 0))
}

func TestStorageReadsAreCached(t *testing.T) {
	// GIVEN
	sda := &fakeSensor{id: "sda", value: 38}
	storage := NewStorageSensors([]Sensor{sda}, 5*time.Second, time.Second)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	storage.now = func() time.Time { return now }

	// WHEN
	first := storage.Read(context.Background(), configuration.MaxStorageDevices)
	sda.value = 45
	now = now.Add(4 * time.Second)
	cached := storage.Read(context.Background(), configuration.MaxStorageDevices)
	now = now.Add(time.Second)
	refreshed := storage.Read(context.Background(), configuration.MaxStorageDevices)

	// THEN
	assert.Equal(t, Available(38), first[0])
	assert.Equal(t, Available(38), cached[0])
	assert.Equal(t, Available(45), refreshed[0])
	assert.Equal(t, int32(2), sda.reads.Load())
}

func TestNewProviderFromConfiguration(t *testing.T) {
	// GIVEN
	config := configuration.DefaultConfiguration().Sensors

	// WHEN
	provider, err := NewProvider(config)

	// THEN
	require.NoError(t, err)
	sensors := provider.Sensors()
	require.Len(t, sensors, 5)
	assert.Equal(t, "cpu", sensors[0].GetId())
	assert.Equal(t, "sda", sensors[1].GetId())
	assert.Equal(t, "sdd", sensors[4].GetId())
}
