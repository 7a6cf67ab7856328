package controller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/fans"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/thermal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockProvider struct {
	mu      sync.Mutex
	Cpu     sensors.Reading
	Storage []sensors.Reading
}

func (p *MockProvider) ReadCPUTemperature(ctx context.Context) sensors.Reading {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Cpu
}

func (p *MockProvider) ReadStorageTemperatures(ctx context.Context, maxDevices int) []sensors.Reading {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Storage[:min(len(p.Storage), maxDevices)]
}

type MockFan struct {
	mu       sync.Mutex
	Calls    []string
	Duties   []float64
	duty     float64
	failures int
}

func (fan *MockFan) GetId() string {
	return "mock"
}

func (fan *MockFan) GetLabel() string {
	return "Mock fan"
}

func (fan *MockFan) SetDuty(duty float64) error {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.Calls = append(fan.Calls, "set")
	fan.Duties = append(fan.Duties, duty)
	if fan.failures > 0 {
		fan.failures--
		return fans.ErrActuatorWriteFailed
	}
	fan.duty = duty
	return nil
}

func (fan *MockFan) GetDuty() float64 {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return fan.duty
}

func (fan *MockFan) Close() error {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	fan.Calls = append(fan.Calls, "close")
	return nil
}

func (fan *MockFan) setCount() int {
	fan.mu.Lock()
	defer fan.mu.Unlock()
	return len(fan.Duties)
}

func createController(cpu float64, fan *MockFan, modify ...func(config *configuration.Configuration)) *Controller {
	config := configuration.DefaultConfiguration()
	for _, m := range modify {
		m(&config)
	}
	provider := &MockProvider{
		Cpu:     sensors.Available(cpu),
		Storage: []sensors.Reading{sensors.Available(35)},
	}
	c := NewController(provider, thermal.NewEngine(config), fan, time.Second, configuration.MaxStorageDevices)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		now = now.Add(time.Second)
		return now
	}
	return c
}

func TestController_AppliesOnlyChangedDuty(t *testing.T) {
	// GIVEN
	fan := &MockFan{}
	c := createController(40, fan)

	// WHEN
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Step(context.Background()))
	}

	// THEN
	assert.Equal(t, []float64{0}, fan.Duties)
}

func TestController_AppliesEveryIncrease(t *testing.T) {
	// GIVEN
	fan := &MockFan{}
	c := createController(80, fan)

	// WHEN
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Step(context.Background()))
	}

	// THEN
	require.Len(t, fan.Duties, 3)
	assert.InDelta(t, 0.07, fan.Duties[0], 1e-9)
	assert.InDelta(t, 0.14, fan.Duties[1], 1e-9)
	assert.InDelta(t, 0.21, fan.Duties[2], 1e-9)
}

func TestController_RetriesFailedWrite(t *testing.T) {
	// GIVEN
	fan := &MockFan{failures: 1}
	c := createController(40, fan)

	// WHEN
	firstErr := c.Step(context.Background())
	secondErr := c.Step(context.Background())
	thirdErr := c.Step(context.Background())

	// THEN
	assert.ErrorIs(t, firstErr, fans.ErrActuatorWriteFailed)
	assert.NoError(t, secondErr)
	assert.NoError(t, thirdErr)
	assert.Equal(t, []float64{0, 0}, fan.Duties)

	status := c.Status()
	assert.Equal(t, uint64(1), status.WriteErrors)
	assert.Empty(t, status.LastError)
	assert.Equal(t, uint64(3), status.Cycles)
}

func TestController_DisabledFanStaysOff(t *testing.T) {
	// GIVEN
	fan := &MockFan{}
	c := createController(95, fan, func(config *configuration.Configuration) {
		config.Fan.Enabled.SetOverride(false)
	})

	// WHEN
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Step(context.Background()))
	}

	// THEN
	assert.Equal(t, []float64{0}, fan.Duties)
	status := c.Status()
	assert.False(t, status.Enabled)
	assert.Equal(t, sensors.Available(95), status.Cpu)
	assert.Equal(t, 0.0, status.Duty)
}

func TestController_Status(t *testing.T) {
	// GIVEN
	fan := &MockFan{}
	c := createController(80, fan)

	// WHEN
	require.NoError(t, c.Step(context.Background()))

	// THEN
	status := c.Status()
	assert.True(t, status.Enabled)
	assert.InDelta(t, 0.07, status.Duty, 1e-9)
	assert.InDelta(t, 0.07, status.AppliedDuty, 1e-9)
	assert.Equal(t, 80.0, status.CpuAvg)
	assert.Equal(t, 35.0, status.StorageMax)
	assert.Equal(t, 1, status.StorageAvailable)
	assert.False(t, status.HoldUntil.IsZero())
}

func TestController_ShutdownStopsFanOnce(t *testing.T) {
	// GIVEN
	fan := &MockFan{}
	c := createController(80, fan)
	require.NoError(t, c.Step(context.Background()))

	// WHEN
	err := c.Shutdown()
	secondErr := c.Shutdown()

	// THEN
	require.NoError(t, err)
	require.NoError(t, secondErr)
	assert.Equal(t, []string{"set", "set", "close"}, fan.Calls)
	assert.Equal(t, 0.0, fan.Duties[len(fan.Duties)-1])
}

func TestController_ShutdownReportsErrors(t *testing.T) {
	// GIVEN
	fan := &MockFan{failures: 1}
	c := createController(40, fan)

	// WHEN
	err := c.Shutdown()

	// THEN
	assert.True(t, errors.Is(err, fans.ErrActuatorWriteFailed))
	assert.Equal(t, []string{"set", "close"}, fan.Calls)
}

func TestController_RunStopsOnCancel(t *testing.T) {
	// GIVEN
	fan := &MockFan{}
	c := createController(80, fan)
	c.rate = 5 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx)
	}()

	// WHEN
	require.Eventually(t, func() bool {
		return fan.setCount() >= 3
	}, 5*time.Second, time.Millisecond)
	cancel()

	// THEN
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("control loop did not stop")
	}
	fan.mu.Lock()
	defer fan.mu.Unlock()
	assert.Equal(t, "close", fan.Calls[len(fan.Calls)-1])
	assert.Equal(t, 0.0, fan.Duties[len(fan.Duties)-1])
}
