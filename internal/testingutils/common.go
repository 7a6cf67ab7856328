package testingutils

import (
	"context"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/controller"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
)

type MockStatusProvider struct {
	Current controller.Status
}

func (p *MockStatusProvider) Status() controller.Status {
	return p.Current
}

type MockFan struct {
	ID   string
	Duty float64
}

func (fan *MockFan) GetId() string {
	return fan.ID
}

func (fan *MockFan) GetLabel() string {
	return "Mock fan"
}

func (fan *MockFan) SetDuty(duty float64) error {
	fan.Duty = duty
	return nil
}

func (fan *MockFan) GetDuty() float64 {
	return fan.Duty
}

func (fan *MockFan) Close() error {
	return nil
}

type MockSensor struct {
	ID string
}

func (s MockSensor) GetId() string {
	return s.ID
}

func (s MockSensor) GetLabel() string {
	return "Sensor " + s.ID
}

func (s MockSensor) GetValue(ctx context.Context) (float64, error) {
	return 0, nil
}

// MockSensorSource serves fixed readings for the given sensor ids
type MockSensorSource struct {
	Ids      []string
	Readings map[string]sensors.Reading
}

func (s MockSensorSource) Sensors() []sensors.Sensor {
	var result []sensors.Sensor
	for _, id := range s.Ids {
		result = append(result, MockSensor{ID: id})
	}
	return result
}

func (s MockSensorSource) LastReadings() map[string]sensors.Reading {
	return s.Readings
}
