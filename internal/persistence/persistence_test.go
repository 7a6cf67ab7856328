package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/controller"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/testingutils"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/thermal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var startTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func createPersistence(t *testing.T) Persistence {
	p := NewPersistence(filepath.Join(t.TempDir(), "data", "history.db"))
	require.NoError(t, p.Init())
	return p
}

func saveSamples(t *testing.T, p Persistence, count int) {
	for i := 0; i < count; i++ {
		require.NoError(t, p.SaveSample(Sample{
			Time:         startTime.Add(time.Duration(i) * time.Minute),
			Cpu:          50 + float64(i),
			CpuAvailable: true,
			Duty:         float64(i) / 10,
		}))
	}
}

func TestPersistence_LoadSamplesEmpty(t *testing.T) {
	// GIVEN
	p := createPersistence(t)

	// WHEN
	samples, err := p.LoadSamples(startTime, startTime.Add(time.Hour))

	// THEN
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestPersistence_LoadSamplesRange(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	saveSamples(t, p, 10)

	// WHEN
	samples, err := p.LoadSamples(startTime.Add(2*time.Minute), startTime.Add(5*time.Minute))

	// THEN
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, 52.0, samples[0].Cpu)
	assert.Equal(t, 54.0, samples[2].Cpu)
	assert.True(t, samples[0].Time.Equal(startTime.Add(2*time.Minute)))
}

func TestPersistence_SaveSampleReplacesSameTime(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.SaveSample(Sample{Time: startTime, Duty: 0.2}))

	// WHEN
	require.NoError(t, p.SaveSample(Sample{Time: startTime, Duty: 0.3}))

	// THEN
	samples, err := p.LoadSamples(startTime, startTime.Add(time.Second))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 0.3, samples[0].Duty)
}

func TestPersistence_PruneSamples(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	saveSamples(t, p, 10)

	// WHEN
	deleted, err := p.PruneSamples(startTime.Add(4 * time.Minute))

	// THEN
	require.NoError(t, err)
	assert.Equal(t, 4, deleted)
	samples, err := p.LoadSamples(startTime, startTime.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, samples, 6)
	assert.Equal(t, 54.0, samples[0].Cpu)
}

func TestRecorder_Record(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	provider := &testingutils.MockStatusProvider{}
	recorder := NewRecorder(p, provider, time.Second, time.Hour)

	// WHEN
	require.NoError(t, recorder.Record())
	provider.Current = controller.Status{
		Decision: thermal.Decision{
			Time:       startTime,
			Cpu:        sensors.Available(61),
			CpuAvg:     60,
			HoldActive: true,
			Duty:       0.4,
		},
		Cycles: 1,
	}
	require.NoError(t, recorder.Record())
	require.NoError(t, recorder.Record())

	// THEN
	samples, err := p.LoadSamples(startTime.Add(-time.Hour), startTime.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, 61.0, samples[0].Cpu)
	assert.True(t, samples[0].CpuAvailable)
	assert.Equal(t, 0.4, samples[0].Duty)
	assert.True(t, samples[0].HoldActive)
}

func TestRecorder_PrunesOldSamples(t *testing.T) {
	// GIVEN
	p := createPersistence(t)
	require.NoError(t, p.SaveSample(Sample{Time: startTime.Add(-2 * time.Hour)}))
	provider := &testingutils.MockStatusProvider{Current: controller.Status{
		Decision: thermal.Decision{Time: startTime},
		Cycles:   1,
	}}
	recorder := NewRecorder(p, provider, time.Second, time.Hour)

	// WHEN
	require.NoError(t, recorder.Record())

	// THEN
	samples, err := p.LoadSamples(startTime.Add(-3*time.Hour), startTime.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.True(t, samples[0].Time.Equal(startTime))
}
