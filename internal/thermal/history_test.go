package thermal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryAverageBeforeSaturation(t *testing.T) {
	// GIVEN
	history := NewHistory(10)

	// WHEN
	history.Record(40, 30)
	cpuAvg, storageAvg, cpuTrend, storageTrend := history.Record(50, 36)

	// THEN
	assert.Equal(t, 45.0, cpuAvg)
	assert.Equal(t, 33.0, storageAvg)
	assert.Equal(t, 0.0, cpuTrend)
	assert.Equal(t, 0.0, storageTrend)
	assert.Equal(t, 2, history.Len())
}

func TestHistoryTrendWithOddCount(t *testing.T) {
	// GIVEN
	history := NewHistory(10)
	history.Record(40, 0)
	history.Record(50, 0)

	// WHEN
	_, _, cpuTrend, _ := history.Record(60, 0)

	// THEN
	assert.Equal(t, 20.0, cpuTrend)
}

func TestHistoryTrendWithEvenCount(t *testing.T) {
	// GIVEN
	history := NewHistory(10)
	history.Record(40, 50)
	history.Record(42, 48)
	history.Record(50, 46)

	// WHEN
	cpuAvg, _, cpuTrend, storageTrend := history.Record(52, 44)

	// THEN
	assert.Equal(t, 46.0, cpuAvg)
	assert.Equal(t, 10.0, cpuTrend)
	assert.Equal(t, -4.0, storageTrend)
}

func TestHistoryOverwritesOldestWhenFull(t *testing.T) {
	// GIVEN
	history := NewHistory(4)

	// WHEN
	var cpuAvg, cpuTrend float64
	for i := 1; i <= 6; i++ {
		cpuAvg, _, cpuTrend, _ = history.Record(float64(i), 0)
	}

	// THEN
	assert.Equal(t, 4, history.Len())
	assert.Equal(t, 4, history.Capacity())
	assert.Equal(t, []float64{3, 4, 5, 6}, history.CpuSamples())
	assert.Equal(t, 4.5, cpuAvg)
	assert.Equal(t, 2.0, cpuTrend)
}

func TestHistoryTrendUsesChronologicalOrderAfterWrap(t *testing.T) {
	// GIVEN
	history := NewHistory(4)
	for _, v := range []float64{70, 70, 70, 70, 40, 40} {
		history.Record(v, 0)
	}

	// WHEN
	samples := history.CpuSamples()
	_, _, cpuTrend, _ := history.Record(40, 0)

	// THEN
	assert.Equal(t, []float64{70, 70, 40, 40}, samples)
	assert.Equal(t, -15.0, cpuTrend)
}

func TestHistoryCountNeverExceedsCapacity(t *testing.T) {
	// GIVEN
	history := NewHistory(10)

	// WHEN
	for i := 0; i < 25; i++ {
		history.Record(50, 40)
	}

	// THEN
	assert.Equal(t, 10, history.Len())
	assert.Len(t, history.StorageSamples(), 10)
}
