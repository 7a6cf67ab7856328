package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	// GIVEN
	expectedInputOutput := map[float64]float64{
		-0.5: 0.0,
		0.0:  0.0,
		0.35: 0.35,
		1.0:  1.0,
		1.7:  1.0,
	}

	for input, output := range expectedInputOutput {
		// WHEN
		result := Clamp(input, 0.0, 1.0)

		// THEN
		assert.Equal(t, output, result)
	}
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 8, Clamp(12, 0, 8))
	assert.Equal(t, 0, Clamp(-3, 0, 8))
}

func TestAvg(t *testing.T) {
	// GIVEN
	values := []float64{40, 50, 60}

	// WHEN
	result := Avg(values)

	// THEN
	assert.Equal(t, 50.0, result)
}

func TestAvgEmpty(t *testing.T) {
	assert.Equal(t, 0.0, Avg(nil))
}

func TestMin(t *testing.T) {
	assert.Equal(t, -2.0, Min(1.0, 3.5, -2.0))
	assert.Equal(t, 4, Min(4, 7))
	assert.Equal(t, 0.0, Min[float64]())
}

func TestMax(t *testing.T) {
	assert.Equal(t, 3.5, Max(1.0, 3.5, -2.0))
	assert.Equal(t, -2.0, Max(-2.0, -4.0))
	assert.Equal(t, 0.0, Max[float64]())
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 1.5, Abs(-1.5))
	assert.Equal(t, 2, Abs(2))
}
