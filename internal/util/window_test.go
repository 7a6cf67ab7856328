package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetWindowMax(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(1)
	window.Append(2)
	window.Append(3)

	// WHEN
	maximum := GetWindowMax(window)

	// THEN
	assert.Equal(t, 3.0, maximum)
}

func TestGetWindowMinAndAvg(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(3)
	window.Append(9)
	window.Append(2)
	window.Append(4)
	window.Append(6)

	// WHEN
	minimum := GetWindowMin(window)
	avg := GetWindowAvg(window)

	// THEN
	assert.Equal(t, 2.0, minimum)
	assert.Equal(t, 4.0, avg)
}

func TestPartiallyFilledWindow(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(1000)
	window.Append(40)
	window.Append(42)
	window.Append(38)

	// WHEN
	minimum := GetWindowMin(window)
	avg := GetWindowAvg(window)
	maximum := GetWindowMax(window)

	// THEN
	assert.Equal(t, 3, window.Len())
	assert.Equal(t, 38.0, minimum)
	assert.Equal(t, 40.0, avg)
	assert.Equal(t, 42.0, maximum)
}

func TestEmptyWindow(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(5)

	// THEN
	assert.Equal(t, 0, window.Len())
	assert.Equal(t, 0.0, GetWindowMin(window))
	assert.Equal(t, 0.0, GetWindowAvg(window))
	assert.Equal(t, 0.0, GetWindowMax(window))
}

func TestWindowLenIsCappedAtSize(t *testing.T) {
	// GIVEN
	window := CreateRollingWindow(2)

	// WHEN
	for i := 0; i < 5; i++ {
		window.Append(float64(i))
	}

	// THEN
	assert.Equal(t, 2, window.Len())
	assert.Equal(t, 3.5, GetWindowAvg(window))
}
