package util

import (
	"golang.org/x/exp/constraints"
)

// Clamp returns value limited to the inclusive range [lower, upper]
func Clamp[T constraints.Integer | constraints.Float](value, lower, upper T) T {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}

// Avg calculates the average of all values in the given slice
func Avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Max returns the biggest value of values, or 0 for an empty slice
func Max[T constraints.Integer | constraints.Float](values ...T) T {
	var result T
	for i, v := range values {
		if i == 0 || v > result {
			result = v
		}
	}
	return result
}

// Min returns the smallest value of values, or 0 for an empty slice
func Min[T constraints.Integer | constraints.Float](values ...T) T {
	var result T
	for i, v := range values {
		if i == 0 || v < result {
			result = v
		}
	}
	return result
}

// Abs returns the absolute value of x
func Abs[T constraints.Signed | constraints.Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}
