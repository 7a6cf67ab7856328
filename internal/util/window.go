package util

import (
	"sync/atomic"

	"github.com/asecurityteam/rolling"
)

// RollingWindow holds the last size points. Buckets that never received a
// point are left out of every reduction.
type RollingWindow struct {
	policy *rolling.PointPolicy
	size   int
	count  atomic.Int64
}

func CreateRollingWindow(size int) *RollingWindow {
	return &RollingWindow{
		policy: rolling.NewPointPolicy(rolling.NewWindow(size)),
		size:   size,
	}
}

func (w *RollingWindow) Append(value float64) {
	w.policy.Append(value)
	w.count.Add(1)
}

// Len returns the number of filled buckets
func (w *RollingWindow) Len() int {
	return int(min(w.count.Load(), int64(w.size)))
}

// reduce applies f to the filled buckets only, 0 for an empty window.
// The point policy fills buckets from index 0 upwards until it wraps.
func (w *RollingWindow) reduce(f func(rolling.Window) float64) float64 {
	filled := w.Len()
	if filled <= 0 {
		return 0
	}
	return w.policy.Reduce(func(window rolling.Window) float64 {
		return f(window[:filled])
	})
}

func GetWindowMax(window *RollingWindow) float64 {
	return window.reduce(rolling.Max)
}

func GetWindowMin(window *RollingWindow) float64 {
	return window.reduce(rolling.Min)
}

func GetWindowAvg(window *RollingWindow) float64 {
	return window.reduce(rolling.Avg)
}
