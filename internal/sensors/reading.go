package sensors

import (
	"errors"
	"fmt"
)

var ErrSensorUnavailable = errors.New("sensor unavailable")

// Reading is a single temperature sample in °C. Unavailable readings carry no
// meaningful Value.
type Reading struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

func Available(value float64) Reading {
	return Reading{Value: value, Available: true}
}

func Unavailable() Reading {
	return Reading{}
}

func (r Reading) String() string {
	if !r.Available {
		return "n/a"
	}
	return fmt.Sprintf("%.1f°C", r.Value)
}
