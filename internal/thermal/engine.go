package thermal

import (
	"fmt"
	"strings"
	"time"

	"github.com/qdm12/reprint"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
	"golang.org/x/time/rate"
)

const (
	// stableCyclesForDeadband is the number of unchanged cycles after which small target changes are ignored
	stableCyclesForDeadband = 5
	// deadbandMaxTargetDelta is the largest target change the dead-band may swallow
	deadbandMaxTargetDelta = 0.15

	statusLogInterval = 30 * time.Second
)

// State is the long-lived control state, only mutated by Engine.NextDuty.
type State struct {
	History        *History
	LastDuty       float64
	LastCpuAvg     float64
	LastStorageAvg float64
	StableCycles   int
	// HoldUntil is the zero time when no hold was ever started
	HoldUntil time.Time
}

// Decision describes how the last duty was computed.
type Decision struct {
	Time time.Time `json:"time"`

	Cpu        sensors.Reading `json:"cpu"`
	StorageMax float64         `json:"storageMax"`
	// StorageAvailable is the number of storage devices that could be read
	StorageAvailable int `json:"storageAvailable"`

	CpuAvg       float64 `json:"cpuAvg"`
	StorageAvg   float64 `json:"storageAvg"`
	CpuTrend     float64 `json:"cpuTrend"`
	StorageTrend float64 `json:"storageTrend"`

	CpuTarget     float64 `json:"cpuTarget"`
	StorageTarget float64 `json:"storageTarget"`
	Target        float64 `json:"target"`
	UpRate        float64 `json:"upRate"`

	Deadband     bool    `json:"deadband"`
	HoldActive   bool    `json:"holdActive"`
	StableCycles int     `json:"stableCycles"`
	PreviousDuty float64 `json:"previousDuty"`
	Duty         float64 `json:"duty"`
}

func (d Decision) Changed() bool {
	return d.Duty != d.PreviousDuty
}

// Engine turns temperature readings into a fan duty cycle in [0, 1].
// It is not safe for concurrent use.
type Engine struct {
	enabled  bool
	cpu      Curve
	storage  Curve
	tunables configuration.ThermalConfig

	state State
	last  Decision

	statusLog *rate.Sometimes
}

// NewEngine creates an engine from a private copy of config.
func NewEngine(config configuration.Configuration) *Engine {
	cfg := reprint.This(config).(configuration.Configuration)
	historySize := cfg.Thermal.HistorySize
	if historySize <= 0 {
		historySize = configuration.DefaultHistorySize
	}
	return &Engine{
		enabled:  cfg.Fan.Enabled.Get(),
		cpu:      NewCurve(cfg.Fan.FanCurveConfig),
		storage:  NewCurve(cfg.FanSsd),
		tunables: cfg.Thermal,
		state: State{
			History: NewHistory(historySize),
		},
		statusLog: &rate.Sometimes{Interval: statusLogInterval},
	}
}

// NextDuty evaluates one control cycle. Unavailable readings count as 0°C,
// which maps below the lowest threshold of either curve.
func (e *Engine) NextDuty(now time.Time, cpu sensors.Reading, storage []sensors.Reading) float64 {
	if !e.enabled {
		return 0
	}

	t := e.tunables
	s := &e.state

	cpuTemp := valueOrZero(cpu)
	storageMax, storageAvailable := maxAvailable(storage)

	cpuAvg, storageAvg, cpuTrend, storageTrend := s.History.Record(cpuTemp, storageMax)

	cpuHeating := cpuTrend > t.TrendHeat
	storageHeating := storageTrend > t.TrendHeat

	cpuTarget := e.cpu.Target(cpuAvg, t.Hysteresis, cpuHeating)
	storageTarget := e.storage.Target(storageAvg, t.Hysteresis, storageHeating)
	target := max(cpuTarget, storageTarget)

	tempChange := max(cpuAvg-s.LastCpuAvg, storageAvg-s.LastStorageAvg)
	deadband := s.StableCycles > stableCyclesForDeadband &&
		util.Abs(tempChange) < t.Deadband &&
		util.Abs(target-s.LastDuty) < deadbandMaxTargetDelta
	if deadband {
		target = s.LastDuty
	}

	delta := target - s.LastDuty

	upRate := e.upRate(max(cpuTrend, storageTrend))
	holdActive := !s.HoldUntil.IsZero() && now.Before(s.HoldUntil)

	if delta > upRate {
		delta = upRate
	} else if delta < 0 {
		if holdActive {
			delta = 0
		} else {
			delta = max(delta, -t.DownRate)
		}
	}

	previous := s.LastDuty
	duty := util.Clamp(previous+delta, 0, 1)

	if duty == previous {
		s.StableCycles++
	} else {
		s.StableCycles = 0
	}

	if duty > previous {
		s.HoldUntil = now.Add(e.holdDuration())
	}

	s.LastDuty = duty
	s.LastCpuAvg = cpuAvg
	s.LastStorageAvg = storageAvg

	e.last = Decision{
		Time:             now,
		Cpu:              cpu,
		StorageMax:       storageMax,
		StorageAvailable: storageAvailable,
		CpuAvg:           cpuAvg,
		StorageAvg:       storageAvg,
		CpuTrend:         cpuTrend,
		StorageTrend:     storageTrend,
		CpuTarget:        cpuTarget,
		StorageTarget:    storageTarget,
		Target:           target,
		UpRate:           upRate,
		Deadband:         deadband,
		HoldActive:       holdActive,
		StableCycles:     s.StableCycles,
		PreviousDuty:     previous,
		Duty:             duty,
	}
	e.logDecision(e.last)

	return duty
}

// upRate grows with the heating trend, limited by the legacy cap and up_rate_max.
func (e *Engine) upRate(dominantTrend float64) float64 {
	t := e.tunables
	up := t.UpRateBase + t.UpRateTrendGain*max(dominantTrend, 0)
	if t.MaxDcChange > 0 && t.MaxDcChange < up {
		up = t.MaxDcChange
	}
	return min(up, t.UpRateMax)
}

func (e *Engine) holdDuration() time.Duration {
	return time.Duration(e.tunables.CooldownHoldSec * float64(time.Second))
}

// Enabled reports whether the fan is allowed to spin at all
func (e *Engine) Enabled() bool {
	return e.enabled
}

// State returns a copy of the control state. The history is shared.
func (e *Engine) State() State {
	return e.state
}

// LastDecision returns the details of the last evaluated cycle.
func (e *Engine) LastDecision() Decision {
	return e.last
}

func (e *Engine) logDecision(d Decision) {
	ui.Debug("raw CPU=%s storage max=%.1f°C (%d available) | avg CPU=%.1f°C storage=%.1f°C | trend CPU=%+.2f storage=%+.2f",
		d.Cpu, d.StorageMax, d.StorageAvailable, d.CpuAvg, d.StorageAvg, d.CpuTrend, d.StorageTrend)
	ui.Debug("target CPU=%.0f%% storage=%.0f%% final=%.0f%% | up rate=%.0f%% down rate=%.0f%% hold=%t -> duty %.0f%% -> %.0f%%",
		d.CpuTarget*100, d.StorageTarget*100, d.Target*100, d.UpRate*100, e.tunables.DownRate*100, d.HoldActive,
		d.PreviousDuty*100, d.Duty*100)

	if d.Changed() {
		ui.Info("%s", FormatDecision(d))
		return
	}
	e.statusLog.Do(func() {
		ui.Info("%s", FormatDecision(d))
	})
}

// FormatDecision renders the one line status summary of a decision.
func FormatDecision(d Decision) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("CPU: %.1f°C (avg %.1f°C, trend %+.2f) | Storage: %.1f°C (avg %.1f°C, trend %+.2f) | Duty: %.0f%%",
		valueOrZero(d.Cpu), d.CpuAvg, d.CpuTrend, d.StorageMax, d.StorageAvg, d.StorageTrend, d.Duty*100))
	if d.Changed() {
		sb.WriteString(" [ADJUSTING]")
	}
	if d.Deadband {
		sb.WriteString(" [DEADBAND]")
	}
	if d.HoldActive {
		sb.WriteString(" [HOLD]")
	}
	return sb.String()
}

func valueOrZero(reading sensors.Reading) float64 {
	if !reading.Available {
		return 0
	}
	return reading.Value
}

// maxAvailable returns the highest available reading, or 0 if none is available
func maxAvailable(readings []sensors.Reading) (float64, int) {
	result := 0.0
	available := 0
	for _, reading := range readings {
		if !reading.Available {
			continue
		}
		if available == 0 || reading.Value > result {
			result = reading.Value
		}
		available++
	}
	return result, available
}
