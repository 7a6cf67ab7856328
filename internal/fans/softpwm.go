package fans

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/configuration"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/util"
)

const (
	// dutyOffThreshold is the duty at or below which the line stays inactive for the whole period
	dutyOffThreshold = 0.001

	periodWindowSize = 1000

	lineInactive = 0
	lineActive   = 1
)

var ErrPwmLoopTimeout = errors.New("software pwm loop did not stop in time")

// Line is a single GPIO output.
type Line interface {
	SetValue(value int) error
	Close() error
}

type SoftwarePwmOption func(fan *SoftwarePwmFan)

// WithClock replaces the clock and sleep function used by the PWM loop
func WithClock(now func() time.Time, sleep func(time.Duration)) SoftwarePwmOption {
	return func(fan *SoftwarePwmFan) {
		fan.now = now
		fan.sleep = sleep
	}
}

// SoftwarePwmFan generates a PWM signal by toggling a GPIO line from a
// dedicated goroutine.
type SoftwarePwmFan struct {
	Id           string        `json:"id"`
	Period       time.Duration `json:"period"`
	CloseTimeout time.Duration `json:"closeTimeout"`

	line Line

	duty    atomic.Uint64
	running atomic.Bool
	done    chan struct{}

	closeOnce sync.Once
	closeErr  error

	now   func() time.Time
	sleep func(time.Duration)

	// periods holds the measured length of the last periods in µs
	periods     *util.RollingWindow
	writeErrors atomic.Uint64
}

// NewSoftwarePwmFan takes ownership of line and starts the PWM loop with a duty cycle of 0.
func NewSoftwarePwmFan(id string, line Line, periodNs int, closeTimeout time.Duration, opts ...SoftwarePwmOption) *SoftwarePwmFan {
	if periodNs <= 0 {
		periodNs = configuration.DefaultPwmPeriodNs
	}
	fan := &SoftwarePwmFan{
		Id:           id,
		Period:       time.Duration(periodNs) * time.Nanosecond,
		CloseTimeout: closeTimeout,
		line:         line,
		done:         make(chan struct{}),
		now:          time.Now,
		sleep:        time.Sleep,
		periods:      util.CreateRollingWindow(periodWindowSize),
	}
	for _, opt := range opts {
		opt(fan)
	}

	fan.running.Store(true)
	go fan.run()

	ui.Info("Fan initialized with software PWM (%s, period %s)", fan.Id, fan.Period)
	return fan
}

func (fan *SoftwarePwmFan) GetId() string {
	return fan.Id
}

func (fan *SoftwarePwmFan) GetLabel() string {
	return fmt.Sprintf("Software PWM (%s)", fan.Id)
}

// SetDuty only publishes the new duty, the loop picks it up at the start of the next period.
func (fan *SoftwarePwmFan) SetDuty(duty float64) error {
	if !fan.running.Load() {
		return fmt.Errorf("%w: %s is closed", ErrActuatorWriteFailed, fan.Id)
	}
	duty = clampDuty(duty)
	fan.duty.Store(math.Float64bits(duty))
	ui.Debug("Software PWM duty %.0f%% -> active %s, inactive %s", duty*100, fan.activeTime(duty), fan.Period-fan.activeTime(duty))
	return nil
}

func (fan *SoftwarePwmFan) GetDuty() float64 {
	return math.Float64frombits(fan.duty.Load())
}

// Close stops the loop, waits at most CloseTimeout for it to end, drives the
// line inactive and releases it. When the loop does not stop in time the line
// is released without the final write and its last level is undefined.
func (fan *SoftwarePwmFan) Close() error {
	fan.closeOnce.Do(func() {
		fan.duty.Store(0)
		fan.running.Store(false)

		var errs []error
		select {
		case <-fan.done:
			if err := fan.line.SetValue(lineInactive); err != nil {
				errs = append(errs, fmt.Errorf("%w: %v", ErrActuatorWriteFailed, err))
			}
		case <-time.After(fan.CloseTimeout):
			errs = append(errs, fmt.Errorf("%w after %s", ErrPwmLoopTimeout, fan.CloseTimeout))
		}

		if err := fan.line.Close(); err != nil {
			errs = append(errs, err)
		}
		fan.closeErr = errors.Join(errs...)
	})
	return fan.closeErr
}

// PeriodStats returns the min, average and max measured period length in µs
func (fan *SoftwarePwmFan) PeriodStats() (minimum float64, average float64, maximum float64) {
	return util.GetWindowMin(fan.periods), util.GetWindowAvg(fan.periods), util.GetWindowMax(fan.periods)
}

// WriteErrors returns the number of failed line writes since start
func (fan *SoftwarePwmFan) WriteErrors() uint64 {
	return fan.writeErrors.Load()
}

func (fan *SoftwarePwmFan) run() {
	defer close(fan.done)

	lastDuty := -1.0
	for fan.running.Load() {
		start := fan.now()
		duty := fan.GetDuty()
		if math.Abs(duty-lastDuty) > dutyOffThreshold {
			ui.Debug("Software PWM loop: duty=%.0f%% period=%s", duty*100, fan.Period)
			lastDuty = duty
		}

		if duty <= dutyOffThreshold {
			fan.setLine(lineInactive)
			fan.sleep(fan.Period)
		} else {
			active := fan.activeTime(duty)
			fan.setLine(lineActive)
			fan.sleep(active)
			fan.setLine(lineInactive)
			fan.sleep(fan.Period - active)
		}

		fan.periods.Append(float64(fan.now().Sub(start)) / float64(time.Microsecond))
	}
}

func (fan *SoftwarePwmFan) activeTime(duty float64) time.Duration {
	return time.Duration(duty * float64(fan.Period))
}

// setLine drops writes once Close has started, the line may already be released
func (fan *SoftwarePwmFan) setLine(value int) {
	if !fan.running.Load() {
		return
	}
	if err := fan.line.SetValue(value); err != nil {
		if fan.writeErrors.Add(1) == 1 {
			ui.Warning("Unable to write to GPIO line %s: %v", fan.Id, err)
		}
	}
}
