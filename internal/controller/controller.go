package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/fans"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/sensors"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/thermal"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
)

// Status is a read-only snapshot of the last control cycle.
type Status struct {
	thermal.Decision

	Enabled     bool      `json:"enabled"`
	AppliedDuty float64   `json:"appliedDuty"`
	HoldUntil   time.Time `json:"holdUntil"`
	Cycles      uint64    `json:"cycles"`
	WriteErrors uint64    `json:"writeErrors"`
	LastError   string    `json:"lastError,omitempty"`
}

// StatusProvider is implemented by everything that can report the control status
type StatusProvider interface {
	Status() Status
}

type FanController interface {
	StatusProvider
	Run(ctx context.Context) error
	Shutdown() error
}

// Controller runs the control loop: read sensors, evaluate the engine and
// apply the result to the fan. Cycles never overlap.
type Controller struct {
	provider   sensors.Provider
	engine     *thermal.Engine
	fan        fans.Fan
	rate       time.Duration
	maxDevices int
	now        func() time.Time

	// lastApplied is nil until the first successful write
	lastApplied *float64
	failing     bool

	mu     sync.RWMutex
	status Status

	shutdownOnce sync.Once
	shutdownErr  error
}

func NewController(provider sensors.Provider, engine *thermal.Engine, fan fans.Fan, rate time.Duration, maxDevices int) *Controller {
	return &Controller{
		provider:   provider,
		engine:     engine,
		fan:        fan,
		rate:       rate,
		maxDevices: maxDevices,
		now:        time.Now,
		status: Status{
			Enabled: engine.Enabled(),
		},
	}
}

// Run executes one cycle immediately and then one per tick until ctx is
// done. The fan is stopped and released before Run returns.
func (c *Controller) Run(ctx context.Context) error {
	ui.Info("Starting control loop for fan '%s' (every %s)", c.fan.GetId(), c.rate)

	ticker := time.NewTicker(c.rate)
	defer ticker.Stop()

	for {
		if err := c.Step(ctx); err != nil {
			c.reportError(err)
		} else {
			c.resetErrorState()
		}

		select {
		case <-ctx.Done():
			ui.Info("Stopping control loop for fan '%s'", c.fan.GetId())
			return c.Shutdown()
		case <-ticker.C:
		}
	}
}

// Step runs a single control cycle. The fan is only written when the duty
// differs from the last successfully applied value.
func (c *Controller) Step(ctx context.Context) error {
	now := c.now()
	cpu := c.provider.ReadCPUTemperature(ctx)
	storage := c.provider.ReadStorageTemperatures(ctx, c.maxDevices)

	duty := c.engine.NextDuty(now, cpu, storage)

	var err error
	if c.lastApplied == nil || *c.lastApplied != duty {
		err = c.fan.SetDuty(duty)
		if err == nil {
			applied := duty
			c.lastApplied = &applied
		}
	}

	c.publish(now, cpu, duty, err)
	if err != nil {
		return fmt.Errorf("cannot apply duty %.0f%% to %s: %w", duty*100, c.fan.GetId(), err)
	}
	return nil
}

// Shutdown drives the fan to 0% and releases it. Only the first call has an effect.
func (c *Controller) Shutdown() error {
	c.shutdownOnce.Do(func() {
		var errs []error
		if err := c.fan.SetDuty(0); err != nil {
			errs = append(errs, err)
		}
		if err := c.fan.Close(); err != nil {
			errs = append(errs, err)
		}
		c.shutdownErr = errors.Join(errs...)
		if c.shutdownErr != nil {
			ui.Warning("Unable to stop fan %s cleanly: %v", c.fan.GetId(), c.shutdownErr)
		}
	})
	return c.shutdownErr
}

func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Controller) publish(now time.Time, cpu sensors.Reading, duty float64, err error) {
	decision := c.engine.LastDecision()
	if !c.engine.Enabled() {
		decision = thermal.Decision{Time: now, Cpu: cpu}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.status.Decision = decision
	c.status.Duty = duty
	c.status.HoldUntil = c.engine.State().HoldUntil
	c.status.Cycles++
	if c.lastApplied != nil {
		c.status.AppliedDuty = *c.lastApplied
	}
	if err != nil {
		c.status.WriteErrors++
		c.status.LastError = err.Error()
	} else {
		c.status.LastError = ""
	}
}

func (c *Controller) reportError(err error) {
	if !c.failing {
		ui.Error("%v", err)
		c.failing = true
		return
	}
	ui.Debug("%v", err)
}

func (c *Controller) resetErrorState() {
	if c.failing {
		ui.Info("Fan %s is accepting duty updates again", c.fan.GetId())
		c.failing = false
	}
}
