package persistence

import (
	"context"
	"time"

	"github.com/radxa-penta-fan-ctrl/pentafan/internal/controller"
	"github.com/radxa-penta-fan-ctrl/pentafan/internal/ui"
)

// pruneEvery is the number of recorded samples between two retention runs
const pruneEvery = 60

// Recorder periodically stores the controller status as a Sample.
type Recorder struct {
	persistence Persistence
	status      controller.StatusProvider
	interval    time.Duration
	retention   time.Duration

	lastRecorded time.Time
	recorded     int
}

func NewRecorder(persistence Persistence, status controller.StatusProvider, interval time.Duration, retention time.Duration) *Recorder {
	return &Recorder{
		persistence: persistence,
		status:      status,
		interval:    interval,
		retention:   retention,
	}
}

func (r *Recorder) Run(ctx context.Context) error {
	if err := r.persistence.Init(); err != nil {
		return err
	}
	ui.Info("Recording history every %s, keeping %s", r.interval, r.retention)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Record(); err != nil {
				ui.Warning("Unable to record history sample: %v", err)
			}
		}
	}
}

// Record stores the current status unless it was already recorded or no cycle ran yet.
func (r *Recorder) Record() error {
	status := r.status.Status()
	if status.Cycles == 0 || !status.Time.After(r.lastRecorded) {
		return nil
	}

	if err := r.persistence.SaveSample(SampleFromStatus(status)); err != nil {
		return err
	}
	r.lastRecorded = status.Time
	r.recorded++

	if r.recorded%pruneEvery == 1 && r.retention > 0 {
		deleted, err := r.persistence.PruneSamples(status.Time.Add(-r.retention))
		if err != nil {
			return err
		}
		if deleted > 0 {
			ui.Debug("Pruned %d history samples", deleted)
		}
	}
	return nil
}

func SampleFromStatus(status controller.Status) Sample {
	return Sample{
		Time:         status.Time,
		Cpu:          status.Cpu.Value,
		CpuAvailable: status.Cpu.Available,
		CpuAvg:       status.CpuAvg,
		CpuTrend:     status.CpuTrend,
		StorageMax:   status.StorageMax,
		StorageAvg:   status.StorageAvg,
		StorageTrend: status.StorageTrend,
		Duty:         status.Duty,
		HoldActive:   status.HoldActive,
	}
}
