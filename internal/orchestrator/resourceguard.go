package orchestrator

import (
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/ledgerforge/datasynth/internal/genlog"
)

// DegradationLevel classifies how much memory/disk pressure the
// generation run is currently under, per spec.md §7's resource guard.
type DegradationLevel int32

const (
	Normal DegradationLevel = iota
	Minimal
	Emergency
)

func (d DegradationLevel) String() string {
	switch d {
	case Minimal:
		return "minimal"
	case Emergency:
		return "emergency"
	default:
		return "normal"
	}
}

// GuardConfig sets the memory/disk percentage bands at which the
// guard steps down from Normal to Minimal to Emergency.
type GuardConfig struct {
	MinimalMemPercent   float64 // default 75
	EmergencyMemPercent float64 // default 90
	MinimalDiskPercent  float64 // default 80
	EmergencyDiskPercent float64 // default 95
	SamplePath          string  // filesystem path sampled for disk usage, default "/"
	ResampleInterval    string  // cron spec, default "@every 5s"
}

func (c GuardConfig) withDefaults() GuardConfig {
	if c.MinimalMemPercent <= 0 {
		c.MinimalMemPercent = 75
	}
	if c.EmergencyMemPercent <= 0 {
		c.EmergencyMemPercent = 90
	}
	if c.MinimalDiskPercent <= 0 {
		c.MinimalDiskPercent = 80
	}
	if c.EmergencyDiskPercent <= 0 {
		c.EmergencyDiskPercent = 95
	}
	if c.SamplePath == "" {
		c.SamplePath = "/"
	}
	if c.ResampleInterval == "" {
		c.ResampleInterval = "@every 5s"
	}
	return c
}

// ResourceGuard periodically samples host memory/disk pressure via
// gopsutil and exposes the current DegradationLevel, which the
// orchestrator consults between phases to shrink batch sizes or abort
// the run rather than OOM-kill a long-running synthesis job.
type ResourceGuard struct {
	cfg    GuardConfig
	log    *genlog.Logger
	level  atomic.Int32
	cron   *cron.Cron
	entryID cron.EntryID
}

// NewResourceGuard builds a guard and performs one synchronous sample
// so Level() is meaningful immediately, before the periodic job starts.
func NewResourceGuard(cfg GuardConfig, log *genlog.Logger) *ResourceGuard {
	g := &ResourceGuard{cfg: cfg.withDefaults(), log: log}
	g.sample()
	return g
}

// Start begins periodic resampling on the configured cron schedule.
func (g *ResourceGuard) Start() error {
	g.cron = cron.New()
	id, err := g.cron.AddFunc(g.cfg.ResampleInterval, g.sample)
	if err != nil {
		return err
	}
	g.entryID = id
	g.cron.Start()
	return nil
}

// Stop halts periodic resampling; safe to call on a guard that was
// never Start()-ed.
func (g *ResourceGuard) Stop() {
	if g.cron != nil {
		ctx := g.cron.Stop()
		<-ctx.Done()
	}
}

// Level returns the most recently sampled degradation level.
func (g *ResourceGuard) Level() DegradationLevel {
	return DegradationLevel(g.level.Load())
}

func (g *ResourceGuard) sample() {
	level := Normal

	if vm, err := mem.VirtualMemory(); err == nil {
		switch {
		case vm.UsedPercent >= g.cfg.EmergencyMemPercent:
			level = Emergency
		case vm.UsedPercent >= g.cfg.MinimalMemPercent:
			level = Minimal
		}
	}

	if du, err := disk.Usage(g.cfg.SamplePath); err == nil {
		switch {
		case du.UsedPercent >= g.cfg.EmergencyDiskPercent:
			level = Emergency
		case du.UsedPercent >= g.cfg.MinimalDiskPercent && level != Emergency:
			level = Minimal
		}
	}

	prev := DegradationLevel(g.level.Swap(int32(level)))
	if prev != level && g.log != nil {
		g.log.LogPhase("resource_guard", map[string]interface{}{
			"from": prev.String(),
			"to":   level.String(),
		})
	}
}

// batchScaleFor returns the batch-size multiplier appropriate for the
// current degradation level, per spec.md §7: Minimal halves batch
// sizes. Emergency is not scaled down here at all — Run aborts the
// pending phase outright on Emergency before any batch size would be
// consulted, so Emergency yields 0 (no work), not a reduced batch.
func batchScaleFor(level DegradationLevel, base int) int {
	switch level {
	case Minimal:
		if base/2 > 0 {
			return base / 2
		}
		return 1
	case Emergency:
		return 0
	default:
		return base
	}
}
