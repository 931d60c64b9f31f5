// Package streaming implements the streaming/bulk generation service
// (C9): a bulk one-shot operation plus a paced, controllable producer/
// consumer stream, grounded on the teacher's infrastructure/ratelimit
// pacing idiom and infrastructure/service lifecycle shape (both
// shape-only references; neither package is carried in this module),
// generalized to spec.md §4.9/§5's bounded-channel model.
package streaming

import (
	"time"

	"github.com/ledgerforge/datasynth/internal/anomaly"
	"github.com/ledgerforge/datasynth/internal/journal"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/orchestrator"
)

// BulkRequest parameterizes one BulkGenerate call.
type BulkRequest struct {
	EntryCount       int
	IncludeMasterData bool
	InjectAnomalies  bool
	OutputFormat     string
	Config           *orchestrator.Config // optional override; nil uses the service default
}

// BulkStatistics summarizes a completed bulk run.
type BulkStatistics struct {
	EntriesByCompany map[string]int
	EntriesBySource  map[string]int
	TotalDebit       string // decimal string, for precision across the wire
	TotalCredit      string
	AnomalyCount     int
}

// BulkResponse is the result of one BulkGenerate call.
type BulkResponse struct {
	Documents  []journal.Document
	Labels     []anomaly.Label
	Statistics BulkStatistics
	Pools      map[string]*masterdata.Pool // only set when the request's IncludeMasterData is true, keyed by company code
}

// StreamRequest parameterizes one StreamData call.
type StreamRequest struct {
	EventsPerSecond int
	MaxEvents       int // 0 = unbounded
	InjectAnomalies bool
	AnomalyRate     float64
	Config          *orchestrator.Config
}

// DataEvent is one unit pushed to a stream consumer.
type DataEvent struct {
	SequenceNumber uint64
	Document       journal.Document
	Label          *anomaly.Label
	EmittedAt      time.Time
}

// Action enumerates the Control operation's closed set of commands.
type Action int

const (
	ActionPause Action = iota
	ActionResume
	ActionStop
	ActionTriggerPattern
)

// ControlCommand is one Control operation invocation.
type ControlCommand struct {
	Action  Action
	Pattern string // only meaningful when Action == ActionTriggerPattern
}

// ControlResponse reports the stream's state after a Control command.
type ControlResponse struct {
	Paused  bool
	Stopped bool
	Pattern string
}

// Metrics is the set of cumulative, concurrency-safe counters exposed
// by GetMetrics.
type Metrics struct {
	TotalEntries      uint64
	TotalAnomalies    uint64
	ActiveStreams     int64
	TotalStreamEvents uint64
	UptimeSeconds     float64
}
