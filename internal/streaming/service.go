package streaming

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerforge/datasynth/infrastructure/resilience"
	"github.com/ledgerforge/datasynth/internal/anomaly"
	"github.com/ledgerforge/datasynth/internal/generrors"
	"github.com/ledgerforge/datasynth/internal/genlog"
	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/journal"
	"github.com/ledgerforge/datasynth/internal/money"
	"github.com/ledgerforge/datasynth/internal/orchestrator"
)

// defaultMaxActiveStreams is the cap on concurrently open streams that
// NewService sets; StartStream refuses beyond it, per spec.md §4.9.
const defaultMaxActiveStreams = 64

// Service wraps the orchestrator with concurrency and flow control:
// one-shot BulkGenerate, controllable StreamData sessions, and
// process-wide metrics, per spec.md §4.9.
type Service struct {
	mu            sync.RWMutex
	defaultConfig orchestrator.Config
	maxActive     int
	guard         *orchestrator.ResourceGuard
	log           *genlog.Logger
	metrics       *metricsState

	sessions map[string]*Session
}

// NewService builds a Service with defaultConfig as the baseline
// orchestrator configuration used when a request omits an override.
func NewService(defaultConfig orchestrator.Config, log *genlog.Logger) *Service {
	if log == nil {
		log = genlog.New(genlog.Config{})
	}
	return &Service{
		defaultConfig: defaultConfig,
		maxActive:     defaultMaxActiveStreams,
		guard:         orchestrator.NewResourceGuard(defaultConfig.Guard, log),
		log:           log,
		metrics:       newMetricsState(),
		sessions:      make(map[string]*Session),
	}
}

func (s *Service) resolveConfig(override *orchestrator.Config) orchestrator.Config {
	if override != nil {
		return *override
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultConfig
}

// checkResourcePolicy enforces spec.md §4.9's resource policy: refuse
// on Emergency, warn-and-proceed on Minimal.
func (s *Service) checkResourcePolicy() error {
	switch s.guard.Level() {
	case orchestrator.Emergency:
		return generrors.New(generrors.ErrCodeResourceExhausted, "resource guard reports emergency degradation")
	case orchestrator.Minimal:
		s.log.LogPhase("resource_guard", map[string]interface{}{"level": "minimal", "action": "proceeding with reduced batch sizes"})
	}
	return nil
}

// BulkGenerate runs one synchronous orchestrator pass to completion
// and aggregates its output into a BulkResponse.
func (s *Service) BulkGenerate(ctx context.Context, req BulkRequest) (BulkResponse, error) {
	if req.EntryCount <= 0 || req.EntryCount > 1_000_000 {
		return BulkResponse{}, generrors.New(generrors.ErrCodeInvalidArgument, fmt.Sprintf("entry_count %d out of range (1..1000000)", req.EntryCount))
	}

	cfg := s.resolveConfig(req.Config)
	cfg.JournalDocumentCount = req.EntryCount
	if !req.InjectAnomalies {
		cfg.Anomaly.TotalRate = 0
	}

	var result *orchestrator.Result
	retryCfg := resilience.RetryConfig{MaxAttempts: 3, InitialDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second, Multiplier: 2.0}
	err := resilience.Retry(ctx, retryCfg, func() error {
		if polErr := s.checkResourcePolicy(); polErr != nil {
			// Resource pressure is retried with backoff. The guard's
			// level is read again on each attempt; it changes between
			// attempts only if the guard's periodic sampler was started,
			// which NewService does not do.
			return polErr
		}
		orc := orchestrator.New(cfg, s.log)
		defer orc.Close()
		r, runErr := orc.Run(ctx)
		if runErr != nil {
			// A generation failure stems from the request/config, not
			// from transient resource pressure; retrying would just
			// reproduce the same failure.
			return resilience.Permanent(runErr)
		}
		result = r
		return nil
	})
	if err != nil {
		return BulkResponse{}, err
	}

	s.metrics.totalEntries.Add(uint64(len(result.Documents)))
	s.metrics.totalAnomalies.Add(uint64(len(result.Labels)))

	resp := BulkResponse{
		Documents:  result.Documents,
		Labels:     result.Labels,
		Statistics: aggregateStatistics(result.Documents, result.Labels),
	}
	if req.IncludeMasterData {
		resp.Pools = result.Pools
	}
	return resp, nil
}

func aggregateStatistics(docs []journal.Document, labels []anomaly.Label) BulkStatistics {
	stats := BulkStatistics{
		EntriesByCompany: make(map[string]int),
		EntriesBySource:  make(map[string]int),
		AnomalyCount:     len(labels),
	}
	totalDebit := money.Zero()
	totalCredit := money.Zero()
	for _, doc := range docs {
		stats.EntriesByCompany[doc.Header.CompanyCode]++
		stats.EntriesBySource[sourceName(doc.Header.Source)]++
		totalDebit = totalDebit.Add(doc.SumDebits())
		totalCredit = totalCredit.Add(doc.SumCredits())
	}
	stats.TotalDebit = totalDebit.String()
	stats.TotalCredit = totalCredit.String()
	return stats
}

func sourceName(src journal.Source) string {
	switch src {
	case journal.SourceManual:
		return "manual"
	case journal.SourceAutomated:
		return "automated"
	case journal.SourceRecurring:
		return "recurring"
	case journal.SourceAdjustment:
		return "adjustment"
	default:
		return "unknown"
	}
}

// StartStream validates req, builds a fresh Session backed by its own
// journal generator and (optionally) anomaly injector, and starts it.
// It returns the session id the caller uses for Control calls.
func (s *Service) StartStream(req StreamRequest) (string, <-chan DataEvent, error) {
	if req.EventsPerSecond < 1 || req.EventsPerSecond > 10_000 {
		return "", nil, generrors.New(generrors.ErrCodeInvalidArgument, fmt.Sprintf("events_per_second %d out of range [1, 10000]", req.EventsPerSecond))
	}
	if req.MaxEvents < 0 || req.MaxEvents > 10_000_000 {
		return "", nil, generrors.New(generrors.ErrCodeInvalidArgument, fmt.Sprintf("max_events %d out of range [0, 10000000]", req.MaxEvents))
	}
	if err := s.checkResourcePolicy(); err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	if len(s.sessions) >= s.maxActive {
		s.mu.Unlock()
		return "", nil, generrors.New(generrors.ErrCodeResourceExhausted, "active stream cap reached")
	}
	s.mu.Unlock()

	cfg := s.resolveConfig(req.Config)

	idf := ids.NewIDFactory(cfg.Seed)
	factory := ids.NewFactory(cfg.Seed)

	pools, err := orchestrator.BuildPools(cfg, idf)
	if err != nil {
		return "", nil, generrors.Wrap(generrors.ErrCodeGenerationFailed, "master data generation failed", err)
	}

	gen := journal.NewGenerator(factory.SubSeed("stream/journal"), idf, pools, cfg.Journal)

	var injector, burst *anomaly.Injector
	if req.InjectAnomalies {
		base := cfg.Anomaly
		if req.AnomalyRate > 0 {
			base.TotalRate = req.AnomalyRate
		}
		injector = anomaly.NewInjector(idf, base)

		burstCfg := base
		burstCfg.TotalRate = base.TotalRate * 4
		if burstCfg.TotalRate > 1 {
			burstCfg.TotalRate = 1
		}
		burst = anomaly.NewInjector(idf, burstCfg)
	}

	rng := factory.Derive("stream/pattern")
	id := uuid.NewString()
	session := newSession(id, req, gen, injector, burst, rng, s.metrics)

	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()
	s.metrics.activeStreams.Add(1)

	go func() {
		session.run()
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		s.metrics.activeStreams.Add(-1)
	}()

	return id, session.Events(), nil
}

// Control dispatches one ControlCommand to the named session.
// Pause/Resume/Stop are idempotent; an unknown session id is an
// invalid-argument error.
func (s *Service) Control(sessionID string, cmd ControlCommand) (ControlResponse, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return ControlResponse{}, generrors.New(generrors.ErrCodeInvalidArgument, fmt.Sprintf("unknown stream %q", sessionID))
	}

	switch cmd.Action {
	case ActionPause:
		session.Pause()
	case ActionResume:
		session.Resume()
	case ActionStop:
		session.Stop()
	case ActionTriggerPattern:
		pattern, ok := ParsePattern(cmd.Pattern)
		if !ok {
			return ControlResponse{}, generrors.New(generrors.ErrCodeInvalidArgument, fmt.Sprintf("invalid pattern %q", cmd.Pattern))
		}
		session.TriggerPattern(pattern)
	}
	return session.Control(), nil
}

// GetMetrics returns a snapshot of the process-wide counters.
func (s *Service) GetMetrics() Metrics {
	return s.metrics.snapshot()
}

// GetConfig returns the current default orchestrator configuration.
func (s *Service) GetConfig() orchestrator.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultConfig
}

// SetConfig replaces the default orchestrator configuration.
// SetConfig(GetConfig()) is a semantic no-op, per spec.md §8.
func (s *Service) SetConfig(cfg orchestrator.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultConfig = cfg
}

// HealthCheck reports whether the service can currently accept new
// bulk/stream requests.
func (s *Service) HealthCheck() (healthy bool, level string) {
	lvl := s.guard.Level()
	return lvl != orchestrator.Emergency, lvl.String()
}
