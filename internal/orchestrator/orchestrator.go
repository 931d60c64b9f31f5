// Package orchestrator implements the synthesis pipeline's phase
// sequencer (C7): it wires C1 (ids), C3 (masterdata), C4 (docflow), C5
// (journal), and C6 (anomaly) into one ordered run, consulting a
// resource guard between phases, grounded on the teacher's
// infrastructure/service runner's lifecycle shape (phase-by-phase
// startup, graceful stop) generalized away from its HTTP/chain
// specifics.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/ledgerforge/datasynth/infrastructure/resilience"
	"github.com/ledgerforge/datasynth/internal/anomaly"
	"github.com/ledgerforge/datasynth/internal/docflow"
	"github.com/ledgerforge/datasynth/internal/generrors"
	"github.com/ledgerforge/datasynth/internal/genlog"
	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/journal"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/sampling"
)

// Config parameterizes a full synthesis run, per spec.md §7.
type Config struct {
	Seed uint64

	// MasterData is the shared per-company pool shape (counts, type
	// weights); CompanyCode is overridden per entry of Companies.
	MasterData masterdata.Config
	DocFlow    docflow.Config
	Journal    journal.Config
	Anomaly    anomaly.Config
	Guard      GuardConfig

	// Companies lists the company codes a run generates master data
	// and document flows for. Empty defaults to a single company, per
	// companiesOrDefault.
	Companies []string

	DocFlowChainCount   int // number of P2P/O2C chain pairs to generate, per company
	JournalDocumentCount int // number of standalone journal documents to generate
}

// Phase names the sequenced stages, in execution order.
type Phase string

const (
	PhaseMasterData   Phase = "master_data"
	PhaseDocumentFlow Phase = "document_flow"
	PhaseJournal      Phase = "journal_entries"
	PhaseAnomaly      Phase = "anomaly_injection"
	PhaseStatistics   Phase = "statistics"
)

// Statistics summarizes one completed run, consumed by C8/C10.
type Statistics struct {
	VendorCount       int
	CustomerCount     int
	P2PChainCount     int
	O2CChainCount     int
	VarianceLabels    int
	JournalDocumentCount int
	AnomalyLabelCount int
	DegradedPhases    []string
}

// Result is everything a completed run produced, handed to the
// coherence evaluator (C8) and recommendation engine (C10).
type Result struct {
	Pools     map[string]*masterdata.Pool
	P2PChains []docflow.P2PChain
	O2CChains []docflow.O2CChain
	Variances []docflow.VarianceLabel
	Documents []journal.Document
	Labels    []anomaly.Label
	Stats     Statistics
}

// Orchestrator runs the phase sequence for one Config.
type Orchestrator struct {
	cfg     Config
	log     *genlog.Logger
	guard   *ResourceGuard
	idf     *ids.IDFactory
	breaker *resilience.CircuitBreaker
}

// New builds an orchestrator. log may be nil (a no-op logger is used).
func New(cfg Config, log *genlog.Logger) *Orchestrator {
	if log == nil {
		log = genlog.New(genlog.Config{})
	}
	breakerCfg := resilience.DefaultConfig()
	breakerCfg.OnStateChange = func(from, to resilience.State) {
		log.LogPhase(string(PhaseJournal), map[string]interface{}{
			"circuit_breaker_from": from.String(),
			"circuit_breaker_to":   to.String(),
		})
	}
	return &Orchestrator{
		cfg:     cfg,
		log:     log,
		guard:   NewResourceGuard(cfg.Guard, log),
		idf:     ids.NewIDFactory(cfg.Seed),
		breaker: resilience.New(breakerCfg),
	}
}

// Run executes all phases in order, returning as soon as ctx is
// cancelled or a phase fails, per spec.md §7's "no partial runs on
// invalid config" (config is expected to have been validated already;
// Run only reports phase-execution failures).
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	result := &Result{}
	var stats Statistics

	if err := ctx.Err(); err != nil {
		return nil, generrors.Wrap(generrors.ErrCodePhaseFailed, "context already cancelled", err)
	}

	if err := o.abortIfEmergency(PhaseMasterData); err != nil {
		return nil, err
	}
	o.log.LogPhase(string(PhaseMasterData), nil)
	companies := companiesOrDefault(o.cfg)
	pools, err := BuildPools(o.cfg, o.idf)
	if err != nil {
		o.log.LogGenerationError(string(PhaseMasterData), 0, err)
		return nil, generrors.Wrap(generrors.ErrCodeGenerationFailed, "master data generation failed", err)
	}
	result.Pools = pools
	for _, p := range pools {
		stats.VendorCount += len(p.Vendors)
		stats.CustomerCount += len(p.Customers)
	}

	if err := ctx.Err(); err != nil {
		return nil, generrors.Wrap(generrors.ErrCodePhaseFailed, "cancelled before document_flow", err)
	}
	if err := o.abortIfEmergency(PhaseDocumentFlow); err != nil {
		return nil, err
	}

	o.log.LogPhase(string(PhaseDocumentFlow), nil)
	chainCount := batchScaleFor(o.guard.Level(), o.cfg.DocFlowChainCount)
	if chainCount > 0 {
		if err := o.runDocumentFlow(pools, companies, chainCount, result, &stats); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, generrors.Wrap(generrors.ErrCodePhaseFailed, "cancelled before journal_entries", err)
	}
	if err := o.abortIfEmergency(PhaseJournal); err != nil {
		return nil, err
	}

	o.log.LogPhase(string(PhaseJournal), nil)
	docCount := batchScaleFor(o.guard.Level(), o.cfg.JournalDocumentCount)
	if docCount > 0 {
		if err := o.runJournal(pools, docCount, result, &stats); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, generrors.Wrap(generrors.ErrCodePhaseFailed, "cancelled before anomaly_injection", err)
	}
	if err := o.abortIfEmergency(PhaseAnomaly); err != nil {
		return nil, err
	}

	o.log.LogPhase(string(PhaseAnomaly), nil)
	if o.cfg.Anomaly.TotalRate > 0 && len(result.Documents) > 0 {
		injector := anomaly.NewInjector(o.idf, o.cfg.Anomaly)
		rng := ids.NewFactory(o.cfg.Seed).Derive("anomaly/inject")
		docs, labels := injector.Inject(result.Documents, rng)
		result.Documents = docs
		result.Labels = labels
		stats.AnomalyLabelCount = len(labels)
		for _, l := range labels {
			o.log.LogAnomalyInjection(l.AnomalyType, l.TargetDocumentID, l.Severity)
		}
	}

	o.log.LogPhase(string(PhaseStatistics), nil)
	stats.JournalDocumentCount = len(result.Documents)
	if o.guard.Level() != Normal {
		stats.DegradedPhases = append(stats.DegradedPhases, o.guard.Level().String())
	}
	result.Stats = stats

	return result, nil
}

// runDocumentFlow generates chainCount P2P/O2C chain pairs for each
// company, each company drawing from its own pool and its own
// engine/sampler sub-seeds so one company's chains never perturb
// another's (spec.md §4.3/§4.4).
func (o *Orchestrator) runDocumentFlow(pools map[string]*masterdata.Pool, companies []string, chainCount int, result *Result, stats *Statistics) error {
	f := ids.NewFactory(o.cfg.Seed)

	for _, code := range companies {
		pool, ok := pools[code]
		if !ok {
			continue
		}
		engine := docflow.NewEngine(f.SubSeed("docflow/engine/"+code), o.idf, o.cfg.DocFlow)
		temporal := sampling.NewTemporalSampler(f.SubSeed("docflow/temporal/"+code), o.cfg.Journal.Temporal)
		amounts := sampling.NewAmountSampler(f.SubSeed("docflow/amount/"+code), o.cfg.Journal.Amounts)

		for i := 0; i < chainCount; i++ {
			p2p, variances, err := engine.GenerateP2P(code, pool, temporal, amounts)
			if err != nil {
				if err == masterdata.ErrEmptyPool {
					continue
				}
				o.log.LogGenerationError(string(PhaseDocumentFlow), uint64(i), err)
				return generrors.Wrap(generrors.ErrCodeGenerationFailed, "P2P chain generation failed", err)
			}
			result.P2PChains = append(result.P2PChains, p2p)
			result.Variances = append(result.Variances, variances...)

			o2c, o2cVariances, err := engine.GenerateO2C(code, pool, temporal, amounts)
			if err != nil {
				if err == masterdata.ErrEmptyPool {
					continue
				}
				o.log.LogGenerationError(string(PhaseDocumentFlow), uint64(i), err)
				return generrors.Wrap(generrors.ErrCodeGenerationFailed, "O2C chain generation failed", err)
			}
			result.O2CChains = append(result.O2CChains, o2c)
			result.Variances = append(result.Variances, o2cVariances...)
		}
	}

	stats.P2PChainCount = len(result.P2PChains)
	stats.O2CChainCount = len(result.O2CChains)
	stats.VarianceLabels = len(result.Variances)
	return nil
}

// runJournal generates docCount documents, one at a time, through the
// circuit breaker: a config that makes every document fail (e.g. an
// exhausted master-data pool partway through a large batch) trips the
// breaker after a handful of consecutive failures instead of spending
// the full batch re-running the same broken generation.
func (o *Orchestrator) runJournal(pools map[string]*masterdata.Pool, docCount int, result *Result, stats *Statistics) error {
	seed := ids.NewFactory(o.cfg.Seed).SubSeed("journal/generator")
	gen := journal.NewGenerator(seed, o.idf, pools, o.cfg.Journal)
	for i := 0; i < docCount; i++ {
		var doc journal.Document
		err := o.breaker.Execute(context.Background(), func() error {
			d, genErr := gen.Generate()
			if genErr != nil {
				return genErr
			}
			doc = d
			return nil
		})
		if err != nil {
			o.log.LogGenerationError(string(PhaseJournal), uint64(i), err)
			if err == resilience.ErrCircuitOpen {
				return generrors.Wrap(generrors.ErrCodeGenerationFailed, "journal document generation circuit open, aborting batch", err)
			}
			return generrors.Wrap(generrors.ErrCodeGenerationFailed, "journal document generation failed", err)
		}
		result.Documents = append(result.Documents, doc)
	}
	return nil
}

// abortIfEmergency returns a resource-exhausted error without running
// phase, per spec.md §4.7: "Emergency: abort the pending phase and
// return a resource-exhausted error to the caller." Minimal degrades
// batch sizes instead (see batchScaleFor) and is not checked here.
func (o *Orchestrator) abortIfEmergency(phase Phase) error {
	if o.guard.Level() != Emergency {
		return nil
	}
	o.log.LogPhase(string(phase), map[string]interface{}{"aborted": true, "reason": "emergency_degradation"})
	return generrors.New(generrors.ErrCodeResourceExhausted, fmt.Sprintf("resource guard reports emergency degradation, aborting %s phase", phase))
}

// Close releases the orchestrator's background resources (the
// resource guard's periodic sampler).
func (o *Orchestrator) Close() {
	o.guard.Stop()
}
