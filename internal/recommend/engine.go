package recommend

import (
	"fmt"
	"sort"

	"github.com/ledgerforge/datasynth/internal/coherence"
)

// Thresholds configures when an input metric is flagged as an issue.
// Defaults mirror original_source's EvaluationThresholds.
type Thresholds struct {
	BenfordPValueMin       float64
	TemporalCorrelationMin float64
	MaxDuplicateRate       float64
	MaxUnbalancedRate      float64
}

// DefaultThresholds returns the conventional thresholds used when a
// caller does not override them.
func DefaultThresholds() Thresholds {
	return Thresholds{
		BenfordPValueMin:       0.05,
		TemporalCorrelationMin: 0.6,
		MaxDuplicateRate:       0.01,
		MaxUnbalancedRate:      0.0,
	}
}

// Input is everything a report is derived from: the statistical,
// coherence, and quality sections of one completed synthesis run.
type Input struct {
	BenfordPValue         *float64
	TemporalCorrelation   *float64
	Coherence             *coherence.Evaluation
	UnbalancedDocumentCount int
	TotalDocumentCount      int
	DuplicateCount          int
	TotalRecordCount        int
}

// Engine performs root-cause analysis over an Input and produces a
// prioritized Report.
type Engine struct {
	thresholds Thresholds
	counter    int
}

// NewEngine builds an Engine with DefaultThresholds.
func NewEngine() *Engine {
	return &Engine{thresholds: DefaultThresholds()}
}

// NewEngineWithThresholds builds an Engine with caller-supplied thresholds.
func NewEngineWithThresholds(t Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// GenerateReport runs every analysis stage over in and finalizes the
// resulting report (sorting, health score, top issues, quick wins).
func (e *Engine) GenerateReport(in Input) Report {
	report := Report{
		CategorySummary: make(map[Category]int),
		PrioritySummary: make(map[Priority]int),
		HealthScore:     1.0,
	}

	e.analyzeStatistical(in, &report)
	e.analyzeCoherence(in, &report)
	e.analyzeQuality(in, &report)

	e.finalize(&report)
	return report
}

func (e *Engine) nextID() string {
	e.counter++
	return fmt.Sprintf("REC-%04d", e.counter)
}

func (r *Report) add(rec Recommendation) {
	r.CategorySummary[rec.Category]++
	r.PrioritySummary[rec.Priority]++
	r.Recommendations = append(r.Recommendations, rec)
}

func (e *Engine) analyzeStatistical(in Input, report *Report) {
	if in.BenfordPValue != nil && *in.BenfordPValue < e.thresholds.BenfordPValueMin {
		severity := Medium
		if *in.BenfordPValue < 0.01 {
			severity = High
		}
		rec := Recommendation{
			ID:          e.nextID(),
			Priority:    severity,
			Category:    CategoryStatistical,
			Title:       "Benford's Law Non-Conformance",
			Description: "Generated transaction amounts do not follow Benford's Law, which may indicate unrealistic data patterns.",
			RootCauses: []RootCause{{
				Description: "amount generation not using a Benford-compliant distribution",
				Explanation: "Real financial data naturally follows Benford's Law for first digits; uniform or unconstrained distributions fail this test.",
				Evidence:    []string{fmt.Sprintf("p-value: %.4f (threshold: %.4f)", *in.BenfordPValue, e.thresholds.BenfordPValueMin)},
				Confidence:  0.9,
			}},
			Actions: []SuggestedAction{{
				Description:    "enable Benford-compliant amount generation",
				ConfigPath:     "amounts.benford_compliance",
				SuggestedValue: "true",
				AutoApplicable: true,
				Effort:         "Low",
			}},
			AffectedMetrics:     []string{"benford_p_value"},
			ExpectedImprovement: "statistical p-value should increase above 0.05",
		}
		report.add(rec)
	}

	if in.TemporalCorrelation != nil && *in.TemporalCorrelation < e.thresholds.TemporalCorrelationMin {
		rec := Recommendation{
			ID:          e.nextID(),
			Priority:    Medium,
			Category:    CategoryStatistical,
			Title:       "Weak Temporal Patterns",
			Description: "Generated data lacks realistic temporal patterns such as seasonality, month-end spikes, and weekday variation.",
			RootCauses: []RootCause{{
				Description: "insufficient temporal variation in generation",
				Explanation: "Real financial data shows strong temporal patterns including month-end closing activity and weekday effects.",
				Evidence:    []string{fmt.Sprintf("correlation: %.3f (threshold: %.3f)", *in.TemporalCorrelation, e.thresholds.TemporalCorrelationMin)},
				Confidence:  0.75,
			}},
			Actions: []SuggestedAction{{
				Description:    "increase month-end and period-end spike weight",
				ConfigPath:     "temporal.period_end_spike_weight",
				SuggestedValue: "0.8",
				AutoApplicable: true,
				Effort:         "Low",
			}},
			AffectedMetrics:     []string{"temporal_correlation"},
			ExpectedImprovement: "temporal pattern correlation above 0.8",
		}
		report.add(rec)
	}
}

func (e *Engine) analyzeCoherence(in Input, report *Report) {
	if in.TotalDocumentCount > 0 && in.UnbalancedDocumentCount > 0 {
		rate := float64(in.UnbalancedDocumentCount) / float64(in.TotalDocumentCount)
		if rate > e.thresholds.MaxUnbalancedRate {
			rec := Recommendation{
				ID:          e.nextID(),
				Priority:    Critical,
				Category:    CategoryCoherence,
				Title:       "Unbalanced Journal Entries",
				Description: "One or more journal entries have debits that do not equal credits, a critical data-integrity issue.",
				RootCauses: []RootCause{{
					Description: "journal entry generation produced an unbalanced document",
					Explanation: "Every journal entry must have equal debits and credits; an imbalance indicates a rebalancing step was skipped or a rewrite introduced drift.",
					Evidence:    []string{fmt.Sprintf("%d of %d documents unbalanced (%.2f%%)", in.UnbalancedDocumentCount, in.TotalDocumentCount, rate*100)},
					Confidence:  0.95,
				}},
				Actions: []SuggestedAction{{
					Description: "review rebalancing logic in the human-error and anomaly rewrite paths",
					Effort:      "High",
				}},
				AffectedMetrics:     []string{"unbalanced_document_rate"},
				ExpectedImprovement: "zero unbalanced documents",
			}
			report.add(rec)
		}
	}

	if in.Coherence != nil {
		for _, result := range in.Coherence.TableConsistency {
			if result.OrphanedSource == 0 {
				continue
			}
			total := result.Matching + result.Mismatched + result.OrphanedSource
			orphanRate := 0.0
			if total > 0 {
				orphanRate = float64(result.OrphanedSource) / float64(total)
			}
			rec := Recommendation{
				ID:       e.nextID(),
				Priority: priorityForOrphanRate(orphanRate),
				Category: CategoryCoherence,
				Title:    fmt.Sprintf("Orphaned References: %s -> %s", result.SourceTable, result.TargetTable),
				Description: fmt.Sprintf("%d records in %s reference a nonexistent %s record.",
					result.OrphanedSource, result.SourceTable, result.TargetTable),
				RootCauses: []RootCause{{
					Description: "document-flow chain generation produced a dangling reference",
					Evidence:    []string{fmt.Sprintf("orphan rate %.2f%% (consistency_score %.4f)", orphanRate*100, result.ConsistencyScore)},
					Confidence:  0.85,
				}},
				Actions: []SuggestedAction{{
					Description: fmt.Sprintf("audit %s generation for missing %s back-references", result.SourceTable, result.TargetTable),
					Effort:      "Medium",
				}},
				AffectedMetrics:     []string{fmt.Sprintf("%s_%s_consistency_score", result.SourceTable, result.TargetTable)},
				ExpectedImprovement: "consistency_score at or above 0.95",
			}
			report.add(rec)
		}

		for _, path := range in.Coherence.CascadeAnalysis {
			if path.Depth <= 3 {
				continue
			}
			rec := Recommendation{
				ID:          e.nextID(),
				Priority:    High,
				Category:    CategoryCoherence,
				Title:       fmt.Sprintf("Deep Anomaly Cascade: %s", path.AnomalyID),
				Description: fmt.Sprintf("Anomaly %s propagates to %d tables at depth %d, beyond the advisory threshold of 3.", path.AnomalyID, len(path.AffectedTables), path.Depth),
				RootCauses: []RootCause{{
					Description: "tightly coupled reference graph propagates a single anomaly broadly",
					Evidence:    []string{fmt.Sprintf("%d records affected across %v", path.RecordsAffected, path.AffectedTables)},
					Confidence:  0.7,
				}},
				Actions: []SuggestedAction{{
					Description: "reduce the injected anomaly rate or add compensating controls along the affected chain",
					Effort:      "Medium",
				}},
				AffectedMetrics:     []string{"cascade_depth"},
				ExpectedImprovement: "cascade depth at or below 3",
			}
			report.add(rec)
		}
	}
}

func (e *Engine) analyzeQuality(in Input, report *Report) {
	if in.TotalRecordCount == 0 || in.DuplicateCount == 0 {
		return
	}
	rate := float64(in.DuplicateCount) / float64(in.TotalRecordCount)
	if rate <= e.thresholds.MaxDuplicateRate {
		return
	}
	rec := Recommendation{
		ID:          e.nextID(),
		Priority:    Low,
		Category:    CategoryDataQuality,
		Title:       "Elevated Duplicate Rate",
		Description: "The produced dataset contains more duplicate records than expected for normal generation.",
		RootCauses: []RootCause{{
			Description: "duplicate_payment anomaly injection rate is higher than intended, or master-data pools are undersized relative to volume",
			Evidence:    []string{fmt.Sprintf("duplicate rate %.2f%% (threshold %.2f%%)", rate*100, e.thresholds.MaxDuplicateRate*100)},
			Confidence:  0.6,
		}},
		Actions: []SuggestedAction{{
			Description:    "lower the duplicate_payment anomaly weight",
			ConfigPath:     "anomaly.type_weights.duplicate_payment",
			SuggestedValue: "0.05",
			AutoApplicable: true,
			Effort:         "Low",
		}},
		AffectedMetrics:     []string{"duplicate_rate"},
		ExpectedImprovement: fmt.Sprintf("duplicate rate at or below %.2f%%", e.thresholds.MaxDuplicateRate*100),
	}
	report.add(rec)
}

func priorityForOrphanRate(rate float64) Priority {
	switch {
	case rate >= 0.25:
		return Critical
	case rate >= 0.10:
		return High
	default:
		return Medium
	}
}

func (e *Engine) finalize(report *Report) {
	sort.SliceStable(report.Recommendations, func(i, j int) bool {
		return report.Recommendations[i].Priority < report.Recommendations[j].Priority
	})

	critical := float64(report.PrioritySummary[Critical])
	high := float64(report.PrioritySummary[High])
	medium := float64(report.PrioritySummary[Medium])
	penalty := critical*0.3 + high*0.1 + medium*0.02
	report.HealthScore = 1.0 - penalty
	if report.HealthScore < 0 {
		report.HealthScore = 0
	}

	for _, rec := range report.Recommendations {
		if len(report.TopIssues) >= 5 {
			break
		}
		if rec.Priority == Critical || rec.Priority == High {
			report.TopIssues = append(report.TopIssues, rec.Title)
		}
	}

	for _, rec := range report.Recommendations {
		if len(report.QuickWins) >= 5 {
			break
		}
		for _, a := range rec.Actions {
			if a.AutoApplicable {
				report.QuickWins = append(report.QuickWins, rec.Title)
				break
			}
		}
	}
}
