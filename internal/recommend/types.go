// Package recommend implements the recommendation engine (C10): it
// consumes the statistical, coherence, and quality sections of a
// completed evaluation and produces a prioritized, actionable report,
// grounded on original_source's
// datasynth-eval/src/enhancement/recommendation_engine.rs.
package recommend

// Priority orders recommendations from most to least urgent.
type Priority int

const (
	Critical Priority = iota
	High
	Medium
	Low
	Info
)

func (p Priority) String() string {
	switch p {
	case Critical:
		return "Critical"
	case High:
		return "High"
	case Medium:
		return "Medium"
	case Low:
		return "Low"
	default:
		return "Info"
	}
}

// Category groups recommendations by the subsystem they address.
type Category string

const (
	CategoryStatistical    Category = "Statistical Quality"
	CategoryCoherence      Category = "Data Coherence"
	CategoryDataQuality    Category = "Data Quality"
	CategoryConfiguration  Category = "Configuration"
)

// RootCause documents one hypothesis for why an issue occurred, with
// supporting evidence and a confidence level.
type RootCause struct {
	Description string
	Explanation string
	Evidence    []string
	Confidence  float64
}

// SuggestedAction is one concrete remediation step, optionally
// auto-applicable as a config change.
type SuggestedAction struct {
	Description    string
	ConfigPath     string
	SuggestedValue string
	AutoApplicable bool
	Effort         string // "Low", "Medium", "High"
}

// Recommendation is one prioritized, actionable finding in the report.
type Recommendation struct {
	ID                 string
	Priority           Priority
	Category           Category
	Title              string
	Description        string
	RootCauses         []RootCause
	Actions            []SuggestedAction
	AffectedMetrics    []string
	ExpectedImprovement string
}

// Report is the finalized set of recommendations plus summary
// statistics, produced by Engine.GenerateReport.
type Report struct {
	Recommendations []Recommendation
	CategorySummary map[Category]int
	PrioritySummary map[Priority]int
	HealthScore     float64
	TopIssues       []string
	QuickWins       []string
}

// ByCategory filters the report's recommendations.
func (r *Report) ByCategory(cat Category) []Recommendation {
	var out []Recommendation
	for _, rec := range r.Recommendations {
		if rec.Category == cat {
			out = append(out, rec)
		}
	}
	return out
}

// ByPriority filters the report's recommendations.
func (r *Report) ByPriority(p Priority) []Recommendation {
	var out []Recommendation
	for _, rec := range r.Recommendations {
		if rec.Priority == p {
			out = append(out, rec)
		}
	}
	return out
}

// HasCriticalIssues reports whether any Critical-priority
// recommendation was produced.
func (r *Report) HasCriticalIssues() bool {
	return r.PrioritySummary[Critical] > 0
}
