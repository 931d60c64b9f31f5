package streaming

import "strings"

// Pattern is the closed set of named biases TriggerPattern accepts,
// per spec.md §4.9, plus a "custom:<free>" escape hatch.
type Pattern string

const (
	PatternYearEndSpike   Pattern = "year_end_spike"
	PatternPeriodEndSpike Pattern = "period_end_spike"
	PatternHolidayCluster Pattern = "holiday_cluster"
	PatternFraudCluster   Pattern = "fraud_cluster"
	PatternErrorCluster   Pattern = "error_cluster"
	PatternUniform        Pattern = "uniform"
)

// patternWindow is the number of subsequent generated entries a
// triggered pattern biases before reverting to baseline behavior.
const patternWindow = 50

// ParsePattern validates a TriggerPattern name against the whitelist
// or the "custom:" prefix, per spec.md §6's wire validation rule.
func ParsePattern(name string) (Pattern, bool) {
	if name == "" {
		return "", false
	}
	if strings.HasPrefix(name, "custom:") {
		return Pattern(name), true
	}
	switch Pattern(name) {
	case PatternYearEndSpike, PatternPeriodEndSpike, PatternHolidayCluster,
		PatternFraudCluster, PatternErrorCluster, PatternUniform:
		return Pattern(name), true
	default:
		return "", false
	}
}

// isDateBiasPattern reports whether a pattern overrides the posting
// date (year-end, period-end and holiday-cluster patterns).
func isDateBiasPattern(p Pattern) bool {
	switch p {
	case PatternYearEndSpike, PatternPeriodEndSpike, PatternHolidayCluster:
		return true
	default:
		return false
	}
}

func isFraudBiasPattern(p Pattern) bool {
	return p == PatternFraudCluster || p == PatternErrorCluster
}
