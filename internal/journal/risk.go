package journal

// RiskScore computes a per-document risk score in [0,1], a
// supplemented field grounded on
// original_source/crates/datasynth-generators/src/audit/risk_generator.rs:
// a combination of amount percentile, fraud-pattern presence, and
// approval-workflow absence. It is purely descriptive (not part of any
// balance invariant). The generator does not call it, so
// Header.RiskScore stays zero on generated documents, and neither the
// coherence evaluator nor the recommendation engine (C10) reads it.
func RiskScore(amountPercentile float64, fraudFlagged bool, hasApproval bool, requiresApproval bool) float64 {
	score := amountPercentile * 0.4
	if fraudFlagged {
		score += 0.4
	}
	if requiresApproval && !hasApproval {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}
