package coherence

import (
	"fmt"

	"github.com/ledgerforge/datasynth/internal/ids"
)

// JudgmentType classifies the kind of professional judgment documented
// for a finding, grounded on original_source's judgment_generator.rs
// (ProfessionalJudgment/JudgmentType), adapted here to annotate
// coherence findings rather than a standalone engagement record.
type JudgmentType string

const (
	JudgmentMateriality    JudgmentType = "materiality"
	JudgmentRiskAssessment JudgmentType = "risk_assessment"
	JudgmentSampling       JudgmentType = "sampling_adequacy"
	JudgmentEstimate       JudgmentType = "accounting_estimate"
)

// Alternative is one considered-and-rejected (or accepted) explanation
// for a finding, per ISA 200 documented-skepticism practice.
type Alternative struct {
	Description string
	Accepted    bool
	Rationale   string
}

// Judgment documents the professional skepticism applied in concluding
// on a Finding: the alternatives considered, the residual risk
// judgment, and a conclusion with rationale.
type Judgment struct {
	Ref            string
	FindingID      string
	Type           JudgmentType
	Alternatives   []Alternative
	Conclusion     string
	Rationale      string
	ResidualRisk   string
}

// AnnotateFindings attaches a deterministic Judgment to each finding,
// choosing judgment type by severity and enumerating two alternative
// explanations (data issue vs. control gap) before concluding, mirroring
// the alternatives-then-conclusion shape of ProfessionalJudgment
// generation without requiring an engagement/workpaper model this
// module has no other use for.
func AnnotateFindings(findings []Finding, seed uint64) []Judgment {
	rng := ids.NewStream(seed)
	judgments := make([]Judgment, 0, len(findings))

	for i, f := range findings {
		jtype := judgmentTypeFor(f.Severity)
		dataIssueAccepted := rng.Bool(0.5)

		alternatives := []Alternative{
			{
				Description: "the underlying data generation introduced the inconsistency (data issue)",
				Accepted:    dataIssueAccepted,
				Rationale:   "consistent with the violation pattern and affected record count",
			},
			{
				Description: "a control gap in the originating process allowed the inconsistency (control deficiency)",
				Accepted:    !dataIssueAccepted,
				Rationale:   "consistent with the finding's criteria not being enforced at source",
			},
		}

		conclusion := "data issue: recommend targeted reconciliation"
		if !dataIssueAccepted {
			conclusion = "control deficiency: recommend process-level remediation"
		}

		judgments = append(judgments, Judgment{
			Ref:          fmt.Sprintf("JDG-%04d", i+1),
			FindingID:    f.ID,
			Type:         jtype,
			Alternatives: alternatives,
			Conclusion:   conclusion,
			Rationale:    fmt.Sprintf("based on %d violation(s) between %s and %s", f.ViolationCount, f.SourceTable, f.TargetTable),
			ResidualRisk: residualRiskFor(f.Severity),
		})
	}

	return judgments
}

func judgmentTypeFor(severity FindingSeverity) JudgmentType {
	switch severity {
	case SeverityMaterialWeakness:
		return JudgmentMateriality
	case SeveritySignificantDeficiency:
		return JudgmentRiskAssessment
	case SeverityControlDeficiency:
		return JudgmentSampling
	default:
		return JudgmentEstimate
	}
}

func residualRiskFor(severity FindingSeverity) string {
	switch severity {
	case SeverityMaterialWeakness:
		return "high"
	case SeveritySignificantDeficiency:
		return "moderate"
	case SeverityControlDeficiency:
		return "low"
	default:
		return "low"
	}
}
