package coherence

import "fmt"

// FindingSeverity mirrors the condition/criteria/cause/effect severity
// scale used in original_source's audit finding_generator.rs, applied
// here to coherence violations rather than a standalone engagement model.
type FindingSeverity string

const (
	SeverityMaterialWeakness     FindingSeverity = "material_weakness"
	SeveritySignificantDeficiency FindingSeverity = "significant_deficiency"
	SeverityControlDeficiency    FindingSeverity = "control_deficiency"
	SeverityObservation          FindingSeverity = "observation"
)

// Finding is an ISA 265-shaped audit finding derived from one or more
// coherence violations: a condition (what was observed), criteria
// (what should hold), cause, effect, and a recommendation.
type Finding struct {
	ID             string
	Severity       FindingSeverity
	Condition      string
	Criteria       string
	Cause          string
	Effect         string
	Recommendation string
	SourceTable    string
	TargetTable    string
	ViolationCount int
}

// DeriveFindings aggregates an Evaluation's violations (grouped by
// relationship and violation type) into audit findings. Cascade paths
// with depth above the advisory threshold each produce their own
// finding, since a deep cascade is itself a control-design concern
// distinct from the originating violation.
func DeriveFindings(eval Evaluation) []Finding {
	var findings []Finding
	counter := 0

	for _, result := range eval.TableConsistency {
		byType := make(map[ViolationType]int)
		for _, v := range result.Violations {
			byType[v.Type]++
		}
		for vtype, count := range byType {
			counter++
			findings = append(findings, findingFor(counter, result.SourceTable, result.TargetTable, vtype, count, result.ConsistencyScore))
		}
	}

	for _, path := range eval.CascadeAnalysis {
		if path.Depth <= 3 {
			continue
		}
		counter++
		findings = append(findings, Finding{
			ID:        fmt.Sprintf("FIND-%04d", counter),
			Severity:  SeveritySignificantDeficiency,
			Condition: fmt.Sprintf("anomaly %s cascaded to %d tables at depth %d", path.AnomalyID, len(path.AffectedTables), path.Depth),
			Criteria:  "anomaly effects should be contained to a small, predictable set of related tables",
			Cause:     "a tightly coupled reference graph propagates a single error across many downstream records",
			Effect:    fmt.Sprintf("%d records across %d tables require review", path.RecordsAffected, len(path.AffectedTables)),
			Recommendation: "review the reference graph for the affected tables and consider compensating controls at each hop",
		})
	}

	return findings
}

func findingFor(counter int, sourceTable, targetTable string, vtype ViolationType, count int, score float64) Finding {
	f := Finding{
		ID:             fmt.Sprintf("FIND-%04d", counter),
		SourceTable:    sourceTable,
		TargetTable:    targetTable,
		ViolationCount: count,
	}

	switch vtype {
	case ViolationMissingReference:
		f.Severity = SeverityMaterialWeakness
		f.Condition = fmt.Sprintf("%d records in %s reference a nonexistent %s record", count, sourceTable, targetTable)
		f.Criteria = fmt.Sprintf("every %s record must reference an extant %s record", sourceTable, targetTable)
		f.Cause = "upstream document was deleted, never generated, or the reference was recorded incorrectly"
		f.Effect = "downstream balances and aging reports derived from this relationship cannot be trusted"
		f.Recommendation = fmt.Sprintf("reconcile %s against %s and correct or remove orphaned references", sourceTable, targetTable)
	case ViolationAmountMismatch:
		f.Severity = SeveritySignificantDeficiency
		f.Condition = fmt.Sprintf("%d records in %s carry an amount inconsistent with the referenced %s record", count, sourceTable, targetTable)
		f.Criteria = "amounts on related records must agree within tolerance"
		f.Cause = "a partial fulfillment, rounding difference, or data-entry variance was not reconciled"
		f.Effect = "variance accounts accumulate unexplained balances"
		f.Recommendation = "review variance tolerance configuration and reconcile flagged pairs"
	case ViolationDateInversion:
		f.Severity = SeverityControlDeficiency
		f.Condition = fmt.Sprintf("%d records in %s post before their referenced %s record", count, sourceTable, targetTable)
		f.Criteria = "a downstream document in a document flow must date on or after its source"
		f.Cause = "backdated postings or clock skew between issuing processes"
		f.Effect = "aging and cutoff analysis for the affected period is unreliable"
		f.Recommendation = "enforce posting-date validation at document creation"
	default:
		f.Severity = SeverityObservation
		f.Condition = fmt.Sprintf("%d violations of type %s between %s and %s", count, vtype, sourceTable, targetTable)
		f.Criteria = "declared relationships should hold without exception"
		f.Cause = "see individual violation detail"
		f.Effect = fmt.Sprintf("relationship consistency score %.4f", score)
		f.Recommendation = "investigate individual violations"
	}
	return f
}
