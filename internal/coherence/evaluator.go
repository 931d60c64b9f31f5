// Package coherence implements the multi-table coherence evaluator (C8):
// referential-integrity checking across declared table relationships and
// bounded-reach cascade analysis of injected anomalies, grounded on
// original_source's datasynth-eval/src/coherence/multi_table.rs.
package coherence

import "fmt"

// RelationshipKind classifies how a source table's rows reference a
// target table's rows.
type RelationshipKind string

const (
	OneToOne      RelationshipKind = "one-to-one"
	OneToMany     RelationshipKind = "one-to-many"
	ManyToMany    RelationshipKind = "many-to-many"
	Hierarchical  RelationshipKind = "hierarchical"
	DocumentFlow  RelationshipKind = "document-flow"
)

// TableRecord is one row of a logical table: a stable string id, a set
// of typed references to rows in other tables, an optional money
// amount, and an optional date (as a Unix day count, so the evaluator
// never depends on a timezone).
type TableRecord struct {
	ID         string
	References map[string]string // reference name -> target record id
	Amount     *float64
	Date       *int64 // days since epoch; nil if the table has no date field
}

// Relationship declares one source-table-to-target-table edge to check.
type Relationship struct {
	SourceTable     string
	TargetTable     string
	ReferenceField  string // key into TableRecord.References on the source row
	Kind            RelationshipKind
	ValidateAmounts bool
	ValidateDates   bool
}

// AnomalyRecord identifies one injected anomaly's origin, for cascade
// analysis: which table/record it started at and its monetary impact.
type AnomalyRecord struct {
	ID             string
	Table          string
	RecordID       string
	MonetaryImpact float64
}

// Dataset is the complete input to one evaluation: every logical table's
// rows, the relationships declared between them, and the anomalies to
// trace cascades from.
type Dataset struct {
	Tables        map[string][]TableRecord
	Relationships []Relationship
	Anomalies     []AnomalyRecord
}

// ViolationType enumerates the kinds of consistency violation a
// relationship check can produce.
type ViolationType string

const (
	ViolationMissingReference ViolationType = "MissingReference"
	ViolationAmountMismatch   ViolationType = "AmountMismatch"
	ViolationDateInversion    ViolationType = "DateInversion"
	ViolationOrphanedTarget   ViolationType = "OrphanedTarget"
)

// Violation is one concrete consistency defect found while checking a
// relationship.
type Violation struct {
	Type           ViolationType
	SourceTable    string
	TargetTable    string
	SourceRecordID string
	TargetRecordID string
	Detail         string
}

// TableConsistencyResult is one relationship's evaluation outcome.
type TableConsistencyResult struct {
	SourceTable      string
	TargetTable      string
	Matching         int
	Mismatched       int
	OrphanedSource   int
	OrphanedTarget   int
	ConsistencyScore float64
	Violations       []Violation
}

// Evaluator checks a Dataset against configured pass/fail thresholds.
type Evaluator struct {
	MinConsistencyScore float64
	MaxOrphanRate       float64
	MaxCascadeDepth      int
	AmountTolerance      float64
}

// NewEvaluator builds an Evaluator with spec.md §4.8's defaults
// (min_consistency_score=0.95, max_orphan_rate=0.10, max_cascade_depth=5).
func NewEvaluator() *Evaluator {
	return &Evaluator{
		MinConsistencyScore: 0.95,
		MaxOrphanRate:       0.10,
		MaxCascadeDepth:     5,
		AmountTolerance:     0.01,
	}
}

// Evaluation is the full report produced by Evaluate.
type Evaluation struct {
	TableConsistency       []TableConsistencyResult
	CascadeAnalysis        []CascadePath
	OverallConsistencyScore float64
	TotalViolations        int
	Passes                 bool
	Issues                 []string
}

// Evaluate checks every declared relationship, then runs cascade
// analysis over the dataset's anomalies, and aggregates both into a
// single pass/fail Evaluation.
func (e *Evaluator) Evaluate(ds Dataset) Evaluation {
	var eval Evaluation

	var sumMatching, sumChecked int
	for _, rel := range ds.Relationships {
		result := e.evaluateRelationship(ds, rel)
		eval.TableConsistency = append(eval.TableConsistency, result)
		eval.TotalViolations += len(result.Violations)

		sumMatching += result.Matching
		sumChecked += result.Matching + result.Mismatched + result.OrphanedSource

		if result.ConsistencyScore < e.MinConsistencyScore {
			eval.Issues = append(eval.Issues, fmt.Sprintf(
				"relationship %s->%s consistency_score %.4f below minimum %.4f",
				rel.SourceTable, rel.TargetTable, result.ConsistencyScore, e.MinConsistencyScore))
		}

		total := result.Matching + result.Mismatched + result.OrphanedSource
		if total > 0 {
			orphanRate := float64(result.OrphanedSource) / float64(total)
			if orphanRate > e.MaxOrphanRate {
				eval.Issues = append(eval.Issues, fmt.Sprintf(
					"relationship %s->%s orphan rate %.4f exceeds maximum %.4f",
					rel.SourceTable, rel.TargetTable, orphanRate, e.MaxOrphanRate))
			}
		}
	}

	if sumChecked > 0 {
		eval.OverallConsistencyScore = float64(sumMatching) / float64(sumChecked)
	} else {
		eval.OverallConsistencyScore = 1.0
	}

	eval.CascadeAnalysis = e.analyzeCascades(ds)
	for _, path := range eval.CascadeAnalysis {
		if path.Depth > 3 {
			eval.Issues = append(eval.Issues, fmt.Sprintf(
				"anomaly %s cascade depth %d exceeds advisory threshold 3", path.AnomalyID, path.Depth))
		}
	}

	eval.Passes = len(eval.Issues) == 0 && eval.OverallConsistencyScore >= e.MinConsistencyScore
	return eval
}

func (e *Evaluator) evaluateRelationship(ds Dataset, rel Relationship) TableConsistencyResult {
	result := TableConsistencyResult{SourceTable: rel.SourceTable, TargetTable: rel.TargetTable}

	targets := ds.Tables[rel.TargetTable]
	targetByID := make(map[string]*TableRecord, len(targets))
	referenced := make(map[string]bool, len(targets))
	for i := range targets {
		targetByID[targets[i].ID] = &targets[i]
	}

	sources := ds.Tables[rel.SourceTable]
	for i := range sources {
		src := &sources[i]
		targetID, ok := src.References[rel.ReferenceField]
		if !ok || targetID == "" {
			continue
		}
		target, found := targetByID[targetID]
		if !found {
			result.OrphanedSource++
			result.Violations = append(result.Violations, Violation{
				Type:           ViolationMissingReference,
				SourceTable:    rel.SourceTable,
				TargetTable:    rel.TargetTable,
				SourceRecordID: src.ID,
				TargetRecordID: targetID,
				Detail:         "referenced record not found",
			})
			continue
		}
		referenced[targetID] = true

		ok = true
		if rel.ValidateAmounts && src.Amount != nil && target.Amount != nil {
			diff := *src.Amount - *target.Amount
			if diff < 0 {
				diff = -diff
			}
			if diff > e.AmountTolerance {
				ok = false
				result.Violations = append(result.Violations, Violation{
					Type:           ViolationAmountMismatch,
					SourceTable:    rel.SourceTable,
					TargetTable:    rel.TargetTable,
					SourceRecordID: src.ID,
					TargetRecordID: target.ID,
					Detail:         fmt.Sprintf("amount differs by %.4f", diff),
				})
			}
		}
		if rel.ValidateDates && rel.Kind == DocumentFlow && src.Date != nil && target.Date != nil {
			if *src.Date < *target.Date {
				ok = false
				result.Violations = append(result.Violations, Violation{
					Type:           ViolationDateInversion,
					SourceTable:    rel.SourceTable,
					TargetTable:    rel.TargetTable,
					SourceRecordID: src.ID,
					TargetRecordID: target.ID,
					Detail:         "source date precedes referenced target date",
				})
			}
		}

		if ok {
			result.Matching++
		} else {
			result.Mismatched++
		}
	}

	for i := range targets {
		if !referenced[targets[i].ID] {
			result.OrphanedTarget++
		}
	}

	denom := result.Matching + result.Mismatched + result.OrphanedSource
	if denom == 0 {
		result.ConsistencyScore = 1.0
	} else {
		result.ConsistencyScore = float64(result.Matching) / float64(denom)
	}
	return result
}
