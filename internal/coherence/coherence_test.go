package coherence

import "testing"

func amountPtr(v float64) *float64 { return &v }
func datePtr(v int64) *int64       { return &v }

func TestEvaluateNoViolationsScoresOne(t *testing.T) {
	ds := Dataset{
		Tables: map[string][]TableRecord{
			"goods_receipt": {
				{ID: "GR1", References: map[string]string{"purchase_order_id": "PO1"}, Date: datePtr(10)},
			},
			"purchase_order": {
				{ID: "PO1", Date: datePtr(5)},
			},
		},
		Relationships: []Relationship{
			{SourceTable: "goods_receipt", TargetTable: "purchase_order", ReferenceField: "purchase_order_id", Kind: DocumentFlow, ValidateDates: true},
		},
	}

	eval := NewEvaluator().Evaluate(ds)
	if eval.OverallConsistencyScore != 1.0 {
		t.Fatalf("expected overall score 1.0, got %f", eval.OverallConsistencyScore)
	}
	if !eval.Passes {
		t.Fatalf("expected evaluation to pass, issues=%v", eval.Issues)
	}
	if eval.TotalViolations != 0 {
		t.Fatalf("expected 0 violations, got %d", eval.TotalViolations)
	}
}

func TestEvaluateMissingReferenceFails(t *testing.T) {
	ds := Dataset{
		Tables: map[string][]TableRecord{
			"vendor_invoice": {
				{ID: "VI1", References: map[string]string{"goods_receipt_id": "GR-NONEXISTENT"}},
			},
			"goods_receipt": {},
		},
		Relationships: []Relationship{
			{SourceTable: "vendor_invoice", TargetTable: "goods_receipt", ReferenceField: "goods_receipt_id", Kind: DocumentFlow},
		},
	}

	eval := NewEvaluator().Evaluate(ds)
	if len(eval.TableConsistency) != 1 {
		t.Fatalf("expected 1 relationship result, got %d", len(eval.TableConsistency))
	}
	result := eval.TableConsistency[0]
	if result.ConsistencyScore != 0.0 {
		t.Fatalf("expected consistency_score 0.0, got %f", result.ConsistencyScore)
	}
	if len(result.Violations) != 1 || result.Violations[0].Type != ViolationMissingReference {
		t.Fatalf("expected exactly 1 MissingReference violation, got %+v", result.Violations)
	}
	if eval.Passes {
		t.Fatalf("expected evaluation to fail")
	}
}

func TestEvaluateAmountMismatchDetected(t *testing.T) {
	ds := Dataset{
		Tables: map[string][]TableRecord{
			"payment": {
				{ID: "PAY1", References: map[string]string{"vendor_invoice_id": "VI1"}, Amount: amountPtr(100.00)},
			},
			"vendor_invoice": {
				{ID: "VI1", Amount: amountPtr(150.00)},
			},
		},
		Relationships: []Relationship{
			{SourceTable: "payment", TargetTable: "vendor_invoice", ReferenceField: "vendor_invoice_id", Kind: DocumentFlow, ValidateAmounts: true},
		},
	}

	eval := NewEvaluator().Evaluate(ds)
	result := eval.TableConsistency[0]
	if result.Mismatched != 1 {
		t.Fatalf("expected 1 mismatch, got %d", result.Mismatched)
	}
	if result.Violations[0].Type != ViolationAmountMismatch {
		t.Fatalf("expected AmountMismatch violation, got %s", result.Violations[0].Type)
	}
}

func TestCascadeAnalysisDepthZeroForIsolatedAnomaly(t *testing.T) {
	ds := Dataset{
		Tables: map[string][]TableRecord{
			"vendor_invoice": {{ID: "VI1"}},
		},
		Anomalies: []AnomalyRecord{
			{ID: "A1", Table: "vendor_invoice", RecordID: "VI1", MonetaryImpact: 500},
		},
	}

	eval := NewEvaluator().Evaluate(ds)
	if len(eval.CascadeAnalysis) != 1 {
		t.Fatalf("expected 1 cascade path, got %d", len(eval.CascadeAnalysis))
	}
	path := eval.CascadeAnalysis[0]
	if path.Depth != 0 {
		t.Fatalf("expected depth 0 for an isolated record, got %d", path.Depth)
	}
	if path.RecordsAffected != 1 {
		t.Fatalf("expected 1 record affected, got %d", path.RecordsAffected)
	}
}

func TestCascadeAnalysisTraversesForwardAndReverse(t *testing.T) {
	ds := Dataset{
		Tables: map[string][]TableRecord{
			"purchase_order": {{ID: "PO1"}},
			"goods_receipt":  {{ID: "GR1", References: map[string]string{"purchase_order_id": "PO1"}}},
			"vendor_invoice": {{ID: "VI1", References: map[string]string{"goods_receipt_id": "GR1"}}},
			"payment":        {{ID: "PAY1", References: map[string]string{"vendor_invoice_id": "VI1"}}},
		},
		Relationships: DefaultP2PRelationships(),
		Anomalies: []AnomalyRecord{
			{ID: "A1", Table: "goods_receipt", RecordID: "GR1", MonetaryImpact: 1000},
		},
	}

	eval := NewEvaluator().Evaluate(ds)
	path := eval.CascadeAnalysis[0]
	if path.RecordsAffected < 3 {
		t.Fatalf("expected cascade to reach at least 3 records, got %d", path.RecordsAffected)
	}
	seen := map[string]bool{}
	for _, tbl := range path.AffectedTables {
		seen[tbl] = true
	}
	if !seen["purchase_order"] || !seen["vendor_invoice"] {
		t.Fatalf("expected cascade to reach purchase_order and vendor_invoice, got %v", path.AffectedTables)
	}
}

func TestDeriveFindingsAndAnnotateAreDeterministic(t *testing.T) {
	ds := Dataset{
		Tables: map[string][]TableRecord{
			"vendor_invoice": {
				{ID: "VI1", References: map[string]string{"goods_receipt_id": "GR-MISSING"}},
			},
			"goods_receipt": {},
		},
		Relationships: []Relationship{
			{SourceTable: "vendor_invoice", TargetTable: "goods_receipt", ReferenceField: "goods_receipt_id", Kind: DocumentFlow},
		},
	}

	eval := NewEvaluator().Evaluate(ds)
	findings := DeriveFindings(eval)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Severity != SeverityMaterialWeakness {
		t.Fatalf("expected material_weakness severity, got %s", findings[0].Severity)
	}

	j1 := AnnotateFindings(findings, 7)
	j2 := AnnotateFindings(findings, 7)
	if len(j1) != 1 || len(j2) != 1 {
		t.Fatalf("expected 1 judgment per run")
	}
	if j1[0].Conclusion != j2[0].Conclusion {
		t.Fatalf("expected deterministic conclusion for identical seed")
	}
}
