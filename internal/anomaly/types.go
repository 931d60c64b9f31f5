// Package anomaly implements the labeled anomaly injector (C6):
// rewrites a configured fraction of documents into typed fraud
// patterns and emits an append-only ground-truth label stream.
package anomaly

import "time"

// Category groups related anomaly types for reporting purposes.
type Category string

const (
	CategoryAccountMisuse    Category = "account_misuse"
	CategoryFictitiousEntity Category = "fictitious_entity"
	CategoryMisstatement     Category = "misstatement"
	CategoryStructuring      Category = "structuring"
	CategoryTiming           Category = "timing"
	CategoryDuplication      Category = "duplication"
	CategoryAccessControl    Category = "access_control"
)

// Label is one ground-truth anomaly record, per spec.md §3. Each
// injection emits exactly one label referencing exactly one primary
// document; cascade targets are tracked separately by C8.
type Label struct {
	LabelID           string
	TargetDocumentID  string
	AnomalyType       string
	Category          Category
	Severity          int // 1..5
	Description       string
	InjectionTimestamp time.Time
}
