// Package journal implements the journal-entry generator (C5): the
// hardest single component, emitting balanced double-entry documents
// via the decision pipeline in spec.md §4.5.
package journal

import (
	"time"

	"github.com/ledgerforge/datasynth/internal/money"
)

// Source classifies how a document entered the ledger.
type Source int

const (
	SourceManual Source = iota
	SourceAutomated
	SourceRecurring
	SourceAdjustment
)

// BusinessProcess is the top-level activity classification on a document.
type BusinessProcess int

const (
	ProcessO2C BusinessProcess = iota
	ProcessP2P
	ProcessR2R
	ProcessH2R
	ProcessA2R
	ProcessTreasury
	ProcessTax
	ProcessIntercompany
)

// FraudType enumerates the closed set of fraud patterns a document
// may be flagged with, per spec.md §4.6/§6.
type FraudType int

const (
	FraudNone FraudType = iota
	FraudSuspenseAccountAbuse
	FraudFictitiousTransaction
	FraudRevenueManipulation
	FraudExpenseCapitalization
	FraudSplitTransaction
	FraudTimingAnomaly
	FraudDuplicatePayment
	FraudUnauthorizedAccess
)

// HumanErrorKind enumerates the closed set of persona-error mutations,
// per spec.md §4.5 step 17.
type HumanErrorKind int

const (
	ErrorNone HumanErrorKind = iota
	ErrorTransposition
	ErrorDecimalShift
	ErrorTypo
	ErrorRounded
	ErrorLatePosting
)

func (k HumanErrorKind) Tag() string {
	switch k {
	case ErrorTransposition:
		return "[HUMAN_ERROR:TRANSPOSITION]"
	case ErrorDecimalShift:
		return "[HUMAN_ERROR:DECIMAL_SHIFT]"
	case ErrorTypo:
		return "[HUMAN_ERROR:TYPO]"
	case ErrorRounded:
		return "[HUMAN_ERROR:ROUNDED]"
	case ErrorLatePosting:
		return "[HUMAN_ERROR:LATE_POSTING]"
	default:
		return ""
	}
}

// Line is one line of a journal document. Exactly one of DebitAmount
// and CreditAmount is non-zero for primary lines, per spec.md §3.
type Line struct {
	LineNumber   int
	AccountNumber string
	DebitAmount  money.Money
	CreditAmount money.Money
	CostCenter   string
	ProfitCenter string
	LineText     string
}

// ApprovalStep is one level of a simulated approval workflow.
type ApprovalStep struct {
	Level       int
	ApproverID  string
	RequestedAt time.Time
	DecidedAt   time.Time
	Approved    bool
}

// Header carries all document-level fields, per spec.md §3.
type Header struct {
	DocumentID       string
	CompanyCode      string
	PostingDate      time.Time
	DocumentDate     time.Time
	FiscalYear       int
	FiscalPeriod     int
	Source           Source
	BusinessProcess  BusinessProcess
	CreatedBy        string
	UserPersona      string
	HeaderText       string
	Reference        string
	ApprovalWorkflow []ApprovalStep
	FraudFlag        bool
	FraudType        FraudType
	SOXRelevant      bool
	RiskScore        float64 // supplemented field, see risk.go
}

// Document is the full balanced (or intentionally-flagged) journal document.
type Document struct {
	Header Header
	Lines  []Line
}

// SumDebits returns the sum of all debit amounts.
func (d Document) SumDebits() money.Money {
	total := money.Zero()
	for _, l := range d.Lines {
		total = total.Add(l.DebitAmount)
	}
	return total
}

// SumCredits returns the sum of all credit amounts.
func (d Document) SumCredits() money.Money {
	total := money.Zero()
	for _, l := range d.Lines {
		total = total.Add(l.CreditAmount)
	}
	return total
}

// Balances reports whether debits equal credits exactly, per spec.md
// §3/§8's universal balance invariant.
func (d Document) Balances() bool {
	return d.SumDebits().Cmp(d.SumCredits()) == 0
}
