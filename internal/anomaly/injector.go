package anomaly

import (
	"fmt"

	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/journal"
	"github.com/ledgerforge/datasynth/internal/money"
	"github.com/ledgerforge/datasynth/internal/sampling"
)

// anomalyKind is the closed set of C6 rewrite types, per spec.md §4.6.
type anomalyKind int

const (
	kindSuspenseAccountAbuse anomalyKind = iota
	kindFictitiousTransaction
	kindRevenueManipulation
	kindExpenseCapitalization
	kindSplitTransaction
	kindTimingAnomaly
	kindDuplicatePayment
	kindUnauthorizedAccess
)

func (k anomalyKind) name() string {
	switch k {
	case kindSuspenseAccountAbuse:
		return "suspense_account_abuse"
	case kindFictitiousTransaction:
		return "fictitious_transaction"
	case kindRevenueManipulation:
		return "revenue_manipulation"
	case kindExpenseCapitalization:
		return "expense_capitalization"
	case kindSplitTransaction:
		return "split_transaction"
	case kindTimingAnomaly:
		return "timing_anomaly"
	case kindDuplicatePayment:
		return "duplicate_payment"
	default:
		return "unauthorized_access"
	}
}

func (k anomalyKind) category() Category {
	switch k {
	case kindSuspenseAccountAbuse:
		return CategoryAccountMisuse
	case kindFictitiousTransaction:
		return CategoryFictitiousEntity
	case kindRevenueManipulation, kindExpenseCapitalization:
		return CategoryMisstatement
	case kindSplitTransaction:
		return CategoryStructuring
	case kindTimingAnomaly:
		return CategoryTiming
	case kindDuplicatePayment:
		return CategoryDuplication
	default:
		return CategoryAccessControl
	}
}

// Config parameterizes the injector, per spec.md §4.6/§6.
type Config struct {
	TotalRate          float64
	TypeWeights        map[string]float64 // keyed by anomalyKind.name(); defaults to uniform
	SuspenseAccount    string
	ApprovalThreshold  money.Money // not read by the injector; split_transaction uses Thresholds
	Thresholds         []money.Money
	UnauthorizedUserID string
}

// Injector applies the selected rewrites over an ordered document
// stream and produces the corresponding label ledger entries.
type Injector struct {
	cfg Config
	idf *ids.IDFactory
	cat sampling.Categorical[anomalyKind]
}

// NewInjector builds an injector over cfg.
func NewInjector(idf *ids.IDFactory, cfg Config) *Injector {
	kinds := []anomalyKind{
		kindSuspenseAccountAbuse, kindFictitiousTransaction, kindRevenueManipulation,
		kindExpenseCapitalization, kindSplitTransaction, kindTimingAnomaly,
		kindDuplicatePayment, kindUnauthorizedAccess,
	}
	weights := make([]float64, len(kinds))
	for i, k := range kinds {
		if w, ok := cfg.TypeWeights[k.name()]; ok {
			weights[i] = w
		} else {
			weights[i] = 1
		}
	}
	return &Injector{cfg: cfg, idf: idf, cat: sampling.NewCategorical(kinds, weights)}
}

// Inject walks docs in order and, per configured TotalRate, selects
// ~rate*N documents by type-weighted multinomial for rewrite. Returns
// the resulting document set (possibly larger than the input, since
// split_transaction replaces one document with several) and the
// ground-truth label for every rewrite performed.
func (inj *Injector) Inject(docs []journal.Document, rng *ids.Stream) ([]journal.Document, []Label) {
	out := make([]journal.Document, 0, len(docs))
	var labels []Label

	for _, doc := range docs {
		if !rng.Bool(inj.cfg.TotalRate) {
			out = append(out, doc)
			continue
		}
		kind := inj.cat.Sample(rng)
		rewritten, replacement, label := inj.rewrite(kind, doc, rng)
		if replacement != nil {
			out = append(out, replacement...)
		} else {
			out = append(out, rewritten)
		}
		labels = append(labels, label)
	}
	return out, labels
}

func (inj *Injector) rewrite(kind anomalyKind, doc journal.Document, rng *ids.Stream) (journal.Document, []journal.Document, Label) {
	labelID := inj.idf.Next(ids.KindAnomalyLabel).String()
	severity := severityFor(kind, doc)
	label := Label{
		LabelID:            labelID,
		TargetDocumentID:   doc.Header.DocumentID,
		AnomalyType:        kind.name(),
		Category:           kind.category(),
		Severity:           severity,
		InjectionTimestamp: doc.Header.PostingDate,
	}

	switch kind {
	case kindSuspenseAccountAbuse:
		account := inj.cfg.SuspenseAccount
		if account == "" {
			account = "199999"
		}
		if len(doc.Lines) > 0 {
			idx := rng.IntRange(0, len(doc.Lines)-1)
			doc.Lines[idx].AccountNumber = account
		}
		label.Description = fmt.Sprintf("line reassigned to suspense account %s", account)
		return doc, nil, label

	case kindFictitiousTransaction:
		doc.Header.HeaderText = doc.Header.HeaderText + " [FICTITIOUS_COUNTERPARTY]"
		for i := range doc.Lines {
			doc.Lines[i].LineText = "Synthetic Entity Corp"
		}
		label.Description = "counterparty substituted with a synthetic entity absent from master data"
		return doc, nil, label

	case kindRevenueManipulation:
		for i := range doc.Lines {
			if !doc.Lines[i].CreditAmount.IsZero() {
				inflated := doc.Lines[i].CreditAmount.MulFrac(115, 100)
				delta := inflated.Sub(doc.Lines[i].CreditAmount)
				doc.Lines[i].CreditAmount = inflated
				rebalanceAsset(&doc, delta)
				break
			}
		}
		label.Description = "revenue line inflated, rebalanced on the asset side"
		return doc, nil, label

	case kindExpenseCapitalization:
		for i := range doc.Lines {
			if !doc.Lines[i].DebitAmount.IsZero() {
				doc.Lines[i].AccountNumber = "150000" // capital-asset account
				break
			}
		}
		label.Description = "expense debit moved to a capital-asset account"
		return doc, nil, label

	case kindSplitTransaction:
		splits := splitBelowThreshold(doc, inj.cfg.Thresholds, inj.idf, rng)
		// The original document is replaced by its parts, so the label
		// points at the first part rather than the removed original.
		label.TargetDocumentID = splits[0].Header.DocumentID
		label.Description = fmt.Sprintf("document split into %d parts each below the smallest configured threshold", len(splits))
		return doc, splits, label

	case kindTimingAnomaly:
		doc.Header.PostingDate = doc.Header.PostingDate.AddDate(0, 1, 0)
		label.Description = "posting date shifted across a period boundary"
		return doc, nil, label

	case kindDuplicatePayment:
		dup := doc
		dup.Header.DocumentID = inj.idf.Next(ids.KindJournalDocument).String()
		dup.Header.PostingDate = doc.Header.PostingDate.AddDate(0, 0, rng.IntRange(0, 2))
		label.Description = "near-identical document emitted a second time with a small jitter"
		return doc, []journal.Document{doc, dup}, label

	default: // kindUnauthorizedAccess
		user := inj.cfg.UnauthorizedUserID
		if user == "" {
			user = "unknown-external-user"
		}
		doc.Header.CreatedBy = user
		label.Description = fmt.Sprintf("created_by set to %s, not authorized for company %s", user, doc.Header.CompanyCode)
		return doc, nil, label
	}
}

func rebalanceAsset(doc *journal.Document, delta money.Money) {
	for i := range doc.Lines {
		if !doc.Lines[i].DebitAmount.IsZero() {
			doc.Lines[i].DebitAmount = doc.Lines[i].DebitAmount.Add(delta)
			return
		}
	}
}

// splitBelowThreshold splits doc into k>1 smaller documents whose
// amounts sum to the original and each fall strictly below the
// smallest configured approval threshold above the original amount's
// band, per spec.md §8 scenario 4.
func splitBelowThreshold(doc journal.Document, thresholds []money.Money, idf *ids.IDFactory, rng *ids.Stream) []journal.Document {
	total := doc.SumDebits()
	limit := smallestThresholdAbove(total, thresholds)

	k := 2
	if limit.Sign() > 0 {
		for {
			if total.MulFrac(1, int64(k)).Cmp(limit) < 0 || k >= 8 {
				break
			}
			k++
		}
	}
	weights := make([]float64, k)
	for i := range weights {
		weights[i] = 0.8 + rng.Float64()*0.4
	}
	parts := money.SumExactlyTo(total, weights)

	docs := make([]journal.Document, 0, k)
	for i, part := range parts {
		d := doc
		d.Header.DocumentID = idf.Next(ids.KindJournalDocument).String()
		d.Lines = []journal.Line{
			{LineNumber: 1, AccountNumber: firstDebitAccount(doc), DebitAmount: part, CreditAmount: money.Zero()},
			{LineNumber: 2, AccountNumber: firstCreditAccount(doc), DebitAmount: money.Zero(), CreditAmount: part},
		}
		d.Header.HeaderText = fmt.Sprintf("%s [SPLIT %d/%d]", doc.Header.HeaderText, i+1, k)
		docs = append(docs, d)
	}
	return docs
}

func smallestThresholdAbove(amount money.Money, thresholds []money.Money) money.Money {
	for _, t := range thresholds {
		if amount.Cmp(t) < 0 {
			return t
		}
	}
	if len(thresholds) > 0 {
		return thresholds[0]
	}
	return money.FromInt(1000)
}

func firstDebitAccount(doc journal.Document) string {
	for _, l := range doc.Lines {
		if !l.DebitAmount.IsZero() {
			return l.AccountNumber
		}
	}
	return "100000"
}

func firstCreditAccount(doc journal.Document) string {
	for _, l := range doc.Lines {
		if !l.CreditAmount.IsZero() {
			return l.AccountNumber
		}
	}
	return "200000"
}

func severityFor(kind anomalyKind, doc journal.Document) int {
	base := 2
	switch kind {
	case kindUnauthorizedAccess, kindFictitiousTransaction:
		base = 4
	case kindSplitTransaction, kindDuplicatePayment:
		base = 3
	}
	if doc.Header.SOXRelevant {
		base++
	}
	if base < 1 {
		base = 1
	}
	if base > 5 {
		base = 5
	}
	return base
}
