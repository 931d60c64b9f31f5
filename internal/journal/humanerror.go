package journal

import (
	"strings"

	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/money"
	"github.com/ledgerforge/datasynth/internal/sampling"
)

// humanErrorKinds backs the categorical sampler selecting which kind
// of persona error to inject, per spec.md §4.5 step 17.
var humanErrorKinds = sampling.NewCategorical(
	[]HumanErrorKind{ErrorTransposition, ErrorDecimalShift, ErrorTypo, ErrorRounded, ErrorLatePosting},
	[]float64{0.25, 0.2, 0.2, 0.2, 0.15},
)

// ApplyHumanError mutates doc in place per the selected error kind.
// Per the Open Question resolution in DESIGN.md, every kind that
// touches an amount rebalances the opposite side by the same delta,
// so the balance invariant holds even on error documents (spec.md
// §4.5's "Balance invariant" clause and the mandated resolution of the
// DECIMAL_SHIFT inconsistency in the original source).
func ApplyHumanError(doc *Document, rng *ids.Stream) HumanErrorKind {
	kind := humanErrorKinds.Sample(rng)
	switch kind {
	case ErrorTransposition:
		applyTransposition(doc, rng)
	case ErrorDecimalShift:
		applyDecimalShift(doc, rng)
	case ErrorTypo:
		applyTypo(doc)
	case ErrorRounded:
		applyRounded(doc, rng)
	case ErrorLatePosting:
		applyLatePosting(doc, rng)
	}
	if tag := kind.Tag(); tag != "" {
		doc.Header.HeaderText = strings.TrimSpace(doc.Header.HeaderText + " " + tag)
	}
	return kind
}

// rebalanceOpposite adjusts the first available line on the opposite
// side of lineIdx by delta, preserving the document's balance
// invariant after an amount on one side was perturbed.
func rebalanceOpposite(doc *Document, lineIdx int, delta money.Money) {
	perturbed := doc.Lines[lineIdx]
	isDebitLine := !perturbed.DebitAmount.IsZero()
	for i := range doc.Lines {
		if i == lineIdx {
			continue
		}
		l := &doc.Lines[i]
		if isDebitLine && !l.CreditAmount.IsZero() {
			l.CreditAmount = l.CreditAmount.Add(delta)
			return
		}
		if !isDebitLine && !l.DebitAmount.IsZero() {
			l.DebitAmount = l.DebitAmount.Add(delta)
			return
		}
	}
	// No opposite-side line found (degenerate single-sided document):
	// apply the same delta back onto the perturbed line itself so the
	// total per-side sum is still internally consistent.
	if isDebitLine {
		doc.Lines[lineIdx].DebitAmount = doc.Lines[lineIdx].DebitAmount.Sub(delta)
	} else {
		doc.Lines[lineIdx].CreditAmount = doc.Lines[lineIdx].CreditAmount.Sub(delta)
	}
}

func pickNonZeroLine(doc *Document, rng *ids.Stream) int {
	var candidates []int
	for i, l := range doc.Lines {
		if !l.DebitAmount.IsZero() || !l.CreditAmount.IsZero() {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[rng.IntRange(0, len(candidates)-1)]
}

// applyTransposition swaps two adjacent digits in one line's amount
// and rebalances the opposite side by the resulting delta.
func applyTransposition(doc *Document, rng *ids.Stream) {
	idx := pickNonZeroLine(doc, rng)
	if idx < 0 {
		return
	}
	l := &doc.Lines[idx]
	if !l.DebitAmount.IsZero() {
		transposed := transposeDigits(l.DebitAmount)
		delta := transposed.Sub(l.DebitAmount)
		l.DebitAmount = transposed
		rebalanceOpposite(doc, idx, delta)
	} else {
		transposed := transposeDigits(l.CreditAmount)
		delta := transposed.Sub(l.CreditAmount)
		l.CreditAmount = transposed
		rebalanceOpposite(doc, idx, delta)
	}
}

// transposeDigits swaps the last two digits of an amount's whole-unit
// part, simulating a data-entry slip (e.g. 192.50 -> 129.50).
func transposeDigits(m money.Money) money.Money {
	return m.SwapLastTwoWholeDigits()
}

// applyDecimalShift multiplies one line's amount by 10 and rebalances
// the opposite side by the delta.
func applyDecimalShift(doc *Document, rng *ids.Stream) {
	idx := pickNonZeroLine(doc, rng)
	if idx < 0 {
		return
	}
	l := &doc.Lines[idx]
	if !l.DebitAmount.IsZero() {
		shifted := l.DebitAmount.MulFrac(10, 1)
		delta := shifted.Sub(l.DebitAmount)
		l.DebitAmount = shifted
		rebalanceOpposite(doc, idx, delta)
	} else {
		shifted := l.CreditAmount.MulFrac(10, 1)
		delta := shifted.Sub(l.CreditAmount)
		l.CreditAmount = shifted
		rebalanceOpposite(doc, idx, delta)
	}
}

// applyTypo replaces a word in the header/line text; never touches amounts.
func applyTypo(doc *Document) {
	doc.Header.HeaderText = strings.Replace(doc.Header.HeaderText, "Payment", "Paymnet", 1)
	if len(doc.Lines) > 0 && doc.Lines[0].LineText != "" {
		doc.Lines[0].LineText = strings.Replace(doc.Lines[0].LineText, "the", "teh", 1)
	}
}

// applyRounded rounds one line's amount down to a multiple of 100 and
// rebalances the opposite side by the delta.
func applyRounded(doc *Document, rng *ids.Stream) {
	idx := pickNonZeroLine(doc, rng)
	if idx < 0 {
		return
	}
	l := &doc.Lines[idx]
	if !l.DebitAmount.IsZero() {
		rounded := l.DebitAmount.RoundToUnit(100)
		delta := rounded.Sub(l.DebitAmount)
		l.DebitAmount = rounded
		rebalanceOpposite(doc, idx, delta)
	} else {
		rounded := l.CreditAmount.RoundToUnit(100)
		delta := rounded.Sub(l.CreditAmount)
		l.CreditAmount = rounded
		rebalanceOpposite(doc, idx, delta)
	}
}

// applyLatePosting shifts the document date 5-15 days earlier; never
// touches amounts.
func applyLatePosting(doc *Document, rng *ids.Stream) {
	days := rng.IntRange(5, 15)
	doc.Header.DocumentDate = doc.Header.DocumentDate.AddDate(0, 0, -days)
}
