package journal

import (
	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/money"
)

// BatchState captures an in-progress "human processes similar
// transactions together" batch, per spec.md §4.5 steps 1 and 19: while
// a batch is active, subsequent entries reuse its primary account and
// process and draw an amount within +/-15% of the batch base. The batch
// does not record a date; each batched entry samples its own posting
// date.
type BatchState struct {
	Remaining       int
	BaseAmount      money.Money
	PrimaryAccount  string
	Process         BusinessProcess
	active          bool
}

// Active reports whether a batch is currently open.
func (b *BatchState) Active() bool {
	return b.active && b.Remaining > 0
}

// Consume draws the next batched amount and decrements the remaining
// counter, closing the batch once exhausted.
func (b *BatchState) Consume(rng *ids.Stream) money.Money {
	jitterPct := rng.IntRange(-15, 15)
	amount := b.BaseAmount.MulFrac(100+int64(jitterPct), 100)
	b.Remaining--
	if b.Remaining <= 0 {
		b.active = false
	}
	return amount
}

// MaybeOpen opens a new batch with probability openProb (spec.md's
// 15% default for non-automated, non-fraud entries), capturing the
// current document's primary account/amount/process, with a remaining
// count in [2, 6].
func (b *BatchState) MaybeOpen(rng *ids.Stream, openProb float64, account string, amount money.Money, process BusinessProcess) {
	if b.Active() {
		return
	}
	if !rng.Bool(openProb) {
		return
	}
	b.active = true
	b.Remaining = rng.IntRange(2, 6)
	b.BaseAmount = amount
	b.PrimaryAccount = account
	b.Process = process
}
