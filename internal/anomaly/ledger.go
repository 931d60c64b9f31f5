package anomaly

import (
	"sync"

	"go.uber.org/zap"
)

// Ledger is the append-only ground-truth label sink, per spec.md §4.6's
// "labels form an append-only ledger; no in-place edits." Every
// appended label is also emitted as a structured JSON event through a
// dedicated zap logger, kept separate from the operational logrus
// output so label records can be shipped/indexed independently.
type Ledger struct {
	mu     sync.Mutex
	labels []Label
	log    *zap.Logger
}

// NewLedger builds a ledger that mirrors every append to sink. A nil
// sink disables the structured-log mirror but still retains labels.
func NewLedger(sink *zap.Logger) *Ledger {
	if sink == nil {
		sink = zap.NewNop()
	}
	return &Ledger{log: sink.Named("anomaly_ledger")}
}

// Append adds labels to the ledger in order, emitting one structured
// log record per label. It never mutates or removes a prior entry.
func (l *Ledger) Append(labels ...Label) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, lbl := range labels {
		l.labels = append(l.labels, lbl)
		l.log.Info("anomaly_label",
			zap.String("label_id", lbl.LabelID),
			zap.String("target_document_id", lbl.TargetDocumentID),
			zap.String("anomaly_type", lbl.AnomalyType),
			zap.String("category", string(lbl.Category)),
			zap.Int("severity", lbl.Severity),
			zap.String("description", lbl.Description),
			zap.Time("injection_timestamp", lbl.InjectionTimestamp),
		)
	}
}

// All returns a snapshot copy of every label appended so far.
func (l *Ledger) All() []Label {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Label, len(l.labels))
	copy(out, l.labels)
	return out
}

// Len reports the number of labels recorded.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.labels)
}

// ByDocument returns all labels referencing the given document id.
func (l *Ledger) ByDocument(documentID string) []Label {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Label
	for _, lbl := range l.labels {
		if lbl.TargetDocumentID == documentID {
			out = append(out, lbl)
		}
	}
	return out
}
