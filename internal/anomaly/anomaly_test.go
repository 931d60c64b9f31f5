package anomaly

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/journal"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/money"
)

func generateDocs(t *testing.T, n int) []journal.Document {
	t.Helper()
	idf := ids.NewIDFactory(1)
	var pools map[string]*masterdata.Pool
	g := journal.NewGenerator(11, idf, pools, journal.Config{
		Companies: []journal.CompanyWeight{{Code: "1000", Weight: 1}},
		Approval: journal.ApprovalConfig{
			Enabled:              true,
			AutoApproveThreshold: money.FromInt(500),
			Thresholds:           []money.Money{money.FromInt(5000), money.FromInt(25000)},
		},
	})
	docs := make([]journal.Document, 0, n)
	for i := 0; i < n; i++ {
		doc, err := g.Generate()
		require.NoError(t, err)
		docs = append(docs, doc)
	}
	return docs
}

func testInjector(idf *ids.IDFactory) *Injector {
	return NewInjector(idf, Config{
		TotalRate:  0.5,
		Thresholds: []money.Money{money.FromInt(5000), money.FromInt(25000)},
	})
}

func TestInjectLabelsReferenceExtantDocuments(t *testing.T) {
	docs := generateDocs(t, 100)
	idf := ids.NewIDFactory(2)
	inj := testInjector(idf)
	rng := ids.NewStream(123)

	out, labels := inj.Inject(docs, rng)

	ids := make(map[string]bool, len(out))
	for _, d := range out {
		ids[d.Header.DocumentID] = true
	}
	for _, l := range labels {
		require.True(t, ids[l.TargetDocumentID], "label %s references missing document %s", l.LabelID, l.TargetDocumentID)
		require.GreaterOrEqual(t, l.Severity, 1)
		require.LessOrEqual(t, l.Severity, 5)
	}
}

func TestInjectIsDeterministic(t *testing.T) {
	docs := generateDocs(t, 50)

	idf1 := ids.NewIDFactory(2)
	out1, labels1 := testInjector(idf1).Inject(docs, ids.NewStream(99))

	idf2 := ids.NewIDFactory(2)
	out2, labels2 := testInjector(idf2).Inject(docs, ids.NewStream(99))

	require.Equal(t, len(out1), len(out2))
	require.Equal(t, len(labels1), len(labels2))
	for i := range labels1 {
		require.Equal(t, labels1[i].AnomalyType, labels2[i].AnomalyType)
		require.Equal(t, labels1[i].TargetDocumentID, labels2[i].TargetDocumentID)
	}
}

func TestLedgerAppendIsAppendOnly(t *testing.T) {
	docs := generateDocs(t, 40)
	idf := ids.NewIDFactory(3)
	inj := testInjector(idf)
	_, labels := inj.Inject(docs, ids.NewStream(7))
	require.NotEmpty(t, labels)

	ledger := NewLedger(nil)
	ledger.Append(labels...)
	require.Equal(t, len(labels), ledger.Len())

	first := labels[0]
	ledger.Append(first)
	require.Equal(t, len(labels)+1, ledger.Len())
	require.Len(t, ledger.ByDocument(first.TargetDocumentID), 2)
}

func TestSplitTransactionPartsBalanceAndSumToOriginal(t *testing.T) {
	doc := journal.Document{
		Header: journal.Header{DocumentID: "doc-1", CompanyCode: "1000"},
		Lines: []journal.Line{
			{LineNumber: 1, AccountNumber: "100000", DebitAmount: money.FromInt(40000), CreditAmount: money.Zero()},
			{LineNumber: 2, AccountNumber: "200000", DebitAmount: money.Zero(), CreditAmount: money.FromInt(40000)},
		},
	}
	idf := ids.NewIDFactory(4)
	parts := splitBelowThreshold(doc, []money.Money{money.FromInt(5000), money.FromInt(25000)}, idf, ids.NewStream(5))

	require.Greater(t, len(parts), 1)
	sum := money.Zero()
	limit := money.FromInt(25000)
	for _, p := range parts {
		require.True(t, p.Balances())
		require.True(t, p.SumDebits().Cmp(limit) < 0, "split part %s exceeds threshold", p.SumDebits().String())
		sum = sum.Add(p.SumDebits())
	}
	require.Equal(t, doc.SumDebits().String(), sum.String())
}
