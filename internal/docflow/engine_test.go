package docflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/sampling"
)

func testPool(t *testing.T) *masterdata.Pool {
	p, err := masterdata.Generate(1, ids.NewIDFactory(1), masterdata.Config{
		CompanyCode:       "1000",
		VendorCount:       5,
		CustomerCount:     5,
		MaterialCount:     5,
		VendorTypeWeights: [4]float64{1, 0, 0, 0},
	})
	require.NoError(t, err)
	return p
}

func TestP2PChainDateMonotonicity(t *testing.T) {
	pool := testPool(t)
	idf := ids.NewIDFactory(2)
	eng := NewEngine(42, idf, Config{
		GoodsReceiptProbability: 1,
		InvoiceProbability:      1,
		PaymentProbability:      1,
	})
	temporal := sampling.NewTemporalSampler(1, sampling.TemporalConfig{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	amounts := sampling.NewAmountSampler(1, sampling.AmountConfig{})

	chain, _, err := eng.GenerateP2P("1000", pool, temporal, amounts)
	require.NoError(t, err)
	require.NotEmpty(t, chain.GoodsReceipts)
	for _, gr := range chain.GoodsReceipts {
		require.False(t, gr.Date.Before(chain.PurchaseOrder.Date))
	}
	require.NotNil(t, chain.Invoice)
	require.False(t, chain.Invoice.Date.Before(chain.GoodsReceipts[len(chain.GoodsReceipts)-1].Date))
	require.NotNil(t, chain.Payment)
	require.False(t, chain.Payment.Date.Before(chain.Invoice.Date))
}

func TestPartialFulfillmentQuantitiesSumToUpstream(t *testing.T) {
	pool := testPool(t)
	idf := ids.NewIDFactory(2)
	eng := NewEngine(7, idf, Config{
		GoodsReceiptProbability: 1,
		PartialFulfillmentRate:  1,
	})
	temporal := sampling.NewTemporalSampler(1, sampling.TemporalConfig{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	amounts := sampling.NewAmountSampler(1, sampling.AmountConfig{})

	chain, _, err := eng.GenerateP2P("1000", pool, temporal, amounts)
	require.NoError(t, err)
	var total int
	for _, gr := range chain.GoodsReceipts {
		total += gr.Quantity
	}
	require.Equal(t, chain.PurchaseOrder.Quantity, total)
}
