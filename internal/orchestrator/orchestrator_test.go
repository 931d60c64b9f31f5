package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerforge/datasynth/internal/docflow"
	"github.com/ledgerforge/datasynth/internal/journal"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/money"
)

func testConfig() Config {
	return Config{
		Seed: 42,
		MasterData: masterdata.Config{
			CompanyCode:       "1000",
			VendorCount:       5,
			CustomerCount:     5,
			MaterialCount:     5,
			EmployeeCount:     10,
			VendorTypeWeights: [4]float64{0.4, 0.3, 0.2, 0.1},
		},
		Journal: journal.Config{
			Companies: []journal.CompanyWeight{{Code: "1000", Weight: 1}},
			Approval: journal.ApprovalConfig{
				Enabled:              true,
				AutoApproveThreshold: money.FromInt(1000),
				Thresholds:           []money.Money{money.FromInt(5000)},
			},
		},
		DocFlow: docflow.Config{
			GoodsReceiptProbability: 0.9,
			InvoiceProbability:      0.8,
			PaymentProbability:      0.7,
			PartialFulfillmentRate:  0.2,
			VarianceRate:            0.1,
			MaxPaymentDelayDays:     30,
		},
		DocFlowChainCount:    10,
		JournalDocumentCount: 30,
	}
}

func TestOrchestratorRunProducesAllPhases(t *testing.T) {
	cfg := testConfig()
	o := New(cfg, nil)
	defer o.Close()

	result, err := o.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Pools["1000"])
	require.Len(t, result.Pools["1000"].Vendors, 5)
	require.Equal(t, 30, result.Stats.JournalDocumentCount)
	require.LessOrEqual(t, result.Stats.P2PChainCount, 10)

	for _, doc := range result.Documents {
		require.True(t, doc.Balances())
	}
}

func TestOrchestratorDeterministic(t *testing.T) {
	cfg := testConfig()
	o1 := New(cfg, nil)
	defer o1.Close()
	o2 := New(cfg, nil)
	defer o2.Close()

	r1, err := o1.Run(context.Background())
	require.NoError(t, err)
	r2, err := o2.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(r1.Documents), len(r2.Documents))
	for i := range r1.Documents {
		require.Equal(t, r1.Documents[i].Header.DocumentID, r2.Documents[i].Header.DocumentID)
	}
}

func TestResourceGuardDefaultsToNormal(t *testing.T) {
	g := NewResourceGuard(GuardConfig{}, nil)
	require.Equal(t, "normal", g.Level().String())
}

func TestBatchScaleForDegradation(t *testing.T) {
	require.Equal(t, 100, batchScaleFor(Normal, 100))
	require.Equal(t, 50, batchScaleFor(Minimal, 100))
	require.Equal(t, 0, batchScaleFor(Emergency, 100))
}

func TestOrchestratorAbortsOnEmergencyDegradation(t *testing.T) {
	cfg := testConfig()
	cfg.Guard = GuardConfig{
		MinimalMemPercent: 0.0001, EmergencyMemPercent: 0.0001,
		MinimalDiskPercent: 0.0001, EmergencyDiskPercent: 0.0001,
	}
	o := New(cfg, nil)
	defer o.Close()

	result, err := o.Run(context.Background())
	require.Error(t, err)
	require.Nil(t, result)
}

func TestOrchestratorMultiCompanyPools(t *testing.T) {
	cfg := testConfig()
	cfg.Companies = []string{"1000", "2000"}
	cfg.Journal.Companies = []journal.CompanyWeight{{Code: "1000", Weight: 1}, {Code: "2000", Weight: 1}}
	o := New(cfg, nil)
	defer o.Close()

	result, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Pools, 2)
	require.NotNil(t, result.Pools["1000"])
	require.NotNil(t, result.Pools["2000"])
	require.NotEqual(t, result.Pools["1000"].Vendors[0].ID, result.Pools["2000"].Vendors[0].ID)
}
