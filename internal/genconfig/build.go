package genconfig

import (
	"fmt"

	"github.com/ledgerforge/datasynth/internal/anomaly"
	"github.com/ledgerforge/datasynth/internal/docflow"
	"github.com/ledgerforge/datasynth/internal/journal"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/money"
	"github.com/ledgerforge/datasynth/internal/orchestrator"
)

// Build converts a validated wire Config into the typed
// orchestrator.Config the generation core consumes. Call Validate
// first; Build does not re-check the wire rules.
//
// Fields with no corresponding core component today (internal_controls,
// intercompany, balance, accounting_standards, audit_standards) are
// validated but not mapped here — see DESIGN.md.
func (c *Config) Build() orchestrator.Config {
	// spec.md §6 doesn't break vendor type shares out of master_data;
	// default to an even split across the four vendor types.
	vendorTypeWeights := [4]float64{0.25, 0.25, 0.25, 0.25}

	return orchestrator.Config{
		Seed:      c.Global.Seed,
		Companies: companyCodes(c.Companies),
		MasterData: masterdata.Config{
			VendorCount:             c.MasterData.VendorCount,
			CustomerCount:           c.MasterData.CustomerCount,
			MaterialCount:           c.MasterData.MaterialCount,
			EmployeeCount:           c.MasterData.EmployeeCount,
			VendorTypeWeights:       vendorTypeWeights,
			VendorIntercompanyPct:   c.MasterData.VendorIntercompanyPercent,
			CustomerIntercompanyPct: c.MasterData.CustomerIntercompanyPercent,
			MaterialBOMPct:          c.MasterData.MaterialBOMPercent,
			AssetFullyDepreciatedPct: c.MasterData.FixedAssetFullyDepreciatedPercent,
		},
		Journal: journal.Config{
			Companies:             companyWeights(c.Companies),
			SourceWeights:         c.Transactions.SourceWeights,
			ProcessWeights:        c.Transactions.ProcessWeights,
			DebitAssetWeight:      c.Transactions.DebitAssetWeight,
			DebitExpenseWeight:    c.Transactions.DebitExpenseWeight,
			CreditLiabilityWeight: c.Transactions.CreditLiabilityWeight,
			CreditRevenueWeight:   c.Transactions.CreditRevenueWeight,
			FraudEnabled:          c.Fraud.Enabled,
			FraudRate:             c.Fraud.FraudRate,
			Approval: journal.ApprovalConfig{
				Enabled:              c.Approval.Enabled,
				AutoApproveThreshold: floatToMoney(c.Approval.AutoApproveThreshold),
				Thresholds:           toMoneySlice(c.Approval.Thresholds),
				RejectionRate:        c.Approval.RejectionRate,
				RevisionRate:         c.Approval.RevisionRate,
			},
		},
		DocFlow: docflow.Config{
			GoodsReceiptProbability: c.DocumentFlows.P2P.GoodsReceiptProbability,
			InvoiceProbability:      c.DocumentFlows.P2P.InvoiceProbability,
			PaymentProbability:      c.DocumentFlows.P2P.PaymentProbability,
			PartialFulfillmentRate:  c.DocumentFlows.P2P.PartialFulfillmentRate,
			VarianceRate:            c.DocumentFlows.P2P.VarianceRate,
			MaxPaymentDelayDays:     c.DocumentFlows.P2P.MaxPaymentDelayDays,
			DunningLevelDays:        c.DocumentFlows.P2P.DunningLevelDays,
		},
		Anomaly: anomaly.Config{
			TotalRate:   c.Fraud.FraudRate,
			TypeWeights: c.Fraud.FraudTypeDistribution,
		},
		DocFlowChainCount:    c.DocFlowChainCount,
		JournalDocumentCount: c.JournalDocumentCount,
	}
}

// companyCodes extracts the plain code list driving per-company
// master-data pool generation (orchestrator.Config.Companies); every
// configured company gets its own pool, per spec.md §4.3.
func companyCodes(companies []CompanyConfig) []string {
	out := make([]string, len(companies))
	for i, c := range companies {
		out[i] = c.Code
	}
	return out
}

func companyWeights(companies []CompanyConfig) []journal.CompanyWeight {
	out := make([]journal.CompanyWeight, 0, len(companies))
	for _, c := range companies {
		w := c.VolumeWeight
		if w <= 0 {
			w = 1
		}
		out = append(out, journal.CompanyWeight{Code: c.Code, Weight: w})
	}
	return out
}

func toMoneySlice(values []float64) []money.Money {
	out := make([]money.Money, len(values))
	for i, v := range values {
		out[i] = floatToMoney(v)
	}
	return out
}

// floatToMoney converts a wire-document float64 amount (JSON/YAML have
// no fixed-point type) into an exact Money via its decimal string, so
// the only floating-point rounding is the one already implied by the
// wire format itself.
func floatToMoney(v float64) money.Money {
	m, err := money.Parse(fmt.Sprintf("%.4f", v))
	if err != nil {
		return money.Zero()
	}
	return m
}
