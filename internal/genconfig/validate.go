package genconfig

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ledgerforge/datasynth/internal/generrors"
)

const sumTolerance = 0.01

// Validate checks every wire rule listed in spec.md §6, aggregating
// every violation (rather than failing on the first) so a caller sees
// the whole picture in one round trip, per spec.md §7's "all
// configuration checks are performed up front" policy.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.Global.PeriodMonths < 1 || c.Global.PeriodMonths > 120 {
		errs = multierror.Append(errs, fmt.Errorf("global.period_months %d out of range [1, 120]", c.Global.PeriodMonths))
	}
	if len(c.Global.GroupCurrency) != 3 {
		errs = multierror.Append(errs, fmt.Errorf("global.group_currency %q must be an ISO-3 code", c.Global.GroupCurrency))
	}

	for i, company := range c.Companies {
		if company.Code == "" {
			errs = multierror.Append(errs, fmt.Errorf("companies[%d].code must not be empty", i))
		}
		if len(company.Currency) != 3 {
			errs = multierror.Append(errs, fmt.Errorf("companies[%d].currency %q must be an ISO-3 code", i, company.Currency))
		}
		if company.VolumeWeight < 0 {
			errs = multierror.Append(errs, fmt.Errorf("companies[%d].volume_weight %f must be >= 0", i, company.VolumeWeight))
		}
	}

	switch c.ChartOfAccounts.Complexity {
	case "Small", "Medium", "Large":
	default:
		errs = multierror.Append(errs, fmt.Errorf("chart_of_accounts.complexity %q must be one of Small|Medium|Large", c.ChartOfAccounts.Complexity))
	}
	if c.ChartOfAccounts.MinHierarchyDepth > c.ChartOfAccounts.MaxHierarchyDepth {
		errs = multierror.Append(errs, fmt.Errorf("chart_of_accounts.min_hierarchy_depth %d exceeds max_hierarchy_depth %d", c.ChartOfAccounts.MinHierarchyDepth, c.ChartOfAccounts.MaxHierarchyDepth))
	}

	if err := sumsToOne("transactions.source_weights", c.Transactions.SourceWeights[:]); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := sumsToOne("transactions.process_weights", c.Transactions.ProcessWeights[:]); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := inRange01("transactions.benford_tolerance", c.Transactions.BenfordTolerance); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := inRange01("transactions.even_odd_split", c.Transactions.EvenOddSplit); err != nil {
		errs = multierror.Append(errs, err)
	}

	if c.Fraud.Enabled {
		if err := inRange01("fraud.fraud_rate", c.Fraud.FraudRate); err != nil {
			errs = multierror.Append(errs, err)
		}
		if c.Fraud.ClusteringFactor < 0 {
			errs = multierror.Append(errs, fmt.Errorf("fraud.clustering_factor %f must be >= 0", c.Fraud.ClusteringFactor))
		}
		if !strictlyAscending(c.Fraud.ApprovalThresholds) {
			errs = multierror.Append(errs, fmt.Errorf("fraud.approval_thresholds must be strictly ascending"))
		}
		if err := sumsToOneMap("fraud.fraud_type_distribution", c.Fraud.FraudTypeDistribution); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	if err := inRange01("internal_controls.exception_rate", c.InternalControls.ExceptionRate); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := inRange01("internal_controls.sod_violation_rate", c.InternalControls.SODViolationRate); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.InternalControls.SOXMaterialityThreshold < 0 {
		errs = multierror.Append(errs, fmt.Errorf("internal_controls.sox_materiality_threshold must be >= 0"))
	}

	if c.Approval.Enabled {
		if c.Approval.AutoApproveThreshold < 0 {
			errs = multierror.Append(errs, fmt.Errorf("approval.auto_approve_threshold must be >= 0"))
		}
		if c.Approval.RejectionRate+c.Approval.RevisionRate > 1+sumTolerance {
			errs = multierror.Append(errs, fmt.Errorf("approval.rejection_rate + revision_rate must be <= 1"))
		}
		if !strictlyAscending(c.Approval.Thresholds) {
			errs = multierror.Append(errs, fmt.Errorf("approval.thresholds must be strictly ascending by amount"))
		}
	}

	for name, pct := range map[string]float64{
		"master_data.vendors.intercompany_percent":            c.MasterData.VendorIntercompanyPercent,
		"master_data.customers.intercompany_percent":          c.MasterData.CustomerIntercompanyPercent,
		"master_data.materials.bom_percent":                   c.MasterData.MaterialBOMPercent,
		"master_data.fixed_assets.fully_depreciated_percent":  c.MasterData.FixedAssetFullyDepreciatedPercent,
	} {
		if err := inRange01(name, pct); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	for _, flow := range []struct {
		name string
		cfg  DocumentFlowWireConfig
	}{{"document_flows.p2p", c.DocumentFlows.P2P}, {"document_flows.o2c", c.DocumentFlows.O2C}} {
		for _, r := range []struct {
			field string
			val   float64
		}{
			{"goods_receipt_probability", flow.cfg.GoodsReceiptProbability},
			{"invoice_probability", flow.cfg.InvoiceProbability},
			{"payment_probability", flow.cfg.PaymentProbability},
			{"partial_fulfillment_rate", flow.cfg.PartialFulfillmentRate},
		} {
			if err := inRange01(flow.name+"."+r.field, r.val); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		if flow.cfg.VarianceRate < 0 {
			errs = multierror.Append(errs, fmt.Errorf("%s.variance_rate must be >= 0", flow.name))
		}
		if !strictlyAscendingInt(flow.cfg.DunningLevelDays) {
			errs = multierror.Append(errs, fmt.Errorf("%s.dunning_level_days must be strictly ascending", flow.name))
		}
	}

	if err := inRange01("intercompany.ic_transaction_rate", c.Intercompany.ICTransactionRate); err != nil {
		errs = multierror.Append(errs, err)
	}
	if c.Intercompany.MarkupPercent < 0 {
		errs = multierror.Append(errs, fmt.Errorf("intercompany.markup_percent must be >= 0"))
	}
	if err := sumsToOneMap("intercompany.transaction_type_distribution", c.Intercompany.TransactionTypeDistribution); err != nil {
		errs = multierror.Append(errs, err)
	}

	if err := inRange01("balance.target_gross_margin", c.Balance.TargetGrossMargin); err != nil {
		errs = multierror.Append(errs, err)
	}
	for name, ratio := range c.Balance.Ratios {
		if ratio < 0 {
			errs = multierror.Append(errs, fmt.Errorf("balance.ratios[%s] must be >= 0", name))
		}
	}

	if err := sumsToOneMap("accounting_standards.fair_value_level_percentages", c.AccountingStandards.FairValueLevelPercentages); err != nil {
		errs = multierror.Append(errs, err)
	}

	if !auditFrameworks[c.AuditStandards.Framework] {
		errs = multierror.Append(errs, fmt.Errorf("audit_standards.framework %q is not a recognized standard", c.AuditStandards.Framework))
	}
	if c.AuditStandards.PositiveRate+c.AuditStandards.ExceptionRate > 1+sumTolerance {
		errs = multierror.Append(errs, fmt.Errorf("audit_standards.positive_rate + exception_rate must be <= 1"))
	}

	if errs.ErrorOrNil() == nil {
		return nil
	}
	return generrors.Wrap(generrors.ErrCodeConfigInvalid, "configuration validation failed", errs.ErrorOrNil())
}

func inRange01(field string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s %f out of range [0, 1]", field, v)
	}
	return nil
}

func sumsToOne(field string, weights []float64) error {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum < 1-sumTolerance || sum > 1+sumTolerance {
		return fmt.Errorf("%s sums to %f, want 1 +/- %.2f", field, sum, sumTolerance)
	}
	return nil
}

func sumsToOneMap(field string, weights map[string]float64) error {
	if len(weights) == 0 {
		return nil
	}
	values := make([]float64, 0, len(weights))
	for _, w := range weights {
		values = append(values, w)
	}
	return sumsToOne(field, values)
}

func strictlyAscending(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}
	return true
}

func strictlyAscendingInt(values []int) bool {
	for i := 1; i < len(values); i++ {
		if values[i] <= values[i-1] {
			return false
		}
	}
	return true
}
