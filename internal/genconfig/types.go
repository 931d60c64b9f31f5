// Package genconfig is the wire configuration layer: a nested,
// format-agnostic document (YAML file + environment overrides, per the
// teacher's pkg/config idiom) validated up front and then built into
// the typed internal/orchestrator.Config the generation core consumes,
// per spec.md §6's "opaque to the core" contract.
package genconfig

// GlobalConfig is the top-level run parameters.
type GlobalConfig struct {
	Seed           uint64 `json:"seed" yaml:"seed" env:"DATASYNTH_SEED"`
	Industry       string `json:"industry" yaml:"industry" env:"DATASYNTH_INDUSTRY"`
	StartDate      string `json:"start_date" yaml:"start_date" env:"DATASYNTH_START_DATE"`
	PeriodMonths   int    `json:"period_months" yaml:"period_months" env:"DATASYNTH_PERIOD_MONTHS"`
	GroupCurrency  string `json:"group_currency" yaml:"group_currency" env:"DATASYNTH_GROUP_CURRENCY"`
	MemoryLimitMB  int    `json:"memory_limit_mb" yaml:"memory_limit_mb" env:"DATASYNTH_MEMORY_LIMIT_MB"`
}

// CompanyConfig is one entry of companies[].
type CompanyConfig struct {
	Code                    string  `json:"code" yaml:"code"`
	Name                    string  `json:"name" yaml:"name"`
	Currency                string  `json:"currency" yaml:"currency"`
	Country                 string  `json:"country" yaml:"country"`
	AnnualTransactionVolume string  `json:"annual_transaction_volume" yaml:"annual_transaction_volume"`
	VolumeWeight            float64 `json:"volume_weight" yaml:"volume_weight"`
	FiscalYearVariant       string  `json:"fiscal_year_variant" yaml:"fiscal_year_variant"`
}

// ChartOfAccountsConfig controls account hierarchy shape.
type ChartOfAccountsConfig struct {
	Complexity        string `json:"complexity" yaml:"complexity"` // Small | Medium | Large
	IndustrySpecific  bool   `json:"industry_specific" yaml:"industry_specific"`
	MinHierarchyDepth int    `json:"min_hierarchy_depth" yaml:"min_hierarchy_depth"`
	MaxHierarchyDepth int    `json:"max_hierarchy_depth" yaml:"max_hierarchy_depth"`
}

// TransactionsConfig parameterizes amount/temporal/category sampling.
type TransactionsConfig struct {
	SourceWeights        [4]float64 `json:"source_weights" yaml:"source_weights"`
	ProcessWeights       [8]float64 `json:"process_weights" yaml:"process_weights"`
	BenfordTolerance     float64    `json:"benford_tolerance" yaml:"benford_tolerance"`
	EvenOddSplit         float64    `json:"even_odd_split" yaml:"even_odd_split"`
	DebitAssetWeight     float64    `json:"debit_asset_weight" yaml:"debit_asset_weight"`
	DebitExpenseWeight   float64    `json:"debit_expense_weight" yaml:"debit_expense_weight"`
	CreditLiabilityWeight float64   `json:"credit_liability_weight" yaml:"credit_liability_weight"`
	CreditRevenueWeight  float64    `json:"credit_revenue_weight" yaml:"credit_revenue_weight"`
}

// FraudConfig controls C6's injection rate and type distribution.
type FraudConfig struct {
	Enabled               bool               `json:"enabled" yaml:"enabled"`
	FraudRate             float64            `json:"fraud_rate" yaml:"fraud_rate"`
	ClusteringFactor      float64            `json:"clustering_factor" yaml:"clustering_factor"`
	ApprovalThresholds    []float64          `json:"approval_thresholds" yaml:"approval_thresholds"`
	FraudTypeDistribution map[string]float64 `json:"fraud_type_distribution" yaml:"fraud_type_distribution"`
}

// InternalControlsConfig models the control-exception rates referenced
// by spec.md §6; not yet consumed by a dedicated core component (see
// DESIGN.md), but validated per the wire contract regardless.
type InternalControlsConfig struct {
	ExceptionRate         float64 `json:"exception_rate" yaml:"exception_rate"`
	SODViolationRate      float64 `json:"sod_violation_rate" yaml:"sod_violation_rate"`
	SOXMaterialityThreshold float64 `json:"sox_materiality_threshold" yaml:"sox_materiality_threshold"`
}

// ApprovalWireConfig is the wire shape of the journal approval workflow.
type ApprovalWireConfig struct {
	Enabled              bool      `json:"enabled" yaml:"enabled"`
	AutoApproveThreshold float64   `json:"auto_approve_threshold" yaml:"auto_approve_threshold"`
	RejectionRate        float64   `json:"rejection_rate" yaml:"rejection_rate"`
	RevisionRate         float64   `json:"revision_rate" yaml:"revision_rate"`
	Thresholds           []float64 `json:"thresholds" yaml:"thresholds"`
}

// MasterDataWireConfig controls master-data pool shape.
type MasterDataWireConfig struct {
	VendorCount                  int     `json:"vendor_count" yaml:"vendor_count"`
	CustomerCount                int     `json:"customer_count" yaml:"customer_count"`
	MaterialCount                int     `json:"material_count" yaml:"material_count"`
	EmployeeCount                int     `json:"employee_count" yaml:"employee_count"`
	VendorIntercompanyPercent    float64 `json:"vendor_intercompany_percent" yaml:"vendor_intercompany_percent"`
	CustomerIntercompanyPercent  float64 `json:"customer_intercompany_percent" yaml:"customer_intercompany_percent"`
	MaterialBOMPercent           float64 `json:"material_bom_percent" yaml:"material_bom_percent"`
	FixedAssetFullyDepreciatedPercent float64 `json:"fixed_asset_fully_depreciated_percent" yaml:"fixed_asset_fully_depreciated_percent"`
}

// DocumentFlowWireConfig is shared by document_flows.p2p/o2c.
type DocumentFlowWireConfig struct {
	GoodsReceiptProbability float64 `json:"goods_receipt_probability" yaml:"goods_receipt_probability"`
	InvoiceProbability      float64 `json:"invoice_probability" yaml:"invoice_probability"`
	PaymentProbability      float64 `json:"payment_probability" yaml:"payment_probability"`
	PartialFulfillmentRate  float64 `json:"partial_fulfillment_rate" yaml:"partial_fulfillment_rate"`
	VarianceRate            float64 `json:"variance_rate" yaml:"variance_rate"`
	MaxPaymentDelayDays     int     `json:"max_payment_delay_days" yaml:"max_payment_delay_days"`
	DunningLevelDays        []int   `json:"dunning_level_days" yaml:"dunning_level_days"`
}

// DocumentFlowsConfig groups the P2P and O2C flow parameters.
type DocumentFlowsConfig struct {
	P2P DocumentFlowWireConfig `json:"p2p" yaml:"p2p"`
	O2C DocumentFlowWireConfig `json:"o2c" yaml:"o2c"`
}

// IntercompanyConfig models spec.md §6's intercompany section; validated
// but not yet consumed by a dedicated core component (see DESIGN.md).
type IntercompanyConfig struct {
	ICTransactionRate            float64            `json:"ic_transaction_rate" yaml:"ic_transaction_rate"`
	MarkupPercent                float64            `json:"markup_percent" yaml:"markup_percent"`
	TransactionTypeDistribution  map[string]float64 `json:"transaction_type_distribution" yaml:"transaction_type_distribution"`
}

// BalanceConfig models spec.md §6's balance-sheet targets; validated
// but not yet consumed by a dedicated core component (see DESIGN.md).
type BalanceConfig struct {
	TargetGrossMargin float64            `json:"target_gross_margin" yaml:"target_gross_margin"`
	Ratios            map[string]float64 `json:"ratios" yaml:"ratios"`
}

// AccountingStandardsConfig models spec.md §6's multi-standard section;
// validated but not yet consumed by a dedicated core component.
type AccountingStandardsConfig struct {
	FairValueLevelPercentages map[string]float64 `json:"fair_value_level_percentages" yaml:"fair_value_level_percentages"`
}

// AuditStandardsConfig models spec.md §6's audit-standards section;
// validated but not yet consumed by a dedicated core component.
type AuditStandardsConfig struct {
	Framework      string  `json:"framework" yaml:"framework"` // enum whitelist checked in Validate
	PositiveRate   float64 `json:"positive_rate" yaml:"positive_rate"`
	ExceptionRate  float64 `json:"exception_rate" yaml:"exception_rate"`
}

// Config is the full nested wire document described in spec.md §6.
type Config struct {
	Global             GlobalConfig              `json:"global" yaml:"global"`
	Companies          []CompanyConfig            `json:"companies" yaml:"companies"`
	ChartOfAccounts    ChartOfAccountsConfig       `json:"chart_of_accounts" yaml:"chart_of_accounts"`
	Transactions       TransactionsConfig          `json:"transactions" yaml:"transactions"`
	Fraud              FraudConfig                 `json:"fraud" yaml:"fraud"`
	InternalControls   InternalControlsConfig      `json:"internal_controls" yaml:"internal_controls"`
	Approval           ApprovalWireConfig          `json:"approval" yaml:"approval"`
	MasterData         MasterDataWireConfig        `json:"master_data" yaml:"master_data"`
	DocumentFlows      DocumentFlowsConfig         `json:"document_flows" yaml:"document_flows"`
	Intercompany       IntercompanyConfig          `json:"intercompany" yaml:"intercompany"`
	Balance            BalanceConfig               `json:"balance" yaml:"balance"`
	AccountingStandards AccountingStandardsConfig  `json:"accounting_standards" yaml:"accounting_standards"`
	AuditStandards     AuditStandardsConfig        `json:"audit_standards" yaml:"audit_standards"`

	DocFlowChainCount    int `json:"doc_flow_chain_count" yaml:"doc_flow_chain_count"`
	JournalDocumentCount int `json:"journal_document_count" yaml:"journal_document_count"`
}

var auditFrameworks = map[string]bool{
	"": true, "ISA": true, "PCAOB": true, "GAAS": true,
}

// New returns a Config populated with the teacher-style sane defaults.
func New() *Config {
	return &Config{
		Global: GlobalConfig{
			Industry:      "general",
			PeriodMonths:  12,
			GroupCurrency: "USD",
			MemoryLimitMB: 2048,
		},
		ChartOfAccounts: ChartOfAccountsConfig{
			Complexity:        "Medium",
			MinHierarchyDepth: 2,
			MaxHierarchyDepth: 5,
		},
		Transactions: TransactionsConfig{
			SourceWeights:         [4]float64{0.4, 0.3, 0.2, 0.1},
			ProcessWeights:        [8]float64{0.2, 0.2, 0.2, 0.1, 0.1, 0.1, 0.05, 0.05},
			BenfordTolerance:      0.05,
			EvenOddSplit:          0.5,
			DebitAssetWeight:      0.6,
			DebitExpenseWeight:    0.4,
			CreditLiabilityWeight: 0.6,
			CreditRevenueWeight:   0.4,
		},
		Approval: ApprovalWireConfig{
			Enabled:              true,
			AutoApproveThreshold: 1000,
			Thresholds:           []float64{5000, 25000, 100000},
		},
		MasterData: MasterDataWireConfig{
			VendorCount:   50,
			CustomerCount: 50,
			MaterialCount: 100,
			EmployeeCount: 20,
		},
		DocumentFlows: DocumentFlowsConfig{
			P2P: DocumentFlowWireConfig{GoodsReceiptProbability: 0.9, InvoiceProbability: 0.85, PaymentProbability: 0.8, DunningLevelDays: []int{30, 60, 90}},
			O2C: DocumentFlowWireConfig{GoodsReceiptProbability: 0.9, InvoiceProbability: 0.85, PaymentProbability: 0.8, DunningLevelDays: []int{30, 60, 90}},
		},
		DocFlowChainCount:    100,
		JournalDocumentCount: 1000,
	}
}
