package genconfig

import "testing"

func validConfig() *Config {
	c := New()
	c.Companies = []CompanyConfig{{Code: "1000", Currency: "USD", VolumeWeight: 1}}
	c.Fraud.Enabled = true
	c.Fraud.FraudRate = 0.02
	c.Fraud.ApprovalThresholds = []float64{1000, 5000, 25000}
	c.Fraud.FraudTypeDistribution = map[string]float64{"a": 0.5, "b": 0.5}
	return c
}

func TestValidConfigPassesValidation(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected a valid config to pass, got %v", err)
	}
}

func TestValidateRejectsBadWeightSum(t *testing.T) {
	c := validConfig()
	c.Transactions.SourceWeights = [4]float64{0.1, 0.1, 0.1, 0.1}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for source_weights not summing to 1")
	}
}

func TestValidateRejectsNonAscendingThresholds(t *testing.T) {
	c := validConfig()
	c.Fraud.ApprovalThresholds = []float64{5000, 1000, 25000}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for non-ascending approval_thresholds")
	}
}

func TestValidateAggregatesMultipleErrors(t *testing.T) {
	c := validConfig()
	c.Transactions.BenfordTolerance = 2.0
	c.Global.PeriodMonths = 0
	c.ChartOfAccounts.Complexity = "Huge"
	err := c.Validate()
	if err == nil {
		t.Fatalf("expected aggregated validation errors")
	}
}

func TestBuildMapsCoreFields(t *testing.T) {
	c := validConfig()
	c.Global.Seed = 42
	c.DocFlowChainCount = 10
	c.JournalDocumentCount = 50
	built := c.Build()
	if built.Seed != 42 {
		t.Fatalf("expected seed to carry through, got %d", built.Seed)
	}
	if built.JournalDocumentCount != 50 {
		t.Fatalf("expected journal document count to carry through, got %d", built.JournalDocumentCount)
	}
	if len(built.Journal.Companies) != 1 || built.Journal.Companies[0].Code != "1000" {
		t.Fatalf("expected company weights to carry through, got %+v", built.Journal.Companies)
	}
}

func TestApplyFloatOverrides(t *testing.T) {
	c := validConfig()
	c.ApplyFloatOverrides([]byte(`{"fraud":{"fraud_rate":0.2}}`))
	if c.Fraud.FraudRate != 0.2 {
		t.Fatalf("expected fraud_rate override to apply, got %f", c.Fraud.FraudRate)
	}
}
