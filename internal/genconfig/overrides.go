package genconfig

import "github.com/tidwall/gjson"

// ExtractOverride reads a single field from a raw JSON override
// document at an arbitrary dotted path (e.g. "fraud.fraud_rate"),
// mirroring the teacher's gjson.Get(resp.Body, path) idiom for pulling
// one value out of an otherwise-untyped payload without a full
// unmarshal. Used for config-override patches that touch only a
// handful of fields.
func ExtractOverride(doc []byte, path string) gjson.Result {
	return gjson.GetBytes(doc, path)
}

// ApplyFloatOverrides patches a set of dotted-path -> float64 overrides
// read via ExtractOverride onto the well-known scalar fields SetConfig
// callers commonly adjust at runtime. Unknown paths are ignored rather
// than rejected, since the override set is intentionally a loose
// escape hatch, not the primary configuration channel.
func (c *Config) ApplyFloatOverrides(doc []byte) {
	apply := func(path string, dst *float64) {
		if r := ExtractOverride(doc, path); r.Exists() {
			*dst = r.Float()
		}
	}
	apply("fraud.fraud_rate", &c.Fraud.FraudRate)
	apply("fraud.clustering_factor", &c.Fraud.ClusteringFactor)
	apply("transactions.benford_tolerance", &c.Transactions.BenfordTolerance)
	apply("approval.auto_approve_threshold", &c.Approval.AutoApproveThreshold)
	apply("document_flows.p2p.variance_rate", &c.DocumentFlows.P2P.VarianceRate)
	apply("document_flows.o2c.variance_rate", &c.DocumentFlows.O2C.VarianceRate)
}
