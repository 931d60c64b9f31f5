package journal

import "strings"

// processTemplates maps each business process to a small set of
// header-text templates with {period} and {counterparty} placeholders,
// grounded on the shape of original_source's description/name template
// catalogs (synth-core/src/templates/descriptions.rs), reduced here to
// a fixed in-module set since locale-specific name/description pools
// are an explicit Non-goal (external adapter concern).
var processTemplates = map[BusinessProcess][]string{
	ProcessO2C:          {"Customer invoice settlement - {counterparty} - {period}", "Sales recognition for {counterparty}, {period}"},
	ProcessP2P:          {"Vendor payment - {counterparty} - {period}", "Purchase accrual for {counterparty}, {period}"},
	ProcessR2R:          {"Period-end close entry - {period}", "General ledger reclassification - {period}"},
	ProcessH2R:          {"Payroll posting - {period}", "Benefits accrual - {period}"},
	ProcessA2R:          {"Fixed asset posting - {period}", "Depreciation run - {period}"},
	ProcessTreasury:     {"Cash position adjustment - {period}", "Bank transfer - {counterparty} - {period}"},
	ProcessTax:          {"Tax accrual - {period}", "VAT settlement - {counterparty} - {period}"},
	ProcessIntercompany: {"Intercompany settlement - {counterparty} - {period}", "Intercompany markup - {period}"},
}

// BuildHeaderText renders a process-keyed template with the given
// period label and counterparty name substituted, per spec.md §4.5
// step 11's "deterministically-generated free-text" requirement. The
// template index is pick modulo the template count (the generator
// passes the call index), so the text varies across documents without
// breaking determinism.
func BuildHeaderText(process BusinessProcess, period, counterparty string, pick int) string {
	templates := processTemplates[process]
	if len(templates) == 0 {
		templates = []string{"General ledger entry - {period}"}
	}
	tmpl := templates[pick%len(templates)]
	replacer := strings.NewReplacer("{period}", period, "{counterparty}", counterparty)
	return replacer.Replace(tmpl)
}
