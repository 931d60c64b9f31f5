package coherence

// DefaultP2PRelationships returns the canonical procure-to-pay table
// graph: purchase_order -> goods_receipt -> vendor_invoice -> payment,
// plus vendor_invoice -> journal_entry, grounded on
// original_source's get_p2p_flow_relationships().
func DefaultP2PRelationships() []Relationship {
	return []Relationship{
		{SourceTable: "goods_receipt", TargetTable: "purchase_order", ReferenceField: "purchase_order_id", Kind: DocumentFlow, ValidateDates: true},
		{SourceTable: "vendor_invoice", TargetTable: "goods_receipt", ReferenceField: "goods_receipt_id", Kind: DocumentFlow, ValidateAmounts: true, ValidateDates: true},
		{SourceTable: "payment", TargetTable: "vendor_invoice", ReferenceField: "vendor_invoice_id", Kind: DocumentFlow, ValidateAmounts: true, ValidateDates: true},
		{SourceTable: "journal_entry", TargetTable: "vendor_invoice", ReferenceField: "vendor_invoice_id", Kind: OneToOne, ValidateAmounts: true},
	}
}

// DefaultO2CRelationships returns the canonical order-to-cash table
// graph: sales_order -> delivery -> customer_invoice -> receipt, plus
// customer_invoice -> journal_entry, grounded on
// original_source's get_o2c_flow_relationships().
func DefaultO2CRelationships() []Relationship {
	return []Relationship{
		{SourceTable: "delivery", TargetTable: "sales_order", ReferenceField: "sales_order_id", Kind: DocumentFlow, ValidateDates: true},
		{SourceTable: "customer_invoice", TargetTable: "delivery", ReferenceField: "delivery_id", Kind: DocumentFlow, ValidateAmounts: true, ValidateDates: true},
		{SourceTable: "receipt", TargetTable: "customer_invoice", ReferenceField: "customer_invoice_id", Kind: DocumentFlow, ValidateAmounts: true, ValidateDates: true},
		{SourceTable: "journal_entry", TargetTable: "customer_invoice", ReferenceField: "customer_invoice_id", Kind: OneToOne, ValidateAmounts: true},
	}
}
