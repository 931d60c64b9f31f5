// Package docflow implements the document-flow engine (C4): coherent
// P2P (purchase-order → goods-receipt → invoice → payment) and O2C
// (sales-order → delivery → invoice → receipt) chains referencing
// master data, per spec.md §3/§4.4. Each struct below is one document
// kind; chains are represented as a reference edge list rather than a
// class hierarchy, per spec.md §9's "one struct per document kind".
package docflow

import (
	"time"

	"github.com/ledgerforge/datasynth/internal/money"
)

// PurchaseOrder is the P2P chain's upstream document.
type PurchaseOrder struct {
	ID         string
	CompanyCode string
	VendorID   string
	Date       time.Time
	Amount     money.Money
	Quantity   int
	MaterialID string
}

// GoodsReceipt references its originating purchase order.
type GoodsReceipt struct {
	ID            string
	PurchaseOrderID string
	Date          time.Time
	Quantity      int
}

// VendorInvoice references its purchase order and may span multiple
// goods receipts.
type VendorInvoice struct {
	ID              string
	PurchaseOrderID string
	Date            time.Time
	Amount          money.Money
	Variance        bool
}

// Payment settles a vendor invoice.
type Payment struct {
	ID              string
	VendorInvoiceID string
	Date            time.Time
	Amount          money.Money
}

// SalesOrder is the O2C chain's upstream document.
type SalesOrder struct {
	ID          string
	CompanyCode string
	CustomerID  string
	Date        time.Time
	Amount      money.Money
	Quantity    int
	MaterialID  string
}

// Delivery references its originating sales order.
type Delivery struct {
	ID           string
	SalesOrderID string
	Date         time.Time
	Quantity     int
}

// CustomerInvoice references its sales order.
type CustomerInvoice struct {
	ID           string
	SalesOrderID string
	Date         time.Time
	Amount       money.Money
	Variance     bool
}

// Receipt records cash received against a customer invoice.
type Receipt struct {
	ID                string
	CustomerInvoiceID string
	Date              time.Time
	Amount            money.Money
}

// P2PChain is one complete (or partial) purchase-to-pay chain, plus
// the forward/backward reference edges the cascade analysis (C8)
// walks.
type P2PChain struct {
	PurchaseOrder PurchaseOrder
	GoodsReceipts []GoodsReceipt
	Invoice       *VendorInvoice
	Payment       *Payment
}

// O2CChain is one complete (or partial) order-to-cash chain.
type O2CChain struct {
	SalesOrder SalesOrder
	Deliveries []Delivery
	Invoice    *CustomerInvoice
	Receipt    *Receipt
}

// VarianceLabel is emitted when an amount-reconciliation check fails
// and must be reported as a labeled variance rather than silently
// accepted, per spec.md §4.4 step 3.
type VarianceLabel struct {
	ChainDocumentID string
	Stage           string
	Expected        money.Money
	Actual          money.Money
}
