package docflow

import (
	"time"

	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/money"
	"github.com/ledgerforge/datasynth/internal/sampling"
)

// Config parameterizes chain generation, per spec.md §4.4 and the
// document_flows.{p2p,o2c} configuration block in §6.
type Config struct {
	GoodsReceiptProbability float64
	InvoiceProbability      float64
	PaymentProbability      float64
	PartialFulfillmentRate  float64 // probability an upstream doc splits into >1 downstream doc
	VarianceRate            float64 // probability a reconciliation mismatch is introduced
	MaxPaymentDelayDays     int
	DunningLevelDays        []int // strictly ascending
}

// Engine produces document chains from a pool and a date range.
type Engine struct {
	cfg Config
	rng *ids.Stream
	idf *ids.IDFactory
}

// NewEngine builds an engine seeded from seed.
func NewEngine(seed uint64, idf *ids.IDFactory, cfg Config) *Engine {
	return &Engine{cfg: cfg, rng: ids.NewStream(seed), idf: idf}
}

// Reset returns the engine's internal stream to a byte-identical
// freshly-constructed state (the id factory's own counters are reset
// independently via IDFactory.ResetKind).
func (e *Engine) Reset(seed uint64) {
	e.rng.Reset(seed)
}

// GenerateP2P produces one purchase-to-pay chain, per spec.md §4.4.
func (e *Engine) GenerateP2P(companyCode string, pool *masterdata.Pool, temporal *sampling.TemporalSampler, amounts *sampling.AmountSampler) (P2PChain, []VarianceLabel, error) {
	vendor, err := pool.RandomVendor(e.rng, masterdata.VendorSupplier)
	if err != nil {
		return P2PChain{}, nil, err
	}
	material, err := pool.RandomMaterial(e.rng)
	if err != nil {
		return P2PChain{}, nil, err
	}

	poDate := temporal.SampleDate()
	qty := e.rng.IntRange(1, 100)
	amount := amounts.Sample()

	po := PurchaseOrder{
		ID:          e.idf.Next(ids.KindPurchaseOrder).String(),
		CompanyCode: companyCode,
		VendorID:    vendor.ID,
		Date:        poDate,
		Amount:      amount,
		Quantity:    qty,
		MaterialID:  material.ID,
	}
	chain := P2PChain{PurchaseOrder: po}
	var variances []VarianceLabel

	if !e.rng.Bool(e.cfg.GoodsReceiptProbability) {
		return chain, variances, nil
	}

	remainingQty := qty
	grDate := advance(poDate, e.rng, 1, 10)
	if e.rng.Bool(e.cfg.PartialFulfillmentRate) && qty > 1 {
		splits := e.rng.IntRange(2, 3)
		perSplit := qty / splits
		if perSplit < 1 {
			perSplit = 1
		}
		for i := 0; i < splits && remainingQty > 0; i++ {
			q := perSplit
			if i == splits-1 {
				q = remainingQty
			}
			gr := GoodsReceipt{
				ID:              e.idf.Next(ids.KindGoodsReceipt).String(),
				PurchaseOrderID: po.ID,
				Date:            grDate,
				Quantity:        q,
			}
			chain.GoodsReceipts = append(chain.GoodsReceipts, gr)
			remainingQty -= q
			grDate = advance(grDate, e.rng, 1, 5)
		}
	} else {
		chain.GoodsReceipts = append(chain.GoodsReceipts, GoodsReceipt{
			ID:              e.idf.Next(ids.KindGoodsReceipt).String(),
			PurchaseOrderID: po.ID,
			Date:            grDate,
			Quantity:        qty,
		})
	}

	if !e.rng.Bool(e.cfg.InvoiceProbability) {
		return chain, variances, nil
	}
	lastGR := chain.GoodsReceipts[len(chain.GoodsReceipts)-1].Date
	invDate := advance(lastGR, e.rng, 1, 7)
	invAmount := po.Amount
	variance := e.rng.Bool(e.cfg.VarianceRate)
	if variance {
		delta := invAmount.MulFrac(int64(e.rng.IntRange(1, 8)), 100)
		invAmount = invAmount.Add(delta)
	}
	inv := VendorInvoice{
		ID:              e.idf.Next(ids.KindVendorInvoice).String(),
		PurchaseOrderID: po.ID,
		Date:            invDate,
		Amount:          invAmount,
		Variance:        variance,
	}
	chain.Invoice = &inv
	if variance {
		variances = append(variances, VarianceLabel{
			ChainDocumentID: inv.ID,
			Stage:           "vendor_invoice",
			Expected:        po.Amount,
			Actual:          invAmount,
		})
	}

	if !e.rng.Bool(e.cfg.PaymentProbability) {
		return chain, variances, nil
	}
	delay := e.cfg.MaxPaymentDelayDays
	if delay <= 0 {
		delay = 45
	}
	payDate := invDate
	if vendor.PaymentPunctual < e.rng.Float64() {
		payDate = advance(invDate, e.rng, delay/2, delay)
	} else {
		payDate = advance(invDate, e.rng, 1, delay/3+1)
	}
	chain.Payment = &Payment{
		ID:              e.idf.Next(ids.KindPayment).String(),
		VendorInvoiceID: inv.ID,
		Date:            payDate,
		Amount:          invAmount,
	}
	return chain, variances, nil
}

// GenerateO2C produces one order-to-cash chain, the sales-side
// counterpart of GenerateP2P.
func (e *Engine) GenerateO2C(companyCode string, pool *masterdata.Pool, temporal *sampling.TemporalSampler, amounts *sampling.AmountSampler) (O2CChain, []VarianceLabel, error) {
	customer, err := pool.RandomCustomer(e.rng)
	if err != nil {
		return O2CChain{}, nil, err
	}
	material, err := pool.RandomMaterial(e.rng)
	if err != nil {
		return O2CChain{}, nil, err
	}

	soDate := temporal.SampleDate()
	qty := e.rng.IntRange(1, 100)
	amount := amounts.Sample()

	so := SalesOrder{
		ID:          e.idf.Next(ids.KindSalesOrder).String(),
		CompanyCode: companyCode,
		CustomerID:  customer.ID,
		Date:        soDate,
		Amount:      amount,
		Quantity:    qty,
		MaterialID:  material.ID,
	}
	chain := O2CChain{SalesOrder: so}
	var variances []VarianceLabel

	if !e.rng.Bool(e.cfg.GoodsReceiptProbability) {
		return chain, variances, nil
	}

	remainingQty := qty
	dlvDate := advance(soDate, e.rng, 1, 10)
	if e.rng.Bool(e.cfg.PartialFulfillmentRate) && qty > 1 {
		splits := e.rng.IntRange(2, 3)
		perSplit := qty / splits
		if perSplit < 1 {
			perSplit = 1
		}
		for i := 0; i < splits && remainingQty > 0; i++ {
			q := perSplit
			if i == splits-1 {
				q = remainingQty
			}
			chain.Deliveries = append(chain.Deliveries, Delivery{
				ID:           e.idf.Next(ids.KindDelivery).String(),
				SalesOrderID: so.ID,
				Date:         dlvDate,
				Quantity:     q,
			})
			remainingQty -= q
			dlvDate = advance(dlvDate, e.rng, 1, 5)
		}
	} else {
		chain.Deliveries = append(chain.Deliveries, Delivery{
			ID:           e.idf.Next(ids.KindDelivery).String(),
			SalesOrderID: so.ID,
			Date:         dlvDate,
			Quantity:     qty,
		})
	}

	if !e.rng.Bool(e.cfg.InvoiceProbability) {
		return chain, variances, nil
	}
	lastDlv := chain.Deliveries[len(chain.Deliveries)-1].Date
	invDate := advance(lastDlv, e.rng, 1, 7)
	invAmount := so.Amount
	variance := e.rng.Bool(e.cfg.VarianceRate)
	if variance {
		delta := invAmount.MulFrac(int64(e.rng.IntRange(1, 8)), 100)
		invAmount = invAmount.Add(delta)
	}
	inv := CustomerInvoice{
		ID:           e.idf.Next(ids.KindCustomerInvoice).String(),
		SalesOrderID: so.ID,
		Date:         invDate,
		Amount:       invAmount,
		Variance:     variance,
	}
	chain.Invoice = &inv
	if variance {
		variances = append(variances, VarianceLabel{
			ChainDocumentID: inv.ID,
			Stage:           "customer_invoice",
			Expected:        so.Amount,
			Actual:          invAmount,
		})
	}

	if !e.rng.Bool(e.cfg.PaymentProbability) {
		return chain, variances, nil
	}
	delay := e.cfg.MaxPaymentDelayDays
	if delay <= 0 {
		delay = 45
	}
	var recvDate time.Time
	if customer.PaymentPunctual < e.rng.Float64() {
		recvDate = advance(invDate, e.rng, delay/2, delay)
	} else {
		recvDate = advance(invDate, e.rng, 1, delay/3+1)
	}
	chain.Receipt = &Receipt{
		ID:                e.idf.Next(ids.KindReceipt).String(),
		CustomerInvoiceID: inv.ID,
		Date:              recvDate,
		Amount:            invAmount,
	}
	return chain, variances, nil
}

// advance returns a date strictly at or after base (date monotonicity
// per spec.md §3's Document Chain invariant), offset by a random
// number of days in [minDays, maxDays].
func advance(base time.Time, rng *ids.Stream, minDays, maxDays int) time.Time {
	if maxDays < minDays {
		maxDays = minDays
	}
	return base.AddDate(0, 0, rng.IntRange(minDays, maxDays))
}

// ReconcileTotal checks whether actual equals expected within epsilon,
// a helper shared by C8's amount-validation checks.
func ReconcileTotal(expected, actual, epsilon money.Money) bool {
	return expected.EqualWithin(actual, epsilon)
}
