package journal

import (
	"fmt"
	"time"

	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/masterdata"
	"github.com/ledgerforge/datasynth/internal/money"
	"github.com/ledgerforge/datasynth/internal/sampling"
)

// CompanyWeight is one company's relative share of generated documents.
type CompanyWeight struct {
	Code   string
	Weight float64
}

// Config parameterizes the journal-entry generator, per spec.md §4.5/§6.
type Config struct {
	Companies           []CompanyWeight
	SourceWeights       [4]float64 // manual, automated, recurring, adjustment
	ProcessWeights      [8]float64 // indexed by BusinessProcess
	DebitAssetWeight    float64    // default 0.6
	DebitExpenseWeight  float64    // default 0.4
	CreditLiabilityWeight float64  // default 0.6
	CreditRevenueWeight   float64  // default 0.4
	AssetAccounts       []string
	ExpenseAccounts     []string
	LiabilityAccounts   []string
	RevenueAccounts     []string

	FraudEnabled    bool
	FraudRate       float64
	FraudTypeWeights map[FraudType]float64
	ApprovalThreshold money.Money // not read by the generator; threshold-adjacent amounts use Amounts.ApprovalThreshold

	HumanErrorEnabled   bool
	HumanVariationRate  float64 // default 0.7 for non-automated sources
	BatchOpenProbability float64 // default 0.15

	Personas   []Persona
	Approval   ApprovalConfig
	LineShape  sampling.LineShapeConfig
	Amounts    sampling.AmountConfig
	Temporal   sampling.TemporalConfig
	Drift      sampling.DriftConfig
	PeriodDays int // period index granularity in days, for drift lookup
}

// Generator emits balanced double-entry journal documents, per spec.md
// §4.5's 19-step decision pipeline. Line shape, amounts and dates each
// draw from a dedicated sub-stream and every other decision draws from
// one shared main sub-stream, all derived from the seed, so the produced
// document is a pure function of (config, root seed, call index), per
// the determinism clause.
type Generator struct {
	cfg Config
	idf *ids.IDFactory
	pools map[string]*masterdata.Pool // optional: supplies employees/counterparties, keyed by company code

	rngMain   *ids.Stream
	lineShape *sampling.LineShapeSampler
	amounts   *sampling.AmountSampler
	temporal  *sampling.TemporalSampler
	drift     *sampling.DriftController

	sourceCat  sampling.Categorical[Source]
	processCat sampling.Categorical[BusinessProcess]
	fraudCat   sampling.Categorical[FraudType]
	companyCat sampling.Categorical[string]
	personaCat sampling.Categorical[Persona]
	debitSide  sampling.Categorical[string] // "asset" | "expense"
	creditSide sampling.Categorical[string] // "liability" | "revenue"

	batch     BatchState
	callIndex uint64
}

// NewGenerator builds a generator seeded from seed, deriving its own
// sub-streams via an internal factory so
// Reset reproduces byte-identical output. pools supplies one
// masterdata.Pool per company code sampled via cfg.Companies; a nil
// map (or a missing company code) falls back to a synthetic user.
func NewGenerator(seed uint64, idf *ids.IDFactory, pools map[string]*masterdata.Pool, cfg Config) *Generator {
	g := &Generator{cfg: cfg, idf: idf, pools: pools}
	g.build(seed)
	return g
}

func (g *Generator) build(seed uint64) {
	f := ids.NewFactory(seed)
	g.rngMain = f.Derive("journal/main")
	g.lineShape = sampling.NewLineShapeSampler(f.SubSeed("journal/lineshape"), g.cfg.LineShape)
	g.amounts = sampling.NewAmountSampler(f.SubSeed("journal/amount"), g.cfg.Amounts)
	g.temporal = sampling.NewTemporalSampler(f.SubSeed("journal/temporal"), g.cfg.Temporal)
	g.drift = sampling.NewDriftController(g.cfg.Drift)

	sourceWeights := g.cfg.SourceWeights
	if sourceWeights == [4]float64{} {
		sourceWeights = [4]float64{0.5, 0.3, 0.15, 0.05}
	}
	g.sourceCat = sampling.NewCategorical([]Source{SourceManual, SourceAutomated, SourceRecurring, SourceAdjustment}, sourceWeights[:])

	processWeights := g.cfg.ProcessWeights
	if processWeights == [8]float64{} {
		processWeights = [8]float64{0.2, 0.2, 0.15, 0.1, 0.1, 0.1, 0.1, 0.05}
	}
	g.processCat = sampling.NewCategorical([]BusinessProcess{
		ProcessO2C, ProcessP2P, ProcessR2R, ProcessH2R, ProcessA2R, ProcessTreasury, ProcessTax, ProcessIntercompany,
	}, processWeights[:])

	fraudTypes := []FraudType{
		FraudSuspenseAccountAbuse, FraudFictitiousTransaction, FraudRevenueManipulation,
		FraudExpenseCapitalization, FraudSplitTransaction, FraudTimingAnomaly,
		FraudDuplicatePayment, FraudUnauthorizedAccess,
	}
	weights := make([]float64, len(fraudTypes))
	for i, t := range fraudTypes {
		if w, ok := g.cfg.FraudTypeWeights[t]; ok {
			weights[i] = w
		} else {
			weights[i] = 1
		}
	}
	g.fraudCat = sampling.NewCategorical(fraudTypes, weights)

	companies := g.cfg.Companies
	if len(companies) == 0 {
		companies = []CompanyWeight{{Code: "1000", Weight: 1}}
	}
	codes := make([]string, len(companies))
	cweights := make([]float64, len(companies))
	for i, c := range companies {
		codes[i] = c.Code
		cweights[i] = c.Weight
	}
	g.companyCat = sampling.NewCategorical(codes, cweights)

	personas := g.cfg.Personas
	if len(personas) == 0 {
		personas = DefaultPersonas()
	}
	pw := make([]float64, len(personas))
	for i, p := range personas {
		pw[i] = p.Weight
	}
	g.personaCat = sampling.NewCategorical(personas, pw)

	debitAsset, debitExpense := g.cfg.DebitAssetWeight, g.cfg.DebitExpenseWeight
	if debitAsset == 0 && debitExpense == 0 {
		debitAsset, debitExpense = 0.6, 0.4
	}
	g.debitSide = sampling.NewCategorical([]string{"asset", "expense"}, []float64{debitAsset, debitExpense})

	creditLiability, creditRevenue := g.cfg.CreditLiabilityWeight, g.cfg.CreditRevenueWeight
	if creditLiability == 0 && creditRevenue == 0 {
		creditLiability, creditRevenue = 0.6, 0.4
	}
	g.creditSide = sampling.NewCategorical([]string{"liability", "revenue"}, []float64{creditLiability, creditRevenue})
}

// Reset returns the generator to a byte-identical freshly-constructed
// state for seed, per spec.md §4.2's reset contract; the id factory's
// own kind counters must be reset separately by the caller if a
// byte-identical id sequence is also required.
func (g *Generator) Reset(seed uint64) {
	g.batch = BatchState{}
	g.callIndex = 0
	g.build(seed)
}

// Generate produces one document, the call at index g.callIndex.
func (g *Generator) Generate() (Document, error) {
	callIndex := g.callIndex
	g.callIndex++

	// Step 1: batch check.
	if g.batch.Active() {
		return g.generateBatched(callIndex)
	}

	doc := Document{}

	// Step 2: assign document id.
	doc.Header.DocumentID = g.idf.Next(ids.KindJournalDocument).String()

	// Step 3: posting date.
	doc.Header.PostingDate = g.temporal.SampleDate()
	doc.Header.DocumentDate = doc.Header.PostingDate
	doc.Header.FiscalYear = doc.Header.PostingDate.Year()
	doc.Header.FiscalPeriod = int(doc.Header.PostingDate.Month())

	// Step 4: company.
	doc.Header.CompanyCode = g.companyCat.Sample(g.rngMain)

	// Step 5: line shape.
	shape := g.lineShape.Sample()

	// Step 6: source.
	doc.Header.Source = g.sourceCat.Sample(g.rngMain)

	// Step 7: business process.
	doc.Header.BusinessProcess = g.processCat.Sample(g.rngMain)

	// Step 8: roll fraud.
	fraudType := FraudNone
	if g.cfg.FraudEnabled && g.rngMain.Bool(g.cfg.FraudRate) {
		fraudType = g.fraudCat.Sample(g.rngMain)
		doc.Header.FraudFlag = true
		doc.Header.FraudType = fraudType
	}

	// Step 9: time of day.
	mode := sampling.Uniform
	if doc.Header.Source == SourceManual {
		mode = sampling.BusinessHours
	}
	tod := g.temporal.SampleTimeOfDay(mode)
	doc.Header.PostingDate = time.Date(
		doc.Header.PostingDate.Year(), doc.Header.PostingDate.Month(), doc.Header.PostingDate.Day(),
		0, 0, 0, 0, time.UTC,
	).Add(tod)

	// Step 10: select user.
	persona := g.personaCat.Sample(g.rngMain)
	doc.Header.UserPersona = persona.Name
	doc.Header.CreatedBy = g.selectUser(doc.Header.CompanyCode)

	// Step 11: header text.
	counterparty := fmt.Sprintf("Counterparty-%04d", callIndex%997)
	period := fmt.Sprintf("%04d-%02d", doc.Header.FiscalYear, doc.Header.FiscalPeriod)
	doc.Header.HeaderText = BuildHeaderText(doc.Header.BusinessProcess, period, counterparty, int(callIndex))

	// Step 12: sample total amount (fraud-aware).
	var total money.Money
	pattern := fraudPatternFor(fraudType, g.cfg.ApprovalThreshold)
	if fraudType != FraudNone {
		total = g.amounts.SampleFraud(pattern)
	} else {
		total = g.amounts.Sample()
	}

	// Step 13: apply drift. Period indexing beyond call order is the
	// orchestrator's responsibility (it may rebuild the generator per
	// simulated period); absent that, call index stands in for period.
	periodIdx := int(callIndex)
	adj := g.drift.At(periodIdx)
	total = total.MulFrac(int64(adj.AmountMean*adj.SeasonalFactor*10000), 10000)

	// Step 14: human variation for non-automated sources, p=0.7.
	rate := g.cfg.HumanVariationRate
	if rate <= 0 {
		rate = 0.7
	}
	if doc.Header.Source != SourceAutomated && g.rngMain.Bool(rate) {
		total = applyHumanVariation(total, g.rngMain)
	}

	// Steps 15-16: emit debit and credit lines.
	debitAccounts := g.accountsFor(g.debitSide, callIndex)
	creditAccounts := g.accountsFor(g.creditSide, callIndex)
	debitAmounts := g.amounts.SampleSummingTo(shape.DebitCount, total)
	creditAmounts := g.amounts.SampleSummingTo(shape.CreditCount, total)

	lineNo := 1
	for i, amt := range debitAmounts {
		doc.Lines = append(doc.Lines, Line{
			LineNumber:    lineNo,
			AccountNumber: debitAccounts[i%len(debitAccounts)],
			DebitAmount:   amt,
			CreditAmount:  money.Zero(),
		})
		lineNo++
	}
	for i, amt := range creditAmounts {
		doc.Lines = append(doc.Lines, Line{
			LineNumber:    lineNo,
			AccountNumber: creditAccounts[i%len(creditAccounts)],
			DebitAmount:   money.Zero(),
			CreditAmount:  amt,
		})
		lineNo++
	}

	// Step 17: inject persona error.
	if g.cfg.HumanErrorEnabled && doc.Header.Source != SourceAutomated {
		rate := EffectiveErrorRate(persona, doc.Header.PostingDate)
		if g.rngMain.Bool(rate) {
			ApplyHumanError(&doc, g.rngMain)
		}
	}

	// Step 18: approval workflow.
	if g.cfg.Approval.Enabled {
		steps, soxRelevant := SimulateApproval(g.cfg.Approval, total, doc.Header.PostingDate, g.rngMain)
		doc.Header.ApprovalWorkflow = steps
		doc.Header.SOXRelevant = soxRelevant
	}

	// Step 19: maybe open a batch.
	if doc.Header.Source != SourceAutomated && fraudType == FraudNone && len(doc.Lines) > 0 {
		openProb := g.cfg.BatchOpenProbability
		if openProb <= 0 {
			openProb = 0.15
		}
		g.batch.MaybeOpen(g.rngMain, openProb, doc.Lines[0].AccountNumber, total, doc.Header.BusinessProcess)
	}

	return doc, nil
}

func (g *Generator) generateBatched(callIndex uint64) (Document, error) {
	doc := Document{}
	doc.Header.DocumentID = g.idf.Next(ids.KindJournalDocument).String()
	doc.Header.PostingDate = g.temporal.SampleDate()
	doc.Header.DocumentDate = doc.Header.PostingDate
	doc.Header.FiscalYear = doc.Header.PostingDate.Year()
	doc.Header.FiscalPeriod = int(doc.Header.PostingDate.Month())
	doc.Header.BusinessProcess = g.batch.Process
	doc.Header.Source = SourceManual

	total := g.batch.Consume(g.rngMain)
	doc.Lines = []Line{
		{LineNumber: 1, AccountNumber: g.batch.PrimaryAccount, DebitAmount: total, CreditAmount: money.Zero()},
		{LineNumber: 2, AccountNumber: "210000", DebitAmount: money.Zero(), CreditAmount: total},
	}
	period := fmt.Sprintf("%04d-%02d", doc.Header.FiscalYear, doc.Header.FiscalPeriod)
	doc.Header.HeaderText = BuildHeaderText(doc.Header.BusinessProcess, period, "Batch", int(callIndex))
	return doc, nil
}

func (g *Generator) selectUser(companyCode string) string {
	pool := g.pools[companyCode]
	if pool == nil {
		return "synthetic-user"
	}
	emp, err := pool.RandomEmployee(g.rngMain, companyCode)
	if err != nil {
		return "synthetic-user"
	}
	return emp.ID
}

func (g *Generator) accountsFor(side sampling.Categorical[string], callIndex uint64) []string {
	which := side.Sample(g.rngMain)
	switch which {
	case "asset":
		if len(g.cfg.AssetAccounts) > 0 {
			return g.cfg.AssetAccounts
		}
		return []string{"100000", "110000"}
	case "expense":
		if len(g.cfg.ExpenseAccounts) > 0 {
			return g.cfg.ExpenseAccounts
		}
		return []string{"600000", "610000"}
	case "liability":
		if len(g.cfg.LiabilityAccounts) > 0 {
			return g.cfg.LiabilityAccounts
		}
		return []string{"200000", "210000"}
	default:
		if len(g.cfg.RevenueAccounts) > 0 {
			return g.cfg.RevenueAccounts
		}
		return []string{"400000", "410000"}
	}
}

// applyHumanVariation applies one of spec.md §4.5 step 14's four
// variation kinds to total.
func applyHumanVariation(total money.Money, rng *ids.Stream) money.Money {
	switch rng.IntRange(0, 3) {
	case 0: // +/-2% jitter
		pct := int64(rng.IntRange(-200, 200))
		return total.MulFrac(10000+pct, 10000)
	case 1: // round to nearest 10
		return total.Add(money.FromInt(5)).RoundToUnit(10)
	case 2: // round to nearest 100 if >= 500
		if total.Cmp(money.FromInt(500)) >= 0 {
			return total.Add(money.FromInt(50)).RoundToUnit(100)
		}
		return total
	default: // +/- (0.01..1.00) drift
		driftCents := int64(rng.IntRange(1, 100))
		if rng.Bool(0.5) {
			driftCents = -driftCents
		}
		return total.Add(money.FromCents(driftCents))
	}
}

func fraudPatternFor(ft FraudType, threshold money.Money) sampling.FraudPattern {
	switch ft {
	case FraudSplitTransaction:
		return sampling.FraudPatternThresholdAdjacent
	case FraudRevenueManipulation, FraudExpenseCapitalization:
		return sampling.FraudPatternRoundNumber
	case FraudFictitiousTransaction, FraudDuplicatePayment:
		return sampling.FraudPatternStatisticallyImprobable
	default:
		return sampling.FraudPatternNone
	}
}
