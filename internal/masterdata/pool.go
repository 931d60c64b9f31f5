package masterdata

import (
	"fmt"

	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/money"
	"github.com/ledgerforge/datasynth/internal/sampling"
)

// ErrEmptyPool is returned by draw helpers when a pool holds no
// entities of the requested kind; per spec.md §4.3, callers must fall
// back rather than treat this as fatal.
var ErrEmptyPool = fmt.Errorf("masterdata: pool is empty for requested kind")

// Config parameterizes pool generation for one company.
type Config struct {
	CompanyCode             string
	VendorCount             int
	CustomerCount           int
	MaterialCount           int
	AssetCount              int
	EmployeeCount           int
	VendorTypeWeights       [4]float64 // Supplier, Service, Utility, Technology
	VendorIntercompanyPct   float64
	CustomerIntercompanyPct float64
	MaterialBOMPct          float64
	AssetFullyDepreciatedPct float64
	PaymentTermsPool        []PaymentTerms
}

// Pool holds one company's generated master data plus secondary
// indexes (arena+index per spec.md §9: flat slices keyed by dense
// index, with hash indexes layered over them — no owning pointers
// between entities).
type Pool struct {
	CompanyCode string

	Vendors   []Vendor
	Customers []Customer
	Materials []Material
	Assets    []Asset
	Employees []Employee

	vendorsByType map[VendorType][]int
	employeeByID  map[string]int
}

// Generate builds a pool for one company from a sub-seed, per spec.md
// §4.3: each pool is constructed once per company from a sub-seed.
func Generate(seed uint64, idf *ids.IDFactory, cfg Config) (*Pool, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	rng := ids.NewStream(seed)
	p := &Pool{
		CompanyCode:   cfg.CompanyCode,
		vendorsByType: make(map[VendorType][]int),
		employeeByID:  make(map[string]int),
	}

	vendorTypes := sampling.NewCategorical(
		[]VendorType{VendorSupplier, VendorService, VendorUtility, VendorTechnology},
		cfg.VendorTypeWeights[:],
	)
	terms := cfg.PaymentTermsPool
	if len(terms) == 0 {
		terms = []PaymentTerms{{NetDays: 30}, {NetDays: 45, DiscountDays: 10, DiscountPct: 0.02}, {NetDays: 60}}
	}

	for i := 0; i < cfg.VendorCount; i++ {
		vt := vendorTypes.Sample(rng)
		v := Vendor{
			ID:              idf.Next(ids.KindVendor).String(),
			Name:            fmt.Sprintf("Vendor-%s-%04d", cfg.CompanyCode, i),
			Type:            vt,
			Country:         "US",
			Currency:        "USD",
			Terms:           terms[rng.IntRange(0, len(terms)-1)],
			PaymentPunctual: 0.6 + rng.Float64()*0.35,
			GracePeriodDays: rng.IntRange(0, 10),
		}
		if rng.Bool(cfg.VendorIntercompanyPct) {
			v.Intercompany = true
			v.CounterpartCode = fmt.Sprintf("IC-%s-%04d", cfg.CompanyCode, i)
		}
		idx := len(p.Vendors)
		p.Vendors = append(p.Vendors, v)
		p.vendorsByType[vt] = append(p.vendorsByType[vt], idx)
	}

	for i := 0; i < cfg.CustomerCount; i++ {
		c := Customer{
			ID:              idf.Next(ids.KindCustomer).String(),
			Name:            fmt.Sprintf("Customer-%s-%04d", cfg.CompanyCode, i),
			Country:         "US",
			Currency:        "USD",
			Terms:           terms[rng.IntRange(0, len(terms)-1)],
			Credit:          CustomerCreditState{CreditLimit: money.FromInt(int64(rng.IntRange(10000, 500000)))},
			PaymentPunctual: 0.55 + rng.Float64()*0.4,
			GracePeriodDays: rng.IntRange(0, 15),
		}
		if rng.Bool(cfg.CustomerIntercompanyPct) {
			c.Intercompany = true
			c.CounterpartCode = fmt.Sprintf("IC-%s-%04d", cfg.CompanyCode, i)
		}
		p.Customers = append(p.Customers, c)
	}

	for i := 0; i < cfg.MaterialCount; i++ {
		m := Material{
			ID:        idf.Next(ids.KindMaterial).String(),
			Name:      fmt.Sprintf("Material-%s-%04d", cfg.CompanyCode, i),
			Status:    MaterialActive,
			UnitPrice: money.FromInt(int64(rng.IntRange(5, 5000))),
			HasBOM:    rng.Bool(cfg.MaterialBOMPct),
		}
		p.Materials = append(p.Materials, m)
	}

	for i := 0; i < cfg.AssetCount; i++ {
		fullyDep := rng.Bool(cfg.AssetFullyDepreciatedPct)
		status := AssetInService
		if fullyDep {
			status = AssetFullyDepreciated
		}
		a := Asset{
			ID:               idf.Next(ids.KindAsset).String(),
			Description:      fmt.Sprintf("Asset-%s-%04d", cfg.CompanyCode, i),
			Status:           status,
			AcquisitionValue: money.FromInt(int64(rng.IntRange(1000, 250000))),
			FullyDepreciated: fullyDep,
		}
		p.Assets = append(p.Assets, a)
	}

	if err := p.generateEmployees(rng, idf, cfg); err != nil {
		return nil, err
	}

	return p, nil
}

func validate(cfg Config) error {
	var sum float64
	for _, w := range cfg.VendorTypeWeights {
		sum += w
	}
	if sum != 0 && (sum < 0.99 || sum > 1.01) {
		return fmt.Errorf("masterdata: vendor type weights sum to %.3f, want 1.0±0.01", sum)
	}
	return nil
}

// generateEmployees builds a manager DAG with job-level/approval-limit
// monotonicity, per spec.md §3: Employee.ManagerID forms a DAG with no
// cycles, and ApprovalLimit is non-decreasing along any reporting-up
// path.
func (p *Pool) generateEmployees(rng *ids.Stream, idf *ids.IDFactory, cfg Config) error {
	n := cfg.EmployeeCount
	if n <= 0 {
		return nil
	}
	// Build levels top-down so a manager always already exists (and has
	// a job level/approval limit no higher in the tree) before any
	// report is created, which is what rules out cycles by
	// construction rather than by post-hoc validation.
	const maxLevel = 5
	levelOf := func(i, n, maxLevel int) int {
		// Roughly log-shaped: first employee is the root (level
		// maxLevel), later employees skew toward lower levels.
		frac := float64(i) / float64(n)
		lvl := maxLevel - int(frac*float64(maxLevel))
		if lvl < 0 {
			lvl = 0
		}
		return lvl
	}

	byLevel := make(map[int][]int) // job level -> employee indices, populated as we go
	for i := 0; i < n; i++ {
		lvl := levelOf(i, n, maxLevel)
		e := Employee{
			ID:                idf.Next(ids.KindEmployee).String(),
			Name:              fmt.Sprintf("Employee-%s-%04d", cfg.CompanyCode, i),
			Status:            EmployeeActive,
			JobLevel:          lvl,
			ApprovalLimit:     approvalLimitForLevel(lvl),
			AuthorizedCompany: []string{cfg.CompanyCode},
			Roles:             []string{"accountant"},
		}
		if i > 0 {
			// Pick a manager strictly at a higher job level if any
			// exist yet; otherwise this employee becomes another root.
			var candidates []int
			for ml := lvl + 1; ml <= maxLevel; ml++ {
				candidates = append(candidates, byLevel[ml]...)
			}
			if len(candidates) > 0 {
				mgrIdx := candidates[rng.IntRange(0, len(candidates)-1)]
				e.ManagerID = p.Employees[mgrIdx].ID
			}
		}
		idx := len(p.Employees)
		p.Employees = append(p.Employees, e)
		p.employeeByID[e.ID] = idx
		byLevel[lvl] = append(byLevel[lvl], idx)
	}
	return nil
}

func approvalLimitForLevel(level int) money.Money {
	// Strictly non-decreasing with level; level 0 is the most junior.
	base := []int64{1000, 5000, 25000, 100000, 1000000}
	if level < 0 {
		level = 0
	}
	if level >= len(base) {
		level = len(base) - 1
	}
	return money.FromInt(base[level])
}

// EmployeeByID resolves an employee by id, per the manager-DAG
// invariant that every ManagerID must resolve.
func (p *Pool) EmployeeByID(id string) (Employee, bool) {
	idx, ok := p.employeeByID[id]
	if !ok {
		return Employee{}, false
	}
	return p.Employees[idx], true
}

// RandomVendor draws a vendor of the given type, or ErrEmptyPool if
// none exist (per spec.md §4.3's "draw from empty pool" sentinel).
func (p *Pool) RandomVendor(rng *ids.Stream, vt VendorType) (Vendor, error) {
	idxs := p.vendorsByType[vt]
	if len(idxs) == 0 {
		return Vendor{}, ErrEmptyPool
	}
	return p.Vendors[idxs[rng.IntRange(0, len(idxs)-1)]], nil
}

// RandomCustomer draws any customer, or ErrEmptyPool if the pool holds none.
func (p *Pool) RandomCustomer(rng *ids.Stream) (Customer, error) {
	if len(p.Customers) == 0 {
		return Customer{}, ErrEmptyPool
	}
	return p.Customers[rng.IntRange(0, len(p.Customers)-1)], nil
}

// RandomMaterial draws a material, or ErrEmptyPool if none exist.
func (p *Pool) RandomMaterial(rng *ids.Stream) (Material, error) {
	if len(p.Materials) == 0 {
		return Material{}, ErrEmptyPool
	}
	return p.Materials[rng.IntRange(0, len(p.Materials)-1)], nil
}

// RandomEmployee draws an employee authorized for companyCode, or
// ErrEmptyPool if none qualify.
func (p *Pool) RandomEmployee(rng *ids.Stream, companyCode string) (Employee, error) {
	var candidates []int
	for i, e := range p.Employees {
		for _, c := range e.AuthorizedCompany {
			if c == companyCode {
				candidates = append(candidates, i)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return Employee{}, ErrEmptyPool
	}
	return p.Employees[candidates[rng.IntRange(0, len(candidates)-1)]], nil
}
