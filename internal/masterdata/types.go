// Package masterdata implements the master-data pools (C3): vendors,
// customers, materials, assets, and employees, indexed by type/role,
// generated once per company from a sub-seed.
package masterdata

import "github.com/ledgerforge/datasynth/internal/money"

// VendorType classifies a vendor's commercial role.
type VendorType int

const (
	VendorSupplier VendorType = iota
	VendorService
	VendorUtility
	VendorTechnology
)

// PaymentTerms describes net-due and discount structure.
type PaymentTerms struct {
	NetDays      int
	DiscountDays int
	DiscountPct  float64
}

// BankAccount is a single settlement account on a vendor or customer.
type BankAccount struct {
	IBAN    string
	BankRef string
}

// Vendor is a master vendor record, per spec.md §3.
type Vendor struct {
	ID                string
	Name              string
	Type              VendorType
	Country           string
	Currency          string
	Terms             PaymentTerms
	BankAccounts      []BankAccount
	Intercompany      bool
	CounterpartCode   string
	PaymentPunctual   float64 // 0..1, probability of on-time payment
	GracePeriodDays   int
}

// CustomerCreditState tracks a customer's credit exposure.
type CustomerCreditState struct {
	CreditLimit   money.Money
	CurrentUsage  money.Money
	OnHold        bool
}

// Customer is a master customer record, per spec.md §3.
type Customer struct {
	ID              string
	Name            string
	Country         string
	Currency        string
	Terms           PaymentTerms
	Credit          CustomerCreditState
	BankAccounts    []BankAccount
	Intercompany    bool
	CounterpartCode string
	PaymentPunctual float64
	GracePeriodDays int
}

// MaterialStatus is the lifecycle state of a material record.
type MaterialStatus int

const (
	MaterialActive MaterialStatus = iota
	MaterialDiscontinued
	MaterialBlocked
)

// Material is a master material/product record.
type Material struct {
	ID        string
	Name      string
	Status    MaterialStatus
	UnitPrice money.Money
	HasBOM    bool
}

// AssetStatus is the lifecycle state of a fixed asset.
type AssetStatus int

const (
	AssetInService AssetStatus = iota
	AssetFullyDepreciated
	AssetDisposed
)

// Asset is a master fixed-asset record.
type Asset struct {
	ID               string
	Description      string
	Status           AssetStatus
	AcquisitionValue money.Money
	FullyDepreciated bool
}

// EmployeeStatus is the lifecycle state of an employee record.
type EmployeeStatus int

const (
	EmployeeActive EmployeeStatus = iota
	EmployeeOnLeave
	EmployeeTerminated
)

// Employee is a master employee record forming a manager DAG, per
// spec.md §3: ManagerID resolves, ApprovalLimit is non-decreasing
// along any reporting-up path, and the graph has no cycles.
type Employee struct {
	ID                string
	Name              string
	Status            EmployeeStatus
	ManagerID         string // empty for the root
	JobLevel          int
	ApprovalLimit     money.Money
	AuthorizedCompany []string
	Roles             []string
}
