package masterdata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerforge/datasynth/internal/ids"
)

func validConfig() Config {
	return Config{
		CompanyCode:       "1000",
		VendorCount:       20,
		CustomerCount:     20,
		MaterialCount:     10,
		AssetCount:        5,
		EmployeeCount:     15,
		VendorTypeWeights: [4]float64{0.4, 0.3, 0.2, 0.1},
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	idf1 := ids.NewIDFactory(1)
	idf2 := ids.NewIDFactory(1)
	p1, err := Generate(7, idf1, validConfig())
	require.NoError(t, err)
	p2, err := Generate(7, idf2, validConfig())
	require.NoError(t, err)
	require.Equal(t, p1.Vendors, p2.Vendors)
	require.Equal(t, p1.Employees, p2.Employees)
}

func TestEmployeeHierarchyNoCyclesAndMonotonic(t *testing.T) {
	idf := ids.NewIDFactory(3)
	p, err := Generate(11, idf, validConfig())
	require.NoError(t, err)

	for _, e := range p.Employees {
		if e.ManagerID == "" {
			continue
		}
		mgr, ok := p.EmployeeByID(e.ManagerID)
		require.True(t, ok, "manager id must resolve")
		require.GreaterOrEqual(t, mgr.ApprovalLimit.Cmp(e.ApprovalLimit), 0)

		// Walk up to the root, ensuring termination (no cycle) within
		// a bound well above any plausible hierarchy depth.
		cur := e
		seen := map[string]bool{cur.ID: true}
		for steps := 0; cur.ManagerID != ""; steps++ {
			require.Less(t, steps, len(p.Employees)+1)
			next, ok := p.EmployeeByID(cur.ManagerID)
			require.True(t, ok)
			require.False(t, seen[next.ID], "cycle detected")
			seen[next.ID] = true
			cur = next
		}
	}
}

func TestInvalidWeightsRejected(t *testing.T) {
	cfg := validConfig()
	cfg.VendorTypeWeights = [4]float64{0.5, 0.5, 0.5, 0.5}
	_, err := Generate(1, ids.NewIDFactory(1), cfg)
	require.Error(t, err)
}

func TestEmptyPoolSentinel(t *testing.T) {
	cfg := validConfig()
	cfg.CustomerCount = 0
	p, err := Generate(1, ids.NewIDFactory(1), cfg)
	require.NoError(t, err)
	_, err = p.RandomCustomer(ids.NewStream(1))
	require.ErrorIs(t, err, ErrEmptyPool)
}
