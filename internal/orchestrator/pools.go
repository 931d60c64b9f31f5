package orchestrator

import (
	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/masterdata"
)

// companiesOrDefault returns cfg.Companies, defaulting to a single
// company taken from cfg.MasterData.CompanyCode (or "1000" when that
// is also blank) so a config that never set Companies explicitly keeps
// behaving as a single-company run.
func companiesOrDefault(cfg Config) []string {
	if len(cfg.Companies) > 0 {
		return cfg.Companies
	}
	code := cfg.MasterData.CompanyCode
	if code == "" {
		code = "1000"
	}
	return []string{code}
}

// BuildPools generates one master-data pool per configured company,
// per spec.md §4.3: "each pool is constructed once per company from a
// sub-seed" — every company is seeded independently off cfg.Seed so
// adding or removing a company never perturbs another company's
// generated data. cfg.MasterData supplies the shared pool shape
// (counts, type weights); only CompanyCode varies per company.
func BuildPools(cfg Config, idf *ids.IDFactory) (map[string]*masterdata.Pool, error) {
	companies := companiesOrDefault(cfg)
	f := ids.NewFactory(cfg.Seed)
	pools := make(map[string]*masterdata.Pool, len(companies))
	for _, code := range companies {
		mdCfg := cfg.MasterData
		mdCfg.CompanyCode = code
		seed := f.SubSeed("masterdata/" + code)
		pool, err := masterdata.Generate(seed, idf, mdCfg)
		if err != nil {
			return nil, err
		}
		pools[code] = pool
	}
	return pools, nil
}
