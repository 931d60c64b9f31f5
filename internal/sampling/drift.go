package sampling

import "math"

// DriftAdjustment is the multiplicative adjustment set returned by the
// drift controller for a given period index, per spec.md §4.2.
type DriftAdjustment struct {
	AmountMean    float64
	AnomalyRate   float64
	SeasonalFactor float64
}

// DriftConfig parameterizes a linear-plus-cyclical drift across the
// simulated period range, e.g. inflation (linear amount growth) and a
// repeating seasonal cycle.
type DriftConfig struct {
	Periods             int
	AmountGrowthPerPeriod float64 // e.g. 0.01 for 1% per period
	AnomalyGrowthPerPeriod float64
	SeasonalCycleLength int     // periods per cycle, e.g. 12
	SeasonalAmplitude   float64 // +/- fraction around 1.0
}

// DriftController returns the per-period composed multipliers.
type DriftController struct {
	cfg DriftConfig
}

// NewDriftController builds a controller over cfg.
func NewDriftController(cfg DriftConfig) *DriftController {
	if cfg.SeasonalCycleLength <= 0 {
		cfg.SeasonalCycleLength = 12
	}
	return &DriftController{cfg: cfg}
}

// At returns the adjustment for period p (0-indexed).
func (d *DriftController) At(p int) DriftAdjustment {
	amountMean := 1 + d.cfg.AmountGrowthPerPeriod*float64(p)
	anomalyRate := 1 + d.cfg.AnomalyGrowthPerPeriod*float64(p)
	seasonal := 1.0
	if d.cfg.SeasonalAmplitude != 0 {
		phase := float64(p%d.cfg.SeasonalCycleLength) / float64(d.cfg.SeasonalCycleLength)
		seasonal = 1 + d.cfg.SeasonalAmplitude*math.Sin(2*math.Pi*phase)
	}
	return DriftAdjustment{
		AmountMean:     amountMean,
		AnomalyRate:    anomalyRate,
		SeasonalFactor: seasonal,
	}
}
