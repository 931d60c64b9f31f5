package sampling

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ledgerforge/datasynth/internal/ids"
	"github.com/ledgerforge/datasynth/internal/money"
)

// LognormalComponent is one mixture member of the amount distribution:
// a median amount (in whole currency units) and shape, weighted
// against the other components.
type LognormalComponent struct {
	Median float64
	Sigma  float64
	Weight float64
}

// FraudPattern selects the amount-draw rule used by fraud-aware
// sampling, grounded on spec.md §4.2's fraud amount patterns.
type FraudPattern int

const (
	FraudPatternNone FraudPattern = iota
	FraudPatternThresholdAdjacent
	FraudPatternRoundNumber
	FraudPatternStatisticallyImprobable
)

// AmountConfig parameterizes the amount sampler.
type AmountConfig struct {
	Mixture           []LognormalComponent
	BenfordCompliant  bool
	BenfordTolerance  float64 // fraction, e.g. 0.02
	RoundUnit         int64   // currency-unit multiple for FraudPatternRoundNumber
	ApprovalThreshold float64 // currency units, for FraudPatternThresholdAdjacent
}

// benfordTarget is P(d) = log10(1 + 1/d) for d in 1..9.
var benfordTarget = func() [10]float64 {
	var t [10]float64
	for d := 1; d <= 9; d++ {
		t[d] = math.Log10(1 + 1/float64(d))
	}
	return t
}()

// AmountSampler draws Money amounts per spec.md §4.2.
type AmountSampler struct {
	cfg    AmountConfig
	rng    *ids.Stream
	seed   uint64
	mixCDF []float64
	dists  []distuv.LogNormal
	// Rolling first-digit tally backing Benford rejection sampling's
	// convergence check.
	digitCounts [10]int
	digitTotal  int
}

// NewAmountSampler builds a sampler seeded from seed with the given config.
func NewAmountSampler(seed uint64, cfg AmountConfig) *AmountSampler {
	s := &AmountSampler{cfg: cfg, seed: seed}
	s.rng = ids.NewStream(seed)
	s.rebuildDists()
	return s
}

func (s *AmountSampler) rebuildDists() {
	mix := s.cfg.Mixture
	if len(mix) == 0 {
		mix = []LognormalComponent{{Median: 1000, Sigma: 0.9, Weight: 1}}
	}
	s.dists = make([]distuv.LogNormal, len(mix))
	s.mixCDF = make([]float64, len(mix))
	var total float64
	src := newRandSource(s.rng)
	for i, c := range mix {
		mu := math.Log(math.Max(c.Median, 0.01))
		s.dists[i] = distuv.LogNormal{Mu: mu, Sigma: c.Sigma, Src: src}
		total += c.Weight
		s.mixCDF[i] = total
	}
	if total <= 0 {
		total = 1
	}
	for i := range s.mixCDF {
		s.mixCDF[i] /= total
	}
}

// Reset returns the sampler to a byte-identical freshly-constructed state.
func (s *AmountSampler) Reset(seed uint64) {
	s.seed = seed
	s.rng.Reset(seed)
	s.digitCounts = [10]int{}
	s.digitTotal = 0
	s.rebuildDists()
}

func (s *AmountSampler) pickComponent() int {
	x := s.rng.Float64()
	for i, c := range s.mixCDF {
		if x <= c {
			return i
		}
	}
	return len(s.mixCDF) - 1
}

// drawRaw draws one positive float from the mixture, honoring Benford
// rejection sampling when enabled.
func (s *AmountSampler) drawRaw() float64 {
	if !s.cfg.BenfordCompliant {
		return s.dists[s.pickComponent()].Rand()
	}
	// Rejection sampling: draw candidates until the candidate's first
	// digit is under-represented relative to the Benford target within
	// tolerance, bounded to avoid unbounded looping on pathological
	// configs.
	tol := s.cfg.BenfordTolerance
	if tol <= 0 {
		tol = 0.02
	}
	for attempt := 0; attempt < 64; attempt++ {
		v := s.dists[s.pickComponent()].Rand()
		d := firstDigitOf(v)
		if d == 0 {
			continue
		}
		observed := 0.0
		if s.digitTotal > 0 {
			observed = float64(s.digitCounts[d]) / float64(s.digitTotal)
		}
		if observed <= benfordTarget[d]+tol || s.digitTotal < 9 {
			s.digitCounts[d]++
			s.digitTotal++
			return v
		}
	}
	v := s.dists[s.pickComponent()].Rand()
	if d := firstDigitOf(v); d != 0 {
		s.digitCounts[d]++
		s.digitTotal++
	}
	return v
}

func firstDigitOf(v float64) int {
	if v <= 0 {
		return 0
	}
	for v >= 10 {
		v /= 10
	}
	for v < 1 {
		v *= 10
	}
	return int(v)
}

// Sample draws one Money amount under the configured (non-fraud) mode.
func (s *AmountSampler) Sample() money.Money {
	v := s.drawRaw()
	return money.FromCents(int64(math.Round(v * 100)))
}

// SampleFraud draws one Money amount under the given fraud pattern.
func (s *AmountSampler) SampleFraud(pattern FraudPattern) money.Money {
	switch pattern {
	case FraudPatternThresholdAdjacent:
		threshold := s.cfg.ApprovalThreshold
		if threshold <= 0 {
			threshold = 10000
		}
		epsilon := threshold * 0.03
		delta := (s.rng.Float64()*2 - 1) * epsilon
		v := threshold - math.Abs(epsilon*0.2) + delta
		return money.FromCents(int64(math.Round(v * 100)))
	case FraudPatternRoundNumber:
		unit := s.cfg.RoundUnit
		if unit <= 0 {
			unit = 100
		}
		n := int64(s.rng.IntRange(1, 500))
		return money.FromInt(n * unit)
	case FraudPatternStatisticallyImprobable:
		// Draw from the tail: at least 3 sigma above the median, in
		// log-space, of a mixture component picked by weight.
		comp := s.dists[s.pickComponent()]
		tail := math.Exp(comp.Mu + 3.2*comp.Sigma + s.rng.Float64()*comp.Sigma)
		return money.FromCents(int64(math.Round(tail * 100)))
	default:
		return s.Sample()
	}
}

// SampleSummingTo emits n positive amounts summing exactly to total,
// per spec.md §4.2's sample_summing_to contract: proportional shares
// drawn from the configured mixture, remainder folded into the last
// share to preserve fixed-point equality.
func (s *AmountSampler) SampleSummingTo(n int, total money.Money) []money.Money {
	if n <= 0 {
		return nil
	}
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = math.Max(s.drawRaw(), 0.01)
	}
	return money.SumExactlyTo(total, weights)
}
