package sampling

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAmountSamplerResetReplays(t *testing.T) {
	cfg := AmountConfig{Mixture: []LognormalComponent{{Median: 500, Sigma: 0.8, Weight: 1}}}
	s := NewAmountSampler(1, cfg)
	var first []string
	for i := 0; i < 10; i++ {
		first = append(first, s.Sample().String())
	}
	s.Reset(1)
	for i := 0; i < 10; i++ {
		require.Equal(t, first[i], s.Sample().String())
	}
}

func TestAmountSamplerSummingToPreservesTotal(t *testing.T) {
	cfg := AmountConfig{Mixture: []LognormalComponent{{Median: 500, Sigma: 0.8, Weight: 1}}}
	s := NewAmountSampler(2, cfg)
	total := s.Sample().Add(s.Sample())
	parts := s.SampleSummingTo(4, total)
	require.Len(t, parts, 4)
	sum := parts[0]
	for _, p := range parts[1:] {
		sum = sum.Add(p)
	}
	require.Equal(t, 0, sum.Cmp(total))
}

func TestBenfordConvergence(t *testing.T) {
	cfg := AmountConfig{
		Mixture:          []LognormalComponent{{Median: 1000, Sigma: 1.2, Weight: 1}},
		BenfordCompliant: true,
		BenfordTolerance: 0.03,
	}
	s := NewAmountSampler(3, cfg)
	var counts [10]int
	const n = 5000
	for i := 0; i < n; i++ {
		d := s.Sample().FirstDigit()
		counts[d]++
	}
	for d := 1; d <= 9; d++ {
		observed := float64(counts[d]) / float64(n)
		require.InDelta(t, benfordTarget[d], observed, 0.05)
	}
}

func TestTemporalSamplerWithinRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	s := NewTemporalSampler(5, TemporalConfig{Start: start, End: end})
	for i := 0; i < 50; i++ {
		d := s.SampleDate()
		require.False(t, d.Before(start))
		require.False(t, d.After(end))
	}
}

func TestLineShapeSamplerTotalsMatch(t *testing.T) {
	s := NewLineShapeSampler(9, LineShapeConfig{})
	for i := 0; i < 50; i++ {
		shape := s.Sample()
		require.Equal(t, shape.TotalLines, shape.DebitCount+shape.CreditCount)
		require.GreaterOrEqual(t, shape.DebitCount, 1)
		require.GreaterOrEqual(t, shape.CreditCount, 1)
	}
}

func TestDriftControllerComposesMultipliers(t *testing.T) {
	d := NewDriftController(DriftConfig{AmountGrowthPerPeriod: 0.01, SeasonalAmplitude: 0.1, SeasonalCycleLength: 4})
	a0 := d.At(0)
	a3 := d.At(3)
	require.InDelta(t, 1.0, a0.AmountMean, 1e-9)
	require.InDelta(t, 1.03, a3.AmountMean, 1e-9)
	require.True(t, math.Abs(a0.SeasonalFactor-1) <= 0.1+1e-9)
}
