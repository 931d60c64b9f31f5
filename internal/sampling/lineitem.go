package sampling

import (
	"sort"

	"github.com/ledgerforge/datasynth/internal/ids"
)

// SplitType classifies how a document's total is divided across its
// debit (or credit) lines.
type SplitType int

const (
	SplitEqual SplitType = iota
	SplitSkewed
	SplitRandom
)

// LineShape is the result of one line-item shape draw.
type LineShape struct {
	TotalLines  int
	DebitCount  int
	CreditCount int
	SplitType   SplitType
}

// LineShapeConfig parameterizes the line-item shape sampler: a
// multinomial over total line counts, and weights over split types.
type LineShapeConfig struct {
	LineCountWeights map[int]float64 // total_lines -> weight, total_lines >= 2
	SplitWeights     [3]float64      // indexed by SplitType
}

// LineShapeSampler draws (total_lines, debit_count, credit_count,
// split_type) per spec.md §4.2, subject to total_lines = debit_count +
// credit_count.
type LineShapeSampler struct {
	rng         *ids.Stream
	lineCounts  Categorical[int]
	splitTypes  Categorical[SplitType]
}

// NewLineShapeSampler builds a sampler seeded from seed.
func NewLineShapeSampler(seed uint64, cfg LineShapeConfig) *LineShapeSampler {
	weights := cfg.LineCountWeights
	if len(weights) == 0 {
		weights = map[int]float64{2: 0.5, 3: 0.3, 4: 0.15, 5: 0.05}
	}
	counts := make([]int, 0, len(weights))
	for c := range weights {
		counts = append(counts, c)
	}
	sort.Ints(counts)
	ws := make([]float64, 0, len(weights))
	for _, c := range counts {
		ws = append(ws, weights[c])
	}
	sw := cfg.SplitWeights
	if sw == [3]float64{} {
		sw = [3]float64{0.5, 0.3, 0.2}
	}
	return &LineShapeSampler{
		rng:        ids.NewStream(seed),
		lineCounts: NewCategorical(counts, ws),
		splitTypes: NewCategorical([]SplitType{SplitEqual, SplitSkewed, SplitRandom}, sw[:]),
	}
}

// Reset returns the sampler to a byte-identical freshly-constructed state.
func (s *LineShapeSampler) Reset(seed uint64) {
	s.rng.Reset(seed)
}

// Sample draws one shape.
func (s *LineShapeSampler) Sample() LineShape {
	total := s.lineCounts.Sample(s.rng)
	if total < 2 {
		total = 2
	}
	split := s.splitTypes.Sample(s.rng)

	var debit int
	switch split {
	case SplitEqual:
		debit = total / 2
		if debit < 1 {
			debit = 1
		}
	case SplitSkewed:
		debit = 1
		if total > 2 {
			debit = s.rng.IntRange(1, total-2)
		}
	default:
		debit = s.rng.IntRange(1, total-1)
	}
	if debit < 1 {
		debit = 1
	}
	if debit > total-1 {
		debit = total - 1
	}
	credit := total - debit

	return LineShape{TotalLines: total, DebitCount: debit, CreditCount: credit, SplitType: split}
}
