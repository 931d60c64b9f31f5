package sampling

import "github.com/ledgerforge/datasynth/internal/ids"

// Categorical is a pre-computed cumulative-weight vector over a closed
// set of labeled outcomes, per spec.md §9's "tagged variants +
// dispatch table" design note: categorical sampling is a cumulative
// weight vector, not a per-draw weighted scan.
type Categorical[T any] struct {
	labels     []T
	cumulative []float64
}

// NewCategorical builds a categorical sampler over labels with the
// corresponding weights (need not sum to 1; normalized internally).
func NewCategorical[T any](labels []T, weights []float64) Categorical[T] {
	cum := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		total += w
		cum[i] = total
	}
	if total <= 0 {
		total = 1
	}
	for i := range cum {
		cum[i] /= total
	}
	return Categorical[T]{labels: labels, cumulative: cum}
}

// Sample draws one label using r.
func (c Categorical[T]) Sample(r *ids.Stream) T {
	x := r.Float64()
	lo, hi := 0, len(c.cumulative)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if x <= c.cumulative[mid] {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return c.labels[lo]
}
