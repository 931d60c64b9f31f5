// Package money implements the fixed-point decimal Money type required
// by spec.md §3: 4-digit scale, saturating 38-digit precision, no
// floating-point arithmetic on balances.
package money

import (
	"fmt"
	"math/big"
	"strings"
)

const scale = 10_000 // 4 fractional digits

// maxUnits is the largest magnitude representable without exceeding
// 38 significant decimal digits once the 4-digit scale is accounted
// for (10^38 / 10^4 units headroom, with one digit of margin kept for
// sign/rounding safety).
var maxUnits = new(big.Int).Exp(big.NewInt(10), big.NewInt(37), nil)

// Money is an exact, saturating, fixed-point decimal amount. The zero
// value is zero. Money is comparable by value via Cmp; do not compare
// with ==, since two Money values holding the same amount are not
// guaranteed to share a *big.Int pointer.
type Money struct {
	units *big.Int // value * scale
}

// Zero returns the additive identity.
func Zero() Money { return Money{units: big.NewInt(0)} }

// FromInt builds a whole-number amount.
func FromInt(v int64) Money {
	return Money{units: new(big.Int).Mul(big.NewInt(v), big.NewInt(scale))}
}

// FromCents builds an amount from an integer count of 1/100 units
// (ordinary currency cents), which is the common case for generated
// line amounts.
func FromCents(cents int64) Money {
	return Money{units: new(big.Int).Mul(big.NewInt(cents), big.NewInt(scale/100))}
}

// FromUnits builds an amount directly from its internal fixed-point
// representation (value * 10^4); used by samplers that compute in
// integer micro-units to avoid float drift.
func FromUnits(units int64) Money {
	return Money{units: big.NewInt(units)}
}

func (m Money) u() *big.Int {
	if m.units == nil {
		return big.NewInt(0)
	}
	return m.units
}

func saturate(v *big.Int) *big.Int {
	if v.CmpAbs(maxUnits) > 0 {
		if v.Sign() < 0 {
			return new(big.Int).Neg(maxUnits)
		}
		return new(big.Int).Set(maxUnits)
	}
	return v
}

// Add returns m + o, saturating at the configured precision bound.
func (m Money) Add(o Money) Money {
	return Money{units: saturate(new(big.Int).Add(m.u(), o.u()))}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{units: saturate(new(big.Int).Sub(m.u(), o.u()))}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{units: new(big.Int).Neg(m.u())}
}

// MulFrac returns m * (numerator/denominator), rounded half-away-from-zero.
// Used for percentage/jitter adjustments without floating point.
func (m Money) MulFrac(numerator, denominator int64) Money {
	if denominator == 0 {
		denominator = 1
	}
	prod := new(big.Int).Mul(m.u(), big.NewInt(numerator))
	den := big.NewInt(denominator)
	q, r := new(big.Int).QuoRem(prod, den, new(big.Int))
	half := new(big.Int).Mul(big.NewInt(2), new(big.Int).Abs(r))
	if half.CmpAbs(new(big.Int).Abs(den)) >= 0 {
		if (prod.Sign() < 0) != (den.Sign() < 0) {
			q.Sub(q, big.NewInt(1))
		} else {
			q.Add(q, big.NewInt(1))
		}
	}
	return Money{units: saturate(q)}
}

// RoundToUnit rounds m down to the nearest multiple of unit (a whole
// number of currency units, e.g. 10 or 100), used by human-error and
// amount-pattern rewrites.
func (m Money) RoundToUnit(unit int64) Money {
	step := big.NewInt(unit * scale)
	q := new(big.Int).Quo(m.u(), step)
	return Money{units: new(big.Int).Mul(q, step)}
}

// Cmp compares m and o exactly (no epsilon).
func (m Money) Cmp(o Money) int {
	return m.u().Cmp(o.u())
}

// EqualWithin reports whether |m - o| <= epsilon, per spec.md §3/§4.8's
// default 0.01 comparison epsilon.
func (m Money) EqualWithin(o Money, epsilon Money) bool {
	diff := new(big.Int).Abs(new(big.Int).Sub(m.u(), o.u()))
	return diff.Cmp(epsilon.u()) <= 0
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.u().Sign() == 0 }

// Sign returns -1, 0, or 1.
func (m Money) Sign() int { return m.u().Sign() }

// WholeUnits returns the truncated-toward-zero integer part of m.
func (m Money) WholeUnits() int64 {
	q := new(big.Int).Quo(m.u(), big.NewInt(scale))
	return q.Int64()
}

// SwapLastTwoWholeDigits returns m with the last two digits of its
// whole-unit part transposed (e.g. 192.50 -> 129.50), a simple
// data-entry-slip simulation. Amounts with fewer than two whole
// digits are returned unchanged.
func (m Money) SwapLastTwoWholeDigits() Money {
	whole := m.WholeUnits()
	neg := whole < 0
	if neg {
		whole = -whole
	}
	if whole < 10 {
		return m
	}
	last := whole % 10
	rest := whole / 10
	secondLast := rest % 10
	swapped := (rest/10)*100 + last*10 + secondLast
	if neg {
		swapped = -swapped
	}
	fractional := m.Sub(FromInt(whole * signOf(neg)))
	return FromInt(swapped).Add(fractional)
}

func signOf(neg bool) int64 {
	if neg {
		return -1
	}
	return 1
}

// FirstDigit returns the first significant decimal digit of |m|,
// 0 if m is zero, used by the Benford's-law sampler.
func (m Money) FirstDigit() int {
	abs := new(big.Int).Abs(m.u())
	if abs.Sign() == 0 {
		return 0
	}
	s := abs.String()
	return int(s[0] - '0')
}

// String renders the amount with 4 fractional digits, e.g. "1234.5000".
func (m Money) String() string {
	u := m.u()
	neg := u.Sign() < 0
	abs := new(big.Int).Abs(u)
	q, r := new(big.Int).QuoRem(abs, big.NewInt(scale), new(big.Int))
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s%s.%04d", sign, q.String(), r.Int64())
}

// Parse reads a decimal string of the form produced by String (an
// optional sign, an integer part, and up to 4 fractional digits).
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, fmt.Errorf("money: empty string")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac {
		if len(frac) > 4 {
			return Money{}, fmt.Errorf("money: too many fractional digits in %q", s)
		}
		for len(frac) < 4 {
			frac += "0"
		}
	} else {
		frac = "0000"
	}
	if whole == "" {
		whole = "0"
	}
	units, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return Money{}, fmt.Errorf("money: invalid decimal %q", s)
	}
	if neg {
		units.Neg(units)
	}
	return Money{units: saturate(units)}, nil
}

// MarshalJSON renders the amount as its decimal string, so precision
// survives the wire round trip that a JSON number would lose.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON parses the decimal string produced by MarshalJSON.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// SumExactlyTo splits total into n positive parts summing exactly to
// total, with weight-proportional shares and the rounding remainder
// folded into the last part, matching spec.md §4.2's
// sample_summing_to contract. weights must have length n and sum > 0.
func SumExactlyTo(total Money, weights []float64) []Money {
	n := len(weights)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Money{total}
	}
	var wsum float64
	for _, w := range weights {
		wsum += w
	}
	if wsum <= 0 {
		wsum = float64(n)
		for i := range weights {
			weights[i] = 1
		}
	}
	parts := make([]Money, n)
	running := Zero()
	for i := 0; i < n-1; i++ {
		share := int64(weights[i] / wsum * 1_000_000)
		part := total.MulFrac(share, 1_000_000)
		parts[i] = part
		running = running.Add(part)
	}
	parts[n-1] = total.Sub(running)
	return parts
}
