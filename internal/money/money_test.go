package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSubRoundTrip(t *testing.T) {
	a := FromCents(12345)
	b := FromCents(678)
	sum := a.Add(b)
	require.Equal(t, 0, sum.Sub(b).Cmp(a))
}

func TestStringFormat(t *testing.T) {
	require.Equal(t, "123.4500", FromCents(12345).String())
	require.Equal(t, "-1.0000", FromInt(-1).String())
}

func TestSumExactlyToPreservesTotal(t *testing.T) {
	total := FromCents(10007)
	parts := SumExactlyTo(total, []float64{1, 1, 1})
	sum := Zero()
	for _, p := range parts {
		sum = sum.Add(p)
	}
	require.Equal(t, 0, sum.Cmp(total))
}

func TestEqualWithinEpsilon(t *testing.T) {
	eps := FromCents(1)
	require.True(t, FromCents(100).EqualWithin(FromCents(100), eps))
	require.False(t, FromCents(100).EqualWithin(FromCents(102), eps))
}

func TestFirstDigit(t *testing.T) {
	require.Equal(t, 1, FromInt(123).FirstDigit())
	require.Equal(t, 9, FromInt(987).FirstDigit())
	require.Equal(t, 0, Zero().FirstDigit())
}

func TestRoundToUnit(t *testing.T) {
	require.Equal(t, "120.0000", FromInt(127).RoundToUnit(10).String())
}
