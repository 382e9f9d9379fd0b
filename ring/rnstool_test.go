package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newRNSToolForTest(t *testing.T) (*RNSTool, *RNSBase) {
	baseQ, err := NewRNSBase([]uint64{1073741831, 1073741833}) // two ~30-bit primes
	require.NoError(t, err)
	rt, err := NewRNSTool(baseQ, 64, 64) // N=64, t=64
	require.NoError(t, err)
	return rt, baseQ
}

func decomposeIntoPoly(base *RNSBase, v *Int, N int) Poly {
	p := NewPoly(N, len(base.Primes))
	res := base.DecomposeCoefficient(v)
	for i := range base.Primes {
		p.Coeffs[i][0] = res[i]
	}
	return p
}

func TestRNSToolFastFloor(t *testing.T) {
	rt, baseQ := newRNSToolForTest(t)

	for _, v := range []int64{0, 1, -1, 1000000, -1000000} {
		xQ := decomposeIntoPoly(baseQ, NewInt(v), 1)
		xBsk := decomposeIntoPoly(rt.BaseBsk, NewInt(v), 1)
		floored := rt.FastFloor(xQ, xBsk)

		col := make([]uint64, len(rt.BaseBsk.Primes))
		for i := range col {
			col[i] = floored.Coeffs[i][0]
		}
		got := rt.BaseBsk.ComposeCoefficient(col)

		num := new(Int).Mul(NewInt(v), NewUint(rt.T))
		want := floorDiv(num, baseQ.Q)
		require.EqualValues(t, want.Value.Int64(), got.Value.Int64(), "floor(t*%d/Q)", v)
	}
}

func TestRNSToolFastBConvSK(t *testing.T) {
	rt, baseQ := newRNSToolForTest(t)

	for _, v := range []int64{0, 1, -1, 31} {
		x := decomposeIntoPoly(rt.BaseBsk, NewInt(v), 1)
		back := rt.FastBConvSK(x)

		col := make([]uint64, len(baseQ.Primes))
		for i := range col {
			col[i] = back.Coeffs[i][0]
		}
		got := baseQ.ComposeCoefficient(col)
		require.EqualValues(t, v, got.Value.Int64())
	}
}

func TestRNSToolExtendToBsk(t *testing.T) {
	rt, baseQ := newRNSToolForTest(t)

	for _, v := range []int64{0, 1, -1, 1000000, -1000000} {
		x := decomposeIntoPoly(baseQ, NewInt(v), 1)
		extended := rt.ExtendToBsk(x)

		col := make([]uint64, len(rt.BaseBsk.Primes))
		for i := range col {
			col[i] = extended.Coeffs[i][0]
		}
		got := rt.BaseBsk.ComposeCoefficient(col)
		require.EqualValues(t, v, got.Value.Int64())
	}
}

func TestRNSToolSmMRQ(t *testing.T) {
	rt, _ := newRNSToolForTest(t)

	for _, w := range []int64{0, 1, -1, 17} {
		scaled := new(Int).Mul(NewInt(w), NewUint(rt.Mtilde))
		x := decomposeIntoPoly(rt.BaseBskMtilde, scaled, 1)
		reduced := rt.SmMRQ(x)

		col := make([]uint64, len(rt.BaseBsk.Primes))
		for i := range col {
			col[i] = reduced.Coeffs[i][0]
		}
		got := rt.BaseBsk.ComposeCoefficient(col)
		require.EqualValues(t, w, got.Value.Int64())
	}
}
