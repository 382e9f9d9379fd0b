package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// With a single-prime input base, fast_convert_list's additive-error term
// (a multiple of k*Q, spec.md §4.3) vanishes identically since k=1 and
// qHat_0 = 1: the conversion is exact, which lets this test check the
// formula itself without needing SmMRQ's correction.
func TestBaseConvertorFastConvertExactForSinglePrimeInput(t *testing.T) {
	in, err := NewRNSBase([]uint64{97})
	require.NoError(t, err)
	out, err := NewRNSBase([]uint64{103, 107})
	require.NoError(t, err)
	bc := NewBaseConvertor(in, out)

	for _, v := range []int64{0, 1, 42, 96} {
		x := in.DecomposeCoefficient(NewInt(v))
		got := bc.FastConvert(x)
		want := out.DecomposeCoefficient(NewInt(v))
		require.Equal(t, want, got, "FastConvert(%d)", v)
	}
}

func TestBaseConvertorFastConvertList(t *testing.T) {
	in, err := NewRNSBase([]uint64{97})
	require.NoError(t, err)
	out, err := NewRNSBase([]uint64{103, 107})
	require.NoError(t, err)
	bc := NewBaseConvertor(in, out)

	p := NewPoly(4, 1)
	p.Coeffs[0] = []uint64{0, 1, 42, 96}

	converted := bc.FastConvertList(p)
	require.Equal(t, 2, converted.Channels())
	for n, v := range []int64{0, 1, 42, 96} {
		want := out.DecomposeCoefficient(NewInt(v))
		require.EqualValues(t, want[0], converted.Coeffs[0][n])
		require.EqualValues(t, want[1], converted.Coeffs[1][n])
	}
}
