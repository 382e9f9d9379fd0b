package ring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMulMod(t *testing.T) {
	const q = uint64(1<<61 - 1) // a Mersenne-like 61-bit modulus
	require.EqualValues(t, 0, MulMod(0, 12345, q))
	require.EqualValues(t, 1, MulMod(1, 1, q))
	require.Equal(t, MulMod(q-1, q-2, q), MulMod(q-2, q-1, q))
}

func TestAddSubNegMod(t *testing.T) {
	const q = uint64(97)
	require.EqualValues(t, 5, AddMod(90, 12, q))
	require.EqualValues(t, 92, SubMod(0, 5, q))
	require.EqualValues(t, 92, NegMod(5, q))
	require.EqualValues(t, 0, NegMod(0, q))
}

func TestExpMod(t *testing.T) {
	const q = uint64(101)
	require.EqualValues(t, ExpMod(2, 10, q), uint64(1024%q))
}
