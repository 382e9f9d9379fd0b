package fv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNewEncryptionParamsRejectsInvalidParams(t *testing.T) {
	_, err := NewEncryptionParams(63, []uint64{97}, 8)
	require.ErrorIs(t, err, ErrInvalidParams)
}

func TestEncryptionParamsStructurallyEqualAcrossBuilds(t *testing.T) {
	q, err := CoeffModulus{}.Create(64, []int{30, 30})
	require.NoError(t, err)

	p1, err := NewEncryptionParams(64, q, 64)
	require.NoError(t, err)
	p2, err := NewEncryptionParams(64, append([]uint64(nil), q...), 64)
	require.NoError(t, err)

	if diff := cmp.Diff(p1, p2); diff != "" {
		t.Errorf("EncryptionParams built from equivalent inputs differ (-p1 +p2):\n%s", diff)
	}
}

func TestContextEqual(t *testing.T) {
	q, err := CoeffModulus{}.Create(64, []int{30, 30})
	require.NoError(t, err)
	params, err := NewEncryptionParams(64, q, 64)
	require.NoError(t, err)

	c1, err := NewContext(params)
	require.NoError(t, err)
	c2, err := NewContext(params)
	require.NoError(t, err)

	require.True(t, c1.Equal(c1))
	require.False(t, c1.Equal(c2), "two distinct Context builds must not compare equal")
}

func TestContextDeltaTimesTApproximatesQ(t *testing.T) {
	q, err := CoeffModulus{}.Create(64, []int{30, 30})
	require.NoError(t, err)
	const tval = 64
	params, err := NewEncryptionParams(64, q, tval)
	require.NoError(t, err)
	ctx, err := NewContext(params)
	require.NoError(t, err)

	recomposed := ctx.BaseQ.ComposeCoefficient(ctx.Delta)
	// Delta = floor(Q/t); Delta*t must land within t of Q.
	product := recomposed.Value.Int64() * int64(tval)
	diff := ctx.BaseQ.Q.Value.Int64() - product
	require.GreaterOrEqual(t, diff, int64(0))
	require.Less(t, diff, int64(tval))
}
