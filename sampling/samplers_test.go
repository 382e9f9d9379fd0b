package sampling

import (
	"math"
	"testing"

	"github.com/latticefold/fv/ring"
	"github.com/stretchr/testify/require"
)

func testRing(t *testing.T) *ring.Ring {
	r, err := ring.NewRing(8, []uint64{97, 101})
	require.NoError(t, err)
	return r
}

func TestUniformSamplerInRange(t *testing.T) {
	r := testRing(t)
	prng, err := NewBlake2bPRNG([]byte("uniform-test-key"))
	require.NoError(t, err)
	s := NewUniformSampler(prng)

	p := s.ReadNew(r)
	for i, q := range r.Moduli {
		for _, c := range p.Coeffs[i] {
			require.Less(t, c, q)
		}
	}
}

func TestUniformSamplerDeterministic(t *testing.T) {
	r := testRing(t)
	key := []byte("fixed-key")

	p1, err := NewBlake2bPRNG(key)
	require.NoError(t, err)
	p2, err := NewBlake2bPRNG(key)
	require.NoError(t, err)

	a := NewUniformSampler(p1).ReadNew(r)
	b := NewUniformSampler(p2).ReadNew(r)
	require.True(t, a.Equal(b))
}

func TestTernarySamplerDigitsAndRNSConsistency(t *testing.T) {
	r := testRing(t)
	prng, err := NewBlake2bPRNG([]byte("ternary-test-key"))
	require.NoError(t, err)
	s := NewTernarySampler(prng)

	p := s.ReadNew(r)
	for n := 0; n < r.N; n++ {
		c0 := p.Coeffs[0][n]
		require.True(t, c0 == 0 || c0 == 1 || c0 == r.Moduli[0]-1)
		// Every channel must encode the same ternary digit: 0, 1, or q_i-1.
		for i, q := range r.Moduli {
			c := p.Coeffs[i][n]
			require.True(t, c == 0 || c == 1 || c == q-1)
			if c0 == 0 {
				require.EqualValues(t, 0, c)
			} else if c0 == 1 {
				require.EqualValues(t, 1, c)
			} else {
				require.EqualValues(t, q-1, c)
			}
		}
	}
}

func TestGaussianSamplerRespectsBound(t *testing.T) {
	r := testRing(t)
	prng, err := NewBlake2bPRNG([]byte("gaussian-test-key"))
	require.NoError(t, err)
	bound := int64(math.Ceil(DefaultSigma * DefaultBoundMultiplier))
	s := NewGaussianSampler(prng, DefaultSigma, bound)

	p := s.ReadNew(r)
	for n := 0; n < r.N; n++ {
		c0 := int64(p.Coeffs[0][n])
		signed := c0
		if c0 > int64(r.Moduli[0])/2 {
			signed = c0 - int64(r.Moduli[0])
		}
		require.LessOrEqual(t, signed, bound)
		require.GreaterOrEqual(t, signed, -bound)
	}
}
