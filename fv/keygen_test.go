package fv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefold/fv/sampling"
)

func TestKeyGeneratorSecretKeyIsTernary(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)
	r := s.ctx.RingQ
	for n := 0; n < r.N; n++ {
		v0 := s.sk.Value.Coeffs[0][n]
		q0 := r.Moduli[0]
		isZero := v0 == 0
		isOne := v0 == 1
		isMinusOne := v0 == q0-1
		require.True(t, isZero || isOne || isMinusOne, "secret key coefficient %d = %d is not in {-1,0,1}", n, v0)
	}
}

func TestKeyGeneratorPublicKeyDecryptsToZero(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)

	// A symmetric encryption of zero (what GenPublicKey builds internally)
	// must decrypt back to zero under the same secret key.
	prng, err := sampling.NewBlake2bPRNG([]byte("pk-zero-check"))
	require.NoError(t, err)
	zeroPt := NewPlaintext(s.ctx)
	ct, err := NewEncryptor(s.ctx, prng).EncryptSymmetric(zeroPt, s.sk)
	require.NoError(t, err)

	decrypted, err := s.dec.Decrypt(ct)
	require.NoError(t, err)
	for _, c := range decrypted.Coeffs {
		require.EqualValues(t, 0, c)
	}
}

func TestGenRelinearizationKeysShape(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)
	rlk := NewKeyGenerator(s.ctx, sampling.NewSecureRandPRNG()).GenRelinearizationKeys(s.sk)
	require.Len(t, rlk.R0, len(s.ctx.RingQ.Moduli))
	require.Len(t, rlk.R1, len(s.ctx.RingQ.Moduli))
}
