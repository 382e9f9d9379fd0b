package fv

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/latticefold/fv/sampling"
)

// testSuite bundles a Context with the key material and operators the
// concrete end-to-end scenarios in spec.md §8 exercise.
type testSuite struct {
	ctx *Context
	sk  *SecretKey
	pk  *PublicKey
	enc *Encryptor
	dec *Decryptor
	ev  *Evaluator
	ie  *IntegerEncoder
}

func newTestSuite(t *testing.T, N int, bitSizes []int, plaintextModulus uint64) *testSuite {
	t.Helper()
	qs, err := CoeffModulus{}.Create(N, bitSizes)
	require.NoError(t, err)
	return newTestSuiteFromModulus(t, N, qs, plaintextModulus)
}

func newTestSuiteFromModulus(t *testing.T, N int, q []uint64, plaintextModulus uint64) *testSuite {
	t.Helper()
	params, err := NewEncryptionParams(N, q, plaintextModulus)
	require.NoError(t, err)
	ctx, err := NewContext(params)
	require.NoError(t, err)

	prng, err := sampling.NewBlake2bPRNG([]byte("fv-test-suite-seed"))
	require.NoError(t, err)

	kg := NewKeyGenerator(ctx, prng)
	sk, pk := kg.Keygen()

	return &testSuite{
		ctx: ctx,
		sk:  sk,
		pk:  pk,
		enc: NewEncryptor(ctx, prng),
		dec: NewDecryptor(ctx, sk),
		ev:  NewEvaluator(ctx),
		ie:  NewIntegerEncoder(ctx),
	}
}

func (s *testSuite) encryptSymmetric(t *testing.T, x int64) *Ciphertext {
	t.Helper()
	pt, err := s.ie.EncodeInt64(x)
	require.NoError(t, err)
	ct, err := s.enc.EncryptSymmetric(pt, s.sk)
	require.NoError(t, err)
	return ct
}

func (s *testSuite) decryptInt64(t *testing.T, ct *Ciphertext) int64 {
	t.Helper()
	pt, err := s.dec.Decrypt(ct)
	require.NoError(t, err)
	return s.ie.DecodeInt64(pt)
}

func TestBFVAddSubMulSmallParams(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)

	a := s.encryptSymmetric(t, 1000)
	b := s.encryptSymmetric(t, 100)

	sum, err := s.ev.AddNew(a, b)
	require.NoError(t, err)
	require.EqualValues(t, 1100, s.decryptInt64(t, sum))

	diff, err := s.ev.SubNew(a, b)
	require.NoError(t, err)
	require.EqualValues(t, 900, s.decryptInt64(t, diff))

	prod, err := s.ev.MulNew(a, b)
	require.NoError(t, err)
	require.Equal(t, 3, prod.Size())
	require.EqualValues(t, 100000, s.decryptInt64(t, prod))
}

func TestBFVAddCommutesAndSubAntisymmetric(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)

	a := s.encryptSymmetric(t, 1000)
	b := s.encryptSymmetric(t, 100)

	ab, err := s.ev.AddNew(a, b)
	require.NoError(t, err)
	ba, err := s.ev.AddNew(b, a)
	require.NoError(t, err)
	require.Equal(t, s.decryptInt64(t, ab), s.decryptInt64(t, ba))

	aMinusB, err := s.ev.SubNew(a, b)
	require.NoError(t, err)
	bMinusA, err := s.ev.SubNew(b, a)
	require.NoError(t, err)
	require.EqualValues(t, s.decryptInt64(t, aMinusB), -s.decryptInt64(t, bMinusA))
}

func TestBFVNegate(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)

	a := s.encryptSymmetric(t, 1000)
	neg, err := s.ev.NegateNew(a)
	require.NoError(t, err)
	require.EqualValues(t, -1000, s.decryptInt64(t, neg))
}

func TestBFVSymmetricRoundTripLargeValue(t *testing.T) {
	s := newTestSuite(t, 1024, []int{40, 40}, 128)

	const x = int64(0x7FFFFFFFFFFFFFFF)
	ct := s.encryptSymmetric(t, x)
	require.EqualValues(t, x, s.decryptInt64(t, ct))
}

func TestBFVAsymmetricRoundTrip(t *testing.T) {
	s := newTestSuite(t, 1024, []int{40, 40}, 128)

	pt, err := s.ie.EncodeInt64(123456789)
	require.NoError(t, err)
	ct, err := s.enc.EncryptAsymmetric(pt, s.pk)
	require.NoError(t, err)
	require.EqualValues(t, 123456789, s.decryptInt64(t, ct))
}

func TestBFVRelinearizationAfterMultiply(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)

	a := s.encryptSymmetric(t, -1)
	b := s.encryptSymmetric(t, 1)

	prod, err := s.ev.MulNew(a, b)
	require.NoError(t, err)
	require.Equal(t, 3, prod.Size())

	rlk := NewKeyGenerator(s.ctx, sampling.NewSecureRandPRNG()).GenRelinearizationKeys(s.sk)
	relin, err := s.ev.Relinearize(prod, rlk)
	require.NoError(t, err)
	require.Equal(t, 2, relin.Size())
	require.EqualValues(t, -1, s.decryptInt64(t, relin))
}

func TestBFVDefaultParams(t *testing.T) {
	q, err := CoeffModulus{}.BFVDefault(2048, SecLevel256)
	require.NoError(t, err)
	s := newTestSuiteFromModulus(t, 2048, q, 128)

	ct := s.encryptSymmetric(t, 0x12345678)
	require.EqualValues(t, 0x12345678, s.decryptInt64(t, ct))
}

func TestBFVDecryptIsIdempotent(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)
	ct := s.encryptSymmetric(t, 42)

	first := s.decryptInt64(t, ct)
	second := s.decryptInt64(t, ct)
	third := s.decryptInt64(t, ct)
	require.Equal(t, first, second)
	require.Equal(t, second, third)
}

func TestBFVMismatchedContextRejected(t *testing.T) {
	s1 := newTestSuite(t, 64, []int{30, 30}, 64)
	s2 := newTestSuite(t, 64, []int{30, 30}, 64)

	a := s1.encryptSymmetric(t, 1)
	b := s2.encryptSymmetric(t, 1)

	_, err := s1.ev.AddNew(a, b)
	require.ErrorIs(t, err, ErrMismatchedContext)
}

func TestBFVEncodeOutOfRange(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)

	tooLarge := new(big.Int).Lsh(big.NewInt(1), 64) // 2^64, exceeds 2^N-1 for N=64
	_, err := s.ie.Encode(tooLarge)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestBFVRelinearizeWrongSize(t *testing.T) {
	s := newTestSuite(t, 64, []int{30, 30}, 64)
	rlk := NewKeyGenerator(s.ctx, sampling.NewSecureRandPRNG()).GenRelinearizationKeys(s.sk)

	fresh := s.encryptSymmetric(t, 1) // size 2
	_, err := s.ev.Relinearize(fresh, rlk)
	require.ErrorIs(t, err, ErrWrongCiphertextSize)
}
