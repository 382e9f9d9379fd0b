package fv

import (
	"github.com/latticefold/fv/ring"
	"github.com/latticefold/fv/sampling"
)

// SecretKey is a ternary polynomial stored in RNS form, per spec.md §3/§4.6.
type SecretKey struct {
	Value ring.Poly
}

// PublicKey is the symmetric-encryption-of-zero pair (p0, p1), per
// spec.md §3/§4.6.
type PublicKey struct {
	P0, P1 ring.Poly
}

// RelinearizationKeys holds one key-switching pair per RNS digit (one digit
// per q_i in the decomposition base, per spec.md §4.6/§9's resolved Open
// Question: RNS-digit decomposition, not a power-of-two window).
type RelinearizationKeys struct {
	R0, R1 []ring.Poly // len == len(ctx.RingQ.Moduli)
}

// KeyGenerator produces secret keys, public keys, and relinearization keys
// for a given Context.
type KeyGenerator struct {
	ctx  *Context
	prng sampling.PRNG
}

// NewKeyGenerator builds a KeyGenerator drawing randomness from prng.
func NewKeyGenerator(ctx *Context, prng sampling.PRNG) *KeyGenerator {
	return &KeyGenerator{ctx: ctx, prng: prng}
}

// GenSecretKey samples a fresh ternary SecretKey.
func (kg *KeyGenerator) GenSecretKey() *SecretKey {
	ts := sampling.NewTernarySampler(kg.prng)
	return &SecretKey{Value: ts.ReadNew(kg.ctx.RingQ)}
}

// GenPublicKey derives the PublicKey for sk: an RLWE encryption of the zero
// polynomial, per spec.md §4.6 ("call encrypt_symmetric(0)").
func (kg *KeyGenerator) GenPublicKey(sk *SecretKey) *PublicKey {
	zero := kg.ctx.RingQ.NewPoly()
	c0, c1 := encryptRLWE(kg.ctx, kg.prng, sk.Value, zero)
	return &PublicKey{P0: c0, P1: c1}
}

// Keygen samples a fresh (SecretKey, PublicKey) pair, matching the
// `.keygen()` surface spec.md §6 names.
func (kg *KeyGenerator) Keygen() (*SecretKey, *PublicKey) {
	sk := kg.GenSecretKey()
	pk := kg.GenPublicKey(sk)
	return sk, pk
}

// GenRelinearizationKeys builds the RNS-digit relinearization keys for sk.
// For each channel j, the key pair is an RLWE encryption of the polynomial
// that equals s^2 in channel j and 0 in every other channel — the CRT
// basis element for q_j, which in RNS representation is exactly that
// per-channel mask (no big-integer composition needed: RNS residues
// already *are* the CRT decomposition). Summing
// digit_j(c2) * key_j over every channel j then reconstructs c2 * s^2
// exactly mod Q, since channel i only receives a nonzero contribution from
// j=i (spec.md §4.6/§4.10).
func (kg *KeyGenerator) GenRelinearizationKeys(sk *SecretKey) *RelinearizationKeys {
	r := kg.ctx.RingQ
	s2 := r.NewPoly()
	r.MulCoeffs(sk.Value, sk.Value, s2)

	R0 := make([]ring.Poly, len(r.Moduli))
	R1 := make([]ring.Poly, len(r.Moduli))
	for j := range r.Moduli {
		target := r.NewPoly()
		copy(target.Coeffs[j], s2.Coeffs[j])

		c0, c1 := encryptRLWE(kg.ctx, kg.prng, sk.Value, target)
		R0[j] = c0
		R1[j] = c1
	}
	return &RelinearizationKeys{R0: R0, R1: R1}
}
