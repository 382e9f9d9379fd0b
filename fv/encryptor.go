package fv

import (
	"github.com/latticefold/fv/ring"
	"github.com/latticefold/fv/sampling"
)

// encryptRLWE is the shared RLWE-encryption-of-a-polynomial primitive:
// given secret s and a message polynomial m already in RNS form under base
// q (no Δ scaling applied here — callers that need Δ·m apply it before
// calling), sample a uniform a and Gaussian noise e and return
// (c0, c1) = (-(a*s+e) + m, a). Both PublicKey generation (m=0),
// RelinearizationKeys generation (m = a CRT basis slice of s^2), and
// symmetric Plaintext encryption (m = Δ·encode(x)) are this same operation
// applied to different messages, per spec.md §4.6/§4.8.
func encryptRLWE(ctx *Context, prng sampling.PRNG, s, m ring.Poly) (c0, c1 ring.Poly) {
	r := ctx.RingQ
	a := sampling.NewUniformSampler(prng).ReadNew(r)
	e := sampling.NewGaussianSampler(prng, sampling.DefaultSigma, defaultNoiseBound(ctx)).ReadNew(r)

	as := r.NewPoly()
	r.MulCoeffs(a, s, as)

	c0 = r.NewPoly()
	r.Add(as, e, c0)
	r.Neg(c0, c0)
	r.Add(c0, m, c0)
	r.Reduce(c0, c0)

	c1 = a
	return c0, c1
}

func defaultNoiseBound(ctx *Context) int64 {
	bound := sampling.DefaultSigma * sampling.DefaultBoundMultiplier
	return int64(bound)
}

// Encryptor encrypts plaintexts, either symmetrically (with a SecretKey) or
// asymmetrically (with a PublicKey), per spec.md §4.8/§6.
type Encryptor struct {
	ctx  *Context
	prng sampling.PRNG
	sk   *SecretKey
	pk   *PublicKey
}

// NewEncryptor builds an Encryptor for ctx drawing randomness from prng.
// The concrete key is supplied when encrypting (EncryptSymmetric /
// EncryptAsymmetric), mirroring spec.md §6's "accepts either secret or
// public key".
func NewEncryptor(ctx *Context, prng sampling.PRNG) *Encryptor {
	return &Encryptor{ctx: ctx, prng: prng}
}

// scaleByDelta lifts a plaintext (coefficients in [0, t)) into an RNS
// polynomial scaled by Δ = floor(Q/t), one channel at a time.
func scaleByDelta(ctx *Context, pt *Plaintext) ring.Poly {
	out := ctx.RingQ.NewPoly()
	for i, q := range ctx.RingQ.Moduli {
		delta := ctx.Delta[i]
		for n, c := range pt.Coeffs {
			out.Coeffs[i][n] = ring.MulMod(c%q, delta, q)
		}
	}
	return out
}

// EncryptSymmetric implements spec.md §4.8's symmetric path: sample a
// uniform in R_q, noise e from a discrete Gaussian, and output
// (-(a*s+e) + Δ*m mod q, a).
func (enc *Encryptor) EncryptSymmetric(pt *Plaintext, sk *SecretKey) (*Ciphertext, error) {
	if !enc.ctx.Equal(pt.ctx) {
		return nil, ErrMismatchedContext
	}
	m := scaleByDelta(enc.ctx, pt)
	c0, c1 := encryptRLWE(enc.ctx, enc.prng, sk.Value, m)
	return &Ciphertext{ctx: enc.ctx, Value: []ring.Poly{c0, c1}}, nil
}

// EncryptAsymmetric implements spec.md §4.8's asymmetric path: sample
// u in {-1,0,1}^N, noise e1/e2, and output
// (p0*u + e1 + Δ*m mod q, p1*u + e2 mod q).
func (enc *Encryptor) EncryptAsymmetric(pt *Plaintext, pk *PublicKey) (*Ciphertext, error) {
	if !enc.ctx.Equal(pt.ctx) {
		return nil, ErrMismatchedContext
	}
	r := enc.ctx.RingQ
	m := scaleByDelta(enc.ctx, pt)

	u := sampling.NewTernarySampler(enc.prng).ReadNew(r)
	e1 := sampling.NewGaussianSampler(enc.prng, sampling.DefaultSigma, defaultNoiseBound(enc.ctx)).ReadNew(r)
	e2 := sampling.NewGaussianSampler(enc.prng, sampling.DefaultSigma, defaultNoiseBound(enc.ctx)).ReadNew(r)

	c0 := r.NewPoly()
	r.MulCoeffs(pk.P0, u, c0)
	r.Add(c0, e1, c0)
	r.Add(c0, m, c0)
	r.Reduce(c0, c0)

	c1 := r.NewPoly()
	r.MulCoeffs(pk.P1, u, c1)
	r.Add(c1, e2, c1)
	r.Reduce(c1, c1)

	return &Ciphertext{ctx: enc.ctx, Value: []ring.Poly{c0, c1}}, nil
}
