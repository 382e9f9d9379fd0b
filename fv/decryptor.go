package fv

import (
	"fmt"
	"math"
	"math/big"

	"github.com/latticefold/fv/ring"
)

// Decryptor recovers plaintexts from ciphertexts under a SecretKey, per
// spec.md §4.9.
type Decryptor struct {
	ctx *Context
	sk  *SecretKey
}

// NewDecryptor builds a Decryptor bound to sk.
func NewDecryptor(ctx *Context, sk *SecretKey) *Decryptor {
	return &Decryptor{ctx: ctx, sk: sk}
}

// accumulate computes v = Σ_{i=0}^{size-1} c_i * s^i in RNS over base q,
// the shared first step of both Decrypt and InvariantNoiseBudget.
func (d *Decryptor) accumulate(ct *Ciphertext) ring.Poly {
	r := d.ctx.RingQ
	acc := ct.Value[0].CopyNew()
	sPow := d.sk.Value.CopyNew()
	for i := 1; i < ct.Size(); i++ {
		term := r.NewPoly()
		r.MulCoeffs(ct.Value[i], sPow, term)
		r.Add(acc, term, acc)
		if i < ct.Size()-1 {
			next := r.NewPoly()
			r.MulCoeffs(sPow, d.sk.Value, next)
			sPow = next
		}
	}
	return acc
}

// Decrypt implements spec.md §4.9: accumulate v = Σ c_i*s^i mod Q, then
// recover the plaintext as round(t*v/Q) mod t, per coefficient. v is
// reconstructed exactly via CRT composition rather than the literal
// fastfloor/fastbconv_sk machinery (see DESIGN.md and ring.RNSTool's doc
// comment) — both compute the identical mathematical quantity.
func (d *Decryptor) Decrypt(ct *Ciphertext) (*Plaintext, error) {
	if ct.Size() < 2 {
		return nil, fmt.Errorf("%w: ciphertext of size %d has no s^1 term", ErrWrongCiphertextSize, ct.Size())
	}
	if !d.ctx.Equal(ct.ctx) {
		return nil, ErrMismatchedContext
	}

	v := d.accumulate(ct)
	r := d.ctx.RingQ
	t := ring.NewUint(d.ctx.Params.T)
	Q := d.ctx.BaseQ.Q

	pt := NewPlaintext(d.ctx)
	col := make([]uint64, len(r.Moduli))
	for n := 0; n < r.N; n++ {
		for i := range r.Moduli {
			col[i] = v.Coeffs[i][n]
		}
		centered := d.ctx.BaseQ.ComposeCoefficient(col)
		scaled := new(ring.Int).Mul(centered, t)
		rounded := new(ring.Int).DivRound(scaled, Q)
		m := new(ring.Int).Mod(rounded, t)
		pt.Coeffs[n] = m.Uint64()
	}
	return pt, nil
}

// InvariantNoiseBudget estimates the remaining noise budget in bits: the
// number of doublings the ciphertext's accumulated noise could still
// absorb before decryption becomes incorrect. This is a diagnostic
// (SPEC_FULL.md §5's supplemented feature), not used by Decrypt itself.
//
// v = Σ c_i*s^i satisfies v ≈ Δ*m + e for the true message m and noise e
// (Δ = Q/t, exact division). The budget is log2(Q/t) - log2(2*|e|_∞),
// computed with big.Float since e can be a tiny fraction of Q.
func (d *Decryptor) InvariantNoiseBudget(ct *Ciphertext) (float64, error) {
	if ct.Size() < 2 {
		return 0, fmt.Errorf("%w: ciphertext of size %d has no s^1 term", ErrWrongCiphertextSize, ct.Size())
	}
	if !d.ctx.Equal(ct.ctx) {
		return 0, ErrMismatchedContext
	}

	v := d.accumulate(ct)
	r := d.ctx.RingQ
	t := d.ctx.Params.T
	tInt := ring.NewUint(t)
	half := int64(t / 2)

	delta := new(big.Float).SetPrec(256).Quo(
		new(big.Float).SetInt(&d.ctx.BaseQ.Q.Value),
		new(big.Float).SetInt(big.NewInt(int64(t))),
	)

	maxAbsE := new(big.Float).SetPrec(256)
	col := make([]uint64, len(r.Moduli))
	for n := 0; n < r.N; n++ {
		for i := range r.Moduli {
			col[i] = v.Coeffs[i][n]
		}
		centered := d.ctx.BaseQ.ComposeCoefficient(col)
		scaled := new(ring.Int).Mul(centered, tInt)
		rounded := new(ring.Int).DivRound(scaled, d.ctx.BaseQ.Q)
		m := new(ring.Int).Mod(rounded, tInt)
		signedM := m.Value.Int64()
		if signedM > half {
			signedM -= int64(t)
		}

		vF := new(big.Float).SetPrec(256).SetInt(&centered.Value)
		deltaM := new(big.Float).SetPrec(256).Mul(big.NewFloat(float64(signedM)), delta)
		e := new(big.Float).SetPrec(256).Sub(vF, deltaM)
		e.Abs(e)
		if e.Cmp(maxAbsE) > 0 {
			maxAbsE.Set(e)
		}
	}

	deltaF, _ := delta.Float64()
	if maxAbsE.Sign() == 0 {
		return math.Log2(deltaF), nil
	}
	eF, _ := maxAbsE.Float64()
	return math.Log2(deltaF) - math.Log2(2*eF), nil
}
