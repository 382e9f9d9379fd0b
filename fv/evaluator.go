package fv

import (
	"fmt"

	"github.com/latticefold/fv/ring"
)

// Evaluator implements spec.md §4.10's homomorphic operation dispatch
// table: add/sub/negate/mul/relin, over every cipher/plain combination.
type Evaluator struct {
	ctx     *Context
	rt      *ring.RNSTool
	ringBsk *ring.Ring // auxiliary Bsk base, used only by MulNew's base extension
}

// NewEvaluator builds an Evaluator for ctx.
func NewEvaluator(ctx *Context) *Evaluator {
	ringBsk, err := ring.NewRing(ctx.RingQ.N, ctx.RNSTool.BaseBsk.Primes)
	if err != nil {
		// BaseBsk is built by ring.NewRNSTool from ctx's own parameters, so
		// this can only fail if that construction is itself broken.
		panic(fmt.Errorf("evaluator: building ring over Bsk: %w", err))
	}
	return &Evaluator{ctx: ctx, rt: ctx.RNSTool, ringBsk: ringBsk}
}

// liftPlain replicates a plaintext's coefficients (values in [0,t)) into
// every RNS channel, with no Δ scaling — the operand form "mul (cipher,
// plain)" needs, since that operation multiplies the ciphertext by the raw
// plaintext value rather than by Δ·m (spec.md §4.10).
func liftPlain(ctx *Context, pt *Plaintext) ring.Poly {
	out := ctx.RingQ.NewPoly()
	for i, q := range ctx.RingQ.Moduli {
		for n, c := range pt.Coeffs {
			out.Coeffs[i][n] = c % q
		}
	}
	return out
}

func (e *Evaluator) checkCiphertext(cs ...*Ciphertext) error {
	for _, c := range cs {
		if !e.ctx.Equal(c.ctx) {
			return ErrMismatchedContext
		}
	}
	return nil
}

// AddNew returns ca + cb, component-wise, padding the smaller operand's
// missing high components with zero (spec.md §4.10 "result size = max").
func (e *Evaluator) AddNew(ca, cb *Ciphertext) (*Ciphertext, error) {
	if err := e.checkCiphertext(ca, cb); err != nil {
		return nil, err
	}
	r := e.ctx.RingQ
	size := max(ca.Size(), cb.Size())
	out := NewCiphertext(e.ctx, size)
	for i := 0; i < size; i++ {
		switch {
		case i < ca.Size() && i < cb.Size():
			r.Add(ca.Value[i], cb.Value[i], out.Value[i])
		case i < ca.Size():
			out.Value[i] = ca.Value[i].CopyNew()
		default:
			out.Value[i] = cb.Value[i].CopyNew()
		}
	}
	return out, nil
}

// SubNew returns ca - cb, component-wise.
func (e *Evaluator) SubNew(ca, cb *Ciphertext) (*Ciphertext, error) {
	if err := e.checkCiphertext(ca, cb); err != nil {
		return nil, err
	}
	r := e.ctx.RingQ
	size := max(ca.Size(), cb.Size())
	out := NewCiphertext(e.ctx, size)
	for i := 0; i < size; i++ {
		switch {
		case i < ca.Size() && i < cb.Size():
			r.Sub(ca.Value[i], cb.Value[i], out.Value[i])
		case i < ca.Size():
			out.Value[i] = ca.Value[i].CopyNew()
		default:
			r.Neg(cb.Value[i], out.Value[i])
		}
	}
	return out, nil
}

// NegateNew returns -c, every component negated mod q.
func (e *Evaluator) NegateNew(c *Ciphertext) (*Ciphertext, error) {
	if err := e.checkCiphertext(c); err != nil {
		return nil, err
	}
	r := e.ctx.RingQ
	out := NewCiphertext(e.ctx, c.Size())
	for i := range c.Value {
		r.Neg(c.Value[i], out.Value[i])
	}
	return out, nil
}

// AddPlainNew returns c with pt added into its constant (c_0) component:
// c_0 ← c_0 + Δ·m, every other component unchanged (spec.md §4.10).
func (e *Evaluator) AddPlainNew(c *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	if err := e.checkCiphertext(c); err != nil {
		return nil, err
	}
	if !e.ctx.Equal(pt.ctx) {
		return nil, ErrMismatchedContext
	}
	r := e.ctx.RingQ
	out := c.CopyNew()
	deltaM := scaleByDelta(e.ctx, pt)
	r.Add(out.Value[0], deltaM, out.Value[0])
	return out, nil
}

// SubPlainNew returns c with pt subtracted from its constant component.
func (e *Evaluator) SubPlainNew(c *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	if err := e.checkCiphertext(c); err != nil {
		return nil, err
	}
	if !e.ctx.Equal(pt.ctx) {
		return nil, ErrMismatchedContext
	}
	r := e.ctx.RingQ
	out := c.CopyNew()
	deltaM := scaleByDelta(e.ctx, pt)
	r.Sub(out.Value[0], deltaM, out.Value[0])
	return out, nil
}

// MulPlainNew multiplies every component of c by pt (no Δ scaling, no
// rescale — the caller is responsible for the plaintext-growth bound, per
// spec.md §4.10).
func (e *Evaluator) MulPlainNew(c *Ciphertext, pt *Plaintext) (*Ciphertext, error) {
	if err := e.checkCiphertext(c); err != nil {
		return nil, err
	}
	if !e.ctx.Equal(pt.ctx) {
		return nil, ErrMismatchedContext
	}
	r := e.ctx.RingQ
	m := liftPlain(e.ctx, pt)
	out := NewCiphertext(e.ctx, c.Size())
	for i := range c.Value {
		r.MulCoeffs(c.Value[i], m, out.Value[i])
	}
	return out, nil
}

// MulNew implements the ciphertext×ciphertext BFV RNS multiplication
// pipeline, spec.md §4.10 steps 1-5. Ciphertext components are elements of
// R_Q spread uniformly over all of (-Q/2, Q/2] (not small), so their
// tensor-product coefficient Σ_{i+j=k} c_a,i·c_b,j — the value
// RNSTool.FastFloor needs t·x/Q of — can reach magnitude ~N·Q²/4: far past
// what a base-q-only convolution can represent. Convolving purely in base q
// (as a prior version of this function did) only recovers that coefficient
// mod Q, silently discarding the information fast_floor's rounding needs,
// and ciphertext×ciphertext products decrypt to garbage.
//
// The fix, per spec.md §4.10:
//  1. Extend every component of ca and cb from base q to base Bsk via
//     RNSTool.ExtendToBsk (fast_convert + sm_mrq).
//  2. Convolve each pair of components in *both* bases independently
//     (ringQ and ringBsk), accumulating the tensor-product coefficient's
//     residues in q and in Bsk separately.
//  3. Feed both residue sets to RNSTool.FastFloor, which composes the exact,
//     unreduced tensor-product coefficient over the combined q∪Bsk CRT
//     system (see ring.RNSTool's doc comment for why Bsk is sized to make
//     that combined system dominate ~N·Q²/4) and rounds t·x/Q into Bsk.
//  4. Base-convert the floored result back to q via RNSTool.FastBConvSK.
func (e *Evaluator) MulNew(ca, cb *Ciphertext) (*Ciphertext, error) {
	if err := e.checkCiphertext(ca, cb); err != nil {
		return nil, err
	}
	r := e.ctx.RingQ
	rBsk := e.ringBsk

	extend := func(c *Ciphertext) []ring.Poly {
		ext := make([]ring.Poly, c.Size())
		for i, v := range c.Value {
			ext[i] = e.rt.ExtendToBsk(v)
		}
		return ext
	}
	caBsk, cbBsk := extend(ca), extend(cb)

	resultSize := ca.Size() + cb.Size() - 1
	accQ := make([]ring.Poly, resultSize)
	accBsk := make([]ring.Poly, resultSize)
	for k := range accQ {
		accQ[k] = r.NewPoly()
		accBsk[k] = rBsk.NewPoly()
	}
	for i, ci := range ca.Value {
		for j, cj := range cb.Value {
			termQ := r.NewPoly()
			r.MulCoeffs(ci, cj, termQ)
			r.Add(accQ[i+j], termQ, accQ[i+j])

			termBsk := rBsk.NewPoly()
			rBsk.MulCoeffs(caBsk[i], cbBsk[j], termBsk)
			rBsk.Add(accBsk[i+j], termBsk, accBsk[i+j])
		}
	}

	out := NewCiphertext(e.ctx, resultSize)
	for k := range accQ {
		floored := e.rt.FastFloor(accQ[k], accBsk[k])
		out.Value[k] = e.rt.FastBConvSK(floored)
	}
	return out, nil
}

// Relinearize reduces a size-3 ciphertext (c0, c1, c2) back to size 2 using
// rlk, per spec.md §4.10/§4.6. For each RNS channel j, digit_j is c2's
// residue mod q_j, read as an integer in [0, q_j) and written into every
// channel — the CRT-basis digit decomposition this module uses (see
// keygen.go) — and the output absorbs Σ_j digit_j * rlk.R{0,1}[j].
func (e *Evaluator) Relinearize(c *Ciphertext, rlk *RelinearizationKeys) (*Ciphertext, error) {
	if err := e.checkCiphertext(c); err != nil {
		return nil, err
	}
	if c.Size() < 3 {
		return nil, fmt.Errorf("%w: relinearize called on size %d (< 3, no-op)", ErrWrongCiphertextSize, c.Size())
	}
	if c.Size() > 3 {
		return nil, fmt.Errorf("%w: relinearize on size %d (> 3) is unsupported", ErrWrongCiphertextSize, c.Size())
	}

	r := e.ctx.RingQ
	c2 := c.Value[2]
	out := NewCiphertext(e.ctx, 2)
	out.Value[0] = c.Value[0].CopyNew()
	out.Value[1] = c.Value[1].CopyNew()

	digit := r.NewPoly()
	for j := range r.Moduli {
		for i, qi := range r.Moduli {
			for n := 0; n < r.N; n++ {
				digit.Coeffs[i][n] = c2.Coeffs[j][n] % qi
			}
		}

		term0 := r.NewPoly()
		r.MulCoeffs(digit, rlk.R0[j], term0)
		r.Add(out.Value[0], term0, out.Value[0])

		term1 := r.NewPoly()
		r.MulCoeffs(digit, rlk.R1[j], term1)
		r.Add(out.Value[1], term1, out.Value[1])
	}
	return out, nil
}
