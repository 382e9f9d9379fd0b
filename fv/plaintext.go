package fv

import "github.com/latticefold/fv/ring"

// Plaintext is a polynomial of length N with coefficients in [0, t), per
// spec.md §3.
type Plaintext struct {
	ctx    *Context
	Coeffs []uint64 // length ctx.Params.N, each in [0, t)
}

// NewPlaintext returns the zero plaintext for ctx.
func NewPlaintext(ctx *Context) *Plaintext {
	return &Plaintext{ctx: ctx, Coeffs: make([]uint64, ctx.Params.N)}
}

// Add returns a new plaintext holding (p + other) mod t, coefficient-wise,
// negacyclic-folded (spec.md §4.10 "add (plain,plain)").
func (p *Plaintext) Add(other *Plaintext) (*Plaintext, error) {
	if !p.ctx.Equal(other.ctx) {
		return nil, ErrMismatchedContext
	}
	out := NewPlaintext(p.ctx)
	t := p.ctx.Params.T
	for i := range out.Coeffs {
		out.Coeffs[i] = ring.AddMod(p.Coeffs[i], other.Coeffs[i], t)
	}
	return out, nil
}

// Mul returns a new plaintext holding the negacyclic product p*other mod t
// (spec.md §4.10 "mul (plain,plain)").
func (p *Plaintext) Mul(other *Plaintext) (*Plaintext, error) {
	if !p.ctx.Equal(other.ctx) {
		return nil, ErrMismatchedContext
	}
	N := p.ctx.Params.N
	t := p.ctx.Params.T
	acc := make([]uint64, 2*N-1)
	for a := 0; a < N; a++ {
		if p.Coeffs[a] == 0 {
			continue
		}
		for b := 0; b < N; b++ {
			if other.Coeffs[b] == 0 {
				continue
			}
			acc[a+b] = ring.AddMod(acc[a+b], ring.MulMod(p.Coeffs[a], other.Coeffs[b], t), t)
		}
	}
	out := NewPlaintext(p.ctx)
	for k := 0; k < N; k++ {
		out.Coeffs[k] = acc[k]
	}
	for k := N; k < 2*N-1; k++ {
		out.Coeffs[k-N] = ring.SubMod(out.Coeffs[k-N], acc[k], t)
	}
	return out, nil
}
