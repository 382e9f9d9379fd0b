package fv

import "github.com/latticefold/fv/ring"

// Ciphertext is an ordered sequence of 2 or more RNS polynomials under base
// q, per spec.md §3. A fresh encryption has size 2; multiplication grows
// size to s_a + s_b - 1; relinearization reduces back to 2.
type Ciphertext struct {
	ctx   *Context
	Value []ring.Poly
}

// NewCiphertext allocates a zero ciphertext of the given size.
func NewCiphertext(ctx *Context, size int) *Ciphertext {
	v := make([]ring.Poly, size)
	for i := range v {
		v[i] = ctx.RingQ.NewPoly()
	}
	return &Ciphertext{ctx: ctx, Value: v}
}

// Size returns the number of polynomial components.
func (c *Ciphertext) Size() int {
	return len(c.Value)
}

// CopyNew returns a deep copy of c.
func (c *Ciphertext) CopyNew() *Ciphertext {
	out := NewCiphertext(c.ctx, c.Size())
	for i := range c.Value {
		out.Value[i] = c.Value[i].CopyNew()
	}
	return out
}
