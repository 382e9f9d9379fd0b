package fv

import "github.com/latticefold/fv/ring"

// Context is the immutable precomputed bundle spec.md §3 describes: the
// coefficient ring R_Q, the RNS tool for BFV multiplication, and the
// Δ = floor(Q/t) scaling table. Built once from EncryptionParams; every
// other component (KeyGenerator, Encryptor, Decryptor, Evaluator) only
// reads it.
type Context struct {
	Params *EncryptionParams

	RingQ   *ring.Ring
	BaseQ   *ring.RNSBase
	RNSTool *ring.RNSTool
	Delta   []uint64 // Delta[i] = floor(Q/t) mod q_i

	id uint64
}

var nextContextID uint64

// NewContext builds a Context from validated EncryptionParams.
func NewContext(params *EncryptionParams) (*Context, error) {
	ringQ, err := ring.NewRing(params.N, params.CoeffModulus)
	if err != nil {
		return nil, err
	}
	baseQ, err := ring.NewRNSBase(params.CoeffModulus)
	if err != nil {
		return nil, err
	}
	rnsTool, err := ring.NewRNSTool(baseQ, params.N, params.T)
	if err != nil {
		return nil, err
	}

	delta := new(ring.Int)
	delta.DivFloor(baseQ.Q, ring.NewUint(params.T))

	deltaPerChannel := make([]uint64, len(ringQ.Moduli))
	for i, q := range ringQ.Moduli {
		r := new(ring.Int).Mod(delta, ring.NewUint(q))
		deltaPerChannel[i] = r.Uint64()
	}

	nextContextID++
	return &Context{
		Params:  params,
		RingQ:   ringQ,
		BaseQ:   baseQ,
		RNSTool: rnsTool,
		Delta:   deltaPerChannel,
		id:      nextContextID,
	}, nil
}

// Equal reports whether c and other refer to the same constructed Context.
// Operations across distinct contexts are rejected with
// ErrMismatchedContext, per spec.md §3 invariant (ii).
func (c *Context) Equal(other *Context) bool {
	return c.id == other.id
}
