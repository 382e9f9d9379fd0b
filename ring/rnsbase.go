package ring

import (
	"fmt"

	"github.com/latticefold/fv/numtheory"
)

// RNSBase is an ordered sequence of pairwise-coprime odd primes together
// with the precomputed CRT constants needed to compose/decompose a residue
// vector against their product Q.
type RNSBase struct {
	Primes []uint64
	// QHat[i] = product of all primes except Primes[i].
	QHat []*Int
	// QHatInv[i] = QHat[i]^-1 mod Primes[i].
	QHatInv []uint64
	// Q is the product of all primes.
	Q *Int
}

// NewRNSBase builds an RNSBase from a set of pairwise-coprime odd primes.
func NewRNSBase(primes []uint64) (*RNSBase, error) {
	if len(primes) == 0 {
		return nil, fmt.Errorf("%w: empty RNS base", ErrInvalidParams)
	}
	seen := make(map[uint64]bool, len(primes))
	for _, p := range primes {
		if seen[p] {
			return nil, fmt.Errorf("%w: duplicate prime %d in RNS base", ErrInvalidParams, p)
		}
		seen[p] = true
	}

	b := &RNSBase{
		Primes:  append([]uint64(nil), primes...),
		QHat:    make([]*Int, len(primes)),
		QHatInv: make([]uint64, len(primes)),
		Q:       NewInt(1),
	}
	for _, p := range primes {
		b.Q.Mul(b.Q, NewUint(p))
	}
	for i, p := range primes {
		qhat := numtheory.MultiplyManyExcept(primes, i)
		b.QHat[i] = &Int{Value: *qhat}
		qhatModP := new(Int).Mod(b.QHat[i], NewUint(p))
		inv, err := numtheory.InvertModUint64(qhatModP.Uint64(), p)
		if err != nil {
			return nil, fmt.Errorf("%w: prime %d is not coprime with the rest of the base", numtheory.ErrNotInvertible, p)
		}
		b.QHatInv[i] = inv
	}
	return b, nil
}

// ComposeCoefficient reconstructs the signed big-integer value represented
// by the residue vector x (one residue per prime in b), centered into
// (-Q/2, Q/2].
func (b *RNSBase) ComposeCoefficient(x []uint64) *Int {
	sum := NewInt(0)
	for i, p := range b.Primes {
		term := MulMod(x[i], b.QHatInv[i], p)
		t := new(Int).Mul(NewUint(term), b.QHat[i])
		sum.Add(sum, t)
	}
	sum.Mod(sum, b.Q)
	return sum.Center(b.Q)
}

// DecomposeCoefficient reduces the signed big integer v into its residue
// vector mod each prime in b.
func (b *RNSBase) DecomposeCoefficient(v *Int) []uint64 {
	out := make([]uint64, len(b.Primes))
	for i, p := range b.Primes {
		r := new(Int).Mod(v, NewUint(p))
		out[i] = r.Uint64()
	}
	return out
}

// ComposePoly reconstructs every coefficient of p (an RNS polynomial over
// exactly b's primes) into its centered big-integer representative.
func (b *RNSBase) ComposePoly(p Poly) []*Int {
	N := p.N()
	out := make([]*Int, N)
	col := make([]uint64, len(b.Primes))
	for k := 0; k < N; k++ {
		for i := range b.Primes {
			col[i] = p.Coeffs[i][k]
		}
		out[k] = b.ComposeCoefficient(col)
	}
	return out
}
