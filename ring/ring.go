package ring

import "fmt"

// Ring is the coefficient ring R = Z[x]/(x^N+1), realized as an RNS moduli
// chain Moduli = [q_0, ..., q_{L-1}]. Every Poly produced by or passed to a
// Ring method is assumed to have exactly len(Moduli) channels and degree N.
type Ring struct {
	N      int
	Moduli []uint64
}

// NewRing constructs a Ring of degree N (a power of two) over the given
// pairwise-distinct coefficient moduli.
func NewRing(N int, moduli []uint64) (*Ring, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, fmt.Errorf("%w: N=%d is not a power of two", ErrInvalidParams, N)
	}
	if len(moduli) == 0 {
		return nil, fmt.Errorf("%w: empty modulus chain", ErrInvalidParams)
	}
	seen := make(map[uint64]bool, len(moduli))
	for _, q := range moduli {
		if q == 0 {
			return nil, fmt.Errorf("%w: zero modulus", ErrInvalidParams)
		}
		if seen[q] {
			return nil, fmt.Errorf("%w: duplicate modulus %d", ErrInvalidParams, q)
		}
		seen[q] = true
	}
	m := make([]uint64, len(moduli))
	copy(m, moduli)
	return &Ring{N: N, Moduli: m}, nil
}

// Level returns the number of RNS channels (moduli) in the chain.
func (r *Ring) Level() int {
	return len(r.Moduli)
}

// NewPoly allocates a zero polynomial over r's moduli chain.
func (r *Ring) NewPoly() Poly {
	return NewPoly(r.N, r.Level())
}

// Add sets p3 = p1 + p2 (coefficient-wise, per channel).
func (r *Ring) Add(p1, p2, p3 Poly) {
	for i, q := range r.Moduli {
		c1, c2, c3 := p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i]
		for j := 0; j < r.N; j++ {
			c3[j] = AddMod(c1[j]%q, c2[j]%q, q)
		}
	}
}

// Sub sets p3 = p1 - p2 (coefficient-wise, per channel).
func (r *Ring) Sub(p1, p2, p3 Poly) {
	for i, q := range r.Moduli {
		c1, c2, c3 := p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i]
		for j := 0; j < r.N; j++ {
			c3[j] = SubMod(c1[j], c2[j], q)
		}
	}
}

// Neg sets p2 = -p1 (coefficient-wise, per channel).
func (r *Ring) Neg(p1, p2 Poly) {
	for i, q := range r.Moduli {
		c1, c2 := p1.Coeffs[i], p2.Coeffs[i]
		for j := 0; j < r.N; j++ {
			c2[j] = NegMod(c1[j], q)
		}
	}
}

// MulScalar sets p2 = p1 * scalar (mod q_i per channel), scalar reduced mod
// each channel's modulus before multiplying.
func (r *Ring) MulScalar(p1 Poly, scalar uint64, p2 Poly) {
	for i, q := range r.Moduli {
		s := scalar % q
		c1, c2 := p1.Coeffs[i], p2.Coeffs[i]
		for j := 0; j < r.N; j++ {
			c2[j] = MulMod(c1[j], s, q)
		}
	}
}

// MulCoeffs sets p3 = p1 * p2, the negacyclic convolution in Z[x]/(x^N+1),
// computed per RNS channel via schoolbook multiplication (spec.md §4.2's
// fallback path when NTT-friendly moduli are not required; this engine
// always takes this path, see DESIGN.md).
func (r *Ring) MulCoeffs(p1, p2, p3 Poly) {
	N := r.N
	acc := make([]uint64, 2*N-1)
	for i, q := range r.Moduli {
		c1, c2 := p1.Coeffs[i], p2.Coeffs[i]
		for k := range acc {
			acc[k] = 0
		}
		for a := 0; a < N; a++ {
			if c1[a] == 0 {
				continue
			}
			for b := 0; b < N; b++ {
				if c2[b] == 0 {
					continue
				}
				acc[a+b] = AddMod(acc[a+b], MulMod(c1[a], c2[b], q), q)
			}
		}
		out := p3.Coeffs[i]
		for k := 0; k < N; k++ {
			out[k] = acc[k]
		}
		for k := N; k < 2*N-1; k++ {
			out[k-N] = SubMod(out[k-N], acc[k], q)
		}
	}
}

// AddScalar adds scalar (reduced mod each channel's modulus) to every
// coefficient of p1, writing the result to p2.
func (r *Ring) AddScalar(p1 Poly, scalar uint64, p2 Poly) {
	for i, q := range r.Moduli {
		s := scalar % q
		c1, c2 := p1.Coeffs[i], p2.Coeffs[i]
		for j := 0; j < r.N; j++ {
			c2[j] = AddMod(c1[j], s, q)
		}
	}
}

// Reduce reduces every coefficient of p1 into [0, q_i) per channel, writing
// the result to p2. Coefficients are assumed already < 2*q_i (the invariant
// every arithmetic op in this package maintains), matching the teacher's
// lazy-reduction convention.
func (r *Ring) Reduce(p1, p2 Poly) {
	for i, q := range r.Moduli {
		c1, c2 := p1.Coeffs[i], p2.Coeffs[i]
		for j := 0; j < r.N; j++ {
			c2[j] = CRed(c1[j], q)
		}
	}
}

// CRed reduces a assumed to be in [0, 2q) down to [0, q).
func CRed(a, q uint64) uint64 {
	if a >= q {
		return a - q
	}
	return a
}
