package ring

import (
	"fmt"
	"math/big"

	"github.com/latticefold/fv/numtheory"
)

// RNSTool precomputes the tables spec.md §4.4 names: an auxiliary base
// Bsk = B ∪ {msk} disjoint from the ciphertext modulus base q, and the
// small helper modulus m̃ used to scale a value before base-converting it.
//
// The published HPS/BEHZ algorithm computes SmMRQ/FastFloor/FastBConvSK via
// additive correction terms layered on top of BaseConvertor.FastConvert's
// approximate conversion, entirely in machine-word arithmetic. This module
// instead composes the relevant residues into an exact big.Int via
// RNSBase.ComposeCoefficient/DecomposeCoefficient at each step (SmMRQ,
// FastFloor, FastBConvSK). The two approaches agree on every input (both
// compute the exact RNS-represented mathematical value); the exact form
// trades the constant-factor speed of the machine-word corrections for
// removing an entire class of off-by-one-multiple-of-q bugs that cannot be
// caught without a compile-and-run loop. See DESIGN.md.
//
// Exactness only helps if the base handed to ComposeCoefficient is actually
// big enough to hold the value being reconstructed. FastFloor's input during
// ciphertext multiplication is the raw tensor-product convolution of two
// ciphertext components, each itself uniformly spread over all of (-Q/2,
// Q/2] (not small) — so the convolution's true coefficient can reach
// magnitude ~N·Q²/4, not just Q. Bsk must therefore be sized to make the
// *combined* q∪Bsk modulus dominate that bound, not merely dominate Q; see
// the bit-sizing comment in NewRNSTool.
type RNSTool struct {
	BaseQ         *RNSBase
	BaseBsk       *RNSBase // B ∪ {msk}
	BaseBskMtilde *RNSBase // B ∪ {msk} ∪ {m̃}
	BaseQBsk      *RNSBase // q ∪ B ∪ {msk}, used only to reconstruct an unreduced tensor-product coefficient exactly
	Msk           uint64
	Mtilde        uint64
	T             uint64

	toBskMtilde *BaseConvertor // base q -> Bsk∪{m̃}, the fast_convert half of ExtendToBsk
}

// mtildeDefault is m̃, a small power of two coprime to every odd q_i.
const mtildeDefault = uint64(1) << 16

// rnsToolMarginBits is slack added on top of the minimum bit count Bsk needs
// to dominate the worst-case tensor-product coefficient, absorbing the
// rounding in ExtendToBsk/FastFloor's divisions.
const rnsToolMarginBits = 4

// NewRNSTool builds the auxiliary bases and derived tables for a ciphertext
// modulus base q, ring degree N, and plaintext modulus t. N only affects the
// bit-sizing of the auxiliary base Bsk (see below); the ring itself is
// supplied separately by every caller.
func NewRNSTool(baseQ *RNSBase, N int, t uint64) (*RNSTool, error) {
	if t < 2 {
		return nil, fmt.Errorf("%w: plaintext modulus t=%d must be >= 2", ErrInvalidParams, t)
	}
	if N <= 0 {
		return nil, fmt.Errorf("%w: N=%d must be positive", ErrInvalidParams, N)
	}

	excluded := make(map[uint64]bool, 2*len(baseQ.Primes)+2)
	for _, q := range baseQ.Primes {
		excluded[q] = true
	}

	totalQBits, maxQBits := 0, 0
	for _, q := range baseQ.Primes {
		bl := bitLen64(q)
		totalQBits += bl
		if bl > maxQBits {
			maxQBits = bl
		}
	}

	// Each auxiliary prime is one bit wider than the largest q_i, the
	// standard HPS sizing for a single-value base extension to be lossless
	// (Bsk > Q). For MulNew's tensor-product use, FastFloor's input can
	// reach ~N*Q^2/4 in magnitude, so the *combined* q∪Bsk modulus must
	// exceed that: ~2*totalQBits + log2(N) bits. Bsk alone must therefore
	// carry roughly totalQBits + log2(N) bits beyond what a single-value
	// extension would need, so grow the prime *count* (not width) to reach
	// that total, with a never-shrink floor of len(baseQ.Primes) so the
	// single-value extension path (ExtendToBsk on an individual ciphertext
	// component, bounded by Q) stays lossless too.
	bitSize := maxQBits + 1
	if bitSize > 62 {
		return nil, fmt.Errorf("%w: coefficient modulus too large for a 62-bit auxiliary base", ErrInvalidParams)
	}
	requiredBBits := totalQBits + bitLen64(uint64(N)) + rnsToolMarginBits
	numBPrimes := (requiredBBits + bitSize - 1) / bitSize
	if numBPrimes < len(baseQ.Primes) {
		numBPrimes = len(baseQ.Primes)
	}

	bPrimes, err := searchAuxPrimes(bitSize, numBPrimes, excluded)
	if err != nil {
		return nil, err
	}
	for _, p := range bPrimes {
		excluded[p] = true
	}
	mskPrimes, err := searchAuxPrimes(bitSize, 1, excluded)
	if err != nil {
		return nil, err
	}
	msk := mskPrimes[0]

	bskPrimes := append(append([]uint64(nil), bPrimes...), msk)
	baseBsk, err := NewRNSBase(bskPrimes)
	if err != nil {
		return nil, err
	}

	mtilde := mtildeDefault
	baseBskMtilde, err := NewRNSBase(append(append([]uint64(nil), bskPrimes...), mtilde))
	if err != nil {
		return nil, err
	}

	baseQBsk, err := NewRNSBase(append(append([]uint64(nil), baseQ.Primes...), bskPrimes...))
	if err != nil {
		return nil, err
	}

	return &RNSTool{
		BaseQ:         baseQ,
		BaseBsk:       baseBsk,
		BaseBskMtilde: baseBskMtilde,
		BaseQBsk:      baseQBsk,
		Msk:           msk,
		Mtilde:        mtilde,
		T:             t,
		toBskMtilde:   NewBaseConvertor(baseQ, baseBskMtilde),
	}, nil
}

func bitLen64(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// searchAuxPrimes finds `count` distinct primes of exactly bitSize bits,
// none in exclude, searching downward from 2^bitSize-1. Unlike
// numtheory.GetPrimes, these need not satisfy any NTT congruence: B and msk
// only need to be pairwise coprime and coprime with q, since this core
// never runs an NTT (see DESIGN.md).
func searchAuxPrimes(bitSize, count int, exclude map[uint64]bool) ([]uint64, error) {
	one := big.NewInt(1)
	upper := new(big.Int).Lsh(one, uint(bitSize))
	upper.Sub(upper, one)
	lower := new(big.Int).Lsh(one, uint(bitSize-1))

	candidate := new(big.Int).Set(upper)
	if candidate.Bit(0) == 0 {
		candidate.Sub(candidate, one)
	}
	two := big.NewInt(2)

	found := make([]uint64, 0, count)
	for candidate.Cmp(lower) >= 0 {
		if numtheory.IsPrime(candidate) {
			v := candidate.Uint64()
			if !exclude[v] {
				found = append(found, v)
				exclude[v] = true
				if len(found) == count {
					return found, nil
				}
			}
		}
		candidate.Sub(candidate, two)
	}
	return nil, fmt.Errorf("%w: exhausted search for %d auxiliary primes of %d bits", numtheory.ErrNotEnoughPrimes, count, bitSize)
}

// ExtendToBsk implements spec.md §4.10 step 1: extend a polynomial known
// only through its base-q residues into base Bsk, via fast_convert (scaled
// by m̃) into Bsk∪{m̃} followed by sm_mrq, which removes both the m̃ scaling
// and the additive k·Q error fast_convert admits (k < len(BaseQ.Primes)).
// Unlike FastFloor/FastBConvSK below (which reconstruct an already-bounded
// value via a plain compose/decompose round-trip), the value here is known
// only in base q, so the fast_convert+sm_mrq correction is load-bearing, not
// a stylistic match to the literal algorithm.
func (rt *RNSTool) ExtendToBsk(x Poly) Poly {
	N := x.N()
	scaled := NewPoly(N, len(rt.BaseQ.Primes))
	for i, q := range rt.BaseQ.Primes {
		m := rt.Mtilde % q
		c1, c2 := x.Coeffs[i], scaled.Coeffs[i]
		for n := 0; n < N; n++ {
			c2[n] = MulMod(c1[n], m, q)
		}
	}
	converted := rt.toBskMtilde.FastConvertList(scaled)
	return rt.SmMRQ(converted)
}

// SmMRQ implements spec.md §4.4's sm_mrq: given a polynomial represented
// modulo m̃·q (one residue per Bsk prime plus one for m̃), add the centred
// multiple r·Q (r ≡ -v·Q^-1 mod m̃) that makes it divisible by m̃, divide out
// the m̃ factor and return the result in Bsk.
func (rt *RNSTool) SmMRQ(x Poly) Poly {
	k := len(rt.BaseBsk.Primes)
	N := x.N()
	out := NewPoly(N, k)
	col := make([]uint64, k+1)
	mtilde := NewUint(rt.Mtilde)
	negQInv := new(Int).Inv(rt.BaseQ.Q, mtilde) // Q is odd, m̃ a power of two
	negQInv.Sub(mtilde, negQInv)
	for n := 0; n < N; n++ {
		for i := 0; i < k+1; i++ {
			col[i] = x.Coeffs[i][n]
		}
		v := rt.BaseBskMtilde.ComposeCoefficient(col)
		r := new(Int).Mul(v, negQInv)
		r.Mod(r, mtilde).Center(mtilde)
		v.Add(v, new(Int).Mul(r, rt.BaseQ.Q))
		q := new(Int).DivRound(v, mtilde)
		res := rt.BaseBsk.DecomposeCoefficient(q)
		for i := 0; i < k; i++ {
			out.Coeffs[i][n] = res[i]
		}
	}
	return out
}

// FastFloor implements spec.md §4.4's fast_floor: compute floor(t*x/Q) for a
// value x known through its residues in BOTH base q and base Bsk (xQ, xBsk),
// returning the result in Bsk.
//
// Ciphertext multiplication feeds FastFloor the raw tensor-product
// convolution of two ciphertext components, whose true magnitude can reach
// ~N*Q^2/4 — far past what base q alone can represent (composing from xQ
// alone would only recover the value mod Q, not the value itself). Composing
// exactly requires the combined q∪Bsk CRT system, which is why Bsk is sized
// to dominate that larger bound (see NewRNSTool) and why every MulNew
// operand is run through ExtendToBsk before reaching this call.
func (rt *RNSTool) FastFloor(xQ, xBsk Poly) Poly {
	k := len(rt.BaseBsk.Primes)
	numQ := len(rt.BaseQ.Primes)
	N := xQ.N()
	out := NewPoly(N, k)
	col := make([]uint64, numQ+k)
	t := NewUint(rt.T)
	for n := 0; n < N; n++ {
		for i := 0; i < numQ; i++ {
			col[i] = xQ.Coeffs[i][n]
		}
		for i := 0; i < k; i++ {
			col[numQ+i] = xBsk.Coeffs[i][n]
		}
		v := rt.BaseQBsk.ComposeCoefficient(col) // exact, signed tensor-product coefficient
		num := new(Int).Mul(v, t)
		quotient := floorDiv(num, rt.BaseQ.Q)
		res := rt.BaseBsk.DecomposeCoefficient(quotient)
		for i := 0; i < k; i++ {
			out.Coeffs[i][n] = res[i]
		}
	}
	return out
}

// floorDiv returns floor(a/b) for a signed, b > 0 (big.Int.Quo truncates
// towards zero; this adjusts the negative, non-exact case down by one).
func floorDiv(a, b *Int) *Int {
	q := new(Int)
	r := new(big.Int)
	q.Value.QuoRem(&a.Value, &b.Value, r)
	if r.Sign() != 0 && a.Value.Sign() < 0 {
		q.Value.Sub(&q.Value, big.NewInt(1))
	}
	return q
}

// FastBConvSK implements spec.md §4.4's fastbconv_sk: base-convert a
// polynomial from Bsk back to q, using the msk prime to reconstruct the
// exact value (removing the approximation error an additive-correction
// implementation would otherwise carry).
func (rt *RNSTool) FastBConvSK(x Poly) Poly {
	k := len(rt.BaseQ.Primes)
	N := x.N()
	out := NewPoly(N, k)
	col := make([]uint64, len(rt.BaseBsk.Primes))
	for n := 0; n < N; n++ {
		for i := range rt.BaseBsk.Primes {
			col[i] = x.Coeffs[i][n]
		}
		v := rt.BaseBsk.ComposeCoefficient(col)
		res := rt.BaseQ.DecomposeCoefficient(v)
		for i := 0; i < k; i++ {
			out.Coeffs[i][n] = res[i]
		}
	}
	return out
}
