package ring

import "math/bits"

// This core restricts every coefficient modulus to at most 62 bits (see
// EncryptionParams validation in the fv package), which guarantees that for
// any x, y < q the 128-bit product x*y has high word < q. That keeps
// MulMod's Div64 call inside its documented precondition (hi < y) without
// needing Montgomery or Barrett reduction's precomputed constants.

// AddMod returns (x + y) mod q for x, y in [0, q).
func AddMod(x, y, q uint64) uint64 {
	r := x + y
	if r >= q {
		r -= q
	}
	return r
}

// SubMod returns (x - y) mod q for x, y in [0, q).
func SubMod(x, y, q uint64) uint64 {
	if x >= y {
		return x - y
	}
	return x - y + q
}

// NegMod returns (-x) mod q for x in [0, q).
func NegMod(x, q uint64) uint64 {
	if x == 0 {
		return 0
	}
	return q - x
}

// MulMod returns (x * y) mod q for x, y in [0, q), q <= 2^62.
func MulMod(x, y, q uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	_, rem := bits.Div64(hi, lo, q)
	return rem
}

// ExpMod returns x^e mod q via square-and-multiply.
func ExpMod(x, e, q uint64) uint64 {
	r := uint64(1) % q
	base := x % q
	for e > 0 {
		if e&1 == 1 {
			r = MulMod(r, base, q)
		}
		base = MulMod(base, base, q)
		e >>= 1
	}
	return r
}
