// Package numtheory implements the number-theoretic primitives the fv engine
// builds on: primality testing, the extended Euclidean algorithm, modular
// inversion, bit reversal, and prime search under a congruence constraint.
package numtheory

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNotInvertible is returned by InvertMod when gcd(a, m) != 1.
var ErrNotInvertible = errors.New("numtheory: not invertible")

// ErrNotEnoughPrimes is returned by GetPrimes when the search space is
// exhausted before the requested count of primes is found.
var ErrNotEnoughPrimes = errors.New("numtheory: not enough primes")

// millerRabinRounds is the number of independent Miller-Rabin witnesses used
// by IsPrime, chosen to match the "16 independent witnesses" floor named in
// spec.md §4.1. big.Int.ProbablyPrime(n) runs n rounds of Miller-Rabin in
// addition to a Baillie-PSW test, so this is comfortably above that floor.
const millerRabinRounds = 20

// IsPrime reports whether n is probably prime, using Miller-Rabin with
// millerRabinRounds independent witnesses.
func IsPrime(n *big.Int) bool {
	if n.Sign() <= 0 {
		return false
	}
	return n.ProbablyPrime(millerRabinRounds)
}

// IsPrimeUint64 is the uint64 convenience form of IsPrime.
func IsPrimeUint64(n uint64) bool {
	return IsPrime(new(big.Int).SetUint64(n))
}

// Xgcd returns (g, a, b) such that a*x + b*y = g = gcd(x, y).
func Xgcd(x, y *big.Int) (g, a, b *big.Int) {
	g = new(big.Int)
	a = new(big.Int)
	b = new(big.Int)
	g.GCD(a, b, x, y)
	return
}

// InvertMod returns a^-1 mod m. It returns ErrNotInvertible when
// gcd(a, m) != 1 (wrapped with the offending operands for diagnosis).
func InvertMod(a, m *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, fmt.Errorf("%w: gcd(%s, %s) != 1", ErrNotInvertible, a.String(), m.String())
	}
	return inv, nil
}

// InvertModUint64 is the uint64 convenience form of InvertMod, for moduli
// that fit a single machine word.
func InvertModUint64(a, m uint64) (uint64, error) {
	inv, err := InvertMod(new(big.Int).SetUint64(a), new(big.Int).SetUint64(m))
	if err != nil {
		return 0, err
	}
	return inv.Uint64(), nil
}

// ReverseBit reverses the low `width` bits of v, the index permutation of
// bit-reversed enumeration order (as used to address NTT butterflies). No
// other package of this module calls it: polynomial multiplication here is
// schoolbook-only.
func ReverseBit(v uint64, width int) uint64 {
	var r uint64
	for i := 0; i < width; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// MultiplyManyExcept returns the product of every element of values except
// the one at index excludeIdx. Used to construct q-hat_i = prod_{j!=i} q_j.
func MultiplyManyExcept(values []uint64, excludeIdx int) *big.Int {
	prod := big.NewInt(1)
	for i, v := range values {
		if i == excludeIdx {
			continue
		}
		prod.Mul(prod, new(big.Int).SetUint64(v))
	}
	return prod
}

// GetPrimes returns `count` distinct primes, each exactly bitSize bits wide
// and congruent to 1 mod 2N, searched downward from 2^bitSize - 1. Returns
// ErrNotEnoughPrimes if the search reaches 2^(bitSize-1) without finding
// enough candidates.
func GetPrimes(N int, bitSize int, count int) ([]uint64, error) {
	if N <= 0 || bitSize <= 1 || count <= 0 {
		return nil, fmt.Errorf("%w: invalid arguments to GetPrimes", ErrNotEnoughPrimes)
	}

	modulus := new(big.Int).SetUint64(uint64(2 * N))
	one := big.NewInt(1)

	upper := new(big.Int).Lsh(one, uint(bitSize))
	upper.Sub(upper, one) // 2^bitSize - 1
	lower := new(big.Int).Lsh(one, uint(bitSize-1))

	// Start the search at the largest candidate <= upper that is
	// congruent to 1 mod 2N.
	candidate := new(big.Int).Set(upper)
	rem := new(big.Int).Mod(candidate, modulus)
	if rem.Cmp(one) != 0 {
		diff := new(big.Int).Sub(rem, one)
		if diff.Sign() < 0 {
			diff.Add(diff, modulus)
		}
		candidate.Sub(candidate, diff)
	}

	primes := make([]uint64, 0, count)
	for candidate.Cmp(lower) >= 0 {
		if IsPrime(candidate) {
			primes = append(primes, candidate.Uint64())
			if len(primes) == count {
				return primes, nil
			}
		}
		candidate.Sub(candidate, modulus)
	}

	return nil, fmt.Errorf("%w: exhausted search for %d primes of %d bits congruent to 1 mod %d",
		ErrNotEnoughPrimes, count, bitSize, 2*N)
}
