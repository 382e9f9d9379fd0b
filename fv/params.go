package fv

import (
	"fmt"
	"math/big"

	"github.com/latticefold/fv/numtheory"
)

// maxModulusBits bounds every coefficient prime so per-coefficient modular
// multiplication (ring.MulMod) can rely on bits.Div64's hi<q precondition
// without Montgomery/Barrett reduction. See DESIGN.md.
const maxModulusBits = 62

// EncryptionParams is the triple (N, coeff_modulus, t) spec.md §3 names.
// Construction validates every invariant Context depends on; once built it
// is never mutated (Context, KeyGenerator, etc. only ever read it).
type EncryptionParams struct {
	N            int
	CoeffModulus []uint64
	T            uint64
}

// NewEncryptionParams validates and constructs EncryptionParams. Fails with
// ErrInvalidParams when N is not a power of two, any q_i is composite or
// duplicated (or wider than maxModulusBits), t <= 1, or Q <= t.
func NewEncryptionParams(N int, coeffModulus []uint64, t uint64) (*EncryptionParams, error) {
	if N <= 0 || N&(N-1) != 0 {
		return nil, fmt.Errorf("%w: N=%d is not a power of two", ErrInvalidParams, N)
	}
	if t <= 1 {
		return nil, fmt.Errorf("%w: plaintext modulus t=%d must be > 1", ErrInvalidParams, t)
	}
	if len(coeffModulus) == 0 {
		return nil, fmt.Errorf("%w: empty coefficient modulus", ErrInvalidParams)
	}

	seen := make(map[uint64]bool, len(coeffModulus))
	Q := big.NewInt(1)
	for _, q := range coeffModulus {
		if bitLen(q) > maxModulusBits {
			return nil, fmt.Errorf("%w: coefficient modulus %d exceeds %d bits", ErrInvalidParams, q, maxModulusBits)
		}
		if seen[q] {
			return nil, fmt.Errorf("%w: duplicate coefficient modulus %d", ErrInvalidParams, q)
		}
		seen[q] = true
		if !numtheory.IsPrimeUint64(q) {
			return nil, fmt.Errorf("%w: coefficient modulus %d is not prime", ErrInvalidParams, q)
		}
		Q.Mul(Q, new(big.Int).SetUint64(q))
	}
	if Q.Cmp(new(big.Int).SetUint64(t)) <= 0 {
		return nil, fmt.Errorf("%w: Q<=t leaves no noise budget", ErrInvalidParams)
	}

	m := append([]uint64(nil), coeffModulus...)
	return &EncryptionParams{N: N, CoeffModulus: m, T: t}, nil
}

func bitLen(v uint64) int {
	n := 0
	for v > 0 {
		n++
		v >>= 1
	}
	return n
}

// CoeffModulus namespaces the two modulus-chain constructors spec.md §4.5
// names, mirroring bfv.ParametersLiteral's role without a config-file
// layer.
type CoeffModulus struct{}

// Create returns distinct primes matching each requested bit size, each
// congruent to 1 mod 2N (so the chain would also support NTT, even though
// this engine does not use it). Primes are searched independently per
// distinct bit size so repeated sizes (e.g. [40, 40]) yield distinct
// primes.
func (CoeffModulus) Create(N int, bitSizes []int) ([]uint64, error) {
	countBySize := make(map[int]int)
	order := make([]int, 0, len(bitSizes))
	for _, b := range bitSizes {
		if countBySize[b] == 0 {
			order = append(order, b)
		}
		countBySize[b]++
	}

	primesBySize := make(map[int][]uint64, len(order))
	for _, b := range order {
		primes, err := numtheory.GetPrimes(N, b, countBySize[b])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotEnoughPrimes, err)
		}
		primesBySize[b] = primes
	}

	out := make([]uint64, len(bitSizes))
	cursor := make(map[int]int, len(order))
	for i, b := range bitSizes {
		out[i] = primesBySize[b][cursor[b]]
		cursor[b]++
	}
	return out, nil
}

// secLevel names the security levels CoeffModulus.BFVDefault supports.
type secLevel int

const (
	// SecLevel128 is the 128-bit classical security level.
	SecLevel128 secLevel = 128
	// SecLevel192 is the 192-bit classical security level.
	SecLevel192 secLevel = 192
	// SecLevel256 is the 256-bit classical security level.
	SecLevel256 secLevel = 256
)

// bfvDefaultLogQ embeds the HomomorphicEncryption.org recommended total
// ciphertext-modulus bit width per (N, security level), the same role
// bfv/parameters.go's named literal table (PN11QP54, PN12QP109, ...) plays
// in the teacher.
var bfvDefaultLogQ = map[int]map[secLevel]int{
	1024:  {SecLevel128: 27, SecLevel192: 19, SecLevel256: 14},
	2048:  {SecLevel128: 54, SecLevel192: 37, SecLevel256: 29},
	4096:  {SecLevel128: 109, SecLevel192: 75, SecLevel256: 58},
	8192:  {SecLevel128: 218, SecLevel192: 152, SecLevel256: 118},
	16384: {SecLevel128: 438, SecLevel192: 305, SecLevel256: 237},
	32768: {SecLevel128: 881, SecLevel192: 611, SecLevel256: 476},
}

// maxPrimeBits is the largest per-prime chunk BFVDefault splits its total
// budget into; kept comfortably under maxModulusBits.
const maxPrimeBits = 55

// BFVDefault returns the HomomorphicEncryption.org recommended modulus
// chain for N in {1024, 2048, 4096, 8192, 16384, 32768} at the given
// security level, split into distinct primes of at most maxPrimeBits bits
// each (so every one comfortably satisfies EncryptionParams' 62-bit cap).
func (cm CoeffModulus) BFVDefault(N int, level secLevel) ([]uint64, error) {
	table, ok := bfvDefaultLogQ[N]
	if !ok {
		return nil, fmt.Errorf("%w: no recommended chain for N=%d", ErrInvalidParams, N)
	}
	logQ, ok := table[level]
	if !ok {
		return nil, fmt.Errorf("%w: no recommended chain for security level %d", ErrInvalidParams, level)
	}

	numPrimes := (logQ + maxPrimeBits - 1) / maxPrimeBits
	if numPrimes < 1 {
		numPrimes = 1
	}
	bitSizes := make([]int, numPrimes)
	remaining := logQ
	for i := range bitSizes {
		left := numPrimes - i
		size := (remaining + left - 1) / left
		bitSizes[i] = size
		remaining -= size
	}
	return cm.Create(N, bitSizes)
}
