// Package sampling implements the randomness sources the fv engine needs:
// a deterministic keyed PRNG and the uniform/ternary/Gaussian distributions
// drawn from it for key generation and encryption.
package sampling

import (
	"crypto/rand"
	"errors"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// PRNG is the source of randomness every sampler in this package draws
// from. A single Read call returns as many bytes as requested.
type PRNG interface {
	Read(p []byte) (n int, err error)
}

// Blake2bPRNG is a keyed, clockable, deterministic PRNG: given the same key
// and the same sequence of reads, it reproduces the same byte stream. Used
// for reproducible tests and for the common-reference-string pattern
// (multiple parties deriving the same randomness from a shared key).
type Blake2bPRNG struct {
	hash  hash.Hash
	clock uint64
}

// NewBlake2bPRNG creates a keyed PRNG. A nil key seeds blake2b with no key
// (still deterministic from an empty state, useful for tests).
func NewBlake2bPRNG(key []byte) (*Blake2bPRNG, error) {
	h, err := blake2b.New512(key)
	if err != nil {
		return nil, err
	}
	return &Blake2bPRNG{hash: h}, nil
}

// Clock returns the right 32 bytes of the current digest and reseeds the
// PRNG with the left 32 bytes, advancing the clock by one.
func (p *Blake2bPRNG) Clock() []byte {
	sum := p.hash.Sum(nil)
	p.hash.Write(sum[:32])
	p.clock++
	return sum[32:]
}

// GetClock returns the number of times Clock has been called.
func (p *Blake2bPRNG) GetClock() uint64 {
	return p.clock
}

// SetClock advances the PRNG by clocking it until it reaches cycle n.
// Returns an error if n is smaller than the current clock (the PRNG cannot
// rewind).
func (p *Blake2bPRNG) SetClock(n uint64) error {
	if p.clock > n {
		return errors.New("sampling: cannot rewind PRNG clock")
	}
	for p.clock != n {
		p.Clock()
	}
	return nil
}

// Read fills buf with PRNG output, clocking as many times as needed. It
// always returns len(buf), nil, satisfying io.Reader/PRNG.
func (p *Blake2bPRNG) Read(buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		chunk := p.Clock()
		n += copy(buf[n:], chunk)
	}
	return len(buf), nil
}

// SecureRandPRNG draws from crypto/rand; used for one-shot, non-reproducible
// key generation and encryption randomness when no shared seed is needed.
type SecureRandPRNG struct{}

// NewSecureRandPRNG returns a PRNG backed by crypto/rand.Reader.
func NewSecureRandPRNG() SecureRandPRNG { return SecureRandPRNG{} }

// Read fills buf with cryptographically secure random bytes.
func (SecureRandPRNG) Read(buf []byte) (int, error) {
	return rand.Read(buf)
}
