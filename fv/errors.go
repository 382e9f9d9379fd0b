package fv

import "errors"

// Sentinel errors, per spec.md §7's error-kind table. Callers distinguish
// kinds with errors.Is; every wrapped occurrence carries the offending
// value via fmt.Errorf("%w: ...").
var (
	// ErrInvalidParams is returned when EncryptionParams are malformed:
	// N not a power of two, a composite or duplicate q_i, t <= 1, or
	// Q <= t (no noise budget).
	ErrInvalidParams = errors.New("fv: invalid encryption parameters")

	// ErrNotEnoughPrimes is returned when CoeffModulus.Create/BFVDefault's
	// prime search is exhausted before finding enough candidates.
	ErrNotEnoughPrimes = errors.New("fv: not enough primes for requested bit sizes")

	// ErrNotInvertible names the non-coprime modular-inverse error kind. No
	// fv operation returns it: NewEncryptionParams rejects duplicate and
	// composite moduli, and the ring and numtheory packages report this
	// condition as numtheory.ErrNotInvertible.
	ErrNotInvertible = errors.New("fv: value not invertible mod given modulus")

	// ErrMismatchedContext is returned when an operation combines operands
	// from different Context instances.
	ErrMismatchedContext = errors.New("fv: operands belong to different contexts")

	// ErrWrongCiphertextSize is returned by relinearization on a
	// ciphertext whose size isn't exactly 3.
	ErrWrongCiphertextSize = errors.New("fv: wrong ciphertext size")

	// ErrOutOfRange is returned by IntegerEncoder.Encode when the integer
	// exceeds the representable magnitude (2^N - 1).
	ErrOutOfRange = errors.New("fv: integer out of encodable range")
)
