package fv

import (
	"fmt"
	"math/big"
)

// IntegerEncoder implements spec.md §4.7's balanced base-b encoding with
// b=2: a non-negative integer's binary digits become the plaintext's
// coefficients directly; a negative integer's digits are each stored as
// t-d_j (i.e. -1 mod t). Decoding centers each coefficient into a signed
// digit (treating values > t/2 as negative) and evaluates the polynomial
// at x=2 over the integers.
type IntegerEncoder struct {
	ctx *Context
}

// NewIntegerEncoder builds an IntegerEncoder for ctx.
func NewIntegerEncoder(ctx *Context) *IntegerEncoder {
	return &IntegerEncoder{ctx: ctx}
}

// Encode encodes x into a fresh Plaintext. Fails with ErrOutOfRange when
// |x| exceeds 2^N - 1, the maximum encodable magnitude (spec.md §4.7).
func (e *IntegerEncoder) Encode(x *big.Int) (*Plaintext, error) {
	N := e.ctx.Params.N
	t := e.ctx.Params.T

	maxMagnitude := new(big.Int).Lsh(big.NewInt(1), uint(N))
	maxMagnitude.Sub(maxMagnitude, big.NewInt(1))
	abs := new(big.Int).Abs(x)
	if abs.Cmp(maxMagnitude) > 0 {
		return nil, fmt.Errorf("%w: |%s| exceeds 2^%d-1", ErrOutOfRange, x.String(), N)
	}

	pt := NewPlaintext(e.ctx)
	negative := x.Sign() < 0
	for j := 0; j < N; j++ {
		if abs.Bit(j) == 1 {
			if negative {
				pt.Coeffs[j] = t - 1
			} else {
				pt.Coeffs[j] = 1
			}
		}
	}
	return pt, nil
}

// EncodeInt64 is the int64 convenience form of Encode.
func (e *IntegerEncoder) EncodeInt64(x int64) (*Plaintext, error) {
	return e.Encode(big.NewInt(x))
}

// Decode recovers the signed integer a Plaintext encodes, by centering
// each coefficient around t/2 and Horner-evaluating the resulting signed
// digits at base 2.
func (e *IntegerEncoder) Decode(pt *Plaintext) *big.Int {
	t := e.ctx.Params.T
	half := t / 2

	result := new(big.Int)
	for j := len(pt.Coeffs) - 1; j >= 0; j-- {
		result.Lsh(result, 1)
		c := pt.Coeffs[j]
		if c > half {
			result.Sub(result, new(big.Int).SetUint64(t-c))
		} else {
			result.Add(result, new(big.Int).SetUint64(c))
		}
	}
	return result
}

// DecodeInt64 is the int64 convenience form of Decode.
func (e *IntegerEncoder) DecodeInt64(pt *Plaintext) int64 {
	return e.Decode(pt).Int64()
}
