package ring

import "math/big"

// Int is a thin wrapper around math/big.Int used for the arbitrary-precision
// arithmetic the RNS machinery needs: composing a coefficient modulus Q as
// the product of the per-channel primes, CRT-reconstructing a residue
// vector into its representative mod Q, and recentring that representative
// into the balanced range (-Q/2, Q/2].
type Int struct {
	Value big.Int
}

// NewInt creates a new Int with a given int64 value.
func NewInt(v int64) *Int {
	i := new(Int)
	i.Value.SetInt64(v)
	return i
}

// NewUint creates a new Int with a given uint64 value.
func NewUint(v uint64) *Int {
	i := new(Int)
	i.Value.SetUint64(v)
	return i
}

// Copy creates a new Int which is a copy of the input Int.
func Copy(v *Int) *Int {
	i := new(Int)
	i.Value.Set(&v.Value)
	return i
}

// String returns the decimal string representation of i.
func (i *Int) String() string {
	return i.Value.String()
}

// Add sets the target i to a + b.
func (i *Int) Add(a, b *Int) *Int {
	i.Value.Add(&a.Value, &b.Value)
	return i
}

// Sub sets the target i to a - b.
func (i *Int) Sub(a, b *Int) *Int {
	i.Value.Sub(&a.Value, &b.Value)
	return i
}

// Mul sets the target i to a * b.
func (i *Int) Mul(a, b *Int) *Int {
	i.Value.Mul(&a.Value, &b.Value)
	return i
}

// Mod sets the target i to a mod m, m > 0, result in [0, m).
func (i *Int) Mod(a, m *Int) *Int {
	i.Value.Mod(&a.Value, &m.Value)
	return i
}

// Inv sets the target i to a^-1 mod m. Panics if a is not invertible mod m;
// callers that need a recoverable error should use numtheory.InvertMod.
func (i *Int) Inv(a, m *Int) *Int {
	if i.Value.ModInverse(&a.Value, &m.Value) == nil {
		panic("ring: Int.Inv: not invertible")
	}
	return i
}

// DivRound sets the target i to round(a/b), ties rounding away from zero.
func (i *Int) DivRound(a, b *Int) *Int {
	q := new(big.Int)
	r := new(big.Int)
	q.QuoRem(&a.Value, &b.Value, r)

	r2 := new(big.Int).Mul(r, big.NewInt(2))
	if r2.CmpAbs(&b.Value) >= 0 {
		if a.Value.Sign() == b.Value.Sign() {
			q.Add(q, big.NewInt(1))
		} else {
			q.Sub(q, big.NewInt(1))
		}
	}
	i.Value.Set(q)
	return i
}

// DivFloor sets the target i to floor(a/b), for a >= 0, b > 0.
func (i *Int) DivFloor(a, b *Int) *Int {
	i.Value.Quo(&a.Value, &b.Value)
	return i
}

// Compare returns -1, 0, +1 as i is less than, equal to, or greater than i2.
func (i *Int) Compare(i2 *Int) int {
	return i.Value.Cmp(&i2.Value)
}

// EqualTo reports whether i and i2 hold the same value.
func (i *Int) EqualTo(i2 *Int) bool {
	return i.Value.Cmp(&i2.Value) == 0
}

// Uint64 returns the low 64 bits of i.
func (i *Int) Uint64() uint64 {
	return i.Value.Uint64()
}

// Center recentres i, assumed to be a residue in [0, Q), into (-Q/2, Q/2].
func (i *Int) Center(Q *Int) *Int {
	qDiv2 := new(Int)
	qDiv2.Value.Rsh(&Q.Value, 1)

	if i.Compare(qDiv2) > 0 {
		i.Value.Sub(&i.Value, &Q.Value)
	}
	return i
}
