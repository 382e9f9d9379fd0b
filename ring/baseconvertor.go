package ring

// BaseConvertor converts a residue vector expressed under an input RNSBase
// into its residue vector under a different output RNSBase.
type BaseConvertor struct {
	in  *RNSBase
	out *RNSBase
}

// NewBaseConvertor builds a BaseConvertor from the in base to the out base.
func NewBaseConvertor(in, out *RNSBase) *BaseConvertor {
	return &BaseConvertor{in: in, out: out}
}

// FastConvert implements spec.md §4.3's fast_convert_list: for each output
// prime p_j, sum_i ((x_i * qHatInv_i mod q_i) * qHat_i) mod p_j. This is an
// approximate conversion (admits an additive error of up to k*Q, k the
// input base size) that downstream RNSTool steps correct via SmMRQ /
// FastBConvSK; callers needing an exact conversion should compose through
// RNSBase.ComposeCoefficient/DecomposeCoefficient instead (used in tests,
// per spec.md §4.3's "exact conversion... used in tests").
func (c *BaseConvertor) FastConvert(x []uint64) []uint64 {
	// v_i = x_i * qHatInv_i mod q_i, lifted to a machine word (< q_i).
	v := make([]uint64, len(c.in.Primes))
	for i, p := range c.in.Primes {
		v[i] = MulMod(x[i], c.in.QHatInv[i], p)
	}

	out := make([]uint64, len(c.out.Primes))
	for j, pj := range c.out.Primes {
		var sum uint64
		for i := range c.in.Primes {
			qHatModPj := new(Int).Mod(c.in.QHat[i], NewUint(pj)).Uint64()
			sum = AddMod(sum, MulMod(v[i], qHatModPj, pj), pj)
		}
		out[j] = sum
	}
	return out
}

// FastConvertList applies FastConvert independently to each coefficient of
// an RNS polynomial expressed over c.in, returning its residues over c.out.
func (c *BaseConvertor) FastConvertList(p Poly) Poly {
	N := p.N()
	out := NewPoly(N, len(c.out.Primes))
	col := make([]uint64, len(c.in.Primes))
	for k := 0; k < N; k++ {
		for i := range c.in.Primes {
			col[i] = p.Coeffs[i][k]
		}
		res := c.FastConvert(col)
		for j := range c.out.Primes {
			out.Coeffs[j][k] = res[j]
		}
	}
	return out
}
