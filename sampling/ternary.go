package sampling

import "github.com/latticefold/fv/ring"

// TernarySampler draws coefficients uniformly from {-1, 0, 1}, materializing
// each digit in RNS form (-1 represented as q_i-1 in channel i), per
// spec.md's SecretKey / asymmetric-encryption "u" sampling.
type TernarySampler struct {
	prng PRNG
}

// NewTernarySampler builds a TernarySampler drawing from prng.
func NewTernarySampler(prng PRNG) *TernarySampler {
	return &TernarySampler{prng: prng}
}

// Read fills p with a fresh ternary polynomial, one shared {-1,0,1} digit
// per coefficient replicated (RNS-correctly) across every channel of r.
func (s *TernarySampler) Read(r *ring.Ring, p ring.Poly) {
	buf := make([]byte, 1)
	for n := 0; n < r.N; n++ {
		digit := s.nextDigit(buf)
		for i, q := range r.Moduli {
			switch digit {
			case 0:
				p.Coeffs[i][n] = 0
			case 1:
				p.Coeffs[i][n] = 1
			default: // -1
				p.Coeffs[i][n] = q - 1
			}
		}
	}
}

// ReadNew allocates and fills a fresh ternary polynomial over r.
func (s *TernarySampler) ReadNew(r *ring.Ring) ring.Poly {
	p := r.NewPoly()
	s.Read(r, p)
	return p
}

// nextDigit draws one of {0, 1, -1} with equal probability 1/3, rejecting
// byte values >= 255 (the largest multiple of 3 below 256 is 255) to avoid
// modulo bias.
func (s *TernarySampler) nextDigit(buf []byte) int {
	for {
		if _, err := s.prng.Read(buf); err != nil {
			panic(err)
		}
		if buf[0] >= 255 {
			continue
		}
		switch buf[0] % 3 {
		case 0:
			return 0
		case 1:
			return 1
		default:
			return -1
		}
	}
}
