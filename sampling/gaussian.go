package sampling

import (
	"encoding/binary"
	"math"

	"github.com/latticefold/fv/ring"
)

// DefaultSigma is the standard deviation spec.md §4.8 recommends for
// encryption noise (σ ≈ 3.2).
const DefaultSigma = 3.2

// DefaultBoundMultiplier bounds the sampled noise to within this many
// standard deviations (spec's gaussianSampler grounding uses 6σ, matching
// the teacher's NewKYSampler(sigma, 6*sigma) call in bfv/bfv.go).
const DefaultBoundMultiplier = 6.0

// GaussianSampler draws coefficients from a discrete Gaussian centered at
// 0, rejecting samples outside [-bound, bound]. Unlike the teacher's
// Ziggurat-table implementation (numerically delicate constant tables that
// cannot be verified without a build-and-run loop, see DESIGN.md), this
// uses Box-Muller plus rejection: slower, but every step is ordinary
// floating-point math that is easy to hand-verify.
type GaussianSampler struct {
	prng  PRNG
	sigma float64
	bound int64
}

// NewGaussianSampler builds a GaussianSampler with the given standard
// deviation and rejection bound (in the same units as sigma).
func NewGaussianSampler(prng PRNG, sigma float64, bound int64) *GaussianSampler {
	return &GaussianSampler{prng: prng, sigma: sigma, bound: bound}
}

// Read fills p with a fresh discrete-Gaussian polynomial, one shared signed
// digit per coefficient replicated (RNS-correctly) across every channel.
func (s *GaussianSampler) Read(r *ring.Ring, p ring.Poly) {
	for n := 0; n < r.N; n++ {
		digit := s.nextDigit()
		for i, q := range r.Moduli {
			if digit >= 0 {
				p.Coeffs[i][n] = uint64(digit) % q
			} else {
				p.Coeffs[i][n] = q - uint64(-digit)%q
			}
		}
	}
}

// ReadNew allocates and fills a fresh discrete-Gaussian polynomial over r.
func (s *GaussianSampler) ReadNew(r *ring.Ring) ring.Poly {
	p := r.NewPoly()
	s.Read(r, p)
	return p
}

func (s *GaussianSampler) nextDigit() int64 {
	for {
		x := s.sigma * s.normFloat64()
		rounded := int64(math.Round(x))
		if rounded >= -s.bound && rounded <= s.bound {
			return rounded
		}
	}
}

// uniformFloat01 draws a uniform float64 in [0, 1) from 8 PRNG bytes.
func (s *GaussianSampler) uniformFloat01() float64 {
	buf := make([]byte, 8)
	if _, err := s.prng.Read(buf); err != nil {
		panic(err)
	}
	// Keep 53 bits of entropy, matching float64's mantissa width.
	v := binary.BigEndian.Uint64(buf) >> 11
	return float64(v) / float64(uint64(1)<<53)
}

// normFloat64 draws a standard-normal sample via the Box-Muller transform.
func (s *GaussianSampler) normFloat64() float64 {
	u1 := s.uniformFloat01()
	for u1 == 0 {
		u1 = s.uniformFloat01()
	}
	u2 := s.uniformFloat01()
	r := math.Sqrt(-2 * math.Log(u1))
	return r * math.Cos(2*math.Pi*u2)
}
