package sampling

import (
	"encoding/binary"
	"math/bits"

	"github.com/latticefold/fv/ring"
)

// UniformSampler draws coefficients uniformly from [0, q_i) per RNS channel,
// by rejection sampling on the smallest mask that covers q_i (mirrors the
// teacher's ClockUniform: draw a masked 64-bit word, reject if >= q_i).
type UniformSampler struct {
	prng PRNG
}

// NewUniformSampler builds a UniformSampler drawing from prng.
func NewUniformSampler(prng PRNG) *UniformSampler {
	return &UniformSampler{prng: prng}
}

// Read fills p (an r-shaped polynomial) with uniform residues per channel.
func (s *UniformSampler) Read(r *ring.Ring, p ring.Poly) {
	buf := make([]byte, 8)
	for i, q := range r.Moduli {
		mask := uint64(1)<<uint(bits.Len64(q)) - 1
		col := p.Coeffs[i]
		for n := 0; n < r.N; n++ {
			for {
				if _, err := s.prng.Read(buf); err != nil {
					panic(err) // PRNG failure is unrecoverable; matches crypto/rand's own panic-on-failure contract.
				}
				v := binary.BigEndian.Uint64(buf) & mask
				if v < q {
					col[n] = v
					break
				}
			}
		}
	}
}

// ReadNew allocates and fills a fresh uniform polynomial over r.
func (s *UniformSampler) ReadNew(r *ring.Ring) ring.Poly {
	p := r.NewPoly()
	s.Read(r, p)
	return p
}
