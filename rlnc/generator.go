package rlnc

import (
	"math/rand"

	"github.com/GOPRO1955/kodo/field"
	"github.com/GOPRO1955/kodo/internal/randsrc"
)

// Generator draws coefficient vectors from a deterministic PRNG, seeded so
// that a sender can transmit just the seed (see HeaderSeeded in payload.go)
// and let the receiver regenerate the identical vector (§4.D of the
// design). Two uses: Dense, where every element is drawn uniformly from
// the field, and Sparse, where each position is non-zero with probability
// density and non-zero values are drawn uniformly from the field's
// non-zero elements.
type Generator struct {
	f field.Field
	k int
}

// NewGenerator returns a Generator producing length-k vectors over f.
func NewGenerator(f field.Field, k int) *Generator {
	return &Generator{f: f, k: k}
}

// Resize changes the vector length subsequent draws produce, so a single
// Generator can be recycled by a Factory-resized coder instead of being
// reallocated alongside it.
func (g *Generator) Resize(k int) { g.k = k }

// sourceFor returns a PRNG deterministically derived from seed. Grounded
// on gofountain's own pattern (lubyCodec.PickIndices, onlineCodec.PickIndices)
// of rand.New(NewMersenneTwister(seed)) per draw, which is reused here
// rather than reimplemented because it already satisfies the Open Question
// 1 requirement: bit-identical output across platforms given the same
// seed.
func sourceFor(seed uint32) *rand.Rand {
	return rand.New(randsrc.NewMersenneTwister(int64(seed)))
}

// Dense draws a length-K vector packed into dst (len(dst) must be
// f.VectorBytes(k)), every element drawn uniformly from the field.
func (g *Generator) Dense(dst []byte, seed uint32) {
	src := sourceFor(seed)
	size := len(g.f.NonZeroValues()) + 1 // 2 for GF(2), 256 for GF(2^8)
	for i := 0; i < g.k; i++ {
		g.f.Set(dst, i, g.k, byte(src.Intn(size)))
	}
}

// Sparse draws a length-K vector in which each position is non-zero with
// probability density (0,1], drawing non-zero values uniformly from the
// field's non-zero elements. Density 1.0 behaves identically to Dense.
func (g *Generator) Sparse(dst []byte, seed uint32, density float64) {
	if density >= 1.0 {
		g.Dense(dst, seed)
		return
	}
	g.sparse(dst, seed, density)
}

func (g *Generator) sparse(dst []byte, seed uint32, density float64) {
	src := sourceFor(seed)
	nz := g.f.NonZeroValues()

	if g.f.ID() == field.GF2 {
		// Each bit is an independent Bernoulli(density) draw; the one
		// non-zero value of GF(2) is always 1.
		for i := 0; i < g.k; i++ {
			v := byte(0)
			if src.Float64() < density {
				v = 1
			}
			g.f.Set(dst, i, g.k, v)
		}
		return
	}

	for i := 0; i < g.k; i++ {
		v := byte(0)
		if src.Float64() < density {
			v = nz[src.Intn(len(nz))]
		}
		g.f.Set(dst, i, g.k, v)
	}
}
