package rlnc

import (
	"math/rand"

	"github.com/GOPRO1955/kodo/field"
)

// Recoder produces new coded packets from a decoder's current pivot set
// without waiting for (or requiring) full decode: a relay node can
// forward useful combinations of what it has seen so far, even while
// partially rank-deficient (§4.G of the design).
//
// Grounded on kodo's recode_proxy (full_vector_codes.hpp), which reuses
// the encoder's combination logic against the decoder's own symbol
// storage rather than duplicating it; here that reuse is the shared
// combine function in combine.go, parametrized by the decoder's rows
// instead of a dedicated source block.
type Recoder struct {
	f field.Field
	k int
	s int

	dec    *Decoder
	gen    *Generator
	random *rand.Rand

	coeffBuf []byte // scratch: weights over the decoder's own rows
	outBuf   []byte // scratch: weights over the original K symbols
	symBuf   []byte
}

func newRecoder(f field.Field, k, s int, dec *Decoder, random *rand.Rand) *Recoder {
	return &Recoder{
		f:        f,
		k:        k,
		s:        s,
		dec:      dec,
		gen:      NewGenerator(f, k),
		random:   random,
		coeffBuf: make([]byte, f.VectorBytes(k)),
		outBuf:   make([]byte, f.VectorBytes(k)),
		symBuf:   make([]byte, s),
	}
}

// recoderStorage adapts a Decoder's own coefficient/symbol rows as the
// SymbolStorage that combine() reads from, so the recoder draws weights
// over "what the decoder currently has" (rows 0..K-1, some still
// Missing) rather than over original source symbols.
type recoderStorage struct{ dec *Decoder }

func (r recoderStorage) BlockSize() int      { return r.dec.k * r.dec.s }
func (r recoderStorage) Symbol(i int) []byte { return r.dec.sym.Symbol(i) }
func (recoderStorage) SetSymbols([]byte) error {
	panic("rlnc: recoderStorage is read-only")
}

// Recode draws a fresh weight vector w over the decoder's pivot rows
// (zero-weighting any column whose Status is Missing, so the output
// never depends on a row the decoder never received), combines w' = Σ
// w_j·M_j into outBuf and y' = Σ w_j·Y_j into symBuf, and frames the
// result as a non-systematic packet. A recoded packet never carries the
// systematic flag, even if it happens to reduce to a single unit row:
// a receiver must always treat it as coded (§7 Open Question 3).
func (r *Recoder) Recode(payloadOut []byte) (int, error) {
	seed := uint32(r.random.Int63())
	r.gen.Dense(r.coeffBuf, seed)

	// Zero the weight for any column the decoder has not yet seen, so
	// combine() never reads a meaningless zero row as if it mattered.
	for j := 0; j < r.k; j++ {
		if r.dec.Status(j) == Missing {
			r.f.Set(r.coeffBuf, j, r.k, 0)
		}
	}

	combine(r.symBuf, recoderStorage{dec: r.dec}, r.f, r.coeffBuf, r.k)

	for i := range r.outBuf {
		r.outBuf[i] = 0
	}
	for j := 0; j < r.k; j++ {
		wj := r.f.Get(r.coeffBuf, j, r.k)
		if r.f.IsZero(wj) {
			continue
		}
		r.f.FMA(r.outBuf, r.dec.coeff.Vector(j), wj, r.k)
	}

	n := EncodeLiteralHeader(payloadOut)
	copy(payloadOut[n:], r.outBuf)
	n += len(r.outBuf)
	copy(payloadOut[n:], r.symBuf)
	return n + r.s, nil
}
