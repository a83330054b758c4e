package rlnc

import (
	"math/rand"

	"github.com/GOPRO1955/kodo/field"
)

// Encoder is a linear block encoder (§4.E of the design): it holds the
// source block in memory and produces coded symbols together with their
// coefficient vectors, with an optional systematic phase (each source
// symbol sent uncoded once) followed by dense or sparse random coding.
//
// Grounded on gofountain's codec structs (lubyCodec, onlineCodec): a small
// struct holding its parameters and a *rand.Rand, with one method that
// produces the next encoded unit — generalized here from XOR-only LT
// composition to GF(2)/GF(2^8) dense linear composition, and on kodo's
// full_rlnc_encoder layer stack (zero_symbol_encoder, systematic_encoder,
// random_uniform_symbol_id, linear_block_encoder in full_vector_codes.hpp)
// collapsed into one struct with boolean feature flags per the design's
// own "feature flags on a single coder" recommendation.
type Encoder struct {
	f field.Field

	kMax, sMax int // capacity this encoder was built for
	k, s       int // active dimensions, <= kMax, sMax

	storage SymbolStorage

	systematic bool
	cursor     int // next index in [0,k) to emit uncoded

	seeded  bool
	density float64 // (0,1], 1.0 = dense

	gen    *Generator
	random *rand.Rand // drives per-packet seed/coefficient selection

	coeffBuf []byte // capacity f.VectorBytes(kMax); active view is [:f.VectorBytes(k)]
	symBuf   []byte // capacity sMax; active view is [:s]
}

// newEncoder builds an Encoder over field f for up to kMax symbols of sMax
// bytes, reading from storage. random drives coefficient selection;
// systematic defaults to on, matching kodo's default_on_systematic_encoder.
// The active (K,S) starts at (kMax,sMax); narrow it with Resize.
func newEncoder(f field.Field, kMax, sMax int, storage SymbolStorage, random *rand.Rand) *Encoder {
	return &Encoder{
		f:          f,
		kMax:       kMax,
		sMax:       sMax,
		k:          kMax,
		s:          sMax,
		storage:    storage,
		systematic: true,
		density:    1.0,
		gen:        NewGenerator(f, kMax),
		random:     random,
		coeffBuf:   make([]byte, f.VectorBytes(kMax)),
		symBuf:     make([]byte, sMax),
	}
}

// Resize changes the active (K,S) to values not exceeding the capacity
// this encoder was built with, without reallocating any buffer. Callers
// must follow it with Initialize (to clear the cursor) and SetSymbols (to
// rebind the source block) before encoding.
func (e *Encoder) Resize(k, s int) {
	e.k, e.s = k, s
	e.gen.Resize(k)
}

// Initialize resets the encoder to its just-built state: systematic phase
// restarted from symbol 0, seeded framing and density back to their
// defaults, without reallocating any buffer (§3 Lifecycle, §8 property 8).
func (e *Encoder) Initialize() {
	e.cursor = 0
	e.systematic = true
	e.seeded = false
	e.density = 1.0
}

// BlockSize returns K*S.
func (e *Encoder) BlockSize() int { return e.storage.BlockSize() }

// SymbolSize returns S.
func (e *Encoder) SymbolSize() int { return e.s }

// Rank always returns K: a fully loaded encoder has full rank by
// definition (§4.E).
func (e *Encoder) Rank() int { return e.k }

// IsSystematic reports whether the encoder will emit uncoded source
// symbols during its systematic phase.
func (e *Encoder) IsSystematic() bool { return e.systematic }

// SetSystematicOn enables the systematic phase (resuming at the current
// cursor if it was previously disabled mid-phase).
func (e *Encoder) SetSystematicOn() { e.systematic = true }

// SetSystematicOff disables the systematic phase; Encode will only ever
// produce coded (non-systematic) packets from then on.
func (e *Encoder) SetSystematicOff() { e.systematic = false }

// InSystematicPhase reports whether systematic coding is enabled and the
// cursor has not yet reached K.
func (e *Encoder) InSystematicPhase() bool {
	return e.systematic && e.cursor < e.k
}

// SetSeeded enables or disables seeded coefficient framing: when enabled,
// non-systematic packets carry a PRNG seed instead of the literal
// coefficient vector (§4.H HeaderSeeded).
func (e *Encoder) SetSeeded(seeded bool) { e.seeded = seeded }

// HasSeededCoefficients is the capability probe for seeded framing (§6).
func (e *Encoder) HasSeededCoefficients() bool { return true }

// SetDensity configures the sparse coding density d in (0,1]. 1.0 (the
// default) is dense uniform coding.
func (e *Encoder) SetDensity(d float64) { e.density = d }

// PayloadSize returns the number of bytes Encode needs in its output
// buffer: 1 + header body + S, per §4.H.
func (e *Encoder) PayloadSize() int {
	if e.InSystematicPhase() {
		return HeaderSize(true, false, 0) + e.s
	}
	return HeaderSize(false, e.seeded, e.f.VectorBytes(e.k)) + e.s
}

// Encode writes one packet into payloadOut (len(payloadOut) >=
// PayloadSize()) and returns the number of bytes written.
//
// If in the systematic phase, it emits source symbol at the cursor
// verbatim and advances the cursor. Otherwise it draws a coefficient
// vector (dense or sparse per configuration) and emits the coded symbol
// y = Σ c_k·x_k, computed by skipping every row with a zero coefficient.
// A zero coefficient vector, if drawn, is emitted honestly: encoders must
// never re-draw to avoid one, as that would bias the distribution (§4.E).
func (e *Encoder) Encode(payloadOut []byte) (int, error) {
	if e.InSystematicPhase() {
		i := e.cursor
		e.cursor++
		n := EncodeSystematicHeader(payloadOut, uint32(i))
		copy(payloadOut[n:], e.storage.Symbol(i))
		return n + e.s, nil
	}

	coeffs := e.coeffBuf[:e.f.VectorBytes(e.k)]
	sym := e.symBuf[:e.s]

	seed := uint32(e.random.Int63())
	if e.density >= 1.0 {
		e.gen.Dense(coeffs, seed)
	} else {
		e.gen.Sparse(coeffs, seed, e.density)
	}

	combine(sym, e.storage, e.f, coeffs, e.k)

	var n int
	if e.seeded {
		n = EncodeSeededHeader(payloadOut, seed)
	} else {
		n = EncodeLiteralHeader(payloadOut)
		copy(payloadOut[n:], coeffs)
		n += len(coeffs)
	}
	copy(payloadOut[n:], sym)
	return n + e.s, nil
}
