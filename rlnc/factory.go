package rlnc

import (
	"math/rand"
	"time"

	"github.com/GOPRO1955/kodo/field"
)

// Factory is the single entry point for building coders (§6 of the
// design): NewFactory(field, K_max, S_max) with `set_symbols(K)`
// / `set_symbol_size(S)` setters and `new_encoder()` / `new_decoder()`
// builders that read the currently configured (K, S). Every coder a
// factory builds allocates its buffers once, sized at (K_max, S_max); the
// setters only pick which (K, S) ≤ (K_max, S_max) the next build targets,
// they never grow anything (§5 Resource policy), and a built coder's own
// later Initialize never reallocates either.
//
// Grounded on kodo's *_factory layers (named throughout
// full_vector_codes.hpp: "a factory builds a stack of layers sized to
// max_symbols/max_symbol_size, then recycle() resets a built coder for
// reuse without reallocating") and on the two-step factory-then-build
// lifecycle in examples/tutorial/basic.c (kodo_new_encoder_factory,
// kodo_factory_set_symbols/kodo_factory_set_symbol_size, then
// kodo_factory_new_encoder); gofountain has no equivalent (each codec is
// constructed directly with its final parameters), so this layer follows
// kodo alone.
//
// There is no algorithm parameter: every coder a Factory builds is a
// full-vector RLNC coder, and the field is the only coding choice.
type Factory struct {
	f    field.Field
	kMax int
	sMax int

	k int
	s int
}

// NewFactory returns a Factory for fieldID, supporting blocks of at most
// kMax symbols of at most sMax bytes each. K and S default to their
// maximums; narrow them with SetSymbols/SetSymbolSize before building a
// smaller coder. It returns a *ConfigError if fieldID is unsupported or
// either maximum is not positive.
func NewFactory(fieldID field.ID, kMax, sMax int) (*Factory, error) {
	if kMax <= 0 {
		return nil, &ConfigError{Reason: "K_max must be positive"}
	}
	if sMax <= 0 {
		return nil, &ConfigError{Reason: "S_max must be positive"}
	}
	f, err := field.ByID(fieldID)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}
	return &Factory{f: f, kMax: kMax, sMax: sMax, k: kMax, s: sMax}, nil
}

// SetSymbols configures K, the symbol count, for coders built after this
// call. K must be in [1, K_max].
func (factory *Factory) SetSymbols(k int) error {
	if k <= 0 || k > factory.kMax {
		return &ConfigError{Reason: "K out of range [1,K_max]"}
	}
	factory.k = k
	return nil
}

// SetSymbolSize configures S, the symbol size in bytes, for coders built
// after this call. S must be in [1, S_max].
func (factory *Factory) SetSymbolSize(s int) error {
	if s <= 0 || s > factory.sMax {
		return &ConfigError{Reason: "S out of range [1,S_max]"}
	}
	factory.s = s
	return nil
}

// defaultRandom returns a fresh, process-seeded PRNG for a coder's
// per-packet seed/coefficient draws. Tests that need reproducible
// output should not use this path; construct the coder's dependencies
// directly instead (see the rlnc package tests for the pattern).
func defaultRandom() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewEncoder builds an Encoder for the factory's current (K, S), loaded
// with block (len(block) must equal K*S). Its buffers are allocated once,
// at (K_max, S_max), then resized down to the current (K, S).
func (factory *Factory) NewEncoder(block []byte) (*Encoder, error) {
	storage := NewDeepStorage(factory.kMax, factory.sMax)
	enc := newEncoder(factory.f, factory.kMax, factory.sMax, storage, defaultRandom())
	enc.Resize(factory.k, factory.s)
	storage.Resize(factory.k, factory.s)
	enc.Initialize()
	if err := storage.SetSymbols(block); err != nil {
		return nil, err
	}
	return enc, nil
}

// NewDecoder builds a Decoder for the factory's current (K, S) in the
// given back-substitution mode. Its buffers are allocated once, at
// (K_max, S_max), then resized down to the current (K, S).
func (factory *Factory) NewDecoder(mode BackSubstitution) (*Decoder, error) {
	storage := NewDeepStorage(factory.kMax, factory.sMax)
	dec := newDecoder(factory.f, factory.kMax, factory.sMax, storage, mode)
	dec.Resize(factory.k, factory.s)
	storage.Resize(factory.k, factory.s)
	dec.Initialize()
	return dec, nil
}

// NewRecoder builds a Recoder that draws weight vectors over dec's
// current pivot set. dec must have been built by this same factory (or
// at least share its field and K), or the resulting packets will be
// meaningless to downstream decoders.
func (factory *Factory) NewRecoder(dec *Decoder) *Recoder {
	return newRecoder(factory.f, dec.k, dec.s, dec, defaultRandom())
}
