package rlnc

// SymbolStorage owns or borrows the K symbols of a block, each S bytes.
// Deep storage copies the block in; shallow storage retains a pointer into
// caller-provided memory (mutable for decoders writing into caller output,
// immutable for encoders reading caller input). Grounded on gofountain's
// block type (block.go), generalized from one variable-length blob to a
// fixed K*S matrix view, and on kodo's deep/shallow symbol storage layers
// named in full_vector_codes.hpp.
type SymbolStorage interface {
	// SetSymbols binds block as the storage's contents: copied for deep
	// storage, retained by reference for shallow storage. len(block) must
	// equal BlockSize().
	SetSymbols(block []byte) error

	// Symbol returns the S bytes of symbol i. The returned slice aliases
	// the storage's own memory; callers must not retain it past the next
	// mutation.
	Symbol(i int) []byte

	// BlockSize returns K*S.
	BlockSize() int
}

// DeepStorage owns a contiguous buffer sized at kMax*sMax and exposes an
// active K*S window into it (kMax, sMax by default). Grounded on the same
// Factory lifecycle as CoefficientStorage: built once at the maximum size,
// resized down without reallocating for a smaller block.
type DeepStorage struct {
	kMax, sMax int
	k, s       int
	data       []byte
}

// NewDeepStorage allocates owned storage for kMax symbols of sMax bytes
// each. The active (K,S) starts at (kMax,sMax); narrow it with Resize.
func NewDeepStorage(kMax, sMax int) *DeepStorage {
	return &DeepStorage{kMax: kMax, sMax: sMax, k: kMax, s: sMax, data: make([]byte, kMax*sMax)}
}

func (d *DeepStorage) BlockSize() int { return d.k * d.s }

func (d *DeepStorage) SetSymbols(block []byte) error {
	if len(block) != d.BlockSize() {
		return &ConfigError{Reason: "block length does not match K*S"}
	}
	copy(d.data, block)
	return nil
}

func (d *DeepStorage) Symbol(i int) []byte {
	return d.data[i*d.s : (i+1)*d.s]
}

// Resize changes the active (K,S) window, which must not exceed
// (kMax,sMax). No reallocation: the backing buffer already holds enough
// bytes for any (k,s) with k*s <= kMax*sMax and k<=kMax, s<=sMax.
func (d *DeepStorage) Resize(k, s int) { d.k, d.s = k, s }

// ShallowStorage borrows externally-provided memory for the K symbols of a
// block instead of copying it. When mutable is false the storage is used
// read-only (an encoder's source block); when true, callers may write
// through Symbol's returned slices (a decoder's output buffer).
type ShallowStorage struct {
	k, s    int
	mutable bool
	data    []byte
}

// NewShallowStorage wraps block as k symbols of s bytes each without
// copying. mutable controls whether Symbol's result may be written
// through; it does not change Go's aliasing semantics, only documents
// intent the way kodo's mutable/immutable shallow storage layers do.
func NewShallowStorage(k, s int, mutable bool) *ShallowStorage {
	return &ShallowStorage{k: k, s: s, mutable: mutable}
}

func (sh *ShallowStorage) BlockSize() int { return sh.k * sh.s }

func (sh *ShallowStorage) SetSymbols(block []byte) error {
	if len(block) != sh.BlockSize() {
		return &ConfigError{Reason: "block length does not match K*S"}
	}
	sh.data = block
	return nil
}

func (sh *ShallowStorage) Symbol(i int) []byte {
	return sh.data[i*sh.s : (i+1)*sh.s]
}

// Mutable reports whether this shallow storage's caller-provided memory may
// be written through Symbol's result.
func (sh *ShallowStorage) Mutable() bool { return sh.mutable }
