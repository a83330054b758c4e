package rlnc

import "github.com/GOPRO1955/kodo/field"

// BackSubstitution selects when a decoder reduces its pivot rows to
// reduced row-echelon form: immediately, as each new pivot arrives, or
// once, in a batch, via Finalize (§4.F.3 of the design).
type BackSubstitution int

const (
	// Immediate reduces every existing pivot row against a newly
	// installed pivot as soon as it is installed. A pivot is Decoded the
	// moment it is installed; CopySymbols is available as soon as
	// IsComplete.
	Immediate BackSubstitution = iota
	// Delayed only forward-eliminates on arrival (triangulating), and
	// defers all back-substitution to one Finalize call. Cheaper when
	// many packets arrive before full rank, since intermediate pivots
	// are never touched more than once.
	Delayed
)

// Decoder is a linear block decoder performing on-the-fly Gaussian
// elimination (§4.F of the design): each incoming packet's coefficient
// vector is forward-reduced against the pivots installed so far; if
// anything survives, its lowest nonzero column becomes a new pivot.
//
// Grounded on kodo's full_rlnc_decoder stack (full_vector_decoder,
// forward_linear_block_decoder, backward_linear_block_decoder named in
// full_vector_codes.hpp) collapsed into a single struct selecting
// immediate/delayed substitution via BackSubstitution, the same
// feature-flags-on-one-struct generalization used for Encoder; forward
// elimination's "lowest nonzero column wins" tie-break and the symbol
// combination itself are grounded on gofountain's Gaussian fallback in
// block.go (reduce to row-echelon form by XOR-ing against prior rows).
type Decoder struct {
	f field.Field

	kMax, sMax int // capacity this decoder was built for
	k, s       int // active dimensions, <= kMax, sMax

	mode BackSubstitution

	coeff *CoefficientStorage
	sym   SymbolStorage

	status       []Status
	installOrder []int
	rank         int
	finalized    bool

	gen *Generator

	scratchCoeff []byte // capacity f.VectorBytes(kMax); active view is [:f.VectorBytes(k)]
	scratchSym   []byte // capacity sMax; active view is [:s]
}

// newDecoder builds a Decoder over field f for up to kMax symbols of sMax
// bytes, writing into sym. The active (K,S) starts at (kMax,sMax); narrow
// it with Resize.
func newDecoder(f field.Field, kMax, sMax int, sym SymbolStorage, mode BackSubstitution) *Decoder {
	return &Decoder{
		f:            f,
		kMax:         kMax,
		sMax:         sMax,
		k:            kMax,
		s:            sMax,
		mode:         mode,
		coeff:        NewCoefficientStorage(f, kMax),
		sym:          sym,
		status:       make([]Status, kMax),
		installOrder: make([]int, 0, kMax),
		gen:          NewGenerator(f, kMax),
		scratchCoeff: make([]byte, f.VectorBytes(kMax)),
		scratchSym:   make([]byte, sMax),
	}
}

// Resize changes the active (K,S) to values not exceeding the capacity
// this decoder was built with, without reallocating any buffer. Callers
// must follow it with Initialize before decoding.
func (d *Decoder) Resize(k, s int) {
	d.k, d.s = k, s
	d.coeff.Resize(k)
	d.gen.Resize(k)
}

// Initialize resets the decoder to its just-built state: every column back
// to Missing, no installed pivots, rank zero, not finalized, and every
// coefficient row zeroed — all without reallocating a single buffer (§3
// Lifecycle, §8 property 8: a second consecutive Initialize is a no-op on
// top of the first).
func (d *Decoder) Initialize() {
	d.coeff.Reset()
	for i := range d.status {
		d.status[i] = Missing
	}
	d.installOrder = d.installOrder[:0]
	d.rank = 0
	d.finalized = false
}

// Rank returns the number of independent pivots installed so far.
func (d *Decoder) Rank() int { return d.rank }

// IsComplete reports whether the decoder has reached full rank (K
// independent pivots). In Delayed mode this does not yet imply the
// symbols are available; see Finalize and CopySymbols.
func (d *Decoder) IsComplete() bool { return d.rank == d.k }

// Status returns the tri-state pivot status of column i.
func (d *Decoder) Status(i int) Status { return d.status[i] }

// PivotStatus writes the pivot-status bitmap for all K columns into buf
// (len(buf) >= PivotStatusSize(K)).
func (d *Decoder) PivotStatus(buf []byte) { WritePivotStatus(buf, d.status[:d.k]) }

// Decode consumes one packet. A malformed header (truncated buffer, a
// systematic index out of [0,K), a literal vector that does not match
// K) is reported as a *ProtocolError; the packet should be dropped and
// the stream continued. A well-formed but linearly dependent vector
// (including an exact duplicate) is silently discarded: it carries no
// new information, which is a normal and expected event, not an error
// (§4.F edge cases).
func (d *Decoder) Decode(payload []byte) error {
	h, n, err := DecodeHeader(payload)
	if err != nil {
		return err
	}
	rest := payload[n:]

	c := d.scratchCoeff[:d.f.VectorBytes(d.k)]
	y := d.scratchSym[:d.s]

	switch {
	case h.Systematic:
		if int(h.SymbolIndex) >= d.k {
			return &ProtocolError{Reason: "systematic symbol index out of range"}
		}
		if len(rest) != d.s {
			return &ProtocolError{Reason: "packet length does not match symbol size"}
		}
		for i := range c {
			c[i] = 0
		}
		d.f.Set(c, int(h.SymbolIndex), d.k, 1)
		copy(y, rest)

	case h.Seeded:
		if len(rest) != d.s {
			return &ProtocolError{Reason: "packet length does not match symbol size"}
		}
		// Seeded framing always regenerates via Dense: a sparse,
		// density<1 encoder must not enable seeded framing, since the
		// density itself is not part of the wire header.
		d.gen.Dense(c, h.Seed)
		copy(y, rest)

	default:
		coeffBytes := d.f.VectorBytes(d.k)
		if len(rest) != coeffBytes+d.s {
			return &ProtocolError{Reason: "packet length does not match literal coefficient vector and symbol size"}
		}
		copy(c, rest[:coeffBytes])
		copy(y, rest[coeffBytes:])
	}

	pivotCol, ok := d.reduce(c, y)
	if !ok {
		return nil // linearly dependent on what we already have; discard
	}

	lead := d.f.Get(c, pivotCol, d.k)
	inv, err := d.f.Invert(lead)
	if err != nil {
		panicFieldBug("decoder.normalize", err)
	}
	d.f.Scale(c, inv, d.k)
	d.f.ScaleSymbol(y, inv)

	d.install(pivotCol, c, y)
	return nil
}

// reduce forward-eliminates (c, y) against every installed pivot row, in
// ascending column order, and returns the lowest-index column where a
// nonzero coefficient survives. ok is false if c reduces to all zeros:
// the incoming vector was in the span of what is already known.
func (d *Decoder) reduce(c, y []byte) (pivotCol int, ok bool) {
	for col := 0; col < d.k; col++ {
		if d.status[col] == Missing {
			continue
		}
		cj := d.f.Get(c, col, d.k)
		if d.f.IsZero(cj) {
			continue
		}
		d.f.FMA(c, d.coeff.Vector(col), cj, d.k)
		d.f.FMASymbol(y, d.sym.Symbol(col), cj)
	}
	for col := 0; col < d.k; col++ {
		if !d.f.IsZero(d.f.Get(c, col, d.k)) {
			return col, true
		}
	}
	return -1, false
}

// install stores a new, already-monic, already-forward-reduced pivot row
// at column col. In Immediate mode it is reduced against every
// previously installed row right away and marked Decoded; in Delayed
// mode it is left as Seen until Finalize.
func (d *Decoder) install(col int, c, y []byte) {
	copy(d.coeff.Vector(col), c)
	copy(d.sym.Symbol(col), y)

	if d.mode == Immediate {
		d.eliminateFrom(col, d.installOrder)
		d.status[col] = Decoded
	} else {
		d.status[col] = Seen
	}

	d.installOrder = append(d.installOrder, col)
	d.rank++
}

// eliminateFrom removes column col from every row named in priorCols, by
// adding (XOR-style, scaled) the monic row at col into each. priorCols
// must not itself include col.
func (d *Decoder) eliminateFrom(col int, priorCols []int) {
	newRow := d.coeff.Vector(col)
	newSym := d.sym.Symbol(col)
	for _, j := range priorCols {
		other := d.coeff.Vector(j)
		factor := d.f.Get(other, col, d.k)
		if d.f.IsZero(factor) {
			continue
		}
		d.f.FMA(other, newRow, factor, d.k)
		d.f.FMASymbol(d.sym.Symbol(j), newSym, factor)
	}
}

// Finalize performs the deferred back-substitution for Delayed-mode
// decoders, replaying the same elimination Immediate mode performs
// inline: each installed pivot, in the order it was installed, is
// eliminated from every pivot installed before it. It is a no-op for
// Immediate-mode decoders (already fully reduced) and on a second call.
func (d *Decoder) Finalize() {
	if d.finalized {
		return
	}
	if d.mode == Immediate {
		d.finalized = true
		return
	}
	for i, col := range d.installOrder {
		d.eliminateFrom(col, d.installOrder[:i])
	}
	for _, col := range d.installOrder {
		d.status[col] = Decoded
	}
	d.finalized = true
}

// CopySymbols copies all K decoded symbols into dst (len(dst) >= K*S) in
// original symbol order. It returns ErrNotReady if the decoder has not
// reached full rank, or, in Delayed mode, if Finalize has not yet been
// called.
func (d *Decoder) CopySymbols(dst []byte) error {
	if !d.IsComplete() {
		return ErrNotReady
	}
	if d.mode == Delayed && !d.finalized {
		return ErrNotReady
	}
	for i := 0; i < d.k; i++ {
		copy(dst[i*d.s:(i+1)*d.s], d.sym.Symbol(i))
	}
	return nil
}

// Symbol returns the current contents of row i: the decoded symbol if
// Status(i) == Decoded, or a partial intermediate row otherwise. The
// returned slice aliases the decoder's own memory.
func (d *Decoder) Symbol(i int) []byte { return d.sym.Symbol(i) }
