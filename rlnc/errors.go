package rlnc

import "errors"

// ConfigError is returned by Factory and coder construction when the
// requested parameters are invalid: K or S is zero, exceed the factory's
// maximums, the field is unsupported, or a block's length does not match
// K*S. The
// caller must fix the parameters; there is no recovery within the library.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "rlnc: config error: " + e.Reason }

// ProtocolError is returned by Decoder.Decode when a packet's header is
// malformed: a systematic index out of [0,K), or a coefficient vector
// whose length does not match K. The packet should be dropped and the
// stream continued; this is not a fatal condition for the decoder.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "rlnc: protocol error: " + e.Reason }

// ErrNotReady is returned by Decoder.CopySymbols before the decoder has
// reached full rank (and, in delayed mode, before Finalize). The caller
// should wait for more packets.
var ErrNotReady = errors.New("rlnc: decode not complete")

// fieldBug wraps a field.Error surfaced from arithmetic that should be
// impossible given the invariants in §3 of the design: the decoder never
// calls Invert on a coefficient it hasn't already checked is non-zero.
type fieldBug struct {
	op    string
	cause error
}

func (e *fieldBug) Error() string {
	return "rlnc: internal invariant violated in " + e.op + ": " + e.cause.Error()
}

func (e *fieldBug) Unwrap() error { return e.cause }

// panicFieldBug panics with a FieldError-wrapping value. Reached only when
// Invert is called on a coefficient the caller believed non-zero — i.e. a
// pivot invariant (§3 of the design) has already been violated. This is the
// Go equivalent of the source's assert(0) in the "should never happen"
// branch of print_cached_symbol_coefficients: a library bug, not an
// input-dependent condition, so it is not returned as an error.
func panicFieldBug(op string, cause error) {
	panic(&fieldBug{op: op, cause: cause})
}
