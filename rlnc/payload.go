package rlnc

import "encoding/binary"

// Wire packet layout (§4.H of the design):
//
//	offset  size    field
//	0       1       flags: bit0 = systematic, bit1 = seeded
//	1       varies  header body
//	...     S       coded symbol (or source symbol, if systematic)
//
// Header body:
//   - systematic: 4-byte big-endian unsigned symbol index
//   - seeded (non-systematic): a 4-byte seed, from which the receiver
//     regenerates the coefficient vector via Generator
//   - literal (neither flag set): the packed coefficient vector
const (
	flagSystematic byte = 1 << 0
	flagSeeded     byte = 1 << 1

	seedWidth = 4 // bytes; fixed-width seed per §4.H
)

// HeaderMode names the two ways the coefficient vector of a non-systematic
// packet can be framed. Encoder itself selects between them with
// SetSeeded, not with a HeaderMode value.
type HeaderMode int

const (
	// HeaderLiteral writes the full packed coefficient vector.
	HeaderLiteral HeaderMode = iota
	// HeaderSeeded writes only the PRNG seed used to draw the vector.
	HeaderSeeded
)

// Header is a parsed packet header.
type Header struct {
	Systematic  bool
	SymbolIndex uint32 // valid iff Systematic
	Seeded      bool   // valid iff !Systematic
	Seed        uint32 // valid iff Seeded
}

// HeaderSize returns the number of bytes a header of the given shape
// occupies: 1 flags byte plus the body (4 bytes for systematic or seeded,
// coeffBytes for a literal vector). For a literal header that count
// includes the coefficient vector, which the caller writes after
// EncodeLiteralHeader's single flags byte.
func HeaderSize(systematic, seeded bool, coeffBytes int) int {
	if systematic || seeded {
		return 1 + seedWidth
	}
	return 1 + coeffBytes
}

// PayloadSize returns the total packet size for the given header shape and
// symbol size, so callers can pre-allocate (§4.H payload_size()).
func PayloadSize(systematic, seeded bool, coeffBytes, symbolSize int) int {
	return HeaderSize(systematic, seeded, coeffBytes) + symbolSize
}

// EncodeSystematicHeader writes a systematic header for symbol index into
// buf and returns the number of bytes written.
func EncodeSystematicHeader(buf []byte, index uint32) int {
	buf[0] = flagSystematic
	binary.BigEndian.PutUint32(buf[1:5], index)
	return 1 + seedWidth
}

// EncodeSeededHeader writes a seeded non-systematic header into buf and
// returns the number of bytes written.
func EncodeSeededHeader(buf []byte, seed uint32) int {
	buf[0] = flagSeeded
	binary.BigEndian.PutUint32(buf[1:5], seed)
	return 1 + seedWidth
}

// EncodeLiteralHeader writes a non-systematic, non-seeded header (flags
// byte only; the caller writes the coefficient vector immediately after)
// into buf and returns the number of bytes written.
func EncodeLiteralHeader(buf []byte) int {
	buf[0] = 0
	return 1
}

// DecodeHeader parses the flags byte and header body from buf. It returns
// the header and the number of bytes consumed, or a *ProtocolError if buf
// is too short to contain even the flags byte.
func DecodeHeader(buf []byte) (Header, int, error) {
	if len(buf) < 1 {
		return Header{}, 0, &ProtocolError{Reason: "packet shorter than header"}
	}
	flags := buf[0]
	h := Header{
		Systematic: flags&flagSystematic != 0,
		Seeded:     flags&flagSeeded != 0,
	}
	switch {
	case h.Systematic:
		if len(buf) < 1+seedWidth {
			return Header{}, 0, &ProtocolError{Reason: "truncated systematic header"}
		}
		h.SymbolIndex = binary.BigEndian.Uint32(buf[1 : 1+seedWidth])
		return h, 1 + seedWidth, nil
	case h.Seeded:
		if len(buf) < 1+seedWidth {
			return Header{}, 0, &ProtocolError{Reason: "truncated seeded header"}
		}
		h.Seed = binary.BigEndian.Uint32(buf[1 : 1+seedWidth])
		return h, 1 + seedWidth, nil
	default:
		return h, 1, nil
	}
}
