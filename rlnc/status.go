package rlnc

// Status is the tri-state per-column pivot status (§4.F.4 of the design).
// It is advisory: it never feeds back into decoding correctness, only
// into the optional pivot-status bitmap written for an observer.
type Status int

const (
	// Missing means the column has no pivot (p_k = 0).
	Missing Status = iota
	// Seen means the column has a pivot, but the row is not yet a unit
	// vector (installed but not yet reduced to e_k).
	Seen
	// Decoded means the column has a pivot and the row equals e_k.
	Decoded
)

// PivotStatusSize returns the size in bytes of the bitmap WritePivotStatus
// produces for k columns: ceil(k/8).
func PivotStatusSize(k int) int {
	return (k + 7) / 8
}

// WritePivotStatus writes a bitmap into buf (len(buf) >= PivotStatusSize(len(status)))
// with bit i set iff status[i] == Decoded. Bits are packed MSB-first in
// ascending column order (bit 0 is the MSB of buf[0]) — grounded directly
// on kodo's test_pivot_status_writer.cpp, which addresses bits by plain
// ascending index, unlike the reversed packing used for coefficient
// vectors on the wire (see field/gf2.go): a pivot-status bitmap is a
// simple per-column flag set, not a vector with field-element semantics.
func WritePivotStatus(buf []byte, status []Status) {
	for i := range buf {
		buf[i] = 0
	}
	for i, s := range status {
		if s == Decoded {
			buf[i/8] |= 0x80 >> uint(i%8)
		}
	}
}
