package rlnc

import (
	"fmt"
	"io"
	"strings"
)

// String summarizes a Decoder's current state: rank, mode, and the
// tri-state status of every column. Grounded on kodo's
// debug_coefficient_storage.hpp / print_cached_symbol_coefficients.hpp,
// which exist purely to let a caller inspect decoder state mid-stream;
// a plain fmt.Stringer is the idiomatic Go equivalent of those debug
// print helpers, not a structured logger, since the library never emits
// this on its own (§3.2 of the design).
func (d *Decoder) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rlnc.Decoder{rank=%d/%d, mode=%s, finalized=%t, status=[", d.rank, d.k, d.mode, d.finalized)
	for i := 0; i < d.k; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.status[i].String())
	}
	b.WriteString("]}")
	return b.String()
}

// DumpState writes a multi-line, human-readable rendering of the
// decoder's coefficient matrix and status to w, one row per column.
// Intended for interactive debugging, not for machine parsing.
func (d *Decoder) DumpState(w io.Writer) {
	fmt.Fprintf(w, "decoder: K=%d S=%d rank=%d mode=%s finalized=%t\n", d.k, d.s, d.rank, d.mode, d.finalized)
	for col := 0; col < d.k; col++ {
		fmt.Fprintf(w, "  [%3d] %-8s coeffs=% x\n", col, d.status[col], d.coeff.Vector(col))
	}
}

func (s Status) String() string {
	switch s {
	case Missing:
		return "Missing"
	case Seen:
		return "Seen"
	case Decoded:
		return "Decoded"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (m BackSubstitution) String() string {
	switch m {
	case Immediate:
		return "Immediate"
	case Delayed:
		return "Delayed"
	default:
		return fmt.Sprintf("BackSubstitution(%d)", int(m))
	}
}
