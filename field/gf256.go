package field

// gf256 implements Field over GF(2^8) using the primitive
// polynomial 0x11D (x^8+x^4+x^3+x^2+1), the common choice for RLNC (the
// "other" common choice, 0x11B, is AES's polynomial; 0x11D is fixed here
// per the design's own recommendation and is part of the wire contract —
// a peer built against a different polynomial will silently miscompute).
//
// A length-n vector is simply n bytes, one field element each; no bit
// packing is needed.
type gf256 struct{}

const gf256Poly = 0x11D

var (
	gf256Exp [510]byte // exp[i] = generator^i, doubled to avoid modulo in Mul
	gf256Log [256]byte // log[generator^i] = i, log[0] is unused
)

func init() {
	x := byte(1)
	for i := 0; i < 255; i++ {
		gf256Exp[i] = x
		gf256Log[x] = byte(i)

		// Multiply x by the generator (2 is a primitive element of this
		// field under 0x11D), reducing modulo the primitive polynomial.
		hi := x&0x80 != 0
		x <<= 1
		if hi {
			x ^= byte(gf256Poly & 0xFF)
		}
	}
	for i := 255; i < 510; i++ {
		gf256Exp[i] = gf256Exp[i-255]
	}
}

func (gf256) ID() ID { return GF256 }

func (gf256) VectorBytes(n int) int { return n }

func (gf256) Get(buf []byte, i, _ int) byte { return buf[i] }

func (gf256) Set(buf []byte, i, _ int, v byte) { buf[i] = v }

func gf256Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gf256Exp[int(gf256Log[a])+int(gf256Log[b])]
}

func (gf256) Add(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		dst[i] ^= src[i]
	}
}

func (gf256) Scale(dst []byte, a byte, n int) {
	if a == 0 {
		for i := 0; i < n; i++ {
			dst[i] = 0
		}
		return
	}
	if a == 1 {
		return
	}
	loga := int(gf256Log[a])
	for i := 0; i < n; i++ {
		if dst[i] != 0 {
			dst[i] = gf256Exp[loga+int(gf256Log[dst[i]])]
		}
	}
}

func (gf256) FMA(dst, src []byte, a byte, n int) {
	if a == 0 {
		return
	}
	if a == 1 {
		for i := 0; i < n; i++ {
			dst[i] ^= src[i]
		}
		return
	}
	loga := int(gf256Log[a])
	for i := 0; i < n; i++ {
		if src[i] != 0 {
			dst[i] ^= gf256Exp[loga+int(gf256Log[src[i]])]
		}
	}
}

func (gf256) Invert(a byte) (byte, error) {
	if a == 0 {
		return 0, &Error{Op: "gf256.Invert"}
	}
	return gf256Exp[255-int(gf256Log[a])], nil
}

func (gf256) IsZero(a byte) bool { return a == 0 }

func (f gf256) ScaleSymbol(dst []byte, a byte) { f.Scale(dst, a, len(dst)) }

func (f gf256) FMASymbol(dst, src []byte, a byte) { f.FMA(dst, src, a, len(dst)) }

func (gf256) NonZeroValues() []byte {
	values := make([]byte, 255)
	for i := range values {
		values[i] = byte(i + 1)
	}
	return values
}
