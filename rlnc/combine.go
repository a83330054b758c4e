package rlnc

import "github.com/GOPRO1955/kodo/field"

// combine computes dst = Σ_k coeffs[k]·storage.Symbol(k) for k in [0,k),
// skipping any k with a zero coefficient. It is the single piece of symbol
// combination logic shared by the encoder's dense/sparse coding phase and
// the recoder (§4.G of the design): kodo resolves the encoder/recoder
// cyclic dependency ("recode_proxy" in full_vector_codes.hpp reuses
// encoder layers) by lifting this into a free function taking the storage
// buffers as parameters, which both callers invoke.
func combine(dst []byte, storage SymbolStorage, f field.Field, coeffs []byte, k int) {
	for i := range dst {
		dst[i] = 0
	}
	for j := 0; j < k; j++ {
		c := f.Get(coeffs, j, k)
		if f.IsZero(c) {
			continue
		}
		f.FMASymbol(dst, storage.Symbol(j), c)
	}
}
