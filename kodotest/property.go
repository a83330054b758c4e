// Package kodotest holds property-based test helpers for the rlnc
// package's tests: a rapid generator for random source blocks, plus an
// independent linear-algebra cross-check of coefficient-matrix rank that
// does not reuse the GF(2)/GF(2^8) arithmetic under test. The invariant
// tests themselves live in rlnc/property_test.go.
//
// Grounded on swarna1101-RLNC-demo's isInnovative helper (SVD-based rank
// check over the reals, used there to decide whether a freshly drawn
// coefficient vector adds new information) and on rapid's own idiom of
// small, reusable property functions taking a *rapid.T, as used
// throughout the pgregory.net/rapid examples in the retrieval pack.
package kodotest

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	"pgregory.net/rapid"
)

// RandomBlock draws a length-n byte slice of arbitrary content, for use
// as a source block in property tests.
func RandomBlock(t *rapid.T, label string, n int) []byte {
	return rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, label)
}

// IsFullRankOverReals reports whether the k rows in coeffs (each
// interpreted as a vector of float64, one entry per byte) are linearly
// independent over the reals, via SVD. This is a coarse, field-agnostic
// sanity check: it cannot prove independence over GF(2) or GF(2^8), but
// dependence over the reals is routinely also dependence over a finite
// field with small, structured coefficients, making it a useful
// cross-check that is implemented entirely outside the package under
// test.
func IsFullRankOverReals(t testing.TB, coeffs [][]byte) bool {
	if len(coeffs) == 0 {
		return true
	}
	rows := len(coeffs)
	cols := len(coeffs[0])
	data := make([]float64, rows*cols)
	for i, row := range coeffs {
		if len(row) != cols {
			t.Fatalf("ragged coefficient matrix: row %d has %d columns, want %d", i, len(row), cols)
		}
		for j, b := range row {
			data[i*cols+j] = float64(b)
		}
	}
	m := mat.NewDense(rows, cols, data)
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDNone) {
		t.Fatalf("SVD factorization failed")
	}
	values := svd.Values(nil)
	rank := 0
	const epsilon = 1e-9
	for _, v := range values {
		if v > epsilon {
			rank++
		}
	}
	return rank == rows
}
