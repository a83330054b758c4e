package rlnc

import "github.com/GOPRO1955/kodo/field"

// CoefficientStorage owns up to kMax coefficient-vector rows, row i holding
// the packed coefficients of pivot i once installed. Grounded on kodo's
// coefficient_storage.hpp/coefficient_info.hpp (named in
// full_vector_codes.hpp); structurally analogous to gofountain's
// sparseMatrix.coeff [][]int but dense and packed, since RLNC coefficient
// vectors are dense draws rather than sparse XOR index lists.
//
// Rows are allocated once, at kMax, and never regrow: a Factory-built coder
// resized down to a smaller active K (see Resize) keeps using the same
// backing rows, just addressing fewer of their bytes.
type CoefficientStorage struct {
	kMax int
	k    int // active element count, <= kMax
	f    field.Field
	rows [][]byte
}

// NewCoefficientStorage allocates kMax packed rows for the given field,
// each large enough to hold kMax field elements. The active element count
// starts at kMax; narrow it with Resize.
func NewCoefficientStorage(f field.Field, kMax int) *CoefficientStorage {
	rows := make([][]byte, kMax)
	rowBytes := f.VectorBytes(kMax)
	for i := range rows {
		rows[i] = make([]byte, rowBytes)
	}
	return &CoefficientStorage{kMax: kMax, k: kMax, f: f, rows: rows}
}

// Vector returns the writable packed buffer for row i.
func (c *CoefficientStorage) Vector(i int) []byte { return c.rows[i] }

// VectorElementCount returns the active K, the number of field elements in
// a row currently in use.
func (c *CoefficientStorage) VectorElementCount() int { return c.k }

// Resize changes the active element count to k, which must not exceed the
// kMax this storage was constructed with. No reallocation: every row
// already carries enough bytes for any k up to kMax.
func (c *CoefficientStorage) Resize(k int) { c.k = k }

// Reset zeroes every allocated row without reallocating, for initialize().
func (c *CoefficientStorage) Reset() {
	for _, row := range c.rows {
		for i := range row {
			row[i] = 0
		}
	}
}
