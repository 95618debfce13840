// Package sparse implements compressed-row-storage matrices with the
// forward and adjoint multiplies needed by the measurement operators.
//
// Two flavors exist: Real stores real coefficients but multiplies
// complex vectors (interpolation kernels), Complex stores complex
// coefficients (visibility masks). Both multiplies run in O(nvals)
// with no allocation; the caller supplies the output buffer.
//
// Index validity is a builder precondition. Multiplies do not check
// RowPtr or ColInd and will behave unpredictably on malformed storage.
package sparse

// Real is a CSR matrix with real coefficients applied to complex vectors.
//
// Invariants expected by the multiplies:
//   - len(RowPtr) == NRows+1, RowPtr[0] == 0, RowPtr[NRows] == len(Vals),
//     and RowPtr is non-decreasing
//   - len(ColInd) == len(Vals), every entry in [0, NCols)
//
// Duplicate column indices within a row are allowed; their
// contributions accumulate.
type Real struct {
	NRows  int
	NCols  int
	RowPtr []int
	ColInd []int
	Vals   []float64
}

// NewReal wraps pre-built CSR storage. The caller guarantees the
// invariants documented on Real; nothing is validated here.
func NewReal(nrows, ncols int, rowptr, colind []int, vals []float64) *Real {
	return &Real{
		NRows:  nrows,
		NCols:  ncols,
		RowPtr: rowptr,
		ColInd: colind,
		Vals:   vals,
	}
}

// NVals returns the number of stored coefficients.
func (m *Real) NVals() int { return len(m.Vals) }

// Mul computes dst = M*src. dst must have length NRows and src length
// NCols; dst is fully overwritten.
func (m *Real) Mul(dst, src []complex128) {
	for i := 0; i < m.NRows; i++ {
		var sum complex128
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			sum += complex(m.Vals[k], 0) * src[m.ColInd[k]]
		}
		dst[i] = sum
	}
}

// MulAdjoint computes dst = Mᵀ*src. The coefficients are real so the
// adjoint is a plain transpose; no conjugation of the matrix occurs.
// dst must have length NCols and src length NRows; dst is zeroed
// before accumulation.
func (m *Real) MulAdjoint(dst, src []complex128) {
	for j := range dst {
		dst[j] = 0
	}
	for i := 0; i < m.NRows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			dst[m.ColInd[k]] += complex(m.Vals[k], 0) * src[i]
		}
	}
}

// Complex is a CSR matrix with complex coefficients. Storage
// invariants match those documented on Real.
type Complex struct {
	NRows  int
	NCols  int
	RowPtr []int
	ColInd []int
	Vals   []complex128
}

// NewComplex wraps pre-built CSR storage without validation.
func NewComplex(nrows, ncols int, rowptr, colind []int, vals []complex128) *Complex {
	return &Complex{
		NRows:  nrows,
		NCols:  ncols,
		RowPtr: rowptr,
		ColInd: colind,
		Vals:   vals,
	}
}

// NVals returns the number of stored coefficients.
func (m *Complex) NVals() int { return len(m.Vals) }

// Mul computes dst = M*src. dst must have length NRows.
func (m *Complex) Mul(dst, src []complex128) {
	for i := 0; i < m.NRows; i++ {
		var sum complex128
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			sum += m.Vals[k] * src[m.ColInd[k]]
		}
		dst[i] = sum
	}
}

// MulAdjoint computes dst = Mᴴ*src, the conjugate-transpose multiply.
// dst must have length NCols; it is zeroed before accumulation.
func (m *Complex) MulAdjoint(dst, src []complex128) {
	for j := range dst {
		dst[j] = 0
	}
	for i := 0; i < m.NRows; i++ {
		for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
			v := m.Vals[k]
			dst[m.ColInd[k]] += complex(real(v), -imag(v)) * src[i]
		}
	}
}
