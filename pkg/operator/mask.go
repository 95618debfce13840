package operator

import (
	"fmt"

	"uvmeasure/pkg/sparse"
	"uvmeasure/pkg/spectral"
)

// Mask selects a subset of a full regular-grid spectrum through a
// complex sparse matrix. It is the measurement operator for the
// simple case where sample positions coincide with grid cells.
type Mask struct {
	mat *sparse.Complex
}

// NewMask wraps a sparse masking matrix. The matrix becomes owned by
// the operator and must not be mutated afterwards.
func NewMask(mat *sparse.Complex) *Mask {
	return &Mask{mat: mat}
}

// DomainSize returns the full-spectrum dimension.
func (m *Mask) DomainSize() int { return m.mat.NCols }

// RangeSize returns the number of retained measurements.
func (m *Mask) RangeSize() int { return m.mat.NRows }

// Apply masks the full visibility vector src down to dst.
func (m *Mask) Apply(dst, src []complex128) {
	m.mat.Mul(dst, src)
}

// ApplyAdjoint scatters masked visibilities back onto the full grid.
func (m *Mask) ApplyAdjoint(dst, src []complex128) {
	m.mat.MulAdjoint(dst, src)
}

// Regular composes the real-input spectral transform with a mask: the
// measurement operator for sampling that falls exactly on grid
// points. The full spectrum buffer is owned by the instance and
// reused across calls.
type Regular struct {
	plan *spectral.Transform
	mask *Mask
	spec []complex128
}

// NewRegular builds the operator for an nx-by-ny image and the given
// mask, whose column dimension must equal nx*ny.
func NewRegular(nx, ny int, mask *Mask) (*Regular, error) {
	if mask.DomainSize() != nx*ny {
		return nil, fmt.Errorf("mask expects %d grid cells, image has %d", mask.DomainSize(), nx*ny)
	}
	return &Regular{
		plan: spectral.New(nx, ny),
		mask: mask,
		spec: make([]complex128, nx*ny),
	}, nil
}

// Forward computes dst = mask(FFT(img)) for a real image, using the
// conjugate-symmetry-completing real transform. dst must have length
// RangeSize and img length nx*ny.
func (r *Regular) Forward(dst []complex128, img []float64) {
	r.plan.ForwardReal(r.spec, img)
	r.mask.Apply(dst, r.spec)
}

// RangeSize returns the number of retained measurements.
func (r *Regular) RangeSize() int { return r.mask.RangeSize() }
