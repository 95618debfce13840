// Package operator composes the spectral transforms, gridding kernel
// and sparse masks into measurement operators: the linear map from a
// sky image to visibilities and its formal adjoint.
//
// Every forward/adjoint pair here is a formal adjoint pair under the
// standard complex inner product to within rounding, the property the
// power method and the outer reconstruction solver both rely on.
package operator

import (
	"fmt"
	"math"

	"uvmeasure/internal/models"
	"uvmeasure/pkg/gridding"
	"uvmeasure/pkg/sparse"
	"uvmeasure/pkg/spectral"
)

// Linear is a forward/adjoint operator pair between an image-domain
// vector of DomainSize elements and a measurement-domain vector of
// RangeSize elements. Implementations own whatever scratch state they
// need, so concurrent calls on one instance must be serialized by the
// caller.
type Linear interface {
	// Apply computes dst = A*src. dst must have length RangeSize and
	// src length DomainSize.
	Apply(dst, src []complex128)

	// ApplyAdjoint computes dst = Aᴴ*src. dst must have length
	// DomainSize and src length RangeSize.
	ApplyAdjoint(dst, src []complex128)

	DomainSize() int
	RangeSize() int
}

// Continuous is the measurement operator for irregularly sampled
// visibilities: zero-padding with deconvolution scaling, a quadrant
// shift, the padded-grid FFT, and sparse convolutional interpolation
// onto the sample coordinates. The adjoint applies the same stages in
// reverse.
//
// The instance exclusively owns its interpolation matrix, FFT plans
// and the padded scratch buffer; the buffer is reused across calls,
// so a Continuous must not be shared between concurrent callers.
type Continuous struct {
	params gridding.Params
	kernel *sparse.Real
	deconv []float64
	plan   *spectral.Transform

	nx2, ny2 int
	scale    float64

	grid   []complex128 // nx2*ny2 padded scratch
	imgBuf []complex128 // nx1*ny1, for real-image convenience calls
}

// NewContinuous builds the operator for the given sample coordinates.
// Construction tabulates the gridding kernel, assembles the sparse
// interpolation matrix and creates the FFT plans; it is the expensive
// step and happens exactly once per operator.
//
// Coordinates must lie in (-Umax, Umax] x (-Vmax, Vmax]; values
// outside wrap around the periodic grid and alias silently.
func NewContinuous(coords *models.VisCoords, p gridding.Params) (*Continuous, error) {
	kernel, deconv, err := gridding.Build(coords, p)
	if err != nil {
		return nil, fmt.Errorf("building interpolation matrix: %w", err)
	}

	nx2, ny2 := p.GridSize()
	return &Continuous{
		params: p,
		kernel: kernel,
		deconv: deconv,
		plan:   spectral.New(nx2, ny2),
		nx2:    nx2,
		ny2:    ny2,
		scale:  1 / math.Sqrt(float64(nx2*ny2)),
		grid:   make([]complex128, nx2*ny2),
		imgBuf: make([]complex128, p.Nx1*p.Ny1),
	}, nil
}

// SetDeconvolution replaces the image-domain correction array. The
// default from construction is the flat placeholder; callers may
// install the exact kernel correction (gridding.GridCorrection)
// without changing the operator contract.
func (op *Continuous) SetDeconvolution(deconv []float64) error {
	if len(deconv) != op.params.Nx1*op.params.Ny1 {
		return fmt.Errorf("deconvolution array has length %d, want %d",
			len(deconv), op.params.Nx1*op.params.Ny1)
	}
	op.deconv = deconv
	return nil
}

// Params returns the sampling geometry the operator was built with.
func (op *Continuous) Params() gridding.Params { return op.params }

// DomainSize returns the image-domain dimension Nx1*Ny1.
func (op *Continuous) DomainSize() int { return op.params.Nx1 * op.params.Ny1 }

// RangeSize returns the number of visibilities.
func (op *Continuous) RangeSize() int { return op.params.Nmeas }

// Apply computes the forward map: dst receives the Nmeas visibilities
// for the complex image src of length Nx1*Ny1.
func (op *Continuous) Apply(dst, src []complex128) {
	nx1, ny1 := op.params.Nx1, op.params.Ny1
	npadx, npady := op.nx2/4, op.ny2/4

	for i := range op.grid {
		op.grid[i] = 0
	}
	// The base image occupies the quarter-offset window of the padded
	// grid; the adjoint crops the same window.
	for ix := 0; ix < nx1; ix++ {
		for iy := 0; iy < ny1; iy++ {
			w := complex(op.deconv[ix*ny1+iy]*op.scale, 0)
			op.grid[(ix+npadx)*op.ny2+(iy+npady)] = src[ix*ny1+iy] * w
		}
	}

	spectral.Shift(op.grid, op.nx2, op.ny2)
	op.plan.Forward(op.grid, op.grid)
	op.kernel.Mul(dst, op.grid)
}

// ApplyAdjoint computes the formal adjoint: dst receives the
// Nx1*Ny1 complex image for the Nmeas visibilities in src.
func (op *Continuous) ApplyAdjoint(dst, src []complex128) {
	nx1, ny1 := op.params.Nx1, op.params.Ny1
	npadx, npady := op.nx2/4, op.ny2/4

	op.kernel.MulAdjoint(op.grid, src)
	op.plan.Inverse(op.grid, op.grid)
	spectral.Shift(op.grid, op.nx2, op.ny2)

	for ix := 0; ix < nx1; ix++ {
		for iy := 0; iy < ny1; iy++ {
			w := complex(op.deconv[ix*ny1+iy]*op.scale, 0)
			dst[ix*ny1+iy] = op.grid[(ix+npadx)*op.ny2+(iy+npady)] * w
		}
	}
}

// ForwardImage applies the forward map to a real sky image. The image
// dimensions must match the operator's base grid.
func (op *Continuous) ForwardImage(dst []complex128, img *models.Image) error {
	if img.Nx != op.params.Nx1 || img.Ny != op.params.Ny1 {
		return fmt.Errorf("image is %dx%d, operator expects %dx%d",
			img.Nx, img.Ny, op.params.Nx1, op.params.Ny1)
	}
	for i, v := range img.Pix {
		op.imgBuf[i] = complex(v, 0)
	}
	op.Apply(dst, op.imgBuf)
	return nil
}

// Symmetric wraps an operator over a real-valued image to exploit the
// Hermitian symmetry of its visibilities: the forward map emits the
// plain measurements followed by their conjugate block, doubling the
// range, while the adjoint reads only the first block and doubles the
// real part of the underlying adjoint to account for the discarded
// redundant half. The result of the adjoint is purely real.
type Symmetric struct {
	op Linear
}

// NewSymmetric wraps op in its conjugate-pair form.
func NewSymmetric(op Linear) *Symmetric {
	return &Symmetric{op: op}
}

// DomainSize returns the wrapped operator's image-domain dimension.
func (s *Symmetric) DomainSize() int { return s.op.DomainSize() }

// RangeSize returns twice the wrapped measurement count: the plain
// block plus the conjugate block.
func (s *Symmetric) RangeSize() int { return 2 * s.op.RangeSize() }

// Apply computes the plain visibilities into the first half of dst
// and their conjugates into the second half. src is assumed real; no
// validation is performed.
func (s *Symmetric) Apply(dst, src []complex128) {
	n := s.op.RangeSize()
	s.op.Apply(dst[:n], src)
	for i := 0; i < n; i++ {
		v := dst[i]
		dst[n+i] = complex(real(v), -imag(v))
	}
}

// ApplyAdjoint consumes only the first RangeSize/2 elements of src
// (the conjugate block carries no independent information) and
// returns twice the real part of the wrapped adjoint, which exactly
// reproduces the contribution of both conjugate halves.
func (s *Symmetric) ApplyAdjoint(dst, src []complex128) {
	n := s.op.RangeSize()
	s.op.ApplyAdjoint(dst, src[:n])
	for i := range dst {
		dst[i] = complex(2*real(dst[i]), 0)
	}
}
