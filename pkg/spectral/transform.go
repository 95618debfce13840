// Package spectral wraps precomputed FFT plans over a fixed-size 2D
// grid. Plan construction is the expensive step, so a Transform is
// built once per grid size and reused across calls; the per-call
// methods allocate nothing.
//
// All buffers use the linearization ind = iu*ny + iv shared with the
// rest of the module. Transforms follow the FFTW convention: neither
// direction is normalized, so Inverse(Forward(x)) = nx*ny*x.
package spectral

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Transform holds the FFT plans and scratch buffers for one grid size.
// A Transform is not safe for concurrent use: the scratch buffers are
// shared across calls on the same instance.
type Transform struct {
	nx, ny int

	realPlan *fourier.FFT      // real-input rows, length ny
	rowPlan  *fourier.CmplxFFT // complex rows, length ny
	colPlan  *fourier.CmplxFFT // complex columns, length nx

	rowIn   []float64    // ny
	halfRow []complex128 // ny/2+1
	half    []complex128 // nx*(ny/2+1), half-plane spectrum
	rowBuf  []complex128 // ny
	colBuf  []complex128 // nx
	colOut  []complex128 // nx
}

// New builds the FFT plans for an nx-by-ny grid.
func New(nx, ny int) *Transform {
	return &Transform{
		nx:       nx,
		ny:       ny,
		realPlan: fourier.NewFFT(ny),
		rowPlan:  fourier.NewCmplxFFT(ny),
		colPlan:  fourier.NewCmplxFFT(nx),
		rowIn:    make([]float64, ny),
		halfRow:  make([]complex128, ny/2+1),
		half:     make([]complex128, nx*(ny/2+1)),
		rowBuf:   make([]complex128, ny),
		colBuf:   make([]complex128, nx),
		colOut:   make([]complex128, nx),
	}
}

// Nx returns the first grid dimension.
func (t *Transform) Nx() int { return t.nx }

// Ny returns the second grid dimension.
func (t *Transform) Ny() int { return t.ny }

// ForwardReal computes the forward Fourier transform of a real signal.
// A real-to-complex FFT yields only the non-redundant half plane
// (ny/2+1 values per row); the full nx*ny complex spectrum in dst is
// then completed through conjugate symmetry.
//
// The result equals the full complex transform only when src is
// genuinely real-valued; that precondition is not validated. dst must
// have length nx*ny and src length nx*ny.
func (t *Transform) ForwardReal(dst []complex128, src []float64) {
	h := t.ny/2 + 1

	// Real FFT along each row.
	for iu := 0; iu < t.nx; iu++ {
		copy(t.rowIn, src[iu*t.ny:(iu+1)*t.ny])
		t.realPlan.Coefficients(t.halfRow, t.rowIn)
		copy(t.half[iu*h:(iu+1)*h], t.halfRow)
	}

	// Complex FFT down each retained column.
	for iv := 0; iv < h; iv++ {
		for iu := 0; iu < t.nx; iu++ {
			t.colBuf[iu] = t.half[iu*h+iv]
		}
		t.colPlan.Coefficients(t.colOut, t.colBuf)
		for iu := 0; iu < t.nx; iu++ {
			dst[iu*t.ny+iv] = t.colOut[iu]
		}
	}

	// Fill the other half plane through conjugate symmetry. The DC
	// element is its own mirror and is left untouched.
	for iu := 0; iu < t.nx; iu++ {
		for iv := 0; iv < h; iv++ {
			mu, mv := HermitianMirror(iu, iv, t.nx, t.ny)
			if mu == iu && mv == iv {
				continue
			}
			v := dst[iu*t.ny+iv]
			dst[mu*t.ny+mv] = complex(real(v), -imag(v))
		}
	}
}

// Forward computes the unnormalized forward complex transform of the
// full grid. dst and src must both have length nx*ny; they may alias.
func (t *Transform) Forward(dst, src []complex128) {
	for iu := 0; iu < t.nx; iu++ {
		copy(t.rowBuf, src[iu*t.ny:(iu+1)*t.ny])
		t.rowPlan.Coefficients(dst[iu*t.ny:(iu+1)*t.ny], t.rowBuf)
	}
	for iv := 0; iv < t.ny; iv++ {
		for iu := 0; iu < t.nx; iu++ {
			t.colBuf[iu] = dst[iu*t.ny+iv]
		}
		t.colPlan.Coefficients(t.colOut, t.colBuf)
		for iu := 0; iu < t.nx; iu++ {
			dst[iu*t.ny+iv] = t.colOut[iu]
		}
	}
}

// Inverse computes the unnormalized inverse complex transform, the
// conjugate transpose of Forward. dst and src may alias.
func (t *Transform) Inverse(dst, src []complex128) {
	for iu := 0; iu < t.nx; iu++ {
		copy(t.rowBuf, src[iu*t.ny:(iu+1)*t.ny])
		t.rowPlan.Sequence(dst[iu*t.ny:(iu+1)*t.ny], t.rowBuf)
	}
	for iv := 0; iv < t.ny; iv++ {
		for iu := 0; iu < t.nx; iu++ {
			t.colBuf[iu] = dst[iu*t.ny+iv]
		}
		t.colPlan.Sequence(t.colOut, t.colBuf)
		for iu := 0; iu < t.nx; iu++ {
			dst[iu*t.ny+iv] = t.colOut[iu]
		}
	}
}

// HermitianMirror returns the index whose spectrum value equals the
// conjugate of the value at (iu, iv) for a real-valued input signal:
// ((nx-iu) mod nx, (ny-iv) mod ny). The DC element maps to itself.
func HermitianMirror(iu, iv, nx, ny int) (int, int) {
	return (nx - iu) % nx, (ny - iv) % ny
}

// Shift reorders buf in place by swapping FFT quadrants, moving the
// DC element to the grid center ("fftshift"). Both dimensions must be
// even, in which case the reordering is its own inverse.
func Shift(buf []complex128, nx, ny int) {
	hx, hy := nx/2, ny/2
	for ix := 0; ix < hx; ix++ {
		for iy := 0; iy < ny; iy++ {
			a := ix*ny + iy
			b := (ix+hx)*ny + (iy+hy)%ny
			buf[a], buf[b] = buf[b], buf[a]
		}
	}
}
