// Package gridding builds the sparse convolutional interpolation used
// to approximate a continuous Fourier transform at irregular (u, v)
// coordinates on a regular oversampled grid. The anti-aliasing kernel
// is a tabulated Gaussian with a compact support, following the
// difmap convention.
package gridding

import (
	"fmt"
	"math"

	"uvmeasure/internal/models"
	"uvmeasure/pkg/sparse"
)

const (
	// SupportRadius is the kernel half-support in grid cells: each
	// visibility touches (2*SupportRadius+1)^2 grid cells.
	SupportRadius = 2

	// ngcf is the number of tabulated kernel samples. The table is
	// oversampled so that fractional offsets resolve to distinct
	// entries.
	ngcf = 301

	// hwhm is the kernel half width at half maximum in grid cells.
	hwhm = 0.7
)

// Params describes the sampling geometry of a continuous measurement
// operator.
type Params struct {
	// Nmeas is the number of visibility measurements.
	Nmeas int

	// Nx1 and Ny1 are the base image dimensions.
	Nx1, Ny1 int

	// Ofx and Ofy are the grid oversampling factors; the padded grid
	// is Ofx*Nx1 by Ofy*Ny1.
	Ofx, Ofy int

	// Umax and Vmax are the largest coordinate magnitudes the grid
	// must represent. Coordinates outside (-Umax, Umax] x (-Vmax, Vmax]
	// wrap around the grid and silently alias.
	Umax, Vmax float64
}

// GridSize returns the padded grid dimensions.
func (p Params) GridSize() (nx2, ny2 int) {
	return p.Ofx * p.Nx1, p.Ofy * p.Ny1
}

// validate checks the structural invariants assumed by the support
// arithmetic: at least one measurement, oversampling factors of at
// least one, and even padded dimensions.
func (p Params) validate() error {
	if p.Nmeas <= 0 {
		return fmt.Errorf("gridding: need at least one measurement, got %d", p.Nmeas)
	}
	if p.Nx1 <= 0 || p.Ny1 <= 0 {
		return fmt.Errorf("gridding: invalid base image size %dx%d", p.Nx1, p.Ny1)
	}
	if p.Ofx < 1 || p.Ofy < 1 {
		return fmt.Errorf("gridding: oversampling factors must be >= 1, got (%d,%d)", p.Ofx, p.Ofy)
	}
	nx2, ny2 := p.GridSize()
	if nx2%2 != 0 || ny2%2 != 0 {
		return fmt.Errorf("gridding: padded grid %dx%d must have even dimensions", nx2, ny2)
	}
	return nil
}

// Kernel is the tabulated 1D radial convolution function. It is
// Gaussian-shaped with half width hwhm, sampled finely enough that a
// lookup by rounded index resolves sub-cell offsets.
type Kernel struct {
	table  [ngcf]float64
	tgtocg float64 // continuous grid cells to table index units
}

// NewKernel tabulates the Gaussian convolution function.
func NewKernel() *Kernel {
	k := &Kernel{}
	k.tgtocg = float64(ngcf-1) / (SupportRadius + 0.5)
	cghwhm := k.tgtocg * hwhm
	recvar := math.Ln2 / (cghwhm * cghwhm)
	for i := 0; i < ngcf; i++ {
		k.table[i] = math.Exp(-recvar * float64(i*i))
	}
	return k
}

// Eval looks up the kernel value for a fractional grid-cell offset d.
// |d| must not exceed SupportRadius+0.5, the largest tabulated offset.
func (k *Kernel) Eval(d float64) float64 {
	return k.table[int(k.tgtocg*math.Abs(d)+0.5)]
}

// Table returns a copy of the tabulated kernel samples.
func (k *Kernel) Table() []float64 {
	out := make([]float64, ngcf)
	copy(out, k.table[:])
	return out
}

// Build constructs the sparse interpolation matrix for the given
// sample coordinates, along with the companion image-domain
// deconvolution array (all ones; see GridCorrection for the exact
// correction).
//
// Each measurement occupies one matrix row of exactly
// (2*SupportRadius+1)^2 contiguous slots holding the separable kernel
// products for its support window. Column indices linearize the
// padded grid as iu*ny2 + iv with wraparound on both axes, so
// out-of-range coordinates alias rather than fail.
func Build(coords *models.VisCoords, p Params) (*sparse.Real, []float64, error) {
	if err := p.validate(); err != nil {
		return nil, nil, err
	}
	if coords.Len() != p.Nmeas {
		return nil, nil, fmt.Errorf("gridding: %d coordinates for %d measurements", coords.Len(), p.Nmeas)
	}

	k := NewKernel()
	nx2, ny2 := p.GridSize()
	numel := (2*SupportRadius + 1) * (2*SupportRadius + 1)

	rowptr := make([]int, p.Nmeas+1)
	colind := make([]int, p.Nmeas*numel)
	vals := make([]float64, p.Nmeas*numel)

	for i := range rowptr {
		rowptr[i] = i * numel
	}

	uinc := p.Umax / float64(nx2/2)
	vinc := p.Vmax / float64(ny2/2)

	for i := 0; i < p.Nmeas; i++ {
		ufrc := coords.U[i] / uinc
		vfrc := coords.V[i] / vinc
		idu := int(math.Floor(ufrc + 0.5))
		idv := int(math.Floor(vfrc + 0.5))

		slot := rowptr[i]
		for iu := idu - SupportRadius; iu <= idu+SupportRadius; iu++ {
			fu := k.Eval(float64(iu) - ufrc)
			iu2 := wrap(iu, nx2)
			for iv := idv - SupportRadius; iv <= idv+SupportRadius; iv++ {
				fv := k.Eval(float64(iv) - vfrc)
				vals[slot] = fu * fv
				colind[slot] = iu2*ny2 + wrap(iv, ny2)
				slot++
			}
		}
	}

	deconv := make([]float64, p.Nx1*p.Ny1)
	for i := range deconv {
		deconv[i] = 1.0
	}

	return sparse.NewReal(p.Nmeas, nx2*ny2, rowptr, colind, vals), deconv, nil
}

// GridCorrection computes the exact image-domain deconvolution for the
// tabulated kernel: the reciprocal of the kernel's Fourier response at
// each base-image pixel, accounting for the quarter-offset padding and
// the quadrant shift applied before the grid FFT. Feeding this array
// to the measurement operator in place of the flat placeholder removes
// the kernel's image-domain taper.
func GridCorrection(p Params) []float64 {
	k := NewKernel()
	nx2, ny2 := p.GridSize()
	npadx, npady := nx2/4, ny2/4

	gx := axisResponse(k, nx2)
	gy := axisResponse(k, ny2)

	deconv := make([]float64, p.Nx1*p.Ny1)
	for ix := 0; ix < p.Nx1; ix++ {
		tx := (ix + npadx + nx2/2) % nx2
		for iy := 0; iy < p.Ny1; iy++ {
			ty := (iy + npady + ny2/2) % ny2
			deconv[ix*p.Ny1+iy] = 1.0 / (gx[tx] * gy[ty])
		}
	}
	return deconv
}

// axisResponse evaluates the kernel's discrete Fourier response along
// one grid axis of size n.
func axisResponse(k *Kernel, n int) []float64 {
	resp := make([]float64, n)
	for t := 0; t < n; t++ {
		sum := k.Eval(0)
		for d := 1; d <= SupportRadius; d++ {
			sum += 2 * k.Eval(float64(d)) * math.Cos(2*math.Pi*float64(d*t)/float64(n))
		}
		resp[t] = sum
	}
	return resp
}

// wrap folds a grid index into [0, n) for periodic boundary
// conditions. Support windows only ever step SupportRadius cells past
// an in-range center, so a single fold suffices.
func wrap(i, n int) int {
	if i < 0 {
		return i + n
	}
	if i >= n {
		return i - n
	}
	return i
}
