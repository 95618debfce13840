package models

import "math"

// Image represents a sky-brightness map as a flat grid of real samples.
// The pixel buffer is addressed by the canonical linearization
// ind = ix*Ny + iy, which every other package in this module follows
// when it reads or writes pixel grids.
type Image struct {
	// FovX and FovY are the angular field of view along each axis in radians
	FovX float64
	FovY float64

	// Nx and Ny are the grid dimensions in pixels
	Nx int
	Ny int

	// Pix holds the Nx*Ny real samples in ind = ix*Ny + iy order
	Pix []float64
}

// NewImage allocates a zeroed image of the given dimensions.
func NewImage(nx, ny int, fovX, fovY float64) *Image {
	return &Image{
		FovX: fovX,
		FovY: fovY,
		Nx:   nx,
		Ny:   ny,
		Pix:  make([]float64, nx*ny),
	}
}

// Ind maps a 2D pixel index to its 1D buffer offset.
func (img *Image) Ind(ix, iy int) int {
	return ix*img.Ny + iy
}

// Coords recovers the 2D pixel index from a 1D buffer offset.
// It is the inverse of Ind for every offset in [0, Nx*Ny).
func (img *Image) Coords(ind int) (ix, iy int) {
	ix = ind / img.Ny
	iy = ind - ix*img.Ny
	return ix, iy
}

// Compare reports whether two images hold identical data, comparing
// pixel values and field-of-view metadata within the given tolerance.
func (img *Image) Compare(other *Image, tol float64) bool {
	if img.Nx != other.Nx || img.Ny != other.Ny {
		return false
	}
	if math.Abs(img.FovX-other.FovX) > tol || math.Abs(img.FovY-other.FovY) > tol {
		return false
	}
	for i := range img.Pix {
		if math.Abs(img.Pix[i]-other.Pix[i]) > tol {
			return false
		}
	}
	return true
}

// VisCoords holds the spatial-frequency sampling pattern of an
// observation: one (u, v) coordinate per visibility, each restricted
// to (-pi, pi].
type VisCoords struct {
	U []float64
	V []float64
}

// Len returns the number of visibility samples.
func (c *VisCoords) Len() int { return len(c.U) }
