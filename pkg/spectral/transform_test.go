package spectral

import (
	"math"
	"math/cmplx"
	"testing"
)

// TestForwardRealImpulse verifies that the transform of a unit impulse
// at the origin is flat across the full complex plane.
func TestForwardRealImpulse(t *testing.T) {
	nx, ny := 4, 6
	tr := New(nx, ny)

	src := make([]float64, nx*ny)
	src[0] = 1.0

	dst := make([]complex128, nx*ny)
	tr.ForwardReal(dst, src)

	for i, v := range dst {
		if cmplx.Abs(v-1.0) > 1e-12 {
			t.Errorf("Impulse spectrum[%d] = %v, want 1", i, v)
		}
	}
}

// TestForwardRealConjugateSymmetry verifies the Hermitian symmetry of
// the completed spectrum for a deterministic non-trivial real input.
func TestForwardRealConjugateSymmetry(t *testing.T) {
	nx, ny := 8, 8
	tr := New(nx, ny)

	src := make([]float64, nx*ny)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			src[ix*ny+iy] = math.Sin(float64(3*ix+1)) + 0.5*math.Cos(float64(2*iy))
		}
	}

	dst := make([]complex128, nx*ny)
	tr.ForwardReal(dst, src)

	for iu := 0; iu < nx; iu++ {
		for iv := 0; iv < ny; iv++ {
			mu, mv := HermitianMirror(iu, iv, nx, ny)
			got := dst[iu*ny+iv]
			mirror := dst[mu*ny+mv]
			if cmplx.Abs(got-cmplx.Conj(mirror)) > 1e-10 {
				t.Errorf("Symmetry broken at (%d,%d): %v vs conj(%v)", iu, iv, got, mirror)
			}
		}
	}
}

// TestForwardRealMatchesComplex verifies the real-input path against
// the full complex transform of the same signal.
func TestForwardRealMatchesComplex(t *testing.T) {
	nx, ny := 6, 4
	tr := New(nx, ny)

	src := make([]float64, nx*ny)
	csrc := make([]complex128, nx*ny)
	for i := range src {
		src[i] = math.Cos(float64(i)*0.7) + 0.1*float64(i)
		csrc[i] = complex(src[i], 0)
	}

	fromReal := make([]complex128, nx*ny)
	fromComplex := make([]complex128, nx*ny)
	tr.ForwardReal(fromReal, src)
	tr.Forward(fromComplex, csrc)

	for i := range fromReal {
		if cmplx.Abs(fromReal[i]-fromComplex[i]) > 1e-10 {
			t.Errorf("Element %d: real path %v, complex path %v", i, fromReal[i], fromComplex[i])
		}
	}
}

// TestForwardInverseScaling verifies the unnormalized round trip:
// Inverse(Forward(x)) == nx*ny*x.
func TestForwardInverseScaling(t *testing.T) {
	nx, ny := 4, 8
	tr := New(nx, ny)
	n := float64(nx * ny)

	src := make([]complex128, nx*ny)
	for i := range src {
		src[i] = complex(math.Sin(float64(i)), math.Cos(float64(2*i)))
	}

	spec := make([]complex128, nx*ny)
	back := make([]complex128, nx*ny)
	tr.Forward(spec, src)
	tr.Inverse(back, spec)

	for i := range src {
		if cmplx.Abs(back[i]-complex(n, 0)*src[i]) > 1e-9 {
			t.Errorf("Round trip element %d = %v, want %v", i, back[i], complex(n, 0)*src[i])
		}
	}
}

// TestForwardInPlace verifies that Forward accepts aliased dst and src.
func TestForwardInPlace(t *testing.T) {
	nx, ny := 4, 4
	tr := New(nx, ny)

	src := make([]complex128, nx*ny)
	for i := range src {
		src[i] = complex(float64(i%5), float64(i%3))
	}

	want := make([]complex128, nx*ny)
	tr.Forward(want, src)

	tr.Forward(src, src)
	for i := range src {
		if cmplx.Abs(src[i]-want[i]) > 1e-12 {
			t.Errorf("In-place element %d = %v, want %v", i, src[i], want[i])
		}
	}
}

// TestHermitianMirror verifies the mirror index arithmetic directly.
func TestHermitianMirror(t *testing.T) {
	cases := []struct {
		iu, iv, nx, ny int
		wu, wv         int
	}{
		{0, 0, 8, 8, 0, 0},
		{1, 0, 8, 8, 7, 0},
		{0, 3, 8, 8, 0, 5},
		{2, 5, 8, 8, 6, 3},
		{4, 4, 8, 8, 4, 4},
		{3, 1, 4, 6, 1, 5},
	}
	for _, c := range cases {
		gu, gv := HermitianMirror(c.iu, c.iv, c.nx, c.ny)
		if gu != c.wu || gv != c.wv {
			t.Errorf("HermitianMirror(%d,%d,%d,%d) = (%d,%d), want (%d,%d)",
				c.iu, c.iv, c.nx, c.ny, gu, gv, c.wu, c.wv)
		}
	}
}

// TestShiftInvolution verifies that the quadrant swap is its own
// inverse on even-sized grids and moves the DC element to the center.
func TestShiftInvolution(t *testing.T) {
	nx, ny := 6, 4
	buf := make([]complex128, nx*ny)
	for i := range buf {
		buf[i] = complex(float64(i), 0)
	}

	orig := make([]complex128, len(buf))
	copy(orig, buf)

	Shift(buf, nx, ny)

	if buf[(nx/2)*ny+ny/2] != orig[0] {
		t.Errorf("DC element not moved to center: got %v, want %v", buf[(nx/2)*ny+ny/2], orig[0])
	}

	Shift(buf, nx, ny)
	for i := range buf {
		if buf[i] != orig[i] {
			t.Errorf("Double shift changed element %d: %v vs %v", i, buf[i], orig[i])
		}
	}
}
