package models

import "testing"

// TestIndCoordsRoundTrip verifies that the canonical linearization
// ind = ix*Ny + iy round-trips through Coords for every pixel.
func TestIndCoordsRoundTrip(t *testing.T) {
	img := NewImage(7, 5, 1.0, 1.0)

	for ix := 0; ix < img.Nx; ix++ {
		for iy := 0; iy < img.Ny; iy++ {
			ind := img.Ind(ix, iy)
			if ind < 0 || ind >= len(img.Pix) {
				t.Fatalf("Ind(%d,%d) = %d out of range [0,%d)", ix, iy, ind, len(img.Pix))
			}

			gx, gy := img.Coords(ind)
			if gx != ix || gy != iy {
				t.Errorf("Coords(Ind(%d,%d)) = (%d,%d), want (%d,%d)", ix, iy, gx, gy, ix, iy)
			}
		}
	}
}

// TestIndIsDense verifies that the linearization covers [0, Nx*Ny)
// without gaps or collisions.
func TestIndIsDense(t *testing.T) {
	img := NewImage(4, 6, 0.5, 0.5)

	seen := make(map[int]bool)
	for ix := 0; ix < img.Nx; ix++ {
		for iy := 0; iy < img.Ny; iy++ {
			ind := img.Ind(ix, iy)
			if seen[ind] {
				t.Errorf("Ind(%d,%d) = %d collides with an earlier pixel", ix, iy, ind)
			}
			seen[ind] = true
		}
	}

	if len(seen) != img.Nx*img.Ny {
		t.Errorf("Expected %d distinct indices, got %d", img.Nx*img.Ny, len(seen))
	}
}

// TestCompare verifies image comparison with tolerance
func TestCompare(t *testing.T) {
	a := NewImage(3, 3, 1.0, 1.0)
	b := NewImage(3, 3, 1.0, 1.0)

	a.Pix[4] = 0.5
	b.Pix[4] = 0.5 + 1e-12

	if !a.Compare(b, 1e-10) {
		t.Errorf("Images differing by 1e-12 should compare equal at tol 1e-10")
	}

	b.Pix[4] = 0.6
	if a.Compare(b, 1e-10) {
		t.Errorf("Images differing by 0.1 should not compare equal at tol 1e-10")
	}

	c := NewImage(3, 4, 1.0, 1.0)
	if a.Compare(c, 1e-10) {
		t.Errorf("Images of different dimensions should never compare equal")
	}
}
