// Package power estimates the dominant eigenvalue of AᴴA for a
// forward/adjoint operator pair through the power method. It depends
// only on the operator.Linear interface, never on a concrete
// operator, so the same routine serves masks, gridding operators and
// their symmetric variants.
package power

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/stat/distuv"

	"uvmeasure/pkg/operator"
)

// Options controls the iteration: a fixed seed for run-to-run
// determinism, a hard iteration cap as the only safeguard besides
// convergence, and a relative-change stopping tolerance.
type Options struct {
	// Seed initializes the Gaussian start vector.
	Seed uint64

	// MaxIter caps the number of forward/adjoint round trips.
	MaxIter int

	// Tol stops the iteration once the relative change in the
	// measured norm drops to this value or below.
	Tol float64
}

// DefaultOptions returns the standard settings.
func DefaultOptions() Options {
	return Options{Seed: 51, MaxIter: 200, Tol: 1e-3}
}

// Result reports the estimate and how it was reached.
type Result struct {
	// Norm is the last measured iterate norm: the estimate of the
	// dominant eigenvalue of AᴴA, i.e. the squared operator norm.
	Norm float64

	// Iterations is the number of round trips performed.
	Iterations int

	// Converged is false when the iteration cap was exhausted; the
	// estimate is then an approximate bound rather than a converged
	// eigenvalue. Callers must not treat that as an error.
	Converged bool
}

// Estimate runs the power method on op. The iterate lives in
// whichever of the two domains is smaller, which minimizes the
// per-iteration norm cost; the round trip applies both directions
// either way. Given a fixed seed the result is reproducible for the
// same dimensions.
func Estimate(op operator.Linear, opts Options) Result {
	nx := op.DomainSize()
	ny := op.RangeSize()

	gauss := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(opts.Seed)}

	x := make([]complex128, nx)
	y := make([]complex128, ny)

	if ny > nx {
		seed(x, gauss)
		return iterate(x, func() float64 {
			op.Apply(y, x)
			op.ApplyAdjoint(x, y)
			return nrm2(x)
		}, opts)
	}
	seed(y, gauss)
	return iterate(y, func() float64 {
		op.ApplyAdjoint(x, y)
		op.Apply(y, x)
		return nrm2(y)
	}, opts)
}

// iterate normalizes the start vector, then repeats the round trip
// until the relative change in norm falls to opts.Tol or the cap runs
// out. The iterate buffer is rescaled in place.
func iterate(vec []complex128, roundTrip func() float64, opts Options) Result {
	rescale(vec, nrm2(vec))

	norm := 1.0
	var bound float64
	for iter := 0; iter < opts.MaxIter; iter++ {
		bound = roundTrip()
		if (bound-norm)/norm <= opts.Tol {
			return Result{Norm: bound, Iterations: iter + 1, Converged: true}
		}
		norm = bound
		rescale(vec, norm)
	}
	return Result{Norm: bound, Iterations: opts.MaxIter, Converged: false}
}

// seed fills vec with independent complex Gaussian samples.
func seed(vec []complex128, gauss distuv.Normal) {
	for i := range vec {
		vec[i] = complex(gauss.Rand(), gauss.Rand())
	}
}

func nrm2(vec []complex128) float64 {
	return cblas128.Nrm2(cblas128.Vector{N: len(vec), Inc: 1, Data: vec})
}

func rescale(vec []complex128, norm float64) {
	inv := complex(1/norm, 0)
	for i := range vec {
		vec[i] *= inv
	}
}
