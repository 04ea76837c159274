/*
Package interpolate implements the 2D interpolators backing the
instrument-response lookup tables: piecewise-linear barycentric
interpolation over a triangulated scatter set and a tensor-product cubic
spline over a rectangular mesh.
*/
package interpolate

import "errors"

// BiInterpolator is a 2D interpolator over an immutable sample set.
// Implementations are safe for concurrent use once built.
type BiInterpolator interface {
	// Eval evaluates the interpolator at a point.
	Eval(x, y float64) float64
	// EvalAll evaluates a sequence of points and returns the result. An
	// optional output array can be supplied to prevent unneeded heap
	// allocations.
	EvalAll(xs, ys []float64, out ...[]float64) []float64
}

var (
	_ BiInterpolator = &Barycentric{}
	_ BiInterpolator = &BivarSpline{}
)

var ErrBadSamples = errors.New("bad sample set")
