package interpolate

import (
	"fmt"
	"sort"
)

// cubicSpline is a 1D natural cubic spline. Queries beyond the knot range
// follow the end-interval cubic, so it extrapolates instead of clamping.
type cubicSpline struct {
	xs, ys []float64
	y2     []float64
}

func newCubicSpline(xs, ys []float64) *cubicSpline {
	n := len(xs)

	y2 := make([]float64, n)
	u := make([]float64, n)

	// second derivatives via the standard tridiagonal sweep, natural
	// boundary conditions (y2 = 0 at both ends)
	for i := 1; i < n-1; i++ {
		sig := (xs[i] - xs[i-1]) / (xs[i+1] - xs[i-1])
		p := sig*y2[i-1] + 2

		y2[i] = (sig - 1) / p

		u[i] = (ys[i+1]-ys[i])/(xs[i+1]-xs[i]) - (ys[i]-ys[i-1])/(xs[i]-xs[i-1])
		u[i] = (6*u[i]/(xs[i+1]-xs[i-1]) - sig*u[i-1]) / p
	}

	for k := n - 2; k >= 0; k-- {
		y2[k] = y2[k]*y2[k+1] + u[k]
	}

	return &cubicSpline{xs: xs, ys: ys, y2: y2}
}

func (s *cubicSpline) eval(x float64) float64 {
	n := len(s.xs)

	klo := sort.SearchFloat64s(s.xs, x) - 1
	if klo < 0 {
		klo = 0
	}

	if klo > n-2 {
		klo = n - 2
	}

	khi := klo + 1

	h := s.xs[khi] - s.xs[klo]
	a := (s.xs[khi] - x) / h
	b := (x - s.xs[klo]) / h

	return a*s.ys[klo] + b*s.ys[khi] + ((a*a*a-a)*s.y2[klo]+(b*b*b-b)*s.y2[khi])*h*h/6
}

// BivarSpline is a tensor-product natural cubic spline over a rectangular
// mesh: one spline in y per mesh row, and a cross spline over the row
// results at evaluation time. Unlike Barycentric it extrapolates outside
// the mesh domain rather than yielding NaN.
type BivarSpline struct {
	xs   []float64
	rows []*cubicSpline
}

// NewBivarSpline fits the mesh xs (ascending) x ys (ascending) with values
// vals[i][j] at (xs[i], ys[j]).
func NewBivarSpline(xs, ys []float64, vals [][]float64) (*BivarSpline, error) {
	if len(xs) < 2 || len(ys) < 2 {
		return nil, fmt.Errorf("%w: mesh needs at least 2 points per axis, got %dx%d", ErrBadSamples, len(xs), len(ys))
	}

	if len(vals) != len(xs) {
		return nil, fmt.Errorf("%w: %d value rows for %d mesh rows", ErrBadSamples, len(vals), len(xs))
	}

	if err := checkAscending(xs); err != nil {
		return nil, err
	}

	if err := checkAscending(ys); err != nil {
		return nil, err
	}

	xcp := make([]float64, len(xs))
	copy(xcp, xs)

	ycp := make([]float64, len(ys))
	copy(ycp, ys)

	rows := make([]*cubicSpline, len(xs))

	for i, row := range vals {
		if len(row) != len(ys) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d mesh columns", ErrBadSamples, i, len(row), len(ys))
		}

		rcp := make([]float64, len(row))
		copy(rcp, row)

		rows[i] = newCubicSpline(ycp, rcp)
	}

	return &BivarSpline{xs: xcp, rows: rows}, nil
}

func (itp *BivarSpline) Eval(x, y float64) float64 {
	tmp := make([]float64, len(itp.xs))
	for i, row := range itp.rows {
		tmp[i] = row.eval(y)
	}

	return newCubicSpline(itp.xs, tmp).eval(x)
}

func (itp *BivarSpline) EvalAll(xs, ys []float64, out ...[]float64) []float64 {
	var res []float64
	if len(out) == 0 {
		res = make([]float64, len(xs))
	} else {
		res = out[0]
	}

	for i := range xs {
		res[i] = itp.Eval(xs[i], ys[i])
	}

	return res
}

func checkAscending(vs []float64) error {
	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] {
			return fmt.Errorf("%w: mesh coordinates not strictly increasing at %d", ErrBadSamples, i)
		}
	}

	return nil
}
