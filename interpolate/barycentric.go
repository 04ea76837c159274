package interpolate

import (
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
)

// Tolerance on barycentric weights when deciding hull membership, so that
// queries on a triangle edge or vertex do not fall through to NaN.
const hullEps = 1e-9

// Barycentric interpolates linearly over the Delaunay triangulation of an
// arbitrary scatter set. It reproduces the sample values exactly at the
// sample points. Queries outside the convex hull of the set yield NaN,
// never an error.
type Barycentric struct {
	pts  []delaunay.Point
	vals []float64
	tris []int
}

// NewBarycentric triangulates the scatter set (xs[i], ys[i]) -> vals[i].
func NewBarycentric(xs, ys, vals []float64) (*Barycentric, error) {
	if len(xs) != len(ys) || len(xs) != len(vals) {
		return nil, fmt.Errorf("%w: got %d/%d/%d coordinates and values", ErrBadSamples, len(xs), len(ys), len(vals))
	}

	if len(xs) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 points, got %d", ErrBadSamples, len(xs))
	}

	pts := make([]delaunay.Point, len(xs))
	for i := range xs {
		pts[i] = delaunay.Point{X: xs[i], Y: ys[i]}
	}

	tri, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("triangulate: %w", err)
	}

	cp := make([]float64, len(vals))
	copy(cp, vals)

	return &Barycentric{
		pts:  pts,
		vals: cp,
		tris: tri.Triangles,
	}, nil
}

// Eval walks the triangle list, finds the triangle enclosing (x, y) and
// blends its vertex values with barycentric weights. Calibration grids are
// small, so the linear scan beats maintaining a location index.
func (itp *Barycentric) Eval(x, y float64) float64 {
	for t := 0; t+2 < len(itp.tris); t += 3 {
		i, j, k := itp.tris[t], itp.tris[t+1], itp.tris[t+2]
		a, b, c := itp.pts[i], itp.pts[j], itp.pts[k]

		det := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
		if det == 0 {
			continue
		}

		w0 := ((b.Y-c.Y)*(x-c.X) + (c.X-b.X)*(y-c.Y)) / det
		w1 := ((c.Y-a.Y)*(x-c.X) + (a.X-c.X)*(y-c.Y)) / det
		w2 := 1 - w0 - w1

		if w0 >= -hullEps && w1 >= -hullEps && w2 >= -hullEps {
			return w0*itp.vals[i] + w1*itp.vals[j] + w2*itp.vals[k]
		}
	}

	return math.NaN()
}

func (itp *Barycentric) EvalAll(xs, ys []float64, out ...[]float64) []float64 {
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
