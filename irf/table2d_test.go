package irf

import (
	"math"
	"testing"

	"github.com/IAMinaya/gammapy/quantity"
	"github.com/stretchr/testify/assert"
)

// energy grid [1,2,4,8,16] TeV (4 bins), offset grid [0,1,2]x[1,2,3] deg
// (3 bins), area[i][j] = 100*(i+1)*(j+1) m2
func testTable2D(t *testing.T) *EffectiveArea2D {
	t.Helper()

	area := make([]float64, 0, 12)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			area = append(area, 100*float64(i+1)*float64(j+1))
		}
	}

	tbl, err := NewEffectiveArea2D(
		quantity.Vector([]float64{1, 2, 4, 8}, quantity.TeV),
		quantity.Vector([]float64{2, 4, 8, 16}, quantity.TeV),
		quantity.Vector([]float64{0, 1, 2}, quantity.Deg),
		quantity.Vector([]float64{1, 2, 3}, quantity.Deg),
		quantity.Vector(area, quantity.M2),
		quantity.Vector(area, quantity.M2),
		nil)
	assert.Nil(t, err)

	return tbl
}

func TestEffectiveArea2DConstruction(t *testing.T) {
	tbl := testTable2D(t)

	assert.EqualValues(t, 4, tbl.NEnergyBins())
	assert.EqualValues(t, 3, tbl.NOffsetBins())
	assert.EqualValues(t, Linear, tbl.Method())

	assert.InDeltaSlice(t, []float64{0.5, 1.5, 2.5}, tbl.OffsetCenters().Values(), 1e-12)
	assert.InDeltaSlice(t,
		[]float64{math.Sqrt(2), math.Sqrt(8), math.Sqrt(32), math.Sqrt(128)},
		tbl.EnergyCenters().Values(), 1e-12)
}

func TestEffectiveArea2DValidation(t *testing.T) {
	_, err := NewEffectiveArea2D(
		quantity.Vector([]float64{1, 2}, quantity.Deg), // angle where energy expected
		quantity.Vector([]float64{2, 4}, quantity.TeV),
		quantity.Vector([]float64{0}, quantity.Deg),
		quantity.Vector([]float64{1}, quantity.Deg),
		quantity.Vector([]float64{10, 20}, quantity.M2),
		quantity.Vector([]float64{10, 20}, quantity.M2),
		nil)
	assert.ErrorIs(t, err, quantity.ErrTypeMismatch)

	_, err = NewEffectiveArea2D(
		quantity.Vector([]float64{1, 2}, quantity.TeV),
		quantity.Vector([]float64{2, 4}, quantity.TeV),
		quantity.Vector([]float64{0, 1}, quantity.Deg),
		quantity.Vector([]float64{1, 2}, quantity.Deg),
		quantity.Vector([]float64{10, 20, 30}, quantity.M2), // 3 != 2*2
		quantity.Vector([]float64{10, 20, 30}, quantity.M2),
		nil)
	assert.ErrorIs(t, err, quantity.ErrDimensionMismatch)
}

func TestEvaluateExactAtGridNodes(t *testing.T) {
	tbl := testTable2D(t)

	offC := tbl.OffsetCenters().Values()
	enC := tbl.EnergyCenters().Values()

	for i, o := range offC {
		for j, e := range enC {
			v, err := tbl.Evaluate(quantity.Scalar(o, quantity.Deg), quantity.Scalar(e, quantity.TeV))
			assert.Nil(t, err)
			assert.InDelta(t, 100*float64(i+1)*float64(j+1), v.Value(), 1e-6)
		}
	}
}

func TestEvaluateWithinBilinearBounds(t *testing.T) {
	tbl := testTable2D(t)

	// (1.5 deg, 2.83 TeV) sits in the cell spanned by offsets 0.5..2.5
	// and energy centers sqrt(2)..sqrt(32); its corner values bound any
	// piecewise-linear blend
	v, err := tbl.Evaluate(quantity.Scalar(1.5, quantity.Deg), quantity.Scalar(2.83, quantity.TeV))
	assert.Nil(t, err)
	assert.GreaterOrEqual(t, v.Value(), 100.0)
	assert.LessOrEqual(t, v.Value(), 1200.0)
}

func TestEvaluateOutsideHull(t *testing.T) {
	tbl := testTable2D(t)

	off := quantity.Scalar(10, quantity.Deg)
	en := quantity.Scalar(2.83, quantity.TeV)

	v, err := tbl.Evaluate(off, en)
	assert.Nil(t, err)
	assert.True(t, math.IsNaN(v.Value()))

	// the spline extrapolates instead
	assert.Nil(t, tbl.SetInterpolationMethod(Spline))

	v, err = tbl.Evaluate(off, en)
	assert.Nil(t, err)
	assert.False(t, math.IsNaN(v.Value()))
	assert.False(t, math.IsInf(v.Value(), 0))
}

func TestEvaluateInsideBothMethods(t *testing.T) {
	tbl := testTable2D(t)

	off := quantity.Scalar(1.2, quantity.Deg)
	en := quantity.Scalar(3, quantity.TeV)

	lin, err := tbl.Evaluate(off, en)
	assert.Nil(t, err)
	assert.False(t, math.IsNaN(lin.Value()))
	assert.Greater(t, lin.Value(), 0.0)

	assert.Nil(t, tbl.SetInterpolationMethod(Spline))

	spl, err := tbl.Evaluate(off, en)
	assert.Nil(t, err)
	assert.False(t, math.IsNaN(spl.Value()))
	assert.Greater(t, spl.Value(), 0.0)
}

func TestEvaluateTypeAndUnits(t *testing.T) {
	tbl := testTable2D(t)

	_, err := tbl.Evaluate(quantity.Scalar(1, quantity.TeV), quantity.Scalar(1, quantity.TeV))
	assert.ErrorIs(t, err, quantity.ErrTypeMismatch)

	_, err = tbl.Evaluate(quantity.Scalar(1, quantity.Deg), quantity.Scalar(1, quantity.Deg))
	assert.ErrorIs(t, err, quantity.ErrTypeMismatch)

	// input in non-canonical units converts before lookup
	a, err := tbl.Evaluate(quantity.Scalar(1.5, quantity.Deg), quantity.Scalar(math.Sqrt(8)*1000, quantity.GeV))
	assert.Nil(t, err)
	assert.InDelta(t, 400, a.Value(), 1e-6)
	assert.EqualValues(t, quantity.M2, a.Unit())
}

func TestEvalAtOffsetAndEnergyAgree(t *testing.T) {
	tbl := testTable2D(t)

	off := quantity.Scalar(1.1, quantity.Deg)
	en := quantity.Scalar(3.3, quantity.TeV)

	direct, err := tbl.Evaluate(off, en)
	assert.Nil(t, err)

	slice, err := tbl.EvalAtOffset(off, quantity.Vector([]float64{3.3}, quantity.TeV))
	assert.Nil(t, err)
	assert.InDelta(t, direct.Value(), slice.Values()[0], 1e-9)

	sweep, err := tbl.EvalAtEnergy(en, quantity.Vector([]float64{1.1}, quantity.Deg))
	assert.Nil(t, err)
	assert.InDelta(t, direct.Value(), sweep.Values()[0], 1e-9)
}

func TestEvalAtOffsetDefaultsToGridCenters(t *testing.T) {
	tbl := testTable2D(t)

	slice, err := tbl.EvalAtOffset(quantity.Scalar(1.5, quantity.Deg), quantity.Quantity{})
	assert.Nil(t, err)
	assert.EqualValues(t, tbl.NEnergyBins(), slice.Len())

	// offset 1.5 deg is the second ring: values 200, 400, 600, 800
	assert.InDeltaSlice(t, []float64{200, 400, 600, 800}, slice.Values(), 1e-6)

	sweep, err := tbl.EvalAtEnergy(quantity.Scalar(math.Sqrt(8), quantity.TeV), quantity.Quantity{})
	assert.Nil(t, err)
	assert.InDeltaSlice(t, []float64{200, 400, 600}, sweep.Values(), 1e-6)
}

func TestSetInterpolationMethod(t *testing.T) {
	tbl := testTable2D(t)

	assert.Nil(t, tbl.SetInterpolationMethod(Spline))
	assert.EqualValues(t, Spline, tbl.Method())

	assert.Nil(t, tbl.SetInterpolationMethod(Linear))
	assert.EqualValues(t, Linear, tbl.Method())

	err := tbl.SetInterpolationMethod(InterpMethod(42))
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
	assert.EqualValues(t, Linear, tbl.Method())
}

func TestParseInterpMethod(t *testing.T) {
	m, err := ParseInterpMethod("linear")
	assert.Nil(t, err)
	assert.EqualValues(t, Linear, m)

	m, err = ParseInterpMethod("spline")
	assert.Nil(t, err)
	assert.EqualValues(t, Spline, m)

	_, err = ParseInterpMethod("cubic")
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestIndexHelpers(t *testing.T) {
	tbl := testTable2D(t)

	i, err := tbl.OffsetIndex(quantity.Scalar(1.0, quantity.Deg))
	assert.Nil(t, err)
	assert.EqualValues(t, 1, i)

	j, err := tbl.EnergyIndex(quantity.Scalar(3, quantity.TeV))
	assert.Nil(t, err)
	assert.EqualValues(t, 2, j)
}
