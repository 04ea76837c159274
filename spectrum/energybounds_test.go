package spectrum

import (
	"math"
	"testing"

	"github.com/IAMinaya/gammapy/quantity"
	"github.com/stretchr/testify/assert"
)

func TestEqualLogSpacing(t *testing.T) {
	b, err := EqualLogSpacing(quantity.Scalar(1, quantity.TeV), quantity.Scalar(10, quantity.TeV), 10)
	assert.Nil(t, err)
	assert.EqualValues(t, 10, b.NBins())

	edges := b.Edges().Values()
	assert.InDelta(t, 1, edges[0], 1e-12)
	assert.InDelta(t, 10, edges[10], 1e-12)

	// log spacing: constant ratio between consecutive edges
	for i := 1; i < len(edges); i++ {
		assert.InDelta(t, math.Pow(10, 0.1), edges[i]/edges[i-1], 1e-9)
	}
}

func TestBoundsFromLoHi(t *testing.T) {
	b, err := BoundsFromLoHi(
		quantity.Vector([]float64{1, 2, 4}, quantity.TeV),
		quantity.Vector([]float64{2, 4, 8}, quantity.TeV))
	assert.Nil(t, err)
	assert.EqualValues(t, 3, b.NBins())
	assert.InDeltaSlice(t, []float64{1, 2, 4, 8}, b.Edges().Values(), 1e-12)

	_, err = BoundsFromLoHi(
		quantity.Vector([]float64{1, 3}, quantity.TeV),
		quantity.Vector([]float64{2, 4}, quantity.TeV))
	assert.ErrorIs(t, err, quantity.ErrDimensionMismatch)
}

func TestLogCenters(t *testing.T) {
	b, err := BoundsFromLoHi(
		quantity.Vector([]float64{1, 2}, quantity.TeV),
		quantity.Vector([]float64{2, 4}, quantity.TeV))
	assert.Nil(t, err)

	assert.InDeltaSlice(t, []float64{math.Sqrt(2), math.Sqrt(8)}, b.LogCenters().Values(), 1e-12)
}

func TestBoundsValidation(t *testing.T) {
	_, err := NewEnergyBounds(quantity.Vector([]float64{1, 2}, quantity.Deg))
	assert.ErrorIs(t, err, quantity.ErrTypeMismatch)

	_, err = NewEnergyBounds(quantity.Vector([]float64{1}, quantity.TeV))
	assert.ErrorIs(t, err, quantity.ErrDimensionMismatch)

	_, err = NewEnergyBounds(quantity.Vector([]float64{1, 1}, quantity.TeV))
	assert.ErrorIs(t, err, quantity.ErrDimensionMismatch)
}

func TestBinIndex(t *testing.T) {
	b, err := NewEnergyBounds(quantity.Vector([]float64{1, 2, 4}, quantity.TeV))
	assert.Nil(t, err)

	assert.EqualValues(t, 0, b.BinIndex(1))
	assert.EqualValues(t, 0, b.BinIndex(1.5))
	assert.EqualValues(t, 1, b.BinIndex(2))
	assert.EqualValues(t, 1, b.BinIndex(3))
	assert.EqualValues(t, 1, b.BinIndex(4)) // upper boundary joins the last bin
	assert.EqualValues(t, -1, b.BinIndex(0.5))
	assert.EqualValues(t, -1, b.BinIndex(5))
}

func TestBoundsEqual(t *testing.T) {
	a, _ := NewEnergyBounds(quantity.Vector([]float64{1, 2, 4}, quantity.TeV))
	b, _ := NewEnergyBounds(quantity.Vector([]float64{1, 2, 4}, quantity.TeV))
	c, _ := NewEnergyBounds(quantity.Vector([]float64{1, 2, 8}, quantity.TeV))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
