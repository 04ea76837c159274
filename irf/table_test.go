package irf

import (
	"testing"

	"github.com/IAMinaya/gammapy/quantity"
	"github.com/stretchr/testify/assert"
)

func TestEffectiveAreaAtEnergy(t *testing.T) {
	tbl, err := NewEffectiveAreaTable(
		quantity.Vector([]float64{1, 2}, quantity.TeV),
		quantity.Vector([]float64{2, 4}, quantity.TeV),
		quantity.Vector([]float64{10, 20}, quantity.M2))
	assert.Nil(t, err)

	// nearest upper edge to 1.9 TeV is bin 0 (edge 2)
	a, err := tbl.EffectiveAreaAtEnergy(quantity.Scalar(1.9, quantity.TeV))
	assert.Nil(t, err)
	assert.InDelta(t, 10, a.Value(), 1e-9)
	assert.EqualValues(t, quantity.M2, a.Unit())

	a, err = tbl.EffectiveAreaAtEnergy(quantity.Scalar(3.5, quantity.TeV))
	assert.Nil(t, err)
	assert.InDelta(t, 20, a.Value(), 1e-9)

	_, err = tbl.EffectiveAreaAtEnergy(quantity.Scalar(1, quantity.Deg))
	assert.ErrorIs(t, err, quantity.ErrTypeMismatch)
}

func TestEffectiveAreaTableDefaults(t *testing.T) {
	tbl, err := NewEffectiveAreaTable(
		quantity.Vector([]float64{1, 2}, quantity.TeV),
		quantity.Vector([]float64{2, 4}, quantity.TeV),
		quantity.Vector([]float64{10, 20}, quantity.M2))
	assert.Nil(t, err)

	assert.InDelta(t, 0.1, tbl.ThreshLo().Value(), 1e-12)
	assert.InDelta(t, 100, tbl.ThreshHi().Value(), 1e-12)
}

func TestEffectiveAreaTableCanonicalUnits(t *testing.T) {
	tbl, err := NewEffectiveAreaTable(
		quantity.Vector([]float64{1000, 2000}, quantity.GeV),
		quantity.Vector([]float64{2000, 4000}, quantity.GeV),
		quantity.Vector([]float64{1e5, 2e5}, quantity.Cm2))
	assert.Nil(t, err)

	assert.EqualValues(t, quantity.TeV, tbl.EnergyLo().Unit())
	assert.InDelta(t, 1, tbl.EnergyLo().Values()[0], 1e-9)
	assert.EqualValues(t, quantity.M2, tbl.EffectiveArea().Unit())
	assert.InDelta(t, 10, tbl.EffectiveArea().Values()[0], 1e-9)
}

func TestEffectiveAreaTableValidation(t *testing.T) {
	// an angle where area is expected
	_, err := NewEffectiveAreaTable(
		quantity.Vector([]float64{1, 2}, quantity.TeV),
		quantity.Vector([]float64{2, 4}, quantity.TeV),
		quantity.Vector([]float64{10, 20}, quantity.Deg))
	assert.ErrorIs(t, err, quantity.ErrTypeMismatch)

	// untyped input
	_, err = NewEffectiveAreaTable(
		quantity.Quantity{},
		quantity.Vector([]float64{2, 4}, quantity.TeV),
		quantity.Vector([]float64{10, 20}, quantity.M2))
	assert.ErrorIs(t, err, quantity.ErrTypeMismatch)

	// mismatched lengths
	_, err = NewEffectiveAreaTable(
		quantity.Vector([]float64{1, 2, 3}, quantity.TeV),
		quantity.Vector([]float64{2, 4}, quantity.TeV),
		quantity.Vector([]float64{10, 20}, quantity.M2))
	assert.ErrorIs(t, err, quantity.ErrDimensionMismatch)

	// negative area
	_, err = NewEffectiveAreaTable(
		quantity.Vector([]float64{1, 2}, quantity.TeV),
		quantity.Vector([]float64{2, 4}, quantity.TeV),
		quantity.Vector([]float64{10, -20}, quantity.M2))
	assert.ErrorIs(t, err, ErrInvalidArea)
}
