/*
Package irf implements effective-area instrument-response containers for
gamma-ray astronomy: a simple energy-dependent lookup table (the ARF
format) and an offset-dependent 2D table with two interpolation methods.
*/
package irf

import (
	"math"

	"github.com/IAMinaya/gammapy/quantity"
)

// EffectiveAreaTable is an energy-binned effective-area lookup without
// interpolation. All quantities are held in canonical units (TeV, m2) and
// the table is immutable once constructed.
type EffectiveAreaTable struct {
	energyLo quantity.Quantity
	energyHi quantity.Quantity
	area     quantity.Quantity

	threshLo quantity.Quantity
	threshHi quantity.Quantity
}

// NewEffectiveAreaTable builds the table with the default safe-energy
// thresholds of 0.1 and 100 TeV.
func NewEffectiveAreaTable(energyLo, energyHi, area quantity.Quantity) (*EffectiveAreaTable, error) {
	return NewEffectiveAreaTableEx(energyLo, energyHi, area,
		quantity.Scalar(0.1, quantity.TeV), quantity.Scalar(100, quantity.TeV))
}

func NewEffectiveAreaTableEx(energyLo, energyHi, area, threshLo, threshHi quantity.Quantity) (*EffectiveAreaTable, error) {
	for _, in := range []struct {
		name string
		q    quantity.Quantity
		pt   quantity.PhysType
	}{
		{"energy_lo", energyLo, quantity.Energy},
		{"energy_hi", energyHi, quantity.Energy},
		{"effective_area", area, quantity.Area},
		{"energy_thresh_lo", threshLo, quantity.Energy},
		{"energy_thresh_hi", threshHi, quantity.Energy},
	} {
		if err := in.q.Validate(in.name, in.pt); err != nil {
			return nil, err
		}
	}

	if err := sameLen("energy bins", energyLo.Len(), energyHi.Len(), area.Len()); err != nil {
		return nil, err
	}

	lo, _ := energyLo.To(quantity.TeV)
	hi, _ := energyHi.To(quantity.TeV)
	a, _ := area.To(quantity.M2)
	tLo, _ := threshLo.To(quantity.TeV)
	tHi, _ := threshHi.To(quantity.TeV)

	for _, v := range a.Values() {
		if v < 0 {
			return nil, ErrInvalidArea
		}
	}

	return &EffectiveAreaTable{
		energyLo: lo,
		energyHi: hi,
		area:     a,
		threshLo: tLo,
		threshHi: tHi,
	}, nil
}

func (impl *EffectiveAreaTable) NBins() int {
	return impl.energyLo.Len()
}

func (impl *EffectiveAreaTable) EnergyLo() quantity.Quantity {
	return impl.energyLo
}

func (impl *EffectiveAreaTable) EnergyHi() quantity.Quantity {
	return impl.energyHi
}

func (impl *EffectiveAreaTable) EffectiveArea() quantity.Quantity {
	return impl.area
}

func (impl *EffectiveAreaTable) ThreshLo() quantity.Quantity {
	return impl.threshLo
}

func (impl *EffectiveAreaTable) ThreshHi() quantity.Quantity {
	return impl.threshHi
}

// EffectiveAreaAtEnergy returns the area of the bin whose upper edge is
// nearest the query energy. This is a nearest-neighbor lookup on the upper
// edge, not an interpolation; the deliberate simplification matches the
// format this table serializes to.
func (impl *EffectiveAreaTable) EffectiveAreaAtEnergy(energy quantity.Quantity) (quantity.Quantity, error) {
	if err := energy.Validate("energy", quantity.Energy); err != nil {
		return quantity.Quantity{}, err
	}

	e, _ := energy.To(quantity.TeV)

	his := impl.energyHi.Values()
	areas := impl.area.Values()

	best := 0
	bestD := math.Abs(his[0] - e.Value())

	for i := 1; i < len(his); i++ {
		if d := math.Abs(his[i] - e.Value()); d < bestD {
			best = i
			bestD = d
		}
	}

	return quantity.Scalar(areas[best], quantity.M2), nil
}
