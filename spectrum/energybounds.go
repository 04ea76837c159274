/*
Package spectrum implements the binned counts-spectrum container and its
OGIP PHA serialization, plus the energy-binning type shared with the
response tables.
*/
package spectrum

import (
	"fmt"
	"math"
	"sort"

	"github.com/IAMinaya/gammapy/quantity"
)

// EnergyBounds is an ordered energy bin-edge sequence held in TeV.
// len(edges) == nbins + 1.
type EnergyBounds struct {
	edges []float64
}

// NewEnergyBounds builds bounds from an energy-tagged edge vector.
func NewEnergyBounds(edges quantity.Quantity) (EnergyBounds, error) {
	if err := edges.Validate("energy bounds", quantity.Energy); err != nil {
		return EnergyBounds{}, err
	}

	e, _ := edges.To(quantity.TeV)

	vs := e.Values()
	if len(vs) < 2 {
		return EnergyBounds{}, fmt.Errorf("energy bounds: %w: need at least 2 edges, got %d",
			quantity.ErrDimensionMismatch, len(vs))
	}

	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] {
			return EnergyBounds{}, fmt.Errorf("energy bounds: %w: edges not strictly increasing at %d",
				quantity.ErrDimensionMismatch, i)
		}
	}

	return EnergyBounds{edges: vs}, nil
}

// EqualLogSpacing builds nbins log-spaced bins between emin and emax.
func EqualLogSpacing(emin, emax quantity.Quantity, nbins int) (EnergyBounds, error) {
	if err := emin.Validate("emin", quantity.Energy); err != nil {
		return EnergyBounds{}, err
	}

	if err := emax.Validate("emax", quantity.Energy); err != nil {
		return EnergyBounds{}, err
	}

	lo, _ := emin.To(quantity.TeV)
	hi, _ := emax.To(quantity.TeV)

	l0 := math.Log10(lo.Value())
	l1 := math.Log10(hi.Value())

	edges := make([]float64, nbins+1)
	for i := range edges {
		edges[i] = math.Pow(10, l0+(l1-l0)*float64(i)/float64(nbins))
	}

	return NewEnergyBounds(quantity.Vector(edges, quantity.TeV))
}

// BoundsFromLoHi builds bounds from contiguous lower/upper edge vectors.
func BoundsFromLoHi(lo, hi quantity.Quantity) (EnergyBounds, error) {
	if err := lo.Validate("energy_lo", quantity.Energy); err != nil {
		return EnergyBounds{}, err
	}

	if err := hi.Validate("energy_hi", quantity.Energy); err != nil {
		return EnergyBounds{}, err
	}

	if lo.Len() != hi.Len() {
		return EnergyBounds{}, fmt.Errorf("energy bounds: %w: %d vs %d edges",
			quantity.ErrDimensionMismatch, lo.Len(), hi.Len())
	}

	loT, _ := lo.To(quantity.TeV)
	hiT, _ := hi.To(quantity.TeV)

	loV := loT.Values()
	hiV := hiT.Values()

	edges := make([]float64, 0, len(loV)+1)
	edges = append(edges, loV[0])

	for i := range loV {
		if i > 0 && loV[i] != hiV[i-1] {
			return EnergyBounds{}, fmt.Errorf("energy bounds: %w: bins not contiguous at %d",
				quantity.ErrDimensionMismatch, i)
		}

		edges = append(edges, hiV[i])
	}

	return NewEnergyBounds(quantity.Vector(edges, quantity.TeV))
}

func (b EnergyBounds) NBins() int {
	if len(b.edges) == 0 {
		return 0
	}

	return len(b.edges) - 1
}

func (b EnergyBounds) Edges() quantity.Quantity {
	return quantity.Vector(b.edges, quantity.TeV)
}

func (b EnergyBounds) Lower() quantity.Quantity {
	return quantity.Vector(b.edges[:len(b.edges)-1], quantity.TeV)
}

func (b EnergyBounds) Upper() quantity.Quantity {
	return quantity.Vector(b.edges[1:], quantity.TeV)
}

// LogCenters returns the geometric bin centers sqrt(lo*hi).
func (b EnergyBounds) LogCenters() quantity.Quantity {
	cs := make([]float64, b.NBins())
	for i := range cs {
		cs[i] = math.Sqrt(b.edges[i] * b.edges[i+1])
	}

	return quantity.Vector(cs, quantity.TeV)
}

func (b EnergyBounds) Equal(o EnergyBounds) bool {
	if len(b.edges) != len(o.edges) {
		return false
	}

	for i, e := range b.edges {
		if e != o.edges[i] {
			return false
		}
	}

	return true
}

// BinIndex histograms a single energy (TeV) against the edges: the result
// is the bin index, or -1 outside the range. The upper boundary belongs to
// the last bin.
func (b EnergyBounds) BinIndex(energyTeV float64) int {
	if energyTeV < b.edges[0] || energyTeV > b.edges[len(b.edges)-1] {
		return -1
	}

	if energyTeV == b.edges[len(b.edges)-1] {
		return b.NBins() - 1
	}

	// SearchFloat64s returns the first index with edges[i] >= v; an exact
	// edge hit belongs to the bin starting at that edge
	i := sort.SearchFloat64s(b.edges, energyTeV)
	if i < len(b.edges) && b.edges[i] == energyTeV {
		return i
	}

	return i - 1
}
