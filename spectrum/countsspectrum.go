package spectrum

import (
	"fmt"
	"time"

	"github.com/IAMinaya/gammapy/quantity"
)

// CountsSpectrum is a binned counts histogram over an energy axis.
// Instances are immutable: the arithmetic operations return new spectra.
type CountsSpectrum struct {
	counts []float64
	bounds EnergyBounds
	meta   Meta
}

func NewCountsSpectrum(counts []float64, bounds EnergyBounds) (*CountsSpectrum, error) {
	return NewCountsSpectrumEx(counts, bounds, DefaultMeta())
}

func NewCountsSpectrumEx(counts []float64, bounds EnergyBounds, meta Meta) (*CountsSpectrum, error) {
	if len(counts) != bounds.NBins() {
		return nil, fmt.Errorf("counts: %w: %d counts for %d bins",
			quantity.ErrDimensionMismatch, len(counts), bounds.NBins())
	}

	cp := make([]float64, len(counts))
	copy(cp, counts)

	return &CountsSpectrum{
		counts: cp,
		bounds: bounds,
		meta:   meta,
	}, nil
}

// FromEvents histograms energy-tagged event energies against the bounds.
// Events outside the energy range are dropped.
func FromEvents(energies quantity.Quantity, bounds EnergyBounds, livetime time.Duration) (*CountsSpectrum, error) {
	if err := energies.Validate("event energies", quantity.Energy); err != nil {
		return nil, err
	}

	e, _ := energies.To(quantity.TeV)

	counts := make([]float64, bounds.NBins())

	for _, v := range e.Values() {
		if i := bounds.BinIndex(v); i >= 0 {
			counts[i]++
		}
	}

	meta := DefaultMeta()
	meta.Livetime = livetime

	return NewCountsSpectrumEx(counts, bounds, meta)
}

func (impl *CountsSpectrum) Counts() []float64 {
	cp := make([]float64, len(impl.counts))
	copy(cp, impl.counts)

	return cp
}

func (impl *CountsSpectrum) Bounds() EnergyBounds {
	return impl.bounds
}

func (impl *CountsSpectrum) Meta() Meta {
	return impl.meta
}

func (impl *CountsSpectrum) NBins() int {
	return len(impl.counts)
}

func (impl *CountsSpectrum) TotalCounts() float64 {
	var sum float64
	for _, c := range impl.counts {
		sum += c
	}

	return sum
}

// Channels returns the 1-based detector channel numbers.
func (impl *CountsSpectrum) Channels() []int {
	chs := make([]int, len(impl.counts))
	for i := range chs {
		chs[i] = i + 1
	}

	return chs
}

// Add combines two spectra bin-wise. The binnings must be identical; the
// result carries the summed livetime and default metadata otherwise.
func (impl *CountsSpectrum) Add(other *CountsSpectrum) (*CountsSpectrum, error) {
	if !impl.bounds.Equal(other.bounds) {
		return nil, ErrBinningMismatch
	}

	counts := make([]float64, len(impl.counts))
	for i, c := range impl.counts {
		counts[i] = c + other.counts[i]
	}

	meta := DefaultMeta()
	meta.Livetime = impl.meta.Livetime + other.meta.Livetime

	return NewCountsSpectrumEx(counts, impl.bounds, meta)
}

// Scale multiplies every count by f, preserving the livetime.
func (impl *CountsSpectrum) Scale(f float64) *CountsSpectrum {
	counts := make([]float64, len(impl.counts))
	for i, c := range impl.counts {
		counts[i] = c * f
	}

	meta := DefaultMeta()
	meta.Livetime = impl.meta.Livetime

	out, _ := NewCountsSpectrumEx(counts, impl.bounds, meta)

	return out
}
