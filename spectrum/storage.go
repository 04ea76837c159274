package spectrum

import (
	"time"

	"github.com/IAMinaya/gammapy/quantity"
)

// Snapshot is the serialization model shared by the storage backends.
type Snapshot struct {
	Edges           []float64 `yaml:"edges" json:"edges"` // TeV
	Counts          []float64 `yaml:"counts" json:"counts"`
	LivetimeSeconds float64   `yaml:"livetime_seconds" json:"livetime_seconds"`
	Backscal        float64   `yaml:"backscal" json:"backscal"`
}

// Storage persists counts-spectrum snapshots under string keys. Save
// returns the key actually used: implementations assign one when the
// caller passes an empty key.
type Storage interface {
	Save(key string, s *CountsSpectrum) (string, error)
	Load(key string) (*CountsSpectrum, error)
}

// ToSnapshot flattens the spectrum for storage backends.
func (impl *CountsSpectrum) ToSnapshot() Snapshot {
	return Snapshot{
		Edges:           impl.bounds.Edges().Values(),
		Counts:          impl.Counts(),
		LivetimeSeconds: impl.meta.Livetime.Seconds(),
		Backscal:        impl.meta.Backscal,
	}
}

// FromSnapshot rebuilds a spectrum from its storage model.
func FromSnapshot(s Snapshot) (*CountsSpectrum, error) {
	bounds, err := NewEnergyBounds(quantity.Vector(s.Edges, quantity.TeV))
	if err != nil {
		return nil, err
	}

	meta := DefaultMeta()
	meta.Livetime = time.Duration(s.LivetimeSeconds * float64(time.Second))

	if s.Backscal != 0 {
		meta.Backscal = s.Backscal
	}

	return NewCountsSpectrumEx(s.Counts, bounds, meta)
}
