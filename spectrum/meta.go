package spectrum

import "time"

// Region is a circular sky region (ICRS, degrees).
type Region struct {
	RA     float64
	Dec    float64
	Radius float64
}

// Meta carries the observation metadata written into the PHA header.
// Livetime and Backscal are always present (defaults 0s and 1); the
// remaining fields are emitted only when set.
type Meta struct {
	Livetime time.Duration
	Backscal float64

	ObsID          *int64
	Offset         *float64 // deg
	MuonEff        *float64
	Zenith         *float64 // deg
	OnRegion       *Region
	EnergyRange    *[2]float64 // TeV, lo/hi safe thresholds
	PSFContainment *float64
}

func DefaultMeta() Meta {
	return Meta{Backscal: 1}
}
