package spectrum

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/IAMinaya/gammapy/quantity"
	"github.com/stretchr/testify/assert"
)

func TestEBoundsRoundTrip(t *testing.T) {
	bounds, err := NewEnergyBounds(quantity.Vector([]float64{1, 2, 4, 8}, quantity.TeV))
	assert.Nil(t, err)

	var buf bytes.Buffer
	assert.Nil(t, bounds.ToEBOUNDS(&buf))

	got, err := ReadEBounds(bytes.NewReader(buf.Bytes()))
	assert.Nil(t, err)
	assert.True(t, bounds.Equal(got))
}

func TestPHARoundTrip(t *testing.T) {
	dir := t.TempDir()

	bounds, err := NewEnergyBounds(quantity.Vector([]float64{1, 2, 4, 8}, quantity.TeV))
	assert.Nil(t, err)

	assert.Nil(t, bounds.WriteEBoundsFile(filepath.Join(dir, "rmf.fits")))

	m := DefaultMeta()
	m.Livetime = 120 * time.Second
	m.Backscal = 0.8

	obsID := int64(23523)
	m.ObsID = &obsID

	offset := 0.5
	m.Offset = &offset

	s, err := NewCountsSpectrumEx([]float64{5, 7, 3}, bounds, m)
	assert.Nil(t, err)

	phaPath := filepath.Join(dir, "pha.fits")
	assert.Nil(t, s.WriteFile(phaPath, ResponseFiles{RMF: "rmf.fits"}))

	// binning recovered through the RESPFILE card
	got, err := Read(phaPath, "", nil)
	assert.Nil(t, err)

	assert.EqualValues(t, s.Counts(), got.Counts())
	assert.True(t, s.Bounds().Equal(got.Bounds()))
	assert.EqualValues(t, 120*time.Second, got.Meta().Livetime)
	assert.InDelta(t, 0.8, got.Meta().Backscal, 1e-9)
	assert.NotNil(t, got.Meta().ObsID)
	assert.EqualValues(t, 23523, *got.Meta().ObsID)
	assert.NotNil(t, got.Meta().Offset)
	assert.InDelta(t, 0.5, *got.Meta().Offset, 1e-9)
	assert.Nil(t, got.Meta().Zenith)
}

func TestPHAReadExplicitRMF(t *testing.T) {
	dir := t.TempDir()

	bounds, err := NewEnergyBounds(quantity.Vector([]float64{1, 2, 4}, quantity.TeV))
	assert.Nil(t, err)

	rmfPath := filepath.Join(dir, "ebounds.fits")
	assert.Nil(t, bounds.WriteEBoundsFile(rmfPath))

	s, err := NewCountsSpectrum([]float64{1, 2}, bounds)
	assert.Nil(t, err)

	phaPath := filepath.Join(dir, "pha.fits")
	assert.Nil(t, s.WriteFile(phaPath, ResponseFiles{}))

	// no RESPFILE card value: the override has to carry it
	_, err = Read(phaPath, "", nil)
	assert.ErrorIs(t, err, ErrMissingResponseFile)

	got, err := Read(phaPath, rmfPath, nil)
	assert.Nil(t, err)
	assert.EqualValues(t, s.Counts(), got.Counts())
}
