/*
Package caldb loads calibration files from a root directory and keeps the
constructed tables behind a TTL cache, so repeated lookups share one
immutable table instance.
*/
package caldb

import (
	"os"
	"path/filepath"
	"time"

	"github.com/IAMinaya/gammapy/irf"
	"github.com/IAMinaya/gammapy/spectrum"
	"github.com/patrickmn/go-cache"
	"github.com/sgostarter/i/l"
)

const defaultTTL = 5 * time.Minute

type DB struct {
	logger l.Wrapper
	root   string
	cached *cache.Cache
}

// NewDB opens a calibration database rooted at dir. ttl <= 0 selects the
// default cache lifetime.
func NewDB(root string, ttl time.Duration, logger l.Wrapper) *DB {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "calDB"))

	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &DB{
		logger: logger,
		root:   root,
		cached: cache.New(ttl, ttl),
	}
}

// ARF loads an energy-dependent effective-area table.
func (impl *DB) ARF(name string) (*irf.EffectiveAreaTable, error) {
	if v, ok := impl.cached.Get("arf:" + name); ok {
		// nolint:forcetypeassert
		return v.(*irf.EffectiveAreaTable), nil
	}

	f, err := os.Open(filepath.Join(impl.root, name))
	if err != nil {
		return nil, err
	}

	defer f.Close()

	tbl, err := irf.ReadEffectiveAreaTable(f, impl.logger)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("name", name)).Error("read ARF failed")

		return nil, err
	}

	impl.cached.Set("arf:"+name, tbl, cache.DefaultExpiration)

	return tbl, nil
}

// Aeff2D loads an offset-dependent effective-area table.
func (impl *DB) Aeff2D(name string) (*irf.EffectiveArea2D, error) {
	if v, ok := impl.cached.Get("aeff2d:" + name); ok {
		// nolint:forcetypeassert
		return v.(*irf.EffectiveArea2D), nil
	}

	f, err := os.Open(filepath.Join(impl.root, name))
	if err != nil {
		return nil, err
	}

	defer f.Close()

	tbl, err := irf.ReadEffectiveArea2D(f, impl.logger)
	if err != nil {
		impl.logger.WithFields(l.ErrorField(err), l.StringField("name", name)).Error("read aeff2D failed")

		return nil, err
	}

	impl.cached.Set("aeff2d:"+name, tbl, cache.DefaultExpiration)

	return tbl, nil
}

// Spectrum loads a PHA counts spectrum. rmfName overrides the RESPFILE
// header card when non-empty; spectra are not cached since their metadata
// is cheap to re-read and callers usually mutate derived copies.
func (impl *DB) Spectrum(phaName, rmfName string) (*spectrum.CountsSpectrum, error) {
	rmfPath := ""
	if rmfName != "" {
		rmfPath = filepath.Join(impl.root, rmfName)
	}

	return spectrum.Read(filepath.Join(impl.root, phaName), rmfPath, impl.logger)
}
