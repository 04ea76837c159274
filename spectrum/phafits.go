package spectrum

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/IAMinaya/gammapy/quantity"
	"github.com/astrogo/fitsio"
	"github.com/sgostarter/i/l"
	"github.com/spf13/cast"
)

const (
	extSpectrum = "SPECTRUM"
	extEBounds  = "EBOUNDS"
)

// ResponseFiles names the companion calibration files referenced from a
// PHA header. Empty entries are written as empty cards.
type ResponseFiles struct {
	Background  string
	Correlation string
	RMF         string
	ARF         string
}

// ToFITS writes the spectrum as an OGIP PHA SPECTRUM extension. The
// energy binning itself is not part of the PHA standard; readers recover
// it from the RMF EBOUNDS extension named in the RESPFILE card.
func (impl *CountsSpectrum) ToFITS(w io.Writer, files ResponseFiles) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("create fits: %w", err)
	}

	defer f.Close()

	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		return err
	}

	if err = f.Write(phdu); err != nil {
		return err
	}

	tbl, err := fitsio.NewTable(extSpectrum, []fitsio.Column{
		{Name: "CHANNEL", Format: "I"},
		{Name: "COUNTS", Format: "J", Unit: "count"},
	}, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}

	defer tbl.Close()

	row := struct {
		Channel int16 `fits:"CHANNEL"`
		Counts  int32 `fits:"COUNTS"`
	}{}

	for i, c := range impl.counts {
		row.Channel = int16(i + 1)
		row.Counts = int32(math.Round(c))

		if err = tbl.Write(&row); err != nil {
			return err
		}
	}

	cards := []fitsio.Card{
		{Name: "TELESCOP", Value: "DUMMY", Comment: "Telescope (mission) name"},
		{Name: "INSTRUME", Value: "DUMMY", Comment: "Instrument name"},
		{Name: "FILTER", Value: "NONE", Comment: "Instrument filter in use"},
		{Name: "EXPOSURE", Value: impl.meta.Livetime.Seconds(), Comment: "Exposure time"},
		{Name: "BACKFILE", Value: files.Background, Comment: "Background FITS file"},
		{Name: "CORRFILE", Value: files.Correlation, Comment: "Correlation FITS file"},
		{Name: "RESPFILE", Value: files.RMF, Comment: "Redistribution matrix file (RMF)"},
		{Name: "ANCRFILE", Value: files.ARF, Comment: "Ancillary response file (ARF)"},
		{Name: "HDUCLASS", Value: "OGIP", Comment: "Format conforms to OGIP/GSFC spectral standards"},
		{Name: "HDUCLAS1", Value: "SPECTRUM", Comment: "Extension contains a spectrum"},
		{Name: "HDUVERS", Value: "1.2.1", Comment: "Version number of the format"},
		{Name: "CHANTYPE", Value: "PHA", Comment: "Channels assigned by detector electronics"},
		{Name: "DETCHANS", Value: len(impl.counts), Comment: "Total number of detector channels available"},
		{Name: "TLMIN1", Value: 1, Comment: "Lowest legal channel number"},
		{Name: "TLMAX1", Value: len(impl.counts), Comment: "Highest legal channel number"},
		{Name: "XFLT0001", Value: "none", Comment: "XSPEC selection filter description"},
		{Name: "HDUCLAS2", Value: "NET", Comment: "Extension contains a bkgr substr. spec."},
		{Name: "HDUCLAS3", Value: "COUNT", Comment: "Extension contains counts"},
		{Name: "HDUCLAS4", Value: "TYPE:I", Comment: "Single PHA file contained"},
		{Name: "HDUVERS1", Value: "1.2.1", Comment: "Obsolete - included for backwards compatibility"},
		{Name: "POISSERR", Value: true, Comment: "Are Poisson Distribution errors assumed"},
		{Name: "STAT_ERR", Value: 0, Comment: "No statistical error was specified"},
		{Name: "SYS_ERR", Value: 0, Comment: "No systematic error was specified"},
		{Name: "GROUPING", Value: 0, Comment: "No grouping data has been specified"},
		{Name: "QUALITY", Value: 0, Comment: "No data quality information specified"},
		{Name: "AREASCAL", Value: 1.0, Comment: "Area scaling factor"},
		{Name: "BACKSCAL", Value: impl.meta.Backscal, Comment: "Background scale factor"},
		{Name: "CORRSCAL", Value: 0.0, Comment: "Correlation scale factor"},
		{Name: "DATE", Value: time.Now().Format("2006-01-02"), Comment: "FITS file creation date (yyyy-mm-dd)"},
		{Name: "PHAVERSN", Value: "1992a", Comment: "OGIP memo number for file format"},
	}

	cards = append(cards, impl.meta.cards()...)

	if err = tbl.Header().Append(cards...); err != nil {
		return err
	}

	return f.Write(tbl)
}

// cards maps the declared-present optional fields to their header cards.
func (m Meta) cards() []fitsio.Card {
	var out []fitsio.Card

	if m.ObsID != nil {
		out = append(out, fitsio.Card{Name: "OBS_ID", Value: *m.ObsID, Comment: "Observation identifier"})
	}

	if m.Offset != nil {
		out = append(out, fitsio.Card{Name: "OFFSET", Value: *m.Offset, Comment: "Target offset from pointing position (deg)"})
	}

	if m.MuonEff != nil {
		out = append(out, fitsio.Card{Name: "MUONEFF", Value: *m.MuonEff, Comment: "Muon efficiency"})
	}

	if m.Zenith != nil {
		out = append(out, fitsio.Card{Name: "ZENITH", Value: *m.Zenith, Comment: "Zenith angle (deg)"})
	}

	if m.OnRegion != nil {
		out = append(out,
			fitsio.Card{Name: "RA-OBJ", Value: m.OnRegion.RA, Comment: "Right ascension of the target"},
			fitsio.Card{Name: "DEC-OBJ", Value: m.OnRegion.Dec, Comment: "Declination of the target"},
			fitsio.Card{Name: "ON-RAD", Value: m.OnRegion.Radius, Comment: "Radius of the spectral extraction region"})
	}

	if m.EnergyRange != nil {
		out = append(out,
			fitsio.Card{Name: "LO_THRES", Value: m.EnergyRange[0], Comment: "Low energy threshold (TeV)"},
			fitsio.Card{Name: "HI_THRES", Value: m.EnergyRange[1], Comment: "High energy threshold (TeV)"})
	}

	if m.PSFContainment != nil {
		out = append(out, fitsio.Card{Name: "PSF_CONT", Value: *m.PSFContainment, Comment: "PSF containment fraction"})
	}

	return out
}

// WriteFile writes the PHA to a file.
func (impl *CountsSpectrum) WriteFile(path string, files ResponseFiles) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer f.Close()

	return impl.ToFITS(f, files)
}

// ToEBOUNDS writes the binning as an RMF-style EBOUNDS extension, the
// format PHA readers recover their energy axis from.
func (b EnergyBounds) ToEBOUNDS(w io.Writer) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("create fits: %w", err)
	}

	defer f.Close()

	phdu, err := fitsio.NewPrimaryHDU(nil)
	if err != nil {
		return err
	}

	if err = f.Write(phdu); err != nil {
		return err
	}

	tbl, err := fitsio.NewTable(extEBounds, []fitsio.Column{
		{Name: "CHANNEL", Format: "I"},
		{Name: "E_MIN", Format: "E", Unit: "TeV"},
		{Name: "E_MAX", Format: "E", Unit: "TeV"},
	}, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}

	defer tbl.Close()

	row := struct {
		Channel int16   `fits:"CHANNEL"`
		EMin    float32 `fits:"E_MIN"`
		EMax    float32 `fits:"E_MAX"`
	}{}

	for i := 0; i < b.NBins(); i++ {
		row.Channel = int16(i + 1)
		row.EMin = float32(b.edges[i])
		row.EMax = float32(b.edges[i+1])

		if err = tbl.Write(&row); err != nil {
			return err
		}
	}

	return f.Write(tbl)
}

// WriteEBoundsFile writes the binning as an EBOUNDS file.
func (b EnergyBounds) WriteEBoundsFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer f.Close()

	return b.ToEBOUNDS(f)
}

// ReadEBounds reads the energy binning from an RMF EBOUNDS extension.
// The edge unit is taken from the E_MIN column (keV when unspecified, the
// OGIP default).
func ReadEBounds(r io.Reader) (EnergyBounds, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return EnergyBounds{}, fmt.Errorf("open fits: %w", err)
	}

	defer f.Close()

	tbl, err := findTable(f, extEBounds)
	if err != nil {
		return EnergyBounds{}, err
	}

	unit := quantity.KeV

	for _, col := range tbl.Cols() {
		if col.Name == "E_MIN" && col.Unit != "" {
			u, ok := quantity.UnitByName(col.Unit)
			if !ok {
				return EnergyBounds{}, fmt.Errorf("%w: unknown energy unit %q", ErrBadFormat, col.Unit)
			}

			unit = u
		}
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return EnergyBounds{}, err
	}

	defer rows.Close()

	var lo, hi []float64

	row := struct {
		Channel int16   `fits:"CHANNEL"`
		EMin    float32 `fits:"E_MIN"`
		EMax    float32 `fits:"E_MAX"`
	}{}

	for rows.Next() {
		if err = rows.Scan(&row); err != nil {
			return EnergyBounds{}, err
		}

		lo = append(lo, float64(row.EMin))
		hi = append(hi, float64(row.EMax))
	}

	if err = rows.Err(); err != nil {
		return EnergyBounds{}, err
	}

	return BoundsFromLoHi(quantity.Vector(lo, unit), quantity.Vector(hi, unit))
}

// Read reads a PHA file. The PHA format carries channel numbers only, so
// the energy binning comes from the RMF EBOUNDS extension: rmfPath
// overrides when non-empty, otherwise the RESPFILE header card is resolved
// relative to the PHA file's directory. A missing or empty RESPFILE is
// ErrMissingResponseFile.
func Read(phaPath, rmfPath string, logger l.Wrapper) (*CountsSpectrum, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	phaFile, err := os.Open(phaPath)
	if err != nil {
		return nil, err
	}

	defer phaFile.Close()

	f, err := fitsio.Open(phaFile)
	if err != nil {
		return nil, fmt.Errorf("open fits: %w", err)
	}

	defer f.Close()

	tbl, err := findTable(f, extSpectrum)
	if err != nil {
		return nil, err
	}

	if rmfPath == "" {
		card := tbl.Header().Get("RESPFILE")
		if card == nil || cast.ToString(card.Value) == "" {
			return nil, fmt.Errorf("%w: RESPFILE not set in PHA header", ErrMissingResponseFile)
		}

		rmfPath = filepath.Join(filepath.Dir(phaPath), cast.ToString(card.Value))
	}

	rmfFile, err := os.Open(rmfPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingResponseFile, err)
	}

	defer rmfFile.Close()

	bounds, err := ReadEBounds(rmfFile)
	if err != nil {
		return nil, err
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var counts []float64

	row := struct {
		Channel int16 `fits:"CHANNEL"`
		Counts  int32 `fits:"COUNTS"`
	}{}

	for rows.Next() {
		if err = rows.Scan(&row); err != nil {
			return nil, err
		}

		counts = append(counts, float64(row.Counts))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return NewCountsSpectrumEx(counts, bounds, metaFromHeader(tbl.Header()))
}

func metaFromHeader(hdr *fitsio.Header) Meta {
	m := DefaultMeta()

	if c := hdr.Get("EXPOSURE"); c != nil {
		m.Livetime = time.Duration(cast.ToFloat64(c.Value) * float64(time.Second))
	}

	if c := hdr.Get("BACKSCAL"); c != nil {
		m.Backscal = cast.ToFloat64(c.Value)
	}

	if c := hdr.Get("OBS_ID"); c != nil {
		v := cast.ToInt64(c.Value)
		m.ObsID = &v
	}

	if c := hdr.Get("OFFSET"); c != nil {
		v := cast.ToFloat64(c.Value)
		m.Offset = &v
	}

	if c := hdr.Get("MUONEFF"); c != nil {
		v := cast.ToFloat64(c.Value)
		m.MuonEff = &v
	}

	if c := hdr.Get("ZENITH"); c != nil {
		v := cast.ToFloat64(c.Value)
		m.Zenith = &v
	}

	if ra := hdr.Get("RA-OBJ"); ra != nil {
		dec := hdr.Get("DEC-OBJ")
		rad := hdr.Get("ON-RAD")

		if dec != nil && rad != nil {
			m.OnRegion = &Region{
				RA:     cast.ToFloat64(ra.Value),
				Dec:    cast.ToFloat64(dec.Value),
				Radius: cast.ToFloat64(rad.Value),
			}
		}
	}

	if lo := hdr.Get("LO_THRES"); lo != nil {
		if hi := hdr.Get("HI_THRES"); hi != nil {
			m.EnergyRange = &[2]float64{cast.ToFloat64(lo.Value), cast.ToFloat64(hi.Value)}
		}
	}

	if c := hdr.Get("PSF_CONT"); c != nil {
		v := cast.ToFloat64(c.Value)
		m.PSFContainment = &v
	}

	return m
}

func findTable(f *fitsio.File, name string) (*fitsio.Table, error) {
	for _, hdu := range f.HDUs() {
		if hdu.Name() != name {
			continue
		}

		tbl, ok := hdu.(*fitsio.Table)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not a table extension", ErrBadFormat, name)
		}

		return tbl, nil
	}

	return nil, fmt.Errorf("%w: no %s extension", ErrBadFormat, name)
}
