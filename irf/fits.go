package irf

import (
	"fmt"
	"io"
	"reflect"

	"github.com/IAMinaya/gammapy/quantity"
	"github.com/astrogo/fitsio"
	"github.com/sgostarter/i/l"
	"github.com/spf13/cast"
)

const (
	extSpecResp = "SPECRESP"
	extAeff2D   = "EFFECTIVE AREA"
)

// ToFITS writes the table as an ARF binary-table extension named
// SPECRESP. With ogip set, the OGIP compliance header block is emitted as
// well; LO_THRES/HI_THRES are always written.
func (impl *EffectiveAreaTable) ToFITS(w io.Writer, ogip bool) error {
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

	tbl, err := fitsio.NewTable(extSpecResp, []fitsio.Column{
		{Name: "ENERG_LO", Format: "E", Unit: "TeV"},
		{Name: "ENERG_HI", Format: "E", Unit: "TeV"},
		{Name: "SPECRESP", Format: "E", Unit: "m2"},
	}, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}

	defer tbl.Close()

	los := impl.energyLo.Values()
	his := impl.energyHi.Values()
	areas := impl.area.Values()

	row := struct {
		ELo  float32 `fits:"ENERG_LO"`
		EHi  float32 `fits:"ENERG_HI"`
		Area float32 `fits:"SPECRESP"`
	}{}

	for i := range los {
		row.ELo = float32(los[i])
		row.EHi = float32(his[i])
		row.Area = float32(areas[i])

		if err = tbl.Write(&row); err != nil {
			return err
		}
	}

	cards := []fitsio.Card{
		{Name: "LO_THRES", Value: impl.threshLo.Value(), Comment: "Low safe energy threshold (TeV)"},
		{Name: "HI_THRES", Value: impl.threshHi.Value(), Comment: "High safe energy threshold (TeV)"},
	}

	if ogip {
		cards = append(cards,
			fitsio.Card{Name: "HDUCLASS", Value: "OGIP", Comment: "Organisation devising file format"},
			fitsio.Card{Name: "HDUCLAS1", Value: "RESPONSE", Comment: "File relates to response of instrument"},
			fitsio.Card{Name: "HDUCLAS2", Value: "SPECRESP", Comment: "Effective area data is stored"},
			fitsio.Card{Name: "HDUVERS", Value: "1.1.0", Comment: "Version of file format"},
			fitsio.Card{Name: "ARFVERSN", Value: "1992a", Comment: "Obsolete"},
			fitsio.Card{Name: "HDUVERS1", Value: "1.0.0", Comment: "Obsolete"},
			fitsio.Card{Name: "HDUVERS2", Value: "1.1.0", Comment: "Obsolete"},
		)
	}

	if err = tbl.Header().Append(cards...); err != nil {
		return err
	}

	return f.Write(tbl)
}

// ReadEffectiveAreaTable reads an ARF SPECRESP extension. Absent
// safe-energy threshold cards are not fatal: the defaults are applied and
// a warning goes through the logger.
func ReadEffectiveAreaTable(r io.Reader, logger l.Wrapper) (*EffectiveAreaTable, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("open fits: %w", err)
	}

	defer f.Close()

	tbl, err := tableHDU(f, extSpecResp)
	if err != nil {
		return nil, err
	}

	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var los, his, areas []float64

	row := struct {
		ELo  float32 `fits:"ENERG_LO"`
		EHi  float32 `fits:"ENERG_HI"`
		Area float32 `fits:"SPECRESP"`
	}{}

	for rows.Next() {
		if err = rows.Scan(&row); err != nil {
			return nil, err
		}

		los = append(los, float64(row.ELo))
		his = append(his, float64(row.EHi))
		areas = append(areas, float64(row.Area))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	energyLo := quantity.Vector(los, quantity.TeV)
	energyHi := quantity.Vector(his, quantity.TeV)
	area := quantity.Vector(areas, quantity.M2)

	cLo := tbl.Header().Get("LO_THRES")
	cHi := tbl.Header().Get("HI_THRES")

	if cLo == nil || cHi == nil {
		logger.Warn("no safe energy thresholds in ARF, using defaults")

		return NewEffectiveAreaTable(energyLo, energyHi, area)
	}

	return NewEffectiveAreaTableEx(energyLo, energyHi, area,
		quantity.Scalar(cast.ToFloat64(cLo.Value), quantity.TeV),
		quantity.Scalar(cast.ToFloat64(cHi.Value), quantity.TeV))
}

// ToFITS writes the table as an EFFECTIVE AREA binary-table extension in
// the aeff2D layout: a single row holding the edge vectors and the two
// flattened area matrices.
func (impl *EffectiveArea2D) ToFITS(w io.Writer) error {
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

	nEnergy := impl.energyLo.Len()
	nOffset := impl.offsetLo.Len()

	tbl, err := fitsio.NewTable(extAeff2D, []fitsio.Column{
		{Name: "ENERG_LO", Format: fmt.Sprintf("%dE", nEnergy), Unit: "TeV"},
		{Name: "ENERG_HI", Format: fmt.Sprintf("%dE", nEnergy), Unit: "TeV"},
		{Name: "THETA_LO", Format: fmt.Sprintf("%dE", nOffset), Unit: "deg"},
		{Name: "THETA_HI", Format: fmt.Sprintf("%dE", nOffset), Unit: "deg"},
		{Name: "EFFAREA", Format: fmt.Sprintf("%dE", nOffset*nEnergy), Unit: "m2"},
		{Name: "EFFAREA_RECO", Format: fmt.Sprintf("%dE", nOffset*nEnergy), Unit: "m2"},
	}, fitsio.BINARY_TBL)
	if err != nil {
		return err
	}

	defer tbl.Close()

	// fixed-repeat vector columns ("nE") bind to array-typed struct
	// fields, and the repeats are only known at runtime, so the row
	// struct is built with reflection
	row := reflect.New(aeff2DRowType(nEnergy, nOffset)).Elem()

	setF32Array(row.Field(0), impl.energyLo.Values())
	setF32Array(row.Field(1), impl.energyHi.Values())
	setF32Array(row.Field(2), impl.offsetLo.Values())
	setF32Array(row.Field(3), impl.offsetHi.Values())
	setF32Array(row.Field(4), impl.area)
	setF32Array(row.Field(5), impl.areaReco)

	if err = tbl.Write(row.Addr().Interface()); err != nil {
		return err
	}

	return f.Write(tbl)
}

// ReadEffectiveArea2D reads an aeff2D EFFECTIVE AREA extension (row 0
// carries the vectors and matrices).
func ReadEffectiveArea2D(r io.Reader, logger l.Wrapper) (*EffectiveArea2D, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("open fits: %w", err)
	}

	defer f.Close()

	tbl, err := tableHDU(f, extAeff2D)
	if err != nil {
		return nil, err
	}

	if tbl.NumRows() < 1 {
		return nil, fmt.Errorf("%w: empty %s table", ErrBadFormat, extAeff2D)
	}

	nEnergy := columnRepeat(tbl, "ENERG_LO")
	nOffset := columnRepeat(tbl, "THETA_LO")

	if nEnergy < 1 || nOffset < 1 || columnRepeat(tbl, "EFFAREA") != nOffset*nEnergy {
		return nil, fmt.Errorf("%w: inconsistent vector column repeats in %s", ErrBadFormat, extAeff2D)
	}

	rows, err := tbl.Read(0, 1)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	row := reflect.New(aeff2DRowType(nEnergy, nOffset))

	if !rows.Next() {
		return nil, fmt.Errorf("%w: no data row in %s", ErrBadFormat, extAeff2D)
	}

	if err = rows.Scan(row.Interface()); err != nil {
		return nil, err
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	row = row.Elem()

	return NewEffectiveArea2D(
		quantity.Vector(f32ArrayValues(row.Field(0)), quantity.TeV),
		quantity.Vector(f32ArrayValues(row.Field(1)), quantity.TeV),
		quantity.Vector(f32ArrayValues(row.Field(2)), quantity.Deg),
		quantity.Vector(f32ArrayValues(row.Field(3)), quantity.Deg),
		quantity.Vector(f32ArrayValues(row.Field(4)), quantity.M2),
		quantity.Vector(f32ArrayValues(row.Field(5)), quantity.M2),
		logger)
}

// aeff2DRowType is the row model for the single-row aeff2D layout: one
// fixed-length float32 array per vector column, in column order.
func aeff2DRowType(nEnergy, nOffset int) reflect.Type {
	f32 := reflect.TypeOf(float32(0))

	return reflect.StructOf([]reflect.StructField{
		{Name: "ELo", Type: reflect.ArrayOf(nEnergy, f32), Tag: `fits:"ENERG_LO"`},
		{Name: "EHi", Type: reflect.ArrayOf(nEnergy, f32), Tag: `fits:"ENERG_HI"`},
		{Name: "OLo", Type: reflect.ArrayOf(nOffset, f32), Tag: `fits:"THETA_LO"`},
		{Name: "OHi", Type: reflect.ArrayOf(nOffset, f32), Tag: `fits:"THETA_HI"`},
		{Name: "Area", Type: reflect.ArrayOf(nOffset*nEnergy, f32), Tag: `fits:"EFFAREA"`},
		{Name: "AreaReco", Type: reflect.ArrayOf(nOffset*nEnergy, f32), Tag: `fits:"EFFAREA_RECO"`},
	})
}

func setF32Array(arr reflect.Value, vals []float64) {
	for i, v := range vals {
		arr.Index(i).SetFloat(v)
	}
}

func f32ArrayValues(arr reflect.Value) []float64 {
	out := make([]float64, arr.Len())
	for i := range out {
		out[i] = arr.Index(i).Float()
	}

	return out
}

// columnRepeat resolves the vector length of a named column from its
// TFORM repeat count ("12E" -> 12; no digits means 1, missing means 0).
func columnRepeat(tbl *fitsio.Table, name string) int {
	for _, col := range tbl.Cols() {
		if col.Name != name {
			continue
		}

		n := 0
		digits := false

		for _, c := range col.Format {
			if c < '0' || c > '9' {
				break
			}

			n = n*10 + int(c-'0')
			digits = true
		}

		if !digits {
			return 1
		}

		return n
	}

	return 0
}

func tableHDU(f *fitsio.File, name string) (*fitsio.Table, error) {
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
