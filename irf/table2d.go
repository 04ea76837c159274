package irf

import (
	"fmt"
	"math"
	"sort"

	"github.com/IAMinaya/gammapy/interpolate"
	"github.com/IAMinaya/gammapy/quantity"
	"github.com/sgostarter/i/l"
)

// InterpMethod selects the interpolator an EffectiveArea2D evaluates with.
type InterpMethod int

const (
	Linear InterpMethod = iota + 1
	Spline
)

func (m InterpMethod) String() string {
	switch m {
	case Linear:
		return "linear"
	case Spline:
		return "spline"
	}

	return "unknown"
}

// ParseInterpMethod resolves a method name read from configuration or a
// calibration file header.
func ParseInterpMethod(s string) (InterpMethod, error) {
	switch s {
	case "linear":
		return Linear, nil
	case "spline":
		return Spline, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}

// EffectiveArea2D is a radially-symmetric offset-dependent effective-area
// lookup. The grids and area matrices are immutable after construction and
// both interpolators are built eagerly, so instances are safe to share
// between concurrent readers. The method selector is the only mutable
// field; switching it while other goroutines evaluate needs external
// synchronization.
type EffectiveArea2D struct {
	logger l.Wrapper

	energyLo quantity.Quantity // TeV, length nEnergy
	energyHi quantity.Quantity
	offsetLo quantity.Quantity // deg, length nOffset
	offsetHi quantity.Quantity

	// row-major, offset-major: area[i*nEnergy+j] belongs to
	// (offsetCenter[i], energyCenter[j])
	area     []float64 // m2, true energy
	areaReco []float64 // m2, reconstructed energy

	offsetCenters []float64 // deg
	energyCenters []float64 // TeV

	linear *interpolate.Barycentric
	spline *interpolate.BivarSpline

	method InterpMethod
}

// NewEffectiveArea2D builds the table from unit-tagged bin-edge vectors
// and the two flattened area matrices (offset-major, energy-minor). The
// matrix flattening order must match the grid order; the constructor pairs
// area[i*nEnergy+j] with (offset i, energy j) when it builds the
// interpolators.
func NewEffectiveArea2D(energyLo, energyHi, offsetLo, offsetHi, area, areaReco quantity.Quantity,
	logger l.Wrapper) (*EffectiveArea2D, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	logger = logger.WithFields(l.StringField(l.ClsKey, "effectiveArea2D"))

	for _, in := range []struct {
		name string
		q    quantity.Quantity
		pt   quantity.PhysType
	}{
		{"energy_lo", energyLo, quantity.Energy},
		{"energy_hi", energyHi, quantity.Energy},
		{"offset_lo", offsetLo, quantity.Angle},
		{"offset_hi", offsetHi, quantity.Angle},
		{"eff_area", area, quantity.Area},
		{"eff_area_reco", areaReco, quantity.Area},
	} {
		if err := in.q.Validate(in.name, in.pt); err != nil {
			return nil, err
		}
	}

	if err := sameLen("energy edges", energyLo.Len(), energyHi.Len()); err != nil {
		return nil, err
	}

	if err := sameLen("offset edges", offsetLo.Len(), offsetHi.Len()); err != nil {
		return nil, err
	}

	nEnergy := energyLo.Len()
	nOffset := offsetLo.Len()

	if err := sameLen("area matrix", nOffset*nEnergy, area.Len(), areaReco.Len()); err != nil {
		return nil, err
	}

	eLo, _ := energyLo.To(quantity.TeV)
	eHi, _ := energyHi.To(quantity.TeV)
	oLo, _ := offsetLo.To(quantity.Deg)
	oHi, _ := offsetHi.To(quantity.Deg)
	aT, _ := area.To(quantity.M2)
	aR, _ := areaReco.To(quantity.M2)

	aVals := aT.Values()
	for _, v := range aVals {
		if v < 0 {
			return nil, ErrInvalidArea
		}
	}

	// offset center is the edge midpoint; the supported radially
	// symmetric format ships degenerate rings with offset_lo ==
	// offset_hi, in which case the midpoint is the ring itself
	oHiV := oHi.Values()

	offC := make([]float64, nOffset)
	for i, lo := range oLo.Values() {
		offC[i] = (lo + oHiV[i]) / 2
	}

	eHiV := eHi.Values()

	enC := make([]float64, nEnergy)
	for j, lo := range eLo.Values() {
		enC[j] = math.Sqrt(lo * eHiV[j])
	}

	// scatter set for the barycentric interpolator: the offset-major
	// cross product of the centers, matching the matrix flattening
	xs := make([]float64, 0, nOffset*nEnergy)
	ys := make([]float64, 0, nOffset*nEnergy)

	for i := 0; i < nOffset; i++ {
		for j := 0; j < nEnergy; j++ {
			xs = append(xs, offC[i])
			ys = append(ys, math.Log10(enC[j]))
		}
	}

	linear, err := interpolate.NewBarycentric(xs, ys, aVals)
	if err != nil {
		return nil, fmt.Errorf("linear interpolator: %w", err)
	}

	logEnC := make([]float64, nEnergy)
	for j, e := range enC {
		logEnC[j] = math.Log10(e)
	}

	rows := make([][]float64, nOffset)
	for i := range rows {
		rows[i] = aVals[i*nEnergy : (i+1)*nEnergy]
	}

	spline, err := interpolate.NewBivarSpline(offC, logEnC, rows)
	if err != nil {
		return nil, fmt.Errorf("spline interpolator: %w", err)
	}

	return &EffectiveArea2D{
		logger:        logger,
		energyLo:      eLo,
		energyHi:      eHi,
		offsetLo:      oLo,
		offsetHi:      oHi,
		area:          aVals,
		areaReco:      aR.Values(),
		offsetCenters: offC,
		energyCenters: enC,
		linear:        linear,
		spline:        spline,
		method:        Linear,
	}, nil
}

func (impl *EffectiveArea2D) NEnergyBins() int {
	return impl.energyLo.Len()
}

func (impl *EffectiveArea2D) NOffsetBins() int {
	return impl.offsetLo.Len()
}

func (impl *EffectiveArea2D) EnergyLo() quantity.Quantity {
	return impl.energyLo
}

func (impl *EffectiveArea2D) EnergyHi() quantity.Quantity {
	return impl.energyHi
}

func (impl *EffectiveArea2D) OffsetLo() quantity.Quantity {
	return impl.offsetLo
}

func (impl *EffectiveArea2D) OffsetHi() quantity.Quantity {
	return impl.offsetHi
}

func (impl *EffectiveArea2D) EnergyCenters() quantity.Quantity {
	return quantity.Vector(impl.energyCenters, quantity.TeV)
}

func (impl *EffectiveArea2D) OffsetCenters() quantity.Quantity {
	return quantity.Vector(impl.offsetCenters, quantity.Deg)
}

// Area returns the flattened true-energy area matrix (offset-major).
func (impl *EffectiveArea2D) Area() quantity.Quantity {
	return quantity.Vector(impl.area, quantity.M2)
}

// AreaReco returns the flattened reconstructed-energy area matrix.
func (impl *EffectiveArea2D) AreaReco() quantity.Quantity {
	return quantity.Vector(impl.areaReco, quantity.M2)
}

// AreaAt returns the calibration value for offset bin i and energy bin j.
func (impl *EffectiveArea2D) AreaAt(i, j int) quantity.Quantity {
	return quantity.Scalar(impl.area[i*impl.energyLo.Len()+j], quantity.M2)
}

func (impl *EffectiveArea2D) Method() InterpMethod {
	return impl.method
}

// SetInterpolationMethod switches the active interpolator. Both
// interpolators already exist, so this only flips the selector.
func (impl *EffectiveArea2D) SetInterpolationMethod(m InterpMethod) error {
	if m != Linear && m != Spline {
		return fmt.Errorf("%w: %v", ErrUnsupportedMethod, m)
	}

	impl.method = m

	return nil
}

// Evaluate interpolates the effective area at (offset, energy). Either
// argument may be scalar or vector; the result mirrors their broadcast
// shape. With the linear method, points outside the convex hull of the
// calibration grid come back NaN; the spline method extrapolates instead.
func (impl *EffectiveArea2D) Evaluate(offset, energy quantity.Quantity) (quantity.Quantity, error) {
	if err := offset.Validate("offset", quantity.Angle); err != nil {
		return quantity.Quantity{}, err
	}

	if err := energy.Validate("energy", quantity.Energy); err != nil {
		return quantity.Quantity{}, err
	}

	offDeg, _ := offset.To(quantity.Deg)
	enTeV, _ := energy.To(quantity.TeV)

	xs, ys, scalar, err := quantity.Broadcast(offDeg, enTeV)
	if err != nil {
		return quantity.Quantity{}, err
	}

	for i, e := range ys {
		ys[i] = math.Log10(e)
	}

	var itp interpolate.BiInterpolator

	switch impl.method {
	case Linear:
		itp = impl.linear
	case Spline:
		itp = impl.spline
	default:
		return quantity.Quantity{}, fmt.Errorf("%w: selector %d", ErrUnsupportedMethod, impl.method)
	}

	vals := itp.EvalAll(xs, ys)

	if scalar {
		return quantity.Scalar(vals[0], quantity.M2), nil
	}

	return quantity.Vector(vals, quantity.M2), nil
}

// EvalAtOffset produces the effective-area spectrum at a fixed offset.
// A zero energies quantity selects the stored energy bin centers.
func (impl *EffectiveArea2D) EvalAtOffset(offset, energies quantity.Quantity) (quantity.Quantity, error) {
	if energies.IsZero() {
		energies = impl.EnergyCenters()
	}

	return impl.Evaluate(offset, energies)
}

// EvalAtEnergy sweeps the offset axis at a fixed energy. A zero offsets
// quantity selects the stored offset bin centers.
func (impl *EffectiveArea2D) EvalAtEnergy(energy, offsets quantity.Quantity) (quantity.Quantity, error) {
	if offsets.IsZero() {
		offsets = impl.OffsetCenters()
	}

	return impl.Evaluate(offsets, energy)
}

// OffsetIndex returns the insertion index of the offset among the bin
// centers (rounded up).
func (impl *EffectiveArea2D) OffsetIndex(offset quantity.Quantity) (int, error) {
	if err := offset.Validate("offset", quantity.Angle); err != nil {
		return 0, err
	}

	o, _ := offset.To(quantity.Deg)

	return sort.SearchFloat64s(impl.offsetCenters, o.Value()), nil
}

// EnergyIndex returns the insertion index of the energy among the bin
// centers (rounded up).
func (impl *EffectiveArea2D) EnergyIndex(energy quantity.Quantity) (int, error) {
	if err := energy.Validate("energy", quantity.Energy); err != nil {
		return 0, err
	}

	e, _ := energy.To(quantity.TeV)

	return sort.SearchFloat64s(impl.energyCenters, e.Value()), nil
}
