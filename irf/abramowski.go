package irf

import (
	"fmt"
	"math"

	"github.com/IAMinaya/gammapy/quantity"
)

// Instrument identifies the parameter set of the Abramowski effective-area
// parametrization.
type Instrument int

const (
	HESS Instrument = iota + 1
	HESS2
	CTA
)

// g1 (cm2), g2 (dimensionless), g3 (MeV), per Abramowski et al. (2010),
// appendix B
var abramowskiPars = map[Instrument][3]float64{
	HESS:  {6.85e9, 0.0891, 5e5},
	HESS2: {2.05e9, 0.0891, 1e5},
	CTA:   {1.71e11, 0.0891, 1e5},
}

// Abramowski evaluates the analytic IACT effective-area parametrization
// A(E) = g1 * E^-g2 * exp(-g3/E) with E in MeV. The result carries cm2,
// the unit the parametrization was published in.
func Abramowski(energy quantity.Quantity, inst Instrument) (quantity.Quantity, error) {
	if err := energy.Validate("energy", quantity.Energy); err != nil {
		return quantity.Quantity{}, err
	}

	pars, ok := abramowskiPars[inst]
	if !ok {
		return quantity.Quantity{}, fmt.Errorf("%w: %d", ErrUnknownInstrument, inst)
	}

	g1, g2, g3 := pars[0], pars[1], -pars[2]

	e, _ := energy.To(quantity.MeV)

	vals := e.Values()
	for i, v := range vals {
		vals[i] = g1 * math.Pow(v, -g2) * math.Exp(g3/v)
	}

	if energy.IsScalar() {
		return quantity.Scalar(vals[0], quantity.Cm2), nil
	}

	return quantity.Vector(vals, quantity.Cm2), nil
}
