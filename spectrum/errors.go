package spectrum

import (
	"fmt"

	"github.com/IAMinaya/gammapy/quantity"
)

var (
	// ErrBinningMismatch refines the dimension-mismatch kind: combining
	// spectra requires identical energy binning. errors.Is against
	// quantity.ErrDimensionMismatch matches it too.
	ErrBinningMismatch = fmt.Errorf("binning: %w", quantity.ErrDimensionMismatch)

	ErrMissingResponseFile = fmt.Errorf("missing response file")
	ErrBadFormat           = fmt.Errorf("bad spectrum file format")
)
