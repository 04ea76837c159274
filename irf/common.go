package irf

import (
	"fmt"

	"github.com/IAMinaya/gammapy/quantity"
)

func sameLen(what string, ns ...int) error {
	for _, n := range ns[1:] {
		if n != ns[0] {
			return fmt.Errorf("%s: %w: lengths %v", what, quantity.ErrDimensionMismatch, ns)
		}
	}

	return nil
}
