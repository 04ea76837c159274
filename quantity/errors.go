package quantity

import "errors"

var (
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
