package irf

import "errors"

var (
	ErrUnsupportedMethod = errors.New("unsupported interpolation method")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrInvalidArea       = errors.New("negative effective area")
	ErrBadFormat         = errors.New("bad calibration file format")
)
