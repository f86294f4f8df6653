package math

import "errors"

// ErrInvalidParameter is returned by builders that reject their inputs,
// such as a perspective matrix with a non-positive near plane.
var ErrInvalidParameter = errors.New("invalid parameter")
