package tensor

import "errors"

// Copy errors.
var (
	ErrShapeMismatch = errors.New("tensor: shape mismatch")
	ErrDTypeMismatch = errors.New("tensor: dtype mismatch")
)
