package linalg

import "errors"

var (
	ErrNotAssembled  = errors.New("matrix must be assembled first")
	ErrNotConverged  = errors.New("linear solver did not converge")
	ErrSingular      = errors.New("matrix is singular")
	ErrDimension     = errors.New("dimension mismatch")
	ErrUnknownMethod = errors.New("unknown solver method")
)
