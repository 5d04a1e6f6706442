package linalg

import (
	"fmt"
	"strings"
)

type Method string

const (
	GMRES Method = "gmres" // restarted GMRES, Jacobi preconditioned
	CG    Method = "cg"    // conjugate gradients, Jacobi preconditioned, symmetric positive definite only
	LU    Method = "lu"    // dense LU, small systems
)

func ParseMethod(s string) (m Method, err error) {
	m = Method(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case GMRES, CG, LU:
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMethod, s)
	}
	return
}

type SolverOptions struct {
	Method  Method  `yaml:"Method"`
	RelTol  float64 `yaml:"RelTol"`  // relative to the preconditioned right hand side
	AbsTol  float64 `yaml:"AbsTol"`  // absolute floor on the preconditioned residual
	MaxIter int     `yaml:"MaxIter"` // total iterations across restarts
	Restart int     `yaml:"Restart"` // Krylov subspace size for GMRES
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Method:  GMRES,
		RelTol:  1.e-10,
		AbsTol:  1.e-50,
		MaxIter: 10000,
		Restart: 30,
	}
}

// withDefaults fills zero valued fields from DefaultSolverOptions and folds
// the method name to lower case
func (so SolverOptions) withDefaults() SolverOptions {
	def := DefaultSolverOptions()
	so.Method = Method(strings.ToLower(strings.TrimSpace(string(so.Method))))
	if so.Method == "" {
		so.Method = def.Method
	}
	if so.RelTol <= 0 {
		so.RelTol = def.RelTol
	}
	if so.AbsTol <= 0 {
		so.AbsTol = def.AbsTol
	}
	if so.MaxIter <= 0 {
		so.MaxIter = def.MaxIter
	}
	if so.Restart <= 0 {
		so.Restart = def.Restart
	}
	return so
}

// SolveStats reports the outcome of the last solve
type SolveStats struct {
	Method     Method
	Iterations int
	Residual   float64 // true relative residual |b - A x| / |b|
}

func (ss SolveStats) String() string {
	return fmt.Sprintf("%s: %d iterations, relative residual %.3e", ss.Method, ss.Iterations, ss.Residual)
}
