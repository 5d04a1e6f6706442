package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofea/utils"
)

// Solve returns x with A x = rhs using the method named in m.Options. The
// outcome of every attempt, converged or not, is recorded in m.LastSolve.
func (m *Matrix) Solve(rhs *Vector) (x *Vector, err error) {
	if err = m.ready(); err != nil {
		return
	}
	if m.rows != m.cols || rhs.Size() != m.rows {
		err = fmt.Errorf("solve %dx%d system with right hand side of size %d: %w",
			m.rows, m.cols, rhs.Size(), ErrDimension)
		return
	}
	opts := m.Options.withDefaults()
	var (
		b     = rhs.Data()
		xx    []float64
		iters int
	)
	switch opts.Method {
	case GMRES:
		xx, iters, err = gmres(m.csr.MulVec, m.jacobi(), b, opts)
	case CG:
		xx, iters, err = cg(m.csr.MulVec, m.jacobi(), b, opts)
	case LU:
		xx, err = luSolve(m.csr.ToDense(), b)
		iters = 1
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownMethod, opts.Method)
		return
	}
	m.LastSolve = SolveStats{Method: opts.Method, Iterations: iters}
	if xx != nil {
		x = NewVectorFromData(xx)
		m.LastSolve.Residual = m.relativeResidual(xx, b)
	}
	if err != nil {
		err = fmt.Errorf("%s: %w", m.LastSolve, err)
		return
	}
	utils.Debugf("linear solve %s", m.LastSolve)
	return
}

// jacobi returns the inverse diagonal. Zero diagonal entries are replaced by
// one, leaving those rows unpreconditioned.
func (m *Matrix) jacobi() (minv []float64) {
	minv = m.csr.Diagonal()
	var zeros int
	for i, d := range minv {
		if d == 0 {
			minv[i] = 1
			zeros++
			continue
		}
		minv[i] = 1 / d
	}
	if zeros > 0 {
		utils.Warnf("jacobi preconditioner: %d zero diagonal entries replaced by 1", zeros)
	}
	return
}

func (m *Matrix) relativeResidual(x, b []float64) float64 {
	r := make([]float64, len(b))
	m.csr.MulVec(x, r)
	floats.Sub(r, b)
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return floats.Norm(r, 2)
	}
	return floats.Norm(r, 2) / bnorm
}

type mulVec func(x, y []float64)

// gmres is restarted GMRES with left preconditioning by minv. Convergence is
// measured on the preconditioned residual, Arnoldi uses modified Gram-Schmidt
// and the Hessenberg least squares problem is reduced with Givens rotations.
func gmres(A mulVec, minv, b []float64, opts SolverOptions) (x []float64, iters int, err error) {
	var (
		n       = len(b)
		restart = opts.Restart
		r       = make([]float64, n)
		w       = make([]float64, n)
		V       = make([][]float64, restart+1)
		H       = make([][]float64, restart+1)
		cs      = make([]float64, restart)
		sn      = make([]float64, restart)
		g       = make([]float64, restart+1)
		y       = make([]float64, restart)
	)
	x = make([]float64, n)
	for i := range V {
		V[i] = make([]float64, n)
		H[i] = make([]float64, restart)
	}
	floats.MulTo(r, minv, b)
	tol := math.Max(opts.RelTol*floats.Norm(r, 2), opts.AbsTol)
	for {
		A(x, r)
		for i := range r {
			r[i] = (b[i] - r[i]) * minv[i]
		}
		beta := floats.Norm(r, 2)
		if beta <= tol {
			return
		}
		if iters >= opts.MaxIter {
			err = fmt.Errorf("preconditioned residual %.3e above %.3e: %w", beta, tol, ErrNotConverged)
			return
		}
		floats.ScaleTo(V[0], 1/beta, r)
		for i := range g {
			g[i] = 0
		}
		g[0] = beta
		var k int
		for k < restart && iters < opts.MaxIter {
			iters++
			A(V[k], w)
			floats.Mul(w, minv)
			for i := 0; i <= k; i++ {
				H[i][k] = floats.Dot(V[i], w)
				floats.AddScaled(w, -H[i][k], V[i])
			}
			hNext := floats.Norm(w, 2)
			if hNext != 0 {
				floats.ScaleTo(V[k+1], 1/hNext, w)
			}
			for i := 0; i < k; i++ {
				hi := cs[i]*H[i][k] + sn[i]*H[i+1][k]
				H[i+1][k] = -sn[i]*H[i][k] + cs[i]*H[i+1][k]
				H[i][k] = hi
			}
			cs[k], sn[k] = givens(H[k][k], hNext)
			H[k][k] = cs[k]*H[k][k] + sn[k]*hNext
			g[k+1] = -sn[k] * g[k]
			g[k] = cs[k] * g[k]
			k++
			if math.Abs(g[k]) <= tol || hNext == 0 {
				break
			}
		}
		// Back substitution on the triangularized Hessenberg system
		for i := k - 1; i >= 0; i-- {
			if H[i][i] == 0 {
				err = fmt.Errorf("gmres breakdown at iteration %d: %w", iters, ErrSingular)
				return
			}
			y[i] = g[i]
			for j := i + 1; j < k; j++ {
				y[i] -= H[i][j] * y[j]
			}
			y[i] /= H[i][i]
		}
		for j := 0; j < k; j++ {
			floats.AddScaled(x, y[j], V[j])
		}
	}
}

func givens(a, b float64) (c, s float64) {
	if b == 0 {
		return 1, 0
	}
	r := math.Hypot(a, b)
	return a / r, b / r
}

// cg is Jacobi preconditioned conjugate gradients, valid for symmetric
// positive definite systems only.
func cg(A mulVec, minv, b []float64, opts SolverOptions) (x []float64, iters int, err error) {
	var (
		n = len(b)
		r = make([]float64, n)
		z = make([]float64, n)
		p = make([]float64, n)
		q = make([]float64, n)
	)
	x = make([]float64, n)
	copy(r, b)
	floats.MulTo(z, minv, r)
	copy(p, z)
	rz := floats.Dot(r, z)
	tol := math.Max(opts.RelTol*floats.Norm(z, 2), opts.AbsTol)
	for {
		if zn := floats.Norm(z, 2); zn <= tol {
			return
		} else if iters >= opts.MaxIter {
			err = fmt.Errorf("preconditioned residual %.3e above %.3e: %w", zn, tol, ErrNotConverged)
			return
		}
		iters++
		A(p, q)
		pq := floats.Dot(p, q)
		if pq <= 0 {
			err = fmt.Errorf("matrix is not positive definite at iteration %d: %w", iters, ErrNotConverged)
			return
		}
		alpha := rz / pq
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, q)
		floats.MulTo(z, minv, r)
		rzNew := floats.Dot(r, z)
		floats.AddScaledTo(p, z, rzNew/rz, p)
		rz = rzNew
	}
}

func luSolve(A *mat.Dense, b []float64) (x []float64, err error) {
	var (
		lu mat.LU
		xv mat.VecDense
	)
	lu.Factorize(A)
	if err = lu.SolveVecTo(&xv, false, mat.NewVecDense(len(b), b)); err != nil {
		err = fmt.Errorf("%v: %w", err, ErrSingular)
		return
	}
	x = make([]float64, len(b))
	copy(x, xv.RawVector().Data)
	return
}
