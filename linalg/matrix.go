package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofea/utils"
)

// Matrix is the global sparse operator. Values are accumulated into a
// dictionary of keys; Assemble compresses them into CSR form and records the
// row and column sparsity pattern used by SetDirichletBC. Any insertion after
// Assemble requires another Assemble before the matrix can be constrained or
// solved.
type Matrix struct {
	rows, cols int
	dok        utils.DOK
	csr        utils.CSR
	rowCols    [][]int
	colRows    [][]int
	assembled  bool // pattern is current
	stale      bool // values changed since the last compression
	Options    SolverOptions
	LastSolve  SolveStats
}

func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Errorf("invalid matrix dimensions %dx%d", rows, cols))
	}
	return &Matrix{
		rows:    rows,
		cols:    cols,
		dok:     utils.NewDOK(rows, cols),
		Options: DefaultSolverOptions(),
	}
}

func (m *Matrix) Rows() int { return m.rows }

func (m *Matrix) Cols() int { return m.cols }

// Dims, At and T satisfy mat.Matrix
func (m *Matrix) Dims() (r, c int)    { return m.rows, m.cols }
func (m *Matrix) At(i, j int) float64 { return m.GetValue(i, j) }
func (m *Matrix) T() mat.Matrix       { return mat.Transpose{Matrix: m} }

// AddValue accumulates into entry (i, j)
func (m *Matrix) AddValue(i, j int, val float64) {
	m.checkIndex(i, j)
	m.dok.AddAt(i, j, val)
	m.assembled = false
}

// SetValue overwrites entry (i, j)
func (m *Matrix) SetValue(i, j int, val float64) {
	m.checkIndex(i, j)
	m.dok.Set(i, j, val)
	m.assembled = false
}

func (m *Matrix) GetValue(i, j int) float64 {
	m.checkIndex(i, j)
	return m.dok.At(i, j)
}

// Copy duplicates values and options. The copy must be assembled before use.
func (m *Matrix) Copy() *Matrix {
	return &Matrix{
		rows:    m.rows,
		cols:    m.cols,
		dok:     m.dok.Copy(),
		Options: m.Options,
	}
}

func (m *Matrix) IsAssembled() bool { return m.assembled }

// Assemble fixes the sparsity pattern and compresses the values
func (m *Matrix) Assemble() {
	m.csr = m.dok.ToCSR()
	m.rowCols, m.colRows = m.csr.Pattern()
	m.assembled = true
	m.stale = false
}

// NNZ is the number of stored entries
func (m *Matrix) NNZ() int { return m.dok.NNZ() }

// SetDirichletBC eliminates the degree of freedom dof using the value held at
// prescribed[dof]: the column times that value is moved to the right hand
// side, the row and column are zeroed, the diagonal is set to one and
// rhs[dof] takes the prescribed value. Other entries of prescribed are not
// read. Repeating the call for the same dof leaves the system unchanged.
func (m *Matrix) SetDirichletBC(dof int, prescribed, rhs *Vector) (err error) {
	if !m.assembled {
		return fmt.Errorf("dirichlet condition on dof %d: %w", dof, ErrNotAssembled)
	}
	if m.rows != m.cols {
		return fmt.Errorf("dirichlet condition on a %dx%d matrix: %w", m.rows, m.cols, ErrDimension)
	}
	if prescribed.Size() != m.rows || rhs.Size() != m.rows {
		return fmt.Errorf("dirichlet vectors of size %d, %d for a %d row matrix: %w",
			prescribed.Size(), rhs.Size(), m.rows, ErrDimension)
	}
	if dof < 0 || dof >= m.rows {
		panic(fmt.Errorf("dirichlet dof %d out of range [0,%d)", dof, m.rows))
	}
	value := prescribed.GetValue(dof)
	for _, i := range m.colRows[dof] {
		if i == dof {
			continue
		}
		if a := m.dok.At(i, dof); a != 0 {
			rhs.AddValue(i, -a*value)
			m.dok.Set(i, dof, 0)
		}
	}
	for _, j := range m.rowCols[dof] {
		if j != dof {
			m.dok.Set(dof, j, 0)
		}
	}
	if !containsInt(m.rowCols[dof], dof) {
		m.rowCols[dof] = append(m.rowCols[dof], dof)
		m.colRows[dof] = append(m.colRows[dof], dof)
	}
	m.dok.Set(dof, dof, 1)
	rhs.SetValue(dof, value)
	m.stale = true
	return
}

// MulVec computes y = A x with the compressed form
func (m *Matrix) MulVec(x *Vector) (y *Vector, err error) {
	if err = m.ready(); err != nil {
		return
	}
	if x.Size() != m.cols {
		err = fmt.Errorf("multiply %dx%d by vector of size %d: %w", m.rows, m.cols, x.Size(), ErrDimension)
		return
	}
	y = NewVector(m.rows)
	m.csr.MulVec(x.Data(), y.Data())
	return
}

// ToDense copies the matrix into a gonum dense matrix
func (m *Matrix) ToDense() *mat.Dense {
	R := mat.NewDense(m.rows, m.cols, nil)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if v := m.dok.At(i, j); v != 0 {
				R.Set(i, j, v)
			}
		}
	}
	return R
}

// IsSymmetric compares the stored pattern entries against their transposes
func (m *Matrix) IsSymmetric(tol float64) bool {
	if m.rows != m.cols {
		return false
	}
	if !m.assembled {
		m.Assemble()
	}
	for i, cols := range m.rowCols {
		for _, j := range cols {
			if math.Abs(m.dok.At(i, j)-m.dok.At(j, i)) > tol {
				return false
			}
		}
	}
	return true
}

// ready recompresses after Dirichlet elimination changed values in place
func (m *Matrix) ready() error {
	if !m.assembled {
		return ErrNotAssembled
	}
	if m.stale {
		m.csr = m.dok.ToCSR()
		m.stale = false
	}
	return nil
}

func (m *Matrix) checkIndex(i, j int) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Errorf("matrix index (%d,%d) out of range for %dx%d matrix", i, j, m.rows, m.cols))
	}
}

func containsInt(list []int, val int) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}
