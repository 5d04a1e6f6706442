package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// DOK is a dictionary of keys sparse matrix, cheap to insert into and used
// for accumulation before compression to CSR
type DOK struct {
	M        *sparse.DOK
	readOnly bool
	name     string
}

func NewDOK(nr, nc int) (R DOK) {
	R = DOK{
		sparse.NewDOK(nr, nc),
		false,
		"unnamed - hint: pass a variable name to SetReadOnly()",
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m DOK) Dims() (r, c int)    { return m.M.Dims() }
func (m DOK) At(i, j int) float64 { return m.M.At(i, j) }
func (m DOK) T() mat.Matrix       { return m.M.T() }

func (m *DOK) SetReadOnly(name ...string) DOK {
	if len(name) != 0 {
		m.name = name[0]
	}
	m.readOnly = true
	return *m
}

func (m DOK) Set(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, val)
	return m
}

func (m DOK) AddAt(i, j int, val float64) DOK { // Changes receiver
	m.checkWritable()
	m.M.Set(i, j, m.M.At(i, j)+val)
	return m
}

func (m DOK) NNZ() int { return m.M.NNZ() }

// Copy returns a writable deep copy
func (m DOK) Copy() (R DOK) {
	nr, nc := m.Dims()
	R = NewDOK(nr, nc)
	m.M.DoNonZero(func(i, j int, v float64) {
		R.M.Set(i, j, v)
	})
	return
}

func (m DOK) checkWritable() {
	if m.readOnly {
		err := fmt.Errorf("attempt to write to a read only matrix named: \"%v\"", m.name)
		panic(err)
	}
}

func (m DOK) ToCSR() CSR {
	return CSR{
		M:        m.M.ToCSR(),
		readOnly: m.readOnly,
		name:     m.name,
	}
}

// CSR is a compressed sparse row matrix, used for matrix-vector products once
// the sparsity pattern is fixed
type CSR struct {
	M        *sparse.CSR
	readOnly bool
	name     string
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Data() []float64 {
	return m.RawMatrix().Data
}

func (m CSR) NNZ() int { return len(m.RawMatrix().Data) }

// MulVec computes y = A x, overwriting y
func (m CSR) MulVec(x, y []float64) {
	nr, nc := m.Dims()
	if len(x) != nc || len(y) != nr {
		panic(fmt.Errorf("dimension mismatch in MulVec: %dx%d matrix, len(x) = %d, len(y) = %d",
			nr, nc, len(x), len(y)))
	}
	for i := range y {
		y[i] = 0
	}
	m.M.MulVecTo(y, false, x)
}

// Pattern returns, for every row and every column, the indices of the
// opposite dimension holding stored entries
func (m CSR) Pattern() (rowCols, colRows [][]int) {
	var (
		raw = m.RawMatrix()
	)
	rowCols = make([][]int, raw.I)
	colRows = make([][]int, raw.J)
	for i := 0; i < raw.I; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			j := raw.Ind[p]
			rowCols[i] = append(rowCols[i], j)
			colRows[j] = append(colRows[j], i)
		}
	}
	return
}

// Diagonal extracts the stored diagonal, zero where absent
func (m CSR) Diagonal() (diag []float64) {
	var (
		raw = m.RawMatrix()
	)
	diag = make([]float64, raw.I)
	for i := 0; i < raw.I; i++ {
		for p := raw.Indptr[i]; p < raw.Indptr[i+1]; p++ {
			if raw.Ind[p] == i {
				diag[i] += raw.Data[p]
			}
		}
	}
	return
}

func (m CSR) ToDense() *mat.Dense { return m.M.ToDense() }
