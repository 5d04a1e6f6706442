package linalg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tridiagonal returns the 1D Laplacian with unit end rows
func tridiagonal(n int) (K *Matrix, F *Vector) {
	K = NewMatrix(n, n)
	F = NewVector(n)
	K.AddValue(0, 0, 1)
	K.AddValue(n-1, n-1, 1)
	for i := 1; i < n-1; i++ {
		K.AddValue(i, i-1, -1)
		K.AddValue(i, i, 2)
		K.AddValue(i, i+1, -1)
	}
	for i := 0; i < n; i++ {
		F.SetValue(i, 1)
	}
	K.Assemble()
	F.Assemble()
	return
}

func TestVectorAccess(t *testing.T) {
	v := NewVector(3)
	v.AddValue(1, 2)
	v.AddValue(1, 3)
	v.SetValue(2, -1)
	assert.Equal(t, []float64{0, 5, -1}, v.Data())
	assert.Equal(t, 3, v.Size())
	c := v.Copy()
	c.SetValue(0, 7)
	assert.Equal(t, 0., v.GetValue(0))
	assert.Panics(t, func() { v.GetValue(3) })
	assert.Panics(t, func() { v.AddValue(-1, 0) })
}

func TestMatrixAccumulate(t *testing.T) {
	K := NewMatrix(2, 3)
	K.AddValue(0, 1, 1.5)
	K.AddValue(0, 1, 1.5)
	K.SetValue(1, 2, 4)
	assert.Equal(t, 3., K.GetValue(0, 1))
	assert.Equal(t, 4., K.At(1, 2))
	assert.Equal(t, 0., K.GetValue(1, 0))
	r, c := K.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.False(t, K.IsAssembled())
	K.Assemble()
	assert.True(t, K.IsAssembled())
	assert.Equal(t, 2, K.NNZ())
	K.AddValue(1, 1, 1)
	assert.False(t, K.IsAssembled())

	assert.Panics(t, func() { K.AddValue(2, 0, 1) })
	assert.Panics(t, func() { NewMatrix(0, 2) })
}

func TestMatrixMulVec(t *testing.T) {
	K, _ := tridiagonal(4)
	y, err := K.MulVec(NewVectorFromData([]float64{1, 1, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 1}, y.Data())
	_, err = K.MulVec(NewVector(3))
	assert.True(t, errors.Is(err, ErrDimension))
}

func TestMatrixSymmetry(t *testing.T) {
	K, _ := tridiagonal(5)
	assert.False(t, K.IsSymmetric(1.e-12))
	S := NewMatrix(3, 3)
	S.AddValue(0, 1, 2)
	S.AddValue(1, 0, 2)
	S.AddValue(2, 2, 1)
	assert.True(t, S.IsSymmetric(1.e-12))
	S.AddValue(1, 0, 1.e-3)
	assert.False(t, S.IsSymmetric(1.e-6))
}

func TestDirichletRequiresAssembly(t *testing.T) {
	K := NewMatrix(3, 3)
	K.AddValue(0, 0, 1)
	u, F := NewVector(3), NewVector(3)
	err := K.SetDirichletBC(0, u, F)
	assert.True(t, errors.Is(err, ErrNotAssembled))
	_, err = K.Solve(F)
	assert.True(t, errors.Is(err, ErrNotAssembled))

	K.Assemble()
	assert.NoError(t, K.SetDirichletBC(0, u, F))
	assert.True(t, errors.Is(K.SetDirichletBC(0, NewVector(2), F), ErrDimension))
	assert.Panics(t, func() { _ = K.SetDirichletBC(3, u, F) })
}

func TestDirichletElimination(t *testing.T) {
	K := NewMatrix(3, 3)
	vals := [3][3]float64{{2, -1, 0}, {-1, 2, -1}, {0, -1, 2}}
	for i := range vals {
		for j, v := range vals[i] {
			if v != 0 {
				K.AddValue(i, j, v)
			}
		}
	}
	K.Assemble()
	F := NewVectorFromData([]float64{1, 1, 1})
	u := NewVectorFromData([]float64{0, 0, 5})
	require.NoError(t, K.SetDirichletBC(2, u, F))

	assert.Equal(t, 1., K.GetValue(2, 2))
	assert.Equal(t, 0., K.GetValue(1, 2))
	assert.Equal(t, 0., K.GetValue(2, 1))
	assert.Equal(t, []float64{1, 6, 5}, F.Data())

	// Applying the same condition again changes nothing
	require.NoError(t, K.SetDirichletBC(2, u, F))
	assert.Equal(t, []float64{1, 6, 5}, F.Data())
	assert.Equal(t, 1., K.GetValue(2, 2))
	assert.True(t, K.IsSymmetric(0))

	x, err := K.Solve(F)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{8. / 3., 13. / 3., 5}, x.Data(), 1.e-8)
}

func TestDirichletMissingDiagonal(t *testing.T) {
	K := NewMatrix(2, 2)
	K.AddValue(0, 1, 1)
	K.AddValue(1, 0, 1)
	K.AddValue(1, 1, 1)
	K.Assemble()
	F := NewVectorFromData([]float64{0, 3})
	u := NewVectorFromData([]float64{2, 0})
	require.NoError(t, K.SetDirichletBC(0, u, F))
	assert.Equal(t, 1., K.GetValue(0, 0))
	assert.Equal(t, []float64{2, 1}, F.Data())
	x, err := K.Solve(F)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 1}, x.Data(), 1.e-10)
}
