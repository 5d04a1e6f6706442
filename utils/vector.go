package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) Vector {
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			panic(fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v", n, len(dataO[0])))
		}
		return Vector{mat.NewVecDense(n, dataO[0])}
	}
	return Vector{mat.NewVecDense(n, make([]float64, n))}
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }
func (v Vector) Data() []float64          { return v.V.RawVector().Data }

// Chainable (extended) methods
func (v Vector) Set(i int, val float64) Vector { v.V.SetVec(i, val); return v }

func (v Vector) AddAt(i int, val float64) Vector {
	v.V.SetVec(i, v.V.AtVec(i)+val)
	return v
}

func (v Vector) Sub(a Vector) Vector { v.V.SubVec(v.V, a.V); return v }

func (v Vector) AddVec(a Vector) Vector { v.V.AddVec(v.V, a.V); return v }

func (v Vector) Scale(a float64) Vector { v.V.ScaleVec(a, v.V); return v }

func (v Vector) Zero() Vector { v.V.Zero(); return v }

func (v Vector) Copy() Vector {
	R := NewVector(v.Len())
	R.V.CopyVec(v.V)
	return R
}

func (v Vector) Dot(a Vector) float64 { return floats.Dot(v.Data(), a.Data()) }

func (v Vector) Norm() float64 { return floats.Norm(v.Data(), 2) }

func (v Vector) Min() float64 { return floats.Min(v.Data()) }

func (v Vector) Max() float64 { return floats.Max(v.Data()) }
