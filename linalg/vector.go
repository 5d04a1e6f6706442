package linalg

import (
	"fmt"

	"github.com/notargets/gofea/utils"
)

// Vector is a dense global vector with the same add/set/assemble protocol as
// Matrix, so that forcing terms can be accumulated element by element.
type Vector struct {
	v utils.Vector
}

func NewVector(size int) *Vector {
	return &Vector{v: utils.NewVector(size)}
}

// NewVectorFromData wraps data without copying
func NewVectorFromData(data []float64) *Vector {
	return &Vector{v: utils.NewVector(len(data), data)}
}

func (vec *Vector) Size() int { return vec.v.Len() }

func (vec *Vector) AddValue(i int, val float64) {
	vec.checkIndex(i)
	vec.v.AddAt(i, val)
}

func (vec *Vector) SetValue(i int, val float64) {
	vec.checkIndex(i)
	vec.v.Set(i, val)
}

func (vec *Vector) GetValue(i int) float64 {
	vec.checkIndex(i)
	return vec.v.AtVec(i)
}

// Assemble finalizes pending insertions. Dense storage has none, it exists to
// keep the backend protocol uniform.
func (vec *Vector) Assemble() {}

// Data exposes the underlying storage
func (vec *Vector) Data() []float64 { return vec.v.Data() }

func (vec *Vector) Norm() float64 { return vec.v.Norm() }

func (vec *Vector) Copy() *Vector { return &Vector{v: vec.v.Copy()} }

func (vec *Vector) checkIndex(i int) {
	if i < 0 || i >= vec.v.Len() {
		panic(fmt.Errorf("vector index %d out of range [0,%d)", i, vec.v.Len()))
	}
}
