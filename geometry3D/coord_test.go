package geometry3D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewCoordIsNaN(t *testing.T) {
	c := NewCoord()
	assert.True(t, math.IsNaN(c.X))
	assert.True(t, math.IsNaN(c.Y))
	assert.True(t, math.IsNaN(c.Z))
	assert.False(t, c.IsValid())
	assert.True(t, NewCoordXYZ(1, 2, 3).IsValid())
	// Zero value is the origin and valid
	assert.True(t, Coord{}.IsValid())
}

func TestCoordAlgebra(t *testing.T) {
	a := NewCoordXYZ(1, 0, 0)
	b := NewCoordXYZ(0, 1, 0)
	assert.Equal(t, NewCoordXYZ(0, 0, 1), a.Cross(b))
	assert.Equal(t, 0., a.Dot(b))
	assert.InDelta(t, math.Sqrt(2), a.Distance(b), 1.e-14)
	assert.Equal(t, NewCoordXYZ(1, 1, 0), a.Add(b))
	assert.Equal(t, NewCoordXYZ(2, 0, 0), a.Scale(2))
	for dim := 0; dim < 3; dim++ {
		c := Coord{}.Set(dim, float64(dim+1))
		assert.Equal(t, float64(dim+1), c.At(dim))
	}
	assert.Equal(t, r3.Vec{X: 1, Y: 0, Z: 0}, a.Vec())
	assert.Equal(t, NewCoordXYZ(1, -1, 0), a.Sub(b))
	assert.Equal(t, NewCoordXYZ(3, 4, 0), Coord(r3.Vec{X: 3, Y: 4}))
	assert.Equal(t, 5., NewCoordXYZ(3, 4, 0).Norm())
	assert.Panics(t, func() { a.At(3) })
	assert.Panics(t, func() { a.Set(-1, 0) })
}

func TestSimplexMeasures(t *testing.T) {
	var (
		o = NewCoordXYZ(0, 0, 0)
		x = NewCoordXYZ(1, 0, 0)
		y = NewCoordXYZ(0, 1, 0)
		z = NewCoordXYZ(0, 0, 1)
	)
	assert.InDelta(t, 0.5, TriangleArea(o, x, y), 1.e-15)
	// Tilted triangle in 3D
	assert.InDelta(t, math.Sqrt(3)/2, TriangleArea(x, y, z), 1.e-15)
	assert.InDelta(t, 1./6., TetrahedronSignedVolume(o, x, y, z), 1.e-15)
	assert.InDelta(t, -1./6., TetrahedronSignedVolume(o, y, x, z), 1.e-15)
	assert.InDelta(t, 1./6., TetrahedronVolume(o, y, x, z), 1.e-15)
	cent := Centroid(o, x, y, z)
	assert.InDelta(t, 0.25, cent.X, 1.e-15)
	assert.InDelta(t, 0.25, cent.Z, 1.e-15)
	assert.False(t, Centroid().IsValid())
	assert.Equal(t, NewCoordXYZ(0.5, 0.5, 0), Lerp(x, y, 0.5))
}
