package geometry3D

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Coord is a point or direction in physical space. The zero value is the
// origin; NewCoord returns a NaN-filled Coord so that an unset position is
// caught as soon as it reaches arithmetic.
type Coord r3.Vec

func NewCoord() Coord {
	nan := math.NaN()
	return Coord{X: nan, Y: nan, Z: nan}
}

func NewCoordXYZ(x, y, z float64) Coord {
	return Coord{X: x, Y: y, Z: z}
}

func (c Coord) IsValid() bool {
	return !(math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsNaN(c.Z))
}

// At returns the component along axis dim (0, 1 or 2)
func (c Coord) At(dim int) float64 {
	switch dim {
	case 0:
		return c.X
	case 1:
		return c.Y
	case 2:
		return c.Z
	default:
		panic(fmt.Errorf("coordinate dimension %d out of range [0,3)", dim))
	}
}

// Set returns a copy of c with axis dim replaced by val
func (c Coord) Set(dim int, val float64) Coord {
	switch dim {
	case 0:
		c.X = val
	case 1:
		c.Y = val
	case 2:
		c.Z = val
	default:
		panic(fmt.Errorf("coordinate dimension %d out of range [0,3)", dim))
	}
	return c
}

func (c Coord) Array() [3]float64 { return [3]float64{c.X, c.Y, c.Z} }

func (c Coord) Vec() r3.Vec { return r3.Vec(c) }

func (c Coord) Add(b Coord) Coord { return Coord(r3.Add(c.Vec(), b.Vec())) }

func (c Coord) Sub(b Coord) Coord { return Coord(r3.Sub(c.Vec(), b.Vec())) }

func (c Coord) Scale(s float64) Coord { return Coord(r3.Scale(s, c.Vec())) }

func (c Coord) Dot(b Coord) float64 { return r3.Dot(c.Vec(), b.Vec()) }

func (c Coord) Cross(b Coord) Coord { return Coord(r3.Cross(c.Vec(), b.Vec())) }

func (c Coord) Norm() float64 { return r3.Norm(c.Vec()) }

func (c Coord) Distance(b Coord) float64 { return r3.Norm(r3.Sub(c.Vec(), b.Vec())) }

func (c Coord) String() string {
	return fmt.Sprintf("(%g, %g, %g)", c.X, c.Y, c.Z)
}
