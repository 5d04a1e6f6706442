package elements

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofea/geometry3D"
)

// QuadratureRule returns the element's fixed Gauss rule
func (el *Element) QuadratureRule() QuadratureRule { return el.kind.ops().rule }

// QuadraturePoints returns the Gauss points mapped to physical space along
// with their weights scaled by the element measure
func (el *Element) QuadraturePoints() (points []geometry3D.Coord, weights []float64) {
	rule := el.QuadratureRule()
	points = make([]geometry3D.Coord, rule.NumPoints())
	weights = make([]float64, rule.NumPoints())
	for q, pc := range rule.Points {
		points[q] = el.ParentToPhysicalCoords(pc)
		weights[q] = rule.Weights[q] * el.measure
	}
	return
}

// Integrate applies the element's Gauss rule to a scalar integrand given in
// physical coordinates
func (el *Element) Integrate(integrand func(pos geometry3D.Coord) float64) (result float64) {
	points, weights := el.QuadraturePoints()
	for q, pos := range points {
		result += weights[q] * integrand(pos)
	}
	return
}

// IntegrateMatrix applies the element's Gauss rule to a rows x cols matrix
// valued integrand. It panics if the integrand returns another shape.
func (el *Element) IntegrateMatrix(integrand func(pos geometry3D.Coord) *mat.Dense,
	rows, cols int) (R *mat.Dense) {
	points, weights := el.QuadraturePoints()
	R = mat.NewDense(rows, cols, nil)
	for q, pos := range points {
		val := integrand(pos)
		if nr, nc := val.Dims(); nr != rows || nc != cols {
			panic(fmt.Errorf("integrand returned %dx%d, expected %dx%d", nr, nc, rows, cols))
		}
		R.Apply(func(i, j int, v float64) float64 {
			return v + weights[q]*val.At(i, j)
		}, R)
	}
	return
}
