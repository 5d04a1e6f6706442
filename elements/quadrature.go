package elements

import "math"

// QuadratureRule holds Gauss points in barycentric parent coordinates. The
// weights of every rule sum to one, the element measure is applied by
// Integrate.
type QuadratureRule struct {
	Points  []ParentCoord
	Weights []float64
}

func (qr QuadratureRule) NumPoints() int { return len(qr.Weights) }

var (
	// Midpoint
	lineRule1 = QuadratureRule{
		Points:  []ParentCoord{{0.5, 0.5}},
		Weights: []float64{1},
	}
	// Two point Gauss-Legendre, s = +/- 1/sqrt(3) on [-1,1] mapped to xi = (1+s)/2
	lineRule2 = func() QuadratureRule {
		var (
			s   = 1. / math.Sqrt(3.)
			xi1 = 0.5 * (1 - s)
			xi2 = 0.5 * (1 + s)
		)
		return QuadratureRule{
			Points:  []ParentCoord{{1 - xi1, xi1}, {1 - xi2, xi2}},
			Weights: []float64{0.5, 0.5},
		}
	}()
	// Centroid
	triangleRule1 = QuadratureRule{
		Points:  []ParentCoord{{1. / 3., 1. / 3., 1. / 3.}},
		Weights: []float64{1},
	}
	// Three interior points, degree 2
	triangleRule2 = QuadratureRule{
		Points: []ParentCoord{
			{1. / 6., 2. / 3., 1. / 6.},
			{1. / 6., 1. / 6., 2. / 3.},
			{2. / 3., 1. / 6., 1. / 6.},
		},
		Weights: []float64{1. / 3., 1. / 3., 1. / 3.},
	}
	// Centroid
	tetrahedronRule1 = QuadratureRule{
		Points:  []ParentCoord{{0.25, 0.25, 0.25, 0.25}},
		Weights: []float64{1},
	}
	// Four points, degree 2
	tetrahedronRule2 = func() QuadratureRule {
		var (
			a = (5. + 3.*math.Sqrt(5.)) / 20.
			b = (5. - math.Sqrt(5.)) / 20.
		)
		return QuadratureRule{
			Points: []ParentCoord{
				{a, b, b, b},
				{b, a, b, b},
				{b, b, a, b},
				{b, b, b, a},
			},
			Weights: []float64{0.25, 0.25, 0.25, 0.25},
		}
	}()
)

// GetQuadratureRule returns the fixed rule used by elements of kind k
func GetQuadratureRule(k Kind) QuadratureRule {
	return k.ops().rule
}
