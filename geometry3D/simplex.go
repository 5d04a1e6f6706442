package geometry3D

import "math"

// TriangleArea is the unsigned area of triangle abc, valid for triangles
// embedded anywhere in 3D.
func TriangleArea(a, b, c Coord) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Norm()
}

// TetrahedronSignedVolume is positive when d lies on the side of the plane abc
// that the right-hand normal (b-a)x(c-a) points to.
func TetrahedronSignedVolume(a, b, c, d Coord) float64 {
	return b.Sub(a).Cross(c.Sub(a)).Dot(d.Sub(a)) / 6.
}

func TetrahedronVolume(a, b, c, d Coord) float64 {
	return math.Abs(TetrahedronSignedVolume(a, b, c, d))
}

// Centroid averages the given points
func Centroid(points ...Coord) (cent Coord) {
	if len(points) == 0 {
		return NewCoord()
	}
	for _, p := range points {
		cent = cent.Add(p)
	}
	cent = cent.Scale(1. / float64(len(points)))
	return
}

// Lerp returns a + t*(b-a)
func Lerp(a, b Coord, t float64) Coord {
	return a.Add(b.Sub(a).Scale(t))
}
