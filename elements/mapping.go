package elements

import (
	"github.com/notargets/gofea/geometry3D"
)

// ParentCoord holds the barycentric coordinates of a point. Only the first
// dim+1 entries are used; entry 0 is 1 minus the sum of the parametric
// coordinates xi_k = lam[k+1].
type ParentCoord [4]float64

// Xi returns the parametric coordinates for an element of dimension dim
func (pc ParentCoord) Xi(dim int) []float64 {
	xi := make([]float64, dim)
	copy(xi, pc[1:dim+1])
	return xi
}

// ParentFromXi builds barycentric coordinates from parametric ones
func ParentFromXi(xi ...float64) (pc ParentCoord) {
	pc[0] = 1
	for k, x := range xi {
		pc[k+1] = x
		pc[0] -= x
	}
	return
}

// PhysicalToParentCoords inverts the affine corner map in closed form using
// ratios of sub-simplex measures. Points off the element's line or plane are
// projected onto it.
func (el *Element) PhysicalToParentCoords(point geometry3D.Coord) ParentCoord {
	v := el.vertices()
	return el.kind.ops().toParent(&v, point)
}

// ParentToPhysicalCoords evaluates the affine map from the corner nodes
func (el *Element) ParentToPhysicalCoords(pc ParentCoord) (point geometry3D.Coord) {
	v := el.vertices()
	for a := 0; a < el.kind.GetNumVertices(); a++ {
		point = point.Add(v[a].Scale(pc[a]))
	}
	return
}

// Fraction of arc length from corner 0
func lineToParent(v *vertexSet, p geometry3D.Coord) (lam ParentCoord) {
	t := v[1].Sub(v[0])
	xi := p.Sub(v[0]).Dot(t) / t.Dot(t)
	lam[0], lam[1] = 1-xi, xi
	return
}

// Signed sub-triangle areas over the total area, measured along the normal
func triangleToParent(v *vertexSet, p geometry3D.Coord) (lam ParentCoord) {
	var (
		e1 = v[1].Sub(v[0])
		e2 = v[2].Sub(v[0])
		n  = e1.Cross(e2)
		nn = n.Dot(n)
		d  = p.Sub(v[0])
	)
	lam[1] = d.Cross(e2).Dot(n) / nn
	lam[2] = e1.Cross(d).Dot(n) / nn
	lam[0] = 1 - lam[1] - lam[2]
	return
}

// Signed sub-tetrahedron volumes over the total volume
func tetrahedronToParent(v *vertexSet, p geometry3D.Coord) (lam ParentCoord) {
	vol := geometry3D.TetrahedronSignedVolume(v[0], v[1], v[2], v[3])
	lam[1] = geometry3D.TetrahedronSignedVolume(v[0], p, v[2], v[3]) / vol
	lam[2] = geometry3D.TetrahedronSignedVolume(v[0], v[1], p, v[3]) / vol
	lam[3] = geometry3D.TetrahedronSignedVolume(v[0], v[1], v[2], p) / vol
	lam[0] = 1 - lam[1] - lam[2] - lam[3]
	return
}
