package elements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindProperties(t *testing.T) {
	type props struct {
		nodes, dim, order, vtk, gmsh int
	}
	expected := map[Kind]props{
		Line:              {2, 1, 1, 3, 1},
		LineOrder2:        {3, 1, 2, 21, 8},
		Triangle:          {3, 2, 1, 5, 2},
		TriangleOrder2:    {6, 2, 2, 22, 9},
		Tetrahedron:       {4, 3, 1, 10, 4},
		TetrahedronOrder2: {10, 3, 2, 24, 11},
	}
	for kind, p := range expected {
		assert.Equal(t, p.nodes, kind.GetNumNodes(), kind.String())
		assert.Equal(t, p.dim, kind.GetDimension(), kind.String())
		assert.Equal(t, p.order, kind.Order(), kind.String())
		assert.Equal(t, p.vtk, kind.VTKCellType(), kind.String())
		assert.Equal(t, p.gmsh, kind.GmshType(), kind.String())
		assert.Equal(t, p.dim+1, len(kind.GetCornerNodes()))
		assert.Equal(t, p.nodes, kind.GetNumVertices()+len(kind.GetEdgeNodes()))
		k, err := KindFromGmshType(p.gmsh)
		assert.NoError(t, err)
		assert.Equal(t, kind, k)
		assert.Equal(t, p.dim, kind.LinearKind().GetDimension())
		assert.Equal(t, 1, kind.LinearKind().Order())
	}
	_, err := KindFromGmshType(3) // quadrangle
	assert.Error(t, err)
	assert.Equal(t, "Invalid", Kind(99).String())
	assert.False(t, Kind(99).IsValid())
	assert.Panics(t, func() { Kind(99).GetNumNodes() })
}

func TestGetElementFaces(t *testing.T) {
	faces := GetElementFaces(TetrahedronOrder2, []int{10, 11, 12, 13, 20, 21, 22, 23, 24, 25})
	assert.Len(t, faces, 4)
	for _, f := range faces {
		assert.Len(t, f, 3)
	}
	assert.Equal(t, []int{11, 12, 13}, faces[3])
	assert.Len(t, GetElementFaces(Triangle, []int{0, 1, 2}), 3)
	assert.Equal(t, [][]int{{4}, {5}}, GetElementFaces(Line, []int{4, 5}))
}
