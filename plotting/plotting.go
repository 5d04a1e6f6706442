package plotting

import (
	"fmt"
	"math"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"

	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// Linear sub triangles of a quadratic triangle, by local node
var quadraticSplit = [4][3]int{{0, 3, 5}, {3, 1, 4}, {5, 4, 2}, {3, 4, 5}}

// TriMesh projects the triangles of m onto the xy plane. Quadratic triangles
// are drawn as four linear ones through their midside nodes.
func TriMesh(m *mesh.Mesh) (gm geometry.TriMesh, err error) {
	if m.GetNumElements(2) == 0 {
		err = fmt.Errorf("mesh has no triangles to plot")
		return
	}
	gm.XY = make([]float32, 2*m.GetNumNodes())
	for i, pos := range m.Nodes {
		gm.XY[2*i], gm.XY[2*i+1] = float32(pos.X), float32(pos.Y)
	}
	for _, el := range m.Elements[2] {
		ind := el.NodeIndices()
		switch el.Kind() {
		case elements.TriangleOrder2:
			for _, tri := range quadraticSplit {
				gm.TriVerts = append(gm.TriVerts,
					[3]int64{int64(ind[tri[0]]), int64(ind[tri[1]]), int64(ind[tri[2]])})
			}
		default:
			gm.TriVerts = append(gm.TriVerts, [3]int64{int64(ind[0]), int64(ind[1]), int64(ind[2])})
		}
	}
	return
}

func getMinMax(XY []float32) (xMin, xMax, yMin, yMax float32) {
	xMin, yMin = float32(math.MaxFloat32), float32(math.MaxFloat32)
	xMax, yMax = -xMin, -yMin
	for i := 0; i < len(XY)/2; i++ {
		x, y := XY[2*i], XY[2*i+1]
		xMin, xMax = min(xMin, x), max(xMax, x)
		yMin, yMax = min(yMin, y), max(yMax, y)
	}
	return
}

// FieldRange returns the extrema of field, widened when the field is constant
// so a color map can be built from it
func FieldRange(field []float64) (fMin, fMax float64) {
	for i, f := range field {
		if i == 0 {
			fMin, fMax = f, f
		}
		fMin, fMax = math.Min(fMin, f), math.Max(fMax, f)
	}
	if fMin == fMax {
		fMin, fMax = fMin-0.5, fMax+0.5
	}
	return
}

// PlotScalarField opens a window shading the nodal scalar field name over
// the triangles of m, with the mesh edges drawn on top. It returns once the
// window is drawn; the window lives until the process exits, so callers that
// want it on screen must keep the process running.
func PlotScalarField(m *mesh.Mesh, name string) (err error) {
	field, ok := m.ScalarField(name)
	if !ok {
		return fmt.Errorf("no scalar field %q to plot", name)
	}
	gm, err := TriMesh(m)
	if err != nil {
		return
	}
	var (
		xMin, xMax, yMin, yMax = getMinMax(gm.XY)
		fMin, fMax             = FieldRange(field)
		pField                 = make([]float32, len(field))
	)
	for i, f := range field {
		pField[i] = float32(f)
	}
	utils.Infof("plotting %s: min, max = %8.5f, %8.5f", name, fMin, fMax)
	ch := chart2d.NewChart2D(xMin, xMax, yMin, yMax,
		1024, 1024, utils2.WHITE, utils2.BLACK)
	vs := geometry.VertexScalar{
		TMesh:       &gm,
		FieldValues: pField,
	}
	ch.AddShadedVertexScalar(&vs, float32(fMin), float32(fMax))
	ch.AddTriMesh(gm)
	return
}
