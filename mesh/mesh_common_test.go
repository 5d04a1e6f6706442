package mesh

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConnectivity(t *testing.T) {
	m, err := ReadGmshFrom(strings.NewReader(squareGmsh22))
	require.NoError(t, err)
	conn := m.BuildConnectivity(2)
	// Triangles (0,1,2) and (0,2,3) share edge (0,2)
	assert.Equal(t, []int{-1, -1, 1}, conn.EToE[0])
	assert.Equal(t, []int{0, -1, -1}, conn.EToE[1])
	assert.Len(t, conn.Faces, 5)
	assert.Equal(t, conn.EToF[0][2], conn.EToF[1][0])
	assert.Equal(t, []int{0, 2}, conn.Faces[conn.EToF[1][0]].Vertices)
	assert.Len(t, conn.BoundaryFaces(), 4)

	nodeEls := m.NodeElements(2)
	assert.Equal(t, []int{0, 1}, nodeEls[0])
	assert.Equal(t, []int{0}, nodeEls[1])
	assert.Equal(t, []int{1}, nodeEls[3])
}

func TestFields(t *testing.T) {
	m, err := ReadGmshFrom(strings.NewReader(squareGmsh22))
	require.NoError(t, err)
	m.ScalarFieldSetValue("temperature", 1, 3.5)
	m.VectorFieldSetValue("displacement", 2, [3]float64{1, 2, 3})
	m.TensorFieldSetValue("stress", 3, [6]float64{1, 2, 3, 4, 5, 6})
	f, ok := m.ScalarField("temperature")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 3.5, 0, 0}, f)
	v, ok := m.VectorField("displacement")
	require.True(t, ok)
	assert.Equal(t, [3]float64{1, 2, 3}, v[2])
	ts, ok := m.TensorField("stress")
	require.True(t, ok)
	assert.Equal(t, 6., ts[3][5])
	_, ok = m.ScalarField("pressure")
	assert.False(t, ok)
	s, vs, tn := m.FieldNames()
	assert.Equal(t, []string{"temperature"}, s)
	assert.Equal(t, []string{"displacement"}, vs)
	assert.Equal(t, []string{"stress"}, tn)
	assert.Panics(t, func() { m.ScalarFieldSetValue("temperature", 4, 0) })
	// Adding an existing field returns the stored values
	assert.Equal(t, 3.5, m.AddScalarField("temperature")[1])
}

func TestWriteVTK(t *testing.T) {
	m, err := ReadGmshFrom(strings.NewReader(squareGmsh22))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, m.WriteVTK(&buf))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# vtk DataFile Version 2.0\n"))
	assert.Contains(t, out, "DATASET UNSTRUCTURED_GRID\n")
	assert.Contains(t, out, "POINTS 4 double\n0 0 0\n1 0 0\n1 1 0\n0 1 0\n")
	assert.Contains(t, out, "CELLS 4 14\n2 1 2\n2 3 0\n3 0 1 2\n3 0 2 3\n")
	assert.Contains(t, out, "CELL_TYPES 4\n3\n3\n5\n5\n")
	assert.NotContains(t, out, "POINT_DATA")

	m.ScalarFieldSetValue("temperature", 0, 0.1)
	m.VectorFieldSetValue("displacement", 0, [3]float64{1, 2, 3})
	m.TensorFieldSetValue("stress", 0, [6]float64{1, 2, 3, 4, 5, 6})
	buf.Reset()
	require.NoError(t, m.WriteVTK(&buf))
	out = buf.String()
	assert.Contains(t, out, "POINT_DATA 4\nSCALARS temperature double 1\nLOOKUP_TABLE default\n0.1\n0\n")
	assert.Contains(t, out, "VECTORS displacement double\n1 2 3\n")
	assert.Contains(t, out, "TENSORS stress double\n1 4 6\n4 2 5\n6 5 3\n")

	path := filepath.Join(t.TempDir(), "square.vtk")
	require.NoError(t, m.WriteVTKFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func TestWriteVTKQuadraticTetOrder(t *testing.T) {
	m, err := ReadGmshFrom(strings.NewReader(tet10Gmsh22))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, m.WriteVTK(&buf))
	assert.Contains(t, buf.String(), "\n6 0 2 1 6 5 4\n10 0 1 2 3 4 5 6 7 9 8\n")
	assert.Contains(t, buf.String(), "CELL_TYPES 2\n22\n24\n")
}

func TestWriteSurfaceMesh(t *testing.T) {
	m := UnitCubeGmsh(1).Mesh()
	base := filepath.Join(t.TempDir(), "cube")
	paths, err := m.WriteSurfaceMesh(base)
	require.NoError(t, err)
	assert.Equal(t, []string{base + "_fixed.vtk", base + "_load.vtk", base + "_sides.vtk"}, paths)
	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "POINTS 4 double\n")
	assert.Contains(t, string(data), "CELLS 2 8\n")
	data, err = os.ReadFile(paths[2])
	require.NoError(t, err)
	assert.Contains(t, string(data), "POINTS 8 double\n")
	assert.Contains(t, string(data), "CELLS 8 32\n")

	line := NewGmsh22Builder()
	line.Element(1, 1, 1, line.Node(0, 0, 0), line.Node(1, 0, 0))
	_, err = line.Mesh().WriteSurfaceMesh(base)
	assert.Error(t, err)
}

func TestPartition(t *testing.T) {
	m := UnitSquareGmsh(8, false).Mesh()
	part, err := m.Partition(2, DefaultPartitionConfig(4))
	require.NoError(t, err)
	require.Len(t, part, m.GetNumElements(2))
	counts := make([]int, 4)
	for _, p := range part {
		require.True(t, p >= 0 && p < 4)
		counts[p]++
	}
	for _, c := range counts {
		assert.Greater(t, c, 0)
	}

	part, err = m.Partition(2, DefaultPartitionConfig(1))
	require.NoError(t, err)
	assert.Equal(t, make([]int, m.GetNumElements(2)), part)

	small, err := ReadGmshFrom(strings.NewReader(squareGmsh22))
	require.NoError(t, err)
	part, err = small.Partition(2, DefaultPartitionConfig(4))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, part)
}

func TestBuildMetisGraph(t *testing.T) {
	m := UnitSquareGmsh(2, false).Mesh()
	conn := m.BuildConnectivity(2)
	xadj, adjncy, vwgt, adjwgt := m.buildMetisGraph(2, conn)
	assert.Len(t, xadj, m.GetNumElements(2)+1)
	assert.Equal(t, int32(0), xadj[0])
	for i := 1; i < len(xadj); i++ {
		assert.GreaterOrEqual(t, xadj[i], xadj[i-1])
	}
	assert.Equal(t, int(xadj[len(xadj)-1]), len(adjncy))
	assert.Len(t, adjwgt, len(adjncy))
	assert.Equal(t, int32(9), vwgt[0])
	// The adjacency is symmetric
	has := func(a, b int32) bool {
		for p := xadj[a]; p < xadj[a+1]; p++ {
			if adjncy[p] == b {
				return true
			}
		}
		return false
	}
	for a := int32(0); a < int32(len(xadj)-1); a++ {
		for p := xadj[a]; p < xadj[a+1]; p++ {
			assert.True(t, has(adjncy[p], a))
		}
	}
}
