package mesh

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofea/elements"
)

// Helper function to create temporary test files
func createTempMshFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.msh")
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	return tmpFile
}

// Unit square, two triangles, physical curves on x = 0 and x = 1
const squareGmsh4 = `$MeshFormat
4.1 0 8
$EndMeshFormat
$PhysicalNames
3
1 1 "left"
1 2 "right"
2 3 "domain"
$EndPhysicalNames
$Entities
4 4 1 0
1 0 0 0 0
2 1 0 0 0
3 1 1 0 0
4 0 1 0 0
1 0 0 0 1 0 0 0 2 1 -2
2 1 0 0 1 1 0 1 2 2 2 -3
3 0 1 0 1 1 0 0 2 3 -4
4 0 0 0 0 1 0 1 1 2 4 -1
1 0 0 0 1 1 0 1 3 4 1 2 3 4
$EndEntities
$Nodes
1 4 1 4
2 1 0 4
1
2
3
4
0 0 0
1 0 0
1 1 0
0 1 0
$EndNodes
$Elements
3 4 1 4
1 2 1 1
1 2 3
1 4 1 1
2 4 1
2 1 2 2
3 1 2 3
4 1 3 4
$EndElements
`

const squareGmsh22 = `$MeshFormat
2.2 0 8
$EndMeshFormat
$PhysicalNames
3
1 1 "left"
1 2 "right"
2 3 "domain"
$EndPhysicalNames
$Nodes
4
10 0 0 0
20 1 0 0
30 1 1 0
40 0 1 0
$EndNodes
$Elements
5
1 15 2 0 1 10
2 1 2 2 2 20 30
3 1 2 1 4 40 10
4 2 2 3 1 10 20 30
5 2 2 3 1 10 30 40
$EndElements
`

// Single quadratic tetrahedron with an unnamed physical face
const tet10Gmsh22 = `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
10
1 0 0 0
2 1 0 0
3 0 1 0
4 0 0 1
5 0.5 0 0
6 0.5 0.5 0
7 0 0.5 0
8 0 0 0.5
9 0 0.5 0.5
10 0.5 0 0.5
$EndNodes
$Elements
2
1 11 2 1 1 1 2 3 4 5 6 7 8 9 10
2 9 2 5 2 1 3 2 7 6 5
$EndElements
`

func checkSquare(t *testing.T, m *Mesh) {
	assert.Equal(t, 4, m.GetNumNodes())
	assert.Equal(t, 2, m.GetNumElements(1))
	assert.Equal(t, 2, m.GetNumElements(2))
	assert.Equal(t, 0, m.GetNumElements(3))
	assert.Equal(t, 2, m.Dimension())

	left, err := m.PhysicalElements("left", 1)
	require.NoError(t, err)
	require.Len(t, left, 1)
	el := m.GetElement(1, left[0])
	assert.Equal(t, elements.Line, el.Kind())
	for _, pos := range el.Vertices() {
		assert.Equal(t, 0., pos.X)
	}

	right, err := m.PhysicalElements("right", 1)
	require.NoError(t, err)
	require.Len(t, right, 1)
	for _, pos := range m.GetElement(1, right[0]).Vertices() {
		assert.Equal(t, 1., pos.X)
	}

	domain, err := m.PhysicalElements("domain", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, domain)
	var area float64
	for _, id := range domain {
		area += m.GetElement(2, id).Measure()
	}
	assert.InDelta(t, 1., area, 1.e-14)

	_, err = m.GetPhysicalEntity("inlet", 1)
	assert.True(t, errors.Is(err, ErrUnknownPhysicalName))
	assert.Equal(t, []string{"left", "right"}, m.PhysicalNamesOfDim(1))
	assert.Panics(t, func() { m.GetElement(2, 2) })
	assert.Panics(t, func() { m.GetNumElements(4) })
}

func TestReadGmsh4(t *testing.T) {
	m, err := ReadGmsh4(createTempMshFile(t, squareGmsh4))
	require.NoError(t, err)
	assert.Equal(t, "4.1", m.FormatVersion)
	checkSquare(t, m)
	ids, err := m.GetEntity(2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, ids)
	_, err = m.GetEntity(2, 99)
	assert.True(t, errors.Is(err, ErrUnknownEntity))
}

func TestReadGmsh22(t *testing.T) {
	m, err := ReadGmsh22(createTempMshFile(t, squareGmsh22))
	require.NoError(t, err)
	assert.Equal(t, "2.2", m.FormatVersion)
	checkSquare(t, m)
	// Node tags need not be contiguous
	assert.Equal(t, 1., m.GetNodePosition(2).Y)
}

func TestReadMeshFileDispatch(t *testing.T) {
	for _, content := range []string{squareGmsh4, squareGmsh22} {
		m, err := ReadMeshFile(createTempMshFile(t, content))
		require.NoError(t, err)
		checkSquare(t, m)
	}
	_, err := ReadMeshFile("mesh.neu")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	_, err = ReadMeshFile(filepath.Join(t.TempDir(), "missing.msh"))
	assert.Error(t, err)

	_, err = ReadGmsh22(createTempMshFile(t, squareGmsh4))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	_, err = ReadGmsh4(createTempMshFile(t, squareGmsh22))
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestReadGmshQuadratic(t *testing.T) {
	m, err := ReadGmshFrom(strings.NewReader(tet10Gmsh22))
	require.NoError(t, err)
	require.Equal(t, 1, m.GetNumElements(3))
	tet := m.GetElement(3, 0)
	assert.Equal(t, elements.TetrahedronOrder2, tet.Kind())
	assert.InDelta(t, 1./6., tet.Measure(), 1.e-15)
	face := m.GetElement(2, 0)
	assert.Equal(t, elements.TriangleOrder2, face.Kind())
	assert.InDelta(t, 0.5, face.Measure(), 1.e-15)
	// Unnamed physical groups are keyed by their tag
	assert.Equal(t, []string{"5"}, m.PhysicalNamesOfDim(2))
	ids, err := m.PhysicalElements("5", 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, ids)
}

func TestReadGmshErrors(t *testing.T) {
	tests := []struct {
		name, content, message string
	}{
		{"no format", "$Nodes\n0\n$EndNodes\n", "before $MeshFormat"},
		{"binary", "$MeshFormat\n4.1 1 8\n$EndMeshFormat\n", "binary"},
		{"version", "$MeshFormat\n3.0 0 8\n$EndMeshFormat\n", "version 3.0"},
		{"truncated", "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n2\n1 0 0 0\n", "unexpected EOF"},
		{"bad coordinate", "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n$Nodes\n1\n1 0 x 0\n$EndNodes\n", "line 6"},
		{"quad", strings.Replace(squareGmsh22, "4 2 2 3 1 10 20 30", "4 3 2 3 1 10 20 30 40", 1),
			"unsupported gmsh element type 3"},
		{"undefined node", strings.Replace(squareGmsh22, "5 2 2 3 1 10 30 40", "5 2 2 3 1 10 30 50", 1),
			"undefined node tag 50"},
		{"duplicate node", strings.Replace(squareGmsh22, "40 0 1 0", "30 0 1 0", 1), "duplicate node tag 30"},
		{"missing end", strings.Replace(squareGmsh22, "$EndNodes", "$End", 1), "expected $EndNodes"},
		{"empty", "", "no $MeshFormat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGmshFrom(strings.NewReader(tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestReadGmshSkipsUnknownSections(t *testing.T) {
	content := strings.Replace(squareGmsh22, "$Nodes",
		"$Comments\nanything at all\n$EndComments\n$Nodes", 1)
	m, err := ReadGmshFrom(strings.NewReader(content))
	require.NoError(t, err)
	checkSquare(t, m)
}

func TestUnitMeshBuilders(t *testing.T) {
	sq := UnitSquareGmsh(3, false).Mesh()
	assert.Equal(t, 16, sq.GetNumNodes())
	assert.Equal(t, 18, sq.GetNumElements(2))
	assert.Equal(t, 12, sq.GetNumElements(1))
	for _, name := range []string{"left", "right", "bottom", "top"} {
		ids, err := sq.PhysicalElements(name, 1)
		require.NoError(t, err)
		assert.Len(t, ids, 3, name)
	}

	sq2 := UnitSquareGmsh(2, true).Mesh()
	// corners 9, edges 16
	assert.Equal(t, 25, sq2.GetNumNodes())
	assert.Equal(t, elements.TriangleOrder2, sq2.GetElement(2, 0).Kind())
	assert.Equal(t, elements.LineOrder2, sq2.GetElement(1, 0).Kind())

	cube := UnitCubeGmsh(2).Mesh()
	assert.Equal(t, 27, cube.GetNumNodes())
	assert.Equal(t, 48, cube.GetNumElements(3))
	var vol float64
	for _, el := range cube.Elements[3] {
		vol += el.Measure()
	}
	assert.InDelta(t, 1., vol, 1.e-12)
	fixed, err := cube.PhysicalElements("fixed", 2)
	require.NoError(t, err)
	assert.Len(t, fixed, 8)
	sides, err := cube.PhysicalElements("sides", 2)
	require.NoError(t, err)
	assert.Len(t, sides, 32)
	// Every boundary facet of the volume mesh is a tagged surface triangle
	conn := cube.BuildConnectivity(3)
	assert.Len(t, conn.BoundaryFaces(), cube.GetNumElements(2))
}
