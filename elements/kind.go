package elements

import "fmt"

// Kind identifies one of the closed set of supported element types
type Kind uint8

const (
	// 1D elements
	Line       Kind = iota
	LineOrder2      // 3-node line (quadratic)
	// 2D elements
	Triangle
	TriangleOrder2 // 6-node triangle (quadratic)
	// 3D elements
	Tetrahedron
	TetrahedronOrder2 // 10-node tetrahedron (quadratic)
	numKinds
)

// MaxNodes is the largest node count of any Kind
const MaxNodes = 10

// Kinds lists every supported Kind in declaration order
var Kinds = []Kind{Line, LineOrder2, Triangle, TriangleOrder2, Tetrahedron, TetrahedronOrder2}

// String representation of element kinds
func (k Kind) String() string {
	names := []string{
		"Line", "LineOrder2",
		"Triangle", "TriangleOrder2",
		"Tetrahedron", "TetrahedronOrder2",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Invalid"
}

func (k Kind) IsValid() bool { return k < numKinds }

func (k Kind) ops() *kindOps {
	if !k.IsValid() {
		panic(fmt.Errorf("invalid element kind %d", k))
	}
	return &kindTable[k]
}

// GetDimension returns the topological dimension of the element
func (k Kind) GetDimension() int { return k.ops().dim }

// GetNumNodes returns the number of nodes for each element kind
func (k Kind) GetNumNodes() int { return k.ops().numNodes }

// GetNumVertices returns the number of corner nodes, the only nodes used by
// the geometric map
func (k Kind) GetNumVertices() int { return k.ops().dim + 1 }

func (k Kind) Order() int { return k.ops().order }

// VTKCellType is the legacy VTK cell type id
func (k Kind) VTKCellType() int { return k.ops().vtkCellType }

// GmshType is the Gmsh element type number
func (k Kind) GmshType() int { return k.ops().gmshType }

// LinearKind maps a quadratic kind onto the linear kind with the same corners
func (k Kind) LinearKind() Kind {
	switch k {
	case LineOrder2:
		return Line
	case TriangleOrder2:
		return Triangle
	case TetrahedronOrder2:
		return Tetrahedron
	default:
		return k
	}
}

// GetCornerNodes returns the local indices of the corner nodes
func (k Kind) GetCornerNodes() []int {
	n := k.GetNumVertices()
	nodes := make([]int, n)
	for i := 0; i < n; i++ {
		nodes[i] = i
	}
	return nodes
}

// GetEdgeNodes returns the corner pair each midside node sits between, in
// local node order after the corners. Linear kinds have none.
func (k Kind) GetEdgeNodes() [][2]int {
	return k.ops().edges
}

// KindFromGmshType maps a Gmsh element type number onto a Kind
func KindFromGmshType(gmshType int) (k Kind, err error) {
	for _, k = range Kinds {
		if k.GmshType() == gmshType {
			return
		}
	}
	err = fmt.Errorf("unsupported gmsh element type %d", gmshType)
	return
}

// GetElementFaces returns the boundary facets of an element as corner node
// lists, using global indices taken from vertices. Facets of a tetrahedron are
// triangles, of a triangle are lines, of a line are points.
func GetElementFaces(k Kind, vertices []int) [][]int {
	v := vertices
	switch k.LinearKind() {
	case Tetrahedron:
		return [][]int{
			{v[0], v[2], v[1]}, // Face 0
			{v[0], v[1], v[3]}, // Face 1
			{v[0], v[3], v[2]}, // Face 2
			{v[1], v[2], v[3]}, // Face 3
		}
	case Triangle:
		return [][]int{
			{v[0], v[1]},
			{v[1], v[2]},
			{v[2], v[0]},
		}
	case Line:
		return [][]int{{v[0]}, {v[1]}}
	default:
		return [][]int{}
	}
}
