package elements

import "github.com/notargets/gofea/geometry3D"

// kindOps is the per-kind dispatch entry. Shape functions are written in
// barycentric coordinates lam, where lam[a] is 1 at corner a and 0 at the
// other corners. Parametric coordinates are xi[k] = lam[k+1].
type kindOps struct {
	numNodes    int
	dim         int
	order       int
	vtkCellType int
	gmshType    int
	edges       [][2]int // corner pair of each midside node
	shape       func(edges [][2]int, local int, lam *ParentCoord) float64
	shapeGrad   func(edges [][2]int, local int, lam *ParentCoord) (dN [4]float64)
	toParent    func(v *vertexSet, p geometry3D.Coord) (lam ParentCoord)
	rule        QuadratureRule
}

// Gmsh node ordering for midside nodes
var (
	lineEdges = [][2]int{{0, 1}}
	triEdges  = [][2]int{{0, 1}, {1, 2}, {2, 0}}
	tetEdges  = [][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {2, 3}, {3, 1}}
)

var kindTable = [numKinds]kindOps{
	Line: {
		numNodes: 2, dim: 1, order: 1, vtkCellType: 3, gmshType: 1,
		shape: linearShape, shapeGrad: linearShapeGrad,
		toParent: lineToParent, rule: lineRule1,
	},
	LineOrder2: {
		numNodes: 3, dim: 1, order: 2, vtkCellType: 21, gmshType: 8,
		edges: lineEdges,
		shape: quadraticShape, shapeGrad: quadraticShapeGrad,
		toParent: lineToParent, rule: lineRule2,
	},
	Triangle: {
		numNodes: 3, dim: 2, order: 1, vtkCellType: 5, gmshType: 2,
		shape: linearShape, shapeGrad: linearShapeGrad,
		toParent: triangleToParent, rule: triangleRule1,
	},
	TriangleOrder2: {
		numNodes: 6, dim: 2, order: 2, vtkCellType: 22, gmshType: 9,
		edges: triEdges,
		shape: quadraticShape, shapeGrad: quadraticShapeGrad,
		toParent: triangleToParent, rule: triangleRule2,
	},
	Tetrahedron: {
		numNodes: 4, dim: 3, order: 1, vtkCellType: 10, gmshType: 4,
		shape: linearShape, shapeGrad: linearShapeGrad,
		toParent: tetrahedronToParent, rule: tetrahedronRule1,
	},
	TetrahedronOrder2: {
		numNodes: 10, dim: 3, order: 2, vtkCellType: 24, gmshType: 11,
		edges: tetEdges,
		shape: quadraticShape, shapeGrad: quadraticShapeGrad,
		toParent: tetrahedronToParent, rule: tetrahedronRule2,
	},
}

func linearShape(_ [][2]int, local int, lam *ParentCoord) float64 {
	return lam[local]
}

func linearShapeGrad(_ [][2]int, local int, _ *ParentCoord) (dN [4]float64) {
	dN[local] = 1
	return
}

// Corner nodes: (2 lam - 1) lam. Midside nodes: 4 lam_a lam_b.
func quadraticShape(edges [][2]int, local int, lam *ParentCoord) float64 {
	nc := cornerCount(len(edges))
	if local < nc {
		l := lam[local]
		return (2*l - 1) * l
	}
	e := edges[local-nc]
	return 4 * lam[e[0]] * lam[e[1]]
}

func quadraticShapeGrad(edges [][2]int, local int, lam *ParentCoord) (dN [4]float64) {
	nc := cornerCount(len(edges))
	if local < nc {
		dN[local] = 4*lam[local] - 1
		return
	}
	e := edges[local-nc]
	dN[e[0]] = 4 * lam[e[1]]
	dN[e[1]] = 4 * lam[e[0]]
	return
}

// cornerCount recovers the simplex corner count from its edge count
func cornerCount(nEdges int) int {
	switch nEdges {
	case 1:
		return 2
	case 3:
		return 3
	case 6:
		return 4
	default:
		panic("no simplex has this many edges")
	}
}

// parentDerivatives converts a barycentric gradient into derivatives with
// respect to the dim parametric coordinates, using lam[0] = 1 - sum(xi).
func parentDerivatives(dN [4]float64, dim int) (dXi [3]float64) {
	for k := 0; k < dim; k++ {
		dXi[k] = dN[k+1] - dN[0]
	}
	return
}
