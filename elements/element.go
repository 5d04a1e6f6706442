package elements

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofea/geometry3D"
)

// NodeList is the node arena shared by every element of a mesh. It is
// append-only while the mesh is read, then read-only: elements keep a pointer
// to it and index into it, so it must not be reordered or mutated once any
// element has been built on it.
type NodeList []geometry3D.Coord

type vertexSet [4]geometry3D.Coord

// Element is one of the closed set of kinds, holding indices into a borrowed
// NodeList. The geometric map uses the corner nodes only and is affine, so the
// Jacobian and its right inverse are computed once at construction.
type Element struct {
	kind    Kind
	indices [MaxNodes]int
	nodes   *NodeList
	measure float64
	gradMap *mat.Dense // 3 x dim, minimum norm right inverse of the Jacobian
}

var referenceMeasure = [4]float64{1, 1, 0.5, 1. / 6.}

// New builds an element of the given kind on the node arena
func New(kind Kind, nodeIndices []int, nodes *NodeList) (el *Element, err error) {
	if !kind.IsValid() {
		err = fmt.Errorf("invalid element kind %d", kind)
		return
	}
	if nodes == nil {
		err = fmt.Errorf("%v element built without a node list", kind)
		return
	}
	if len(nodeIndices) != kind.GetNumNodes() {
		err = fmt.Errorf("%v element needs %d nodes, got %d",
			kind, kind.GetNumNodes(), len(nodeIndices))
		return
	}
	for _, ind := range nodeIndices {
		if ind < 0 || ind >= len(*nodes) {
			err = fmt.Errorf("%v element node index %d out of range [0,%d)",
				kind, ind, len(*nodes))
			return
		}
		if !(*nodes)[ind].IsValid() {
			err = fmt.Errorf("%v element references unset node %d", kind, ind)
			return
		}
	}
	el = &Element{
		kind:  kind,
		nodes: nodes,
	}
	copy(el.indices[:], nodeIndices)
	if err = el.computeGeometry(); err != nil {
		return nil, err
	}
	return
}

// MustNew is New for callers that treat malformed input as a programming error
func MustNew(kind Kind, nodeIndices []int, nodes *NodeList) *Element {
	el, err := New(kind, nodeIndices, nodes)
	if err != nil {
		panic(err)
	}
	return el
}

func (el *Element) computeGeometry() (err error) {
	var (
		dim = el.kind.GetDimension()
		J   = el.Jacobian()
		JJt mat.Dense
		eye = mat.NewDense(dim, dim, nil)
	)
	JJt.Mul(J, J.T())
	det := mat.Det(&JJt)
	if !(det > 0) {
		return fmt.Errorf("degenerate %v element on nodes %v", el.kind, el.NodeIndices())
	}
	el.measure = math.Sqrt(det) * referenceMeasure[dim]
	for i := 0; i < dim; i++ {
		eye.Set(i, i, 1)
	}
	// Wide J (line, triangle in 3D) gives the minimum norm solution, square J
	// (tetrahedron) the exact inverse.
	el.gradMap = mat.NewDense(3, dim, nil)
	if err = el.gradMap.Solve(J, eye); err != nil {
		return fmt.Errorf("degenerate %v element on nodes %v: %w",
			el.kind, el.NodeIndices(), err)
	}
	return
}

func (el *Element) Kind() Kind { return el.kind }

func (el *Element) NumNodes() int { return el.kind.GetNumNodes() }

// Dimension is the topological dimension: 1 line, 2 triangle, 3 tetrahedron
func (el *Element) Dimension() int { return el.kind.GetDimension() }

func (el *Element) VTKCellType() int { return el.kind.VTKCellType() }

// GetNodeIndex maps a local node onto the global node arena
func (el *Element) GetNodeIndex(local int) int {
	el.checkLocal(local)
	return el.indices[local]
}

func (el *Element) NodeIndices() []int {
	R := make([]int, el.NumNodes())
	copy(R, el.indices[:el.NumNodes()])
	return R
}

func (el *Element) NodePosition(local int) geometry3D.Coord {
	el.checkLocal(local)
	return (*el.nodes)[el.indices[local]]
}

// Vertices returns the corner node positions
func (el *Element) Vertices() (verts []geometry3D.Coord) {
	nv := el.kind.GetNumVertices()
	verts = make([]geometry3D.Coord, nv)
	for i := 0; i < nv; i++ {
		verts[i] = (*el.nodes)[el.indices[i]]
	}
	return
}

func (el *Element) vertices() (v vertexSet) {
	for i := 0; i < el.kind.GetNumVertices(); i++ {
		v[i] = (*el.nodes)[el.indices[i]]
	}
	return
}

// Measure is the length, area or volume of the element
func (el *Element) Measure() float64 { return el.measure }

func (el *Element) Centroid() geometry3D.Coord {
	return geometry3D.Centroid(el.Vertices()...)
}

// Jacobian returns the dim x 3 matrix whose row k is dX/dxi_k
func (el *Element) Jacobian() (J *mat.Dense) {
	var (
		dim = el.kind.GetDimension()
		v   = el.vertices()
	)
	J = mat.NewDense(dim, 3, nil)
	for k := 0; k < dim; k++ {
		d := v[k+1].Sub(v[0])
		J.SetRow(k, []float64{d.X, d.Y, d.Z})
	}
	return
}

// ShapeFn evaluates the shape function of local node at a physical point
func (el *Element) ShapeFn(local int, point geometry3D.Coord) float64 {
	el.checkLocal(local)
	var (
		ops = el.kind.ops()
		lam = el.PhysicalToParentCoords(point)
	)
	return ops.shape(ops.edges, local, &lam)
}

// ShapeFnDerivative is the derivative of ShapeFn along global axis dimension.
// For lines and triangles embedded in 3D this is the tangential gradient.
func (el *Element) ShapeFnDerivative(local, dimension int, point geometry3D.Coord) float64 {
	if dimension < 0 || dimension > 2 {
		panic(fmt.Errorf("shape function derivative dimension %d out of range [0,3) for %v element",
			dimension, el.kind))
	}
	g := el.ShapeFnGradient(local, point)
	return g[dimension]
}

// ShapeFnGradient returns all three physical derivatives of the shape function
func (el *Element) ShapeFnGradient(local int, point geometry3D.Coord) (g [3]float64) {
	el.checkLocal(local)
	var (
		ops = el.kind.ops()
		dim = ops.dim
		lam = el.PhysicalToParentCoords(point)
		dXi = parentDerivatives(ops.shapeGrad(ops.edges, local, &lam), dim)
	)
	// g = J^+ dN/dxi
	for i := 0; i < 3; i++ {
		for k := 0; k < dim; k++ {
			g[i] += el.gradMap.At(i, k) * dXi[k]
		}
	}
	return
}

func (el *Element) checkLocal(local int) {
	if local < 0 || local >= el.NumNodes() {
		panic(fmt.Errorf("local node index %d out of range [0,%d) for %v element",
			local, el.NumNodes(), el.kind))
	}
}

func (el *Element) String() string {
	return fmt.Sprintf("%v%v", el.kind, el.NodeIndices())
}
