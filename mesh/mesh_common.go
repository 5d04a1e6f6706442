package mesh

import (
	"fmt"
	"sort"

	"github.com/notargets/gofea/elements"
)

// Face is a facet of an element, keyed by its sorted corner nodes
type Face struct {
	Vertices []int // Sorted node indices
	Element  int   // First element found holding the face
	LocalID  int   // Local face ID within that element
}

// Connectivity is the facet adjacency of the elements of one dimension
type Connectivity struct {
	Dim   int
	EToE  [][]int // Element to neighbor element per local face, -1 on the boundary
	EToF  [][]int // Element to face ID per local face
	Faces []Face
}

// BuildConnectivity matches facets between the elements of dimension dim
func (m *Mesh) BuildConnectivity(dim int) (c *Connectivity) {
	checkDim(dim)
	var (
		els     = m.Elements[dim]
		faceMap = make(map[string]int)
	)
	c = &Connectivity{
		Dim:  dim,
		EToE: make([][]int, len(els)),
		EToF: make([][]int, len(els)),
	}
	for elemID, el := range els {
		faceVertices := elements.GetElementFaces(el.Kind(), el.NodeIndices())
		c.EToE[elemID] = make([]int, len(faceVertices))
		c.EToF[elemID] = make([]int, len(faceVertices))
		for i := range c.EToE[elemID] {
			c.EToE[elemID][i] = -1
		}
		for localFaceID, faceVerts := range faceVertices {
			sorted := make([]int, len(faceVerts))
			copy(sorted, faceVerts)
			sort.Ints(sorted)
			key := fmt.Sprintf("%v", sorted)

			if faceID, exists := faceMap[key]; exists {
				// Interior face, link both sides
				face := &c.Faces[faceID]
				c.EToE[elemID][localFaceID] = face.Element
				c.EToE[face.Element][face.LocalID] = elemID
				c.EToF[elemID][localFaceID] = faceID
			} else {
				faceID = len(c.Faces)
				c.Faces = append(c.Faces, Face{
					Vertices: sorted,
					Element:  elemID,
					LocalID:  localFaceID,
				})
				faceMap[key] = faceID
				c.EToF[elemID][localFaceID] = faceID
			}
		}
	}
	return
}

// BoundaryFaces returns the IDs of faces held by a single element
func (c *Connectivity) BoundaryFaces() (faceIDs []int) {
	for elemID, neighbors := range c.EToE {
		for localFaceID, nbr := range neighbors {
			if nbr < 0 {
				faceIDs = append(faceIDs, c.EToF[elemID][localFaceID])
			}
		}
	}
	sort.Ints(faceIDs)
	return
}

// NodeElements lists, for every node, the elements of dimension dim using it
func (m *Mesh) NodeElements(dim int) (nodeEls [][]int) {
	checkDim(dim)
	nodeEls = make([][]int, len(m.Nodes))
	for elemID, el := range m.Elements[dim] {
		for _, n := range el.NodeIndices() {
			nodeEls[n] = append(nodeEls[n], elemID)
		}
	}
	return
}
