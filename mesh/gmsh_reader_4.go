package mesh

import (
	"fmt"
	"strconv"

	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/geometry3D"
)

// readEntities4 records the physical tags of every geometric entity. Element
// blocks reference entities, so this is how elements join physical groups in
// the 4.x layout.
func (gr *gmshReader) readEntities4() (err error) {
	var counts []int
	if counts, _, err = gr.nextInts("Entities", 4); err != nil {
		return
	}
	for dim := 0; dim <= 3; dim++ {
		// Points carry a position, higher dimensions a bounding box
		physOffset := 7
		if dim == 0 {
			physOffset = 4
		}
		for i := 0; i < counts[dim]; i++ {
			var (
				fields   []string
				tag, num int
			)
			if fields, err = gr.next("Entities"); err != nil {
				return
			}
			if len(fields) < physOffset+1 {
				return fmt.Errorf("line %d: invalid entity of dimension %d", gr.line, dim)
			}
			if tag, err = strconv.Atoi(fields[0]); err != nil {
				return fmt.Errorf("line %d in Entities: %w", gr.line, err)
			}
			if num, err = strconv.Atoi(fields[physOffset]); err != nil {
				return fmt.Errorf("line %d in Entities: %w", gr.line, err)
			}
			var phys []int
			if phys, err = gr.parseInts("Entities", fields[physOffset+1:], num); err != nil {
				return
			}
			gr.entityPhysicals[[2]int{dim, tag}] = phys
		}
	}
	return gr.expectEnd("$EndEntities")
}

// readNodes4 reads entity blocks of node tags followed by their coordinates
func (gr *gmshReader) readNodes4() (err error) {
	// numEntityBlocks numNodes minNodeTag maxNodeTag
	var header []int
	if header, _, err = gr.nextInts("Nodes", 4); err != nil {
		return
	}
	numEntityBlocks, totalNodes := header[0], header[1]
	gr.mesh.Nodes = make(elements.NodeList, 0, totalNodes)

	for i := 0; i < numEntityBlocks; i++ {
		// entityDim entityTag parametric numNodesInBlock
		var block []int
		if block, _, err = gr.nextInts("Nodes", 4); err != nil {
			return
		}
		if block[2] != 0 {
			return fmt.Errorf("line %d: parametric nodes: %w", gr.line, ErrUnsupportedFormat)
		}
		numNodesInBlock := block[3]
		nodeTags := make([]int, numNodesInBlock)
		for j := range nodeTags {
			var v []int
			if v, _, err = gr.nextInts("Nodes", 1); err != nil {
				return
			}
			nodeTags[j] = v[0]
		}
		for j := 0; j < numNodesInBlock; j++ {
			var (
				fields []string
				pos    geometry3D.Coord
			)
			if fields, err = gr.next("Nodes"); err != nil {
				return
			}
			if pos, err = gr.parseCoord("Nodes", fields); err != nil {
				return
			}
			if _, err = gr.mesh.AddNode(nodeTags[j], pos); err != nil {
				return fmt.Errorf("line %d: %w", gr.line, err)
			}
		}
	}
	if len(gr.mesh.Nodes) != totalNodes {
		return fmt.Errorf("$Nodes header declares %d nodes, read %d", totalNodes, len(gr.mesh.Nodes))
	}
	return gr.expectEnd("$EndNodes")
}

// readElements4 reads entity blocks of one element type each
func (gr *gmshReader) readElements4() (err error) {
	// numEntityBlocks numElements minElementTag maxElementTag
	var header []int
	if header, _, err = gr.nextInts("Elements", 4); err != nil {
		return
	}
	for i := 0; i < header[0]; i++ {
		// entityDim entityTag elementType numElementsInBlock
		var block []int
		if block, _, err = gr.nextInts("Elements", 4); err != nil {
			return
		}
		entityDim, entityTag, gmshType, numElemsInBlock := block[0], block[1], block[2], block[3]
		var numNodes int
		if numNodes, err = gmshNodeCount(gmshType); err != nil {
			return fmt.Errorf("line %d in Elements: %w", gr.line, err)
		}
		physicalTags := gr.entityPhysicals[[2]int{entityDim, entityTag}]
		for j := 0; j < numElemsInBlock; j++ {
			var vals []int
			if vals, _, err = gr.nextInts("Elements", 1+numNodes); err != nil {
				return
			}
			if err = gr.addElement("Elements", gmshType, entityTag, physicalTags, vals[1:]); err != nil {
				return
			}
		}
	}
	return gr.expectEnd("$EndElements")
}
