package mesh

import (
	"fmt"

	"github.com/notargets/gofea/geometry3D"
)

// readNodes22 reads "tag x y z" lines
func (gr *gmshReader) readNodes22() (err error) {
	var num []int
	if num, _, err = gr.nextInts("Nodes", 1); err != nil {
		return
	}
	for i := 0; i < num[0]; i++ {
		var (
			fields []string
			tag    []int
			pos    geometry3D.Coord
		)
		if tag, fields, err = gr.nextInts("Nodes", 1); err != nil {
			return
		}
		if pos, err = gr.parseCoord("Nodes", fields[1:]); err != nil {
			return
		}
		if _, err = gr.mesh.AddNode(tag[0], pos); err != nil {
			return fmt.Errorf("line %d: %w", gr.line, err)
		}
	}
	return gr.expectEnd("$EndNodes")
}

// readElements22 reads "tag type numTags tags... nodes..." lines. The first
// tag is the physical group, the second the elementary entity.
func (gr *gmshReader) readElements22() (err error) {
	var num []int
	if num, _, err = gr.nextInts("Elements", 1); err != nil {
		return
	}
	for i := 0; i < num[0]; i++ {
		var (
			fields   []string
			head     []int
			numNodes int
		)
		if head, fields, err = gr.nextInts("Elements", 3); err != nil {
			return
		}
		gmshType, numTags := head[1], head[2]
		if numNodes, err = gmshNodeCount(gmshType); err != nil {
			return fmt.Errorf("line %d in Elements: %w", gr.line, err)
		}
		var vals []int
		if vals, err = gr.parseInts("Elements", fields[3:], numTags+numNodes); err != nil {
			return
		}
		var (
			tags         = vals[:numTags]
			physicalTags []int
			entityTag    int
		)
		if len(tags) > 0 && tags[0] != 0 {
			physicalTags = tags[:1]
		}
		if len(tags) > 1 {
			entityTag = tags[1]
		}
		if err = gr.addElement("Elements", gmshType, entityTag, physicalTags, vals[numTags:]); err != nil {
			return
		}
	}
	return gr.expectEnd("$EndElements")
}
