package mesh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/geometry3D"
)

var (
	ErrUnknownPhysicalName = errors.New("unknown physical name")
	ErrUnknownEntity       = errors.New("unknown entity")
	ErrUnsupportedFormat   = errors.New("unsupported mesh format")
)

// Mesh owns the node arena and the elements built on it. Elements are stored
// per topological dimension; entities group element indices of one dimension
// under a Gmsh elementary tag, physical entities group entity tags under a
// name.
type Mesh struct {
	Nodes    elements.NodeList
	Elements [4][]*elements.Element

	// entity tag -> per dimension element indices
	Entities map[int][4][]int
	// physical name -> per dimension entity tags
	PhysicalEntities map[string][4][]int

	FormatVersion string

	nodeIndex     map[int]int       // file node tag -> index into Nodes
	physicalNames map[[2]int]string // {dim, physical tag} -> name
	scalarFields  map[string][]float64
	vectorFields  map[string][][3]float64
	tensorFields  map[string][][6]float64
}

func NewMesh() *Mesh {
	return &Mesh{
		Entities:         make(map[int][4][]int),
		PhysicalEntities: make(map[string][4][]int),
		nodeIndex:        make(map[int]int),
		physicalNames:    make(map[[2]int]string),
		scalarFields:     make(map[string][]float64),
		vectorFields:     make(map[string][][3]float64),
		tensorFields:     make(map[string][][6]float64),
	}
}

// AddNode appends a node under its file tag and returns its index
func (m *Mesh) AddNode(tag int, pos geometry3D.Coord) (index int, err error) {
	if _, ok := m.nodeIndex[tag]; ok {
		err = fmt.Errorf("duplicate node tag %d", tag)
		return
	}
	index = len(m.Nodes)
	m.Nodes = append(m.Nodes, pos)
	m.nodeIndex[tag] = index
	return
}

// AddElement builds an element from file node tags and files it under the
// entity tag and under each of the physical tags
func (m *Mesh) AddElement(kind elements.Kind, entityTag int, physicalTags, nodeTags []int) (index int, err error) {
	var (
		el  *elements.Element
		ind = make([]int, len(nodeTags))
	)
	for i, tag := range nodeTags {
		var ok bool
		if ind[i], ok = m.nodeIndex[tag]; !ok {
			err = fmt.Errorf("%v element references undefined node tag %d", kind, tag)
			return
		}
	}
	if el, err = elements.New(kind, ind, &m.Nodes); err != nil {
		return
	}
	dim := kind.GetDimension()
	index = len(m.Elements[dim])
	m.Elements[dim] = append(m.Elements[dim], el)
	ent := m.Entities[entityTag]
	ent[dim] = append(ent[dim], index)
	m.Entities[entityTag] = ent
	for _, pt := range physicalTags {
		m.addPhysicalEntity(m.PhysicalName(dim, pt), dim, entityTag)
	}
	return
}

// SetPhysicalName registers a name for a physical tag of a dimension
func (m *Mesh) SetPhysicalName(dim, tag int, name string) {
	m.physicalNames[[2]int{dim, tag}] = name
}

// PhysicalName returns the registered name, or the tag itself as a string for
// unnamed physical groups
func (m *Mesh) PhysicalName(dim, tag int) string {
	if name, ok := m.physicalNames[[2]int{dim, tag}]; ok {
		return name
	}
	return fmt.Sprintf("%d", tag)
}

func (m *Mesh) addPhysicalEntity(name string, dim, entityTag int) {
	pe := m.PhysicalEntities[name]
	for _, t := range pe[dim] {
		if t == entityTag {
			return
		}
	}
	pe[dim] = append(pe[dim], entityTag)
	m.PhysicalEntities[name] = pe
}

func (m *Mesh) GetNumNodes() int { return len(m.Nodes) }

func (m *Mesh) GetNumElements(dim int) int {
	checkDim(dim)
	return len(m.Elements[dim])
}

// GetElement panics when id is out of range
func (m *Mesh) GetElement(dim, id int) *elements.Element {
	checkDim(dim)
	if id < 0 || id >= len(m.Elements[dim]) {
		panic(fmt.Errorf("element %d out of range [0,%d) in dimension %d", id, len(m.Elements[dim]), dim))
	}
	return m.Elements[dim][id]
}

func (m *Mesh) GetNodePosition(node int) geometry3D.Coord {
	if node < 0 || node >= len(m.Nodes) {
		panic(fmt.Errorf("node %d out of range [0,%d)", node, len(m.Nodes)))
	}
	return m.Nodes[node]
}

// Dimension is the highest dimension holding elements
func (m *Mesh) Dimension() int {
	for dim := 3; dim > 0; dim-- {
		if len(m.Elements[dim]) != 0 {
			return dim
		}
	}
	return 0
}

// GetEntity returns the element indices of dimension dim in an entity
func (m *Mesh) GetEntity(dim, tag int) (ids []int, err error) {
	checkDim(dim)
	ent, ok := m.Entities[tag]
	if !ok {
		err = fmt.Errorf("entity %d: %w", tag, ErrUnknownEntity)
		return
	}
	ids = ent[dim]
	return
}

// GetPhysicalEntity returns the entity tags of dimension dim in a physical group
func (m *Mesh) GetPhysicalEntity(name string, dim int) (tags []int, err error) {
	checkDim(dim)
	pe, ok := m.PhysicalEntities[name]
	if !ok {
		err = fmt.Errorf("%q: %w", name, ErrUnknownPhysicalName)
		return
	}
	tags = pe[dim]
	return
}

// PhysicalElements flattens a physical group into element indices of
// dimension dim, in entity order
func (m *Mesh) PhysicalElements(name string, dim int) (ids []int, err error) {
	var tags []int
	if tags, err = m.GetPhysicalEntity(name, dim); err != nil {
		return
	}
	for _, tag := range tags {
		var elIDs []int
		if elIDs, err = m.GetEntity(dim, tag); err != nil {
			return
		}
		ids = append(ids, elIDs...)
	}
	return
}

// PhysicalNamesOfDim lists, sorted, the physical groups holding entities of
// dimension dim
func (m *Mesh) PhysicalNamesOfDim(dim int) (names []string) {
	checkDim(dim)
	for name, pe := range m.PhysicalEntities {
		if len(pe[dim]) != 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return
}

// PrintStatistics prints mesh statistics
func (m *Mesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Format version: %s\n", m.FormatVersion)
	fmt.Printf("  Nodes: %d\n", m.GetNumNodes())
	for dim := 1; dim <= 3; dim++ {
		if len(m.Elements[dim]) == 0 {
			continue
		}
		typeCounts := make(map[elements.Kind]int)
		for _, el := range m.Elements[dim] {
			typeCounts[el.Kind()]++
		}
		fmt.Printf("  Dimension %d elements: %d\n", dim, len(m.Elements[dim]))
		for _, k := range elements.Kinds {
			if count, ok := typeCounts[k]; ok {
				fmt.Printf("    %s: %d\n", k, count)
			}
		}
	}
	fmt.Printf("  Physical groups:\n")
	for dim := 0; dim <= 3; dim++ {
		for _, name := range m.PhysicalNamesOfDim(dim) {
			ids, _ := m.PhysicalElements(name, dim)
			fmt.Printf("    %q (dimension %d): %d elements\n", name, dim, len(ids))
		}
	}
}

func checkDim(dim int) {
	if dim < 0 || dim > 3 {
		panic(fmt.Errorf("dimension %d outside [0,3]", dim))
	}
}
