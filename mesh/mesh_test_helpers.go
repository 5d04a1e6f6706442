package mesh

import (
	"fmt"
	"strconv"
	"strings"
)

// Gmsh22Builder assembles ASCII Gmsh 2.2 content, used to build test meshes
type Gmsh22Builder struct {
	names    []string
	nodes    []string
	elements []string
}

func NewGmsh22Builder() *Gmsh22Builder { return &Gmsh22Builder{} }

func (b *Gmsh22Builder) PhysicalName(dim, tag int, name string) *Gmsh22Builder {
	b.names = append(b.names, fmt.Sprintf("%d %d \"%s\"", dim, tag, name))
	return b
}

// Node adds a node and returns its tag
func (b *Gmsh22Builder) Node(x, y, z float64) (tag int) {
	tag = len(b.nodes) + 1
	b.nodes = append(b.nodes, fmt.Sprintf("%d %v %v %v", tag, x, y, z))
	return
}

func (b *Gmsh22Builder) Element(gmshType, physical, entity int, nodeTags ...int) *Gmsh22Builder {
	fields := []string{
		strconv.Itoa(len(b.elements) + 1), strconv.Itoa(gmshType), "2",
		strconv.Itoa(physical), strconv.Itoa(entity),
	}
	for _, t := range nodeTags {
		fields = append(fields, strconv.Itoa(t))
	}
	b.elements = append(b.elements, strings.Join(fields, " "))
	return b
}

func (b *Gmsh22Builder) String() string {
	var sb strings.Builder
	sb.WriteString("$MeshFormat\n2.2 0 8\n$EndMeshFormat\n")
	if len(b.names) != 0 {
		fmt.Fprintf(&sb, "$PhysicalNames\n%d\n%s\n$EndPhysicalNames\n", len(b.names), strings.Join(b.names, "\n"))
	}
	fmt.Fprintf(&sb, "$Nodes\n%d\n", len(b.nodes))
	for _, l := range b.nodes {
		sb.WriteString(l + "\n")
	}
	sb.WriteString("$EndNodes\n")
	fmt.Fprintf(&sb, "$Elements\n%d\n", len(b.elements))
	for _, l := range b.elements {
		sb.WriteString(l + "\n")
	}
	sb.WriteString("$EndElements\n")
	return sb.String()
}

// Mesh parses the content, panicking on error
func (b *Gmsh22Builder) Mesh() *Mesh {
	m, err := ReadGmshFrom(strings.NewReader(b.String()))
	if err != nil {
		panic(err)
	}
	return m
}

// UnitSquareGmsh is an n x n grid of the unit square in the z = 0 plane, each
// cell split into two triangles along its (i,j)-(i+1,j+1) diagonal. Physical
// groups: curves "left", "right", "bottom", "top" and surface "domain". With
// quadratic set, order 2 elements are written with shared midside nodes.
func UnitSquareGmsh(n int, quadratic bool) *Gmsh22Builder {
	var (
		b    = NewGmsh22Builder()
		np   = n + 1
		h    = 1. / float64(n)
		mids = newMidsideNodes(b)
	)
	b.PhysicalName(1, 1, "left").PhysicalName(1, 2, "right").
		PhysicalName(1, 3, "bottom").PhysicalName(1, 4, "top").
		PhysicalName(2, 5, "domain")
	for j := 0; j < np; j++ {
		for i := 0; i < np; i++ {
			b.Node(float64(i)*h, float64(j)*h, 0)
		}
	}
	tag := func(i, j int) int { return j*np + i + 1 }
	line := func(phys, entity, a, c int) {
		if quadratic {
			b.Element(8, phys, entity, a, c, mids.get(a, c))
			return
		}
		b.Element(1, phys, entity, a, c)
	}
	tri := func(a, c, d int) {
		if quadratic {
			b.Element(9, 5, 1, a, c, d, mids.get(a, c), mids.get(c, d), mids.get(d, a))
			return
		}
		b.Element(2, 5, 1, a, c, d)
	}
	for k := 0; k < n; k++ {
		line(1, 11, tag(0, k), tag(0, k+1))
		line(2, 12, tag(n, k), tag(n, k+1))
		line(3, 13, tag(k, 0), tag(k+1, 0))
		line(4, 14, tag(k, n), tag(k+1, n))
	}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			a, c, d, e := tag(i, j), tag(i+1, j), tag(i+1, j+1), tag(i, j+1)
			tri(a, c, d)
			tri(a, d, e)
		}
	}
	return b
}

// UnitCubeGmsh is an n x n x n grid of the unit cube, each cell split into
// six tetrahedra around its main diagonal. Physical groups: surfaces "fixed"
// (x = 0), "load" (x = 1), "sides" (the other four faces) and volume "domain".
func UnitCubeGmsh(n int) *Gmsh22Builder {
	var (
		b  = NewGmsh22Builder()
		np = n + 1
		h  = 1. / float64(n)
	)
	b.PhysicalName(2, 1, "fixed").PhysicalName(2, 2, "load").
		PhysicalName(2, 3, "sides").PhysicalName(3, 4, "domain")
	for k := 0; k < np; k++ {
		for j := 0; j < np; j++ {
			for i := 0; i < np; i++ {
				b.Node(float64(i)*h, float64(j)*h, float64(k)*h)
			}
		}
	}
	tag := func(ijk [3]int) int { return (ijk[2]*np+ijk[1])*np + ijk[0] + 1 }
	perms := [6][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				for _, p := range perms {
					v := [3]int{i, j, k}
					tags := []int{tag(v)}
					for _, axis := range p {
						v[axis]++
						tags = append(tags, tag(v))
					}
					b.Element(4, 4, 1, tags...)
				}
			}
		}
	}
	// Boundary faces split along their min to max corner diagonal, matching
	// the tetrahedra faces
	for axis := 0; axis < 3; axis++ {
		u, w := (axis+1)%3, (axis+2)%3
		for side := 0; side <= n; side += n {
			phys, entity := 3, 13
			if axis == 0 && side == 0 {
				phys, entity = 1, 11
			} else if axis == 0 {
				phys, entity = 2, 12
			}
			for a := 0; a < n; a++ {
				for c := 0; c < n; c++ {
					at := func(du, dw int) int {
						var v [3]int
						v[axis], v[u], v[w] = side, a+du, c+dw
						return tag(v)
					}
					b.Element(2, phys, entity, at(0, 0), at(1, 0), at(1, 1))
					b.Element(2, phys, entity, at(0, 0), at(1, 1), at(0, 1))
				}
			}
		}
	}
	return b
}

type midsideNodes struct {
	b    *Gmsh22Builder
	tags map[[2]int]int
}

func newMidsideNodes(b *Gmsh22Builder) *midsideNodes {
	return &midsideNodes{b: b, tags: make(map[[2]int]int)}
}

// get returns the midside node of edge (a, c), creating it on first use
func (ms *midsideNodes) get(a, c int) int {
	key := [2]int{a, c}
	if a > c {
		key = [2]int{c, a}
	}
	if t, ok := ms.tags[key]; ok {
		return t
	}
	pa, pc := ms.nodePos(a), ms.nodePos(c)
	t := ms.b.Node(0.5*(pa[0]+pc[0]), 0.5*(pa[1]+pc[1]), 0.5*(pa[2]+pc[2]))
	ms.tags[key] = t
	return t
}

func (ms *midsideNodes) nodePos(tag int) (xyz [3]float64) {
	fields := strings.Fields(ms.b.nodes[tag-1])
	for i := range xyz {
		xyz[i], _ = strconv.ParseFloat(fields[i+1], 64)
	}
	return
}
