package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/utils"
)

// vtkNodeOrder maps VTK local node positions onto element local nodes. Only
// the quadratic tetrahedron differs: VTK orders its last two edges (1,3),
// (2,3) where Gmsh uses (2,3), (3,1).
func vtkNodeOrder(k elements.Kind) []int {
	if k == elements.TetrahedronOrder2 {
		return []int{0, 1, 2, 3, 4, 5, 6, 7, 9, 8}
	}
	order := make([]int, k.GetNumNodes())
	for i := range order {
		order[i] = i
	}
	return order
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', 16, 64) }

// WriteVTK writes the mesh and its nodal fields as a legacy ASCII
// unstructured grid. Elements of every dimension are written.
func (m *Mesh) WriteVTK(w io.Writer) error {
	var els []*elements.Element
	for dim := 1; dim <= 3; dim++ {
		els = append(els, m.Elements[dim]...)
	}
	nodeMap := make([]int, len(m.Nodes))
	for i := range nodeMap {
		nodeMap[i] = i
	}
	return m.writeVTK(w, els, nodeMap, len(m.Nodes), true)
}

// WriteVTKFile writes the VTK output to path
func (m *Mesh) WriteVTKFile(path string) (err error) {
	if err = writeFile(path, m.WriteVTK); err == nil {
		utils.Infof("wrote %s", path)
	}
	return
}

// writeVTK writes els using nodeMap to renumber nodes, -1 marking unused
// nodes. Fields are written only when withFields is set.
func (m *Mesh) writeVTK(w io.Writer, els []*elements.Element, nodeMap []int, numPoints int, withFields bool) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# vtk DataFile Version 2.0\n")
	fmt.Fprintf(bw, "Generated by gofea\n")
	fmt.Fprintf(bw, "ASCII\n")
	fmt.Fprintf(bw, "DATASET UNSTRUCTURED_GRID\n")

	fmt.Fprintf(bw, "POINTS %d double\n", numPoints)
	for i, pos := range m.Nodes {
		if nodeMap[i] < 0 {
			continue
		}
		fmt.Fprintf(bw, "%s %s %s\n", formatFloat(pos.X), formatFloat(pos.Y), formatFloat(pos.Z))
	}

	var size int
	for _, el := range els {
		size += 1 + el.NumNodes()
	}
	fmt.Fprintf(bw, "CELLS %d %d\n", len(els), size)
	for _, el := range els {
		ind := el.NodeIndices()
		row := make([]string, 0, 1+len(ind))
		row = append(row, strconv.Itoa(len(ind)))
		for _, local := range vtkNodeOrder(el.Kind()) {
			row = append(row, strconv.Itoa(nodeMap[ind[local]]))
		}
		fmt.Fprintln(bw, strings.Join(row, " "))
	}
	fmt.Fprintf(bw, "CELL_TYPES %d\n", len(els))
	for _, el := range els {
		fmt.Fprintln(bw, el.VTKCellType())
	}

	scalars, vectors, tensors := m.FieldNames()
	if withFields && len(scalars)+len(vectors)+len(tensors) > 0 {
		fmt.Fprintf(bw, "POINT_DATA %d\n", numPoints)
		for _, name := range scalars {
			fmt.Fprintf(bw, "SCALARS %s double 1\n", name)
			fmt.Fprintf(bw, "LOOKUP_TABLE default\n")
			for _, v := range m.scalarFields[name] {
				fmt.Fprintln(bw, formatFloat(v))
			}
		}
		for _, name := range vectors {
			fmt.Fprintf(bw, "VECTORS %s double\n", name)
			for _, v := range m.vectorFields[name] {
				fmt.Fprintf(bw, "%s %s %s\n", formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
			}
		}
		for _, name := range tensors {
			fmt.Fprintf(bw, "TENSORS %s double\n", name)
			for _, t := range m.tensorFields[name] {
				// Voigt xx, yy, zz, xy, yz, zx to full 3x3
				fmt.Fprintf(bw, "%s %s %s\n%s %s %s\n%s %s %s\n\n",
					formatFloat(t[0]), formatFloat(t[3]), formatFloat(t[5]),
					formatFloat(t[3]), formatFloat(t[1]), formatFloat(t[4]),
					formatFloat(t[5]), formatFloat(t[4]), formatFloat(t[2]))
			}
		}
	}
	return bw.Flush()
}

// WriteSurfaceMesh writes one VTK file per physical group of dimension one
// below the mesh dimension, named base_<group>.vtk, holding only that group's
// elements and the nodes they use. The written paths are returned.
func (m *Mesh) WriteSurfaceMesh(base string) (paths []string, err error) {
	dim := m.Dimension() - 1
	if dim < 1 {
		return nil, fmt.Errorf("surface mesh of a %d dimensional mesh: %w", dim+1, ErrUnsupportedFormat)
	}
	for _, name := range m.PhysicalNamesOfDim(dim) {
		var ids []int
		if ids, err = m.PhysicalElements(name, dim); err != nil {
			return
		}
		els := make([]*elements.Element, len(ids))
		nodeMap := make([]int, len(m.Nodes))
		for i := range nodeMap {
			nodeMap[i] = -1
		}
		for i, id := range ids {
			els[i] = m.Elements[dim][id]
			for _, n := range els[i].NodeIndices() {
				nodeMap[n] = 0
			}
		}
		var numPoints int
		for i := range nodeMap {
			if nodeMap[i] == 0 {
				nodeMap[i] = numPoints
				numPoints++
			}
		}
		path := fmt.Sprintf("%s_%s.vtk", base, sanitizeName(name))
		if err = writeFile(path, func(w io.Writer) error {
			return m.writeVTK(w, els, nodeMap, numPoints, false)
		}); err != nil {
			return
		}
		utils.Infof("wrote %s: %d elements of %q", path, len(els), name)
		paths = append(paths, path)
	}
	return
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':':
			return '_'
		}
		return r
	}, name)
}

func writeFile(path string, write func(w io.Writer) error) (err error) {
	var file *os.File
	if file, err = os.Create(path); err != nil {
		return
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	if err = write(file); err != nil {
		err = fmt.Errorf("%s: %w", path, err)
	}
	return
}
