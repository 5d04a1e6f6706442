package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/geometry3D"
	"github.com/notargets/gofea/utils"
)

// gmshPointType is the single node point element, which carries no volume
// and is skipped
const gmshPointType = 15

// ReadMeshFile reads a mesh file based on extension
func ReadMeshFile(filename string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".msh":
		return ReadGmsh(filename)
	default:
		return nil, fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}
}

// ReadGmsh reads an ASCII Gmsh file of version 2.2 or 4.1
func ReadGmsh(filename string) (*Mesh, error) { return readGmshFile(filename, "") }

// ReadGmsh4 reads an ASCII Gmsh 4.1 file
func ReadGmsh4(filename string) (*Mesh, error) { return readGmshFile(filename, "4") }

// ReadGmsh22 reads an ASCII Gmsh 2.2 file
func ReadGmsh22(filename string) (*Mesh, error) { return readGmshFile(filename, "2") }

func readGmshFile(filename, major string) (m *Mesh, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	if m, err = ReadGmshFrom(file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if major != "" && !strings.HasPrefix(m.FormatVersion, major) {
		return nil, fmt.Errorf("%s: version %s is not a %s.x file: %w",
			filename, m.FormatVersion, major, ErrUnsupportedFormat)
	}
	utils.Debugf("read %s: %d nodes, %d/%d/%d elements of dimension 1/2/3",
		filename, m.GetNumNodes(), len(m.Elements[1]), len(m.Elements[2]), len(m.Elements[3]))
	return
}

type gmshReader struct {
	scanner *bufio.Scanner
	mesh    *Mesh
	line    int
	// {dim, entity tag} -> physical tags, from the 4.x $Entities section
	entityPhysicals map[[2]int][]int
}

// ReadGmshFrom parses ASCII Gmsh content. The $MeshFormat section must come
// first and selects the 2.2 or 4.1 layout of the $Nodes and $Elements
// sections; unknown sections are skipped.
func ReadGmshFrom(r io.Reader) (m *Mesh, err error) {
	gr := &gmshReader{
		scanner:         bufio.NewScanner(r),
		mesh:            NewMesh(),
		entityPhysicals: make(map[[2]int][]int),
	}
	// Increase scanner buffer for large files
	const maxScanTokenSize = 1024 * 1024 * 10 // 10MB
	gr.scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)

	for gr.scanner.Scan() {
		gr.line++
		line := strings.TrimSpace(gr.scanner.Text())
		if !strings.HasPrefix(line, "$") {
			continue
		}
		if line != "$MeshFormat" && gr.mesh.FormatVersion == "" {
			return nil, fmt.Errorf("line %d: section %s before $MeshFormat", gr.line, line)
		}
		switch line {
		case "$MeshFormat":
			err = gr.readMeshFormat()
		case "$PhysicalNames":
			err = gr.readPhysicalNames()
		case "$Entities":
			if gr.isV4() {
				err = gr.readEntities4()
			} else {
				err = gr.skipSection("$EndEntities")
			}
		case "$Nodes":
			if gr.isV4() {
				err = gr.readNodes4()
			} else {
				err = gr.readNodes22()
			}
		case "$Elements":
			if gr.isV4() {
				err = gr.readElements4()
			} else {
				err = gr.readElements22()
			}
		default:
			err = gr.skipSection("$End" + line[1:])
		}
		if err != nil {
			return nil, err
		}
	}
	if err = gr.scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error: %w", err)
	}
	if gr.mesh.FormatVersion == "" {
		return nil, fmt.Errorf("no $MeshFormat section found: %w", ErrUnsupportedFormat)
	}
	m = gr.mesh
	return
}

func (gr *gmshReader) isV4() bool { return strings.HasPrefix(gr.mesh.FormatVersion, "4") }

// next returns the fields of the next line, failing at end of input
func (gr *gmshReader) next(section string) (fields []string, err error) {
	if !gr.scanner.Scan() {
		if err = gr.scanner.Err(); err == nil {
			err = fmt.Errorf("unexpected EOF in %s", section)
		}
		return
	}
	gr.line++
	fields = strings.Fields(gr.scanner.Text())
	return
}

// nextInts reads a line and parses its first n fields as integers
func (gr *gmshReader) nextInts(section string, n int) (vals []int, fields []string, err error) {
	if fields, err = gr.next(section); err != nil {
		return
	}
	vals, err = gr.parseInts(section, fields, n)
	return
}

func (gr *gmshReader) parseInts(section string, fields []string, n int) (vals []int, err error) {
	if len(fields) < n {
		err = fmt.Errorf("line %d in %s: expected at least %d fields, got %d", gr.line, section, n, len(fields))
		return
	}
	vals = make([]int, n)
	for i := 0; i < n; i++ {
		if vals[i], err = strconv.Atoi(fields[i]); err != nil {
			err = fmt.Errorf("line %d in %s: %w", gr.line, section, err)
			return
		}
	}
	return
}

func (gr *gmshReader) parseCoord(section string, fields []string) (pos geometry3D.Coord, err error) {
	if len(fields) < 3 {
		err = fmt.Errorf("line %d in %s: expected 3 coordinates, got %d", gr.line, section, len(fields))
		return
	}
	var xyz [3]float64
	for i := range xyz {
		if xyz[i], err = strconv.ParseFloat(fields[i], 64); err != nil {
			err = fmt.Errorf("line %d in %s: %w", gr.line, section, err)
			return
		}
	}
	pos = geometry3D.NewCoordXYZ(xyz[0], xyz[1], xyz[2])
	return
}

// expectEnd consumes the closing tag of a section
func (gr *gmshReader) expectEnd(endTag string) (err error) {
	var fields []string
	if fields, err = gr.next(endTag); err != nil {
		return
	}
	if len(fields) != 1 || fields[0] != endTag {
		err = fmt.Errorf("line %d: expected %s, got %q", gr.line, endTag, strings.Join(fields, " "))
	}
	return
}

func (gr *gmshReader) skipSection(endTag string) error {
	for gr.scanner.Scan() {
		gr.line++
		if strings.TrimSpace(gr.scanner.Text()) == endTag {
			return nil
		}
	}
	return fmt.Errorf("unexpected EOF looking for %s", endTag)
}

func (gr *gmshReader) readMeshFormat() (err error) {
	var fields []string
	if fields, err = gr.next("MeshFormat"); err != nil {
		return
	}
	if len(fields) < 3 {
		return fmt.Errorf("line %d: invalid MeshFormat line", gr.line)
	}
	version := fields[0]
	switch {
	case strings.HasPrefix(version, "2."):
	case version == "4.1":
	default:
		return fmt.Errorf("gmsh version %s: %w", version, ErrUnsupportedFormat)
	}
	if fields[1] != "0" {
		return fmt.Errorf("binary gmsh files: %w", ErrUnsupportedFormat)
	}
	gr.mesh.FormatVersion = version
	return gr.skipSection("$EndMeshFormat")
}

func (gr *gmshReader) readPhysicalNames() (err error) {
	var vals []int
	if vals, _, err = gr.nextInts("PhysicalNames", 1); err != nil {
		return
	}
	for i := 0; i < vals[0]; i++ {
		var (
			fields []string
			dt     []int
		)
		if dt, fields, err = gr.nextInts("PhysicalNames", 2); err != nil {
			return
		}
		if len(fields) < 3 {
			return fmt.Errorf("line %d: invalid physical name entry", gr.line)
		}
		name := strings.Trim(strings.Join(fields[2:], " "), "\"")
		gr.mesh.SetPhysicalName(dt[0], dt[1], name)
	}
	return gr.expectEnd("$EndPhysicalNames")
}

// addElement maps the gmsh type and files the element, skipping point elements
func (gr *gmshReader) addElement(section string, gmshType, entityTag int, physicalTags, nodeTags []int) (err error) {
	if gmshType == gmshPointType {
		return
	}
	var kind elements.Kind
	if kind, err = elements.KindFromGmshType(gmshType); err != nil {
		return fmt.Errorf("line %d in %s: %w", gr.line, section, err)
	}
	if len(nodeTags) != kind.GetNumNodes() {
		return fmt.Errorf("line %d in %s: %v element expects %d nodes, got %d",
			gr.line, section, kind, kind.GetNumNodes(), len(nodeTags))
	}
	if _, err = gr.mesh.AddElement(kind, entityTag, physicalTags, nodeTags); err != nil {
		return fmt.Errorf("line %d in %s: %w", gr.line, section, err)
	}
	return
}

// gmshNodeCount is the node count of a supported gmsh element type
func gmshNodeCount(gmshType int) (n int, err error) {
	if gmshType == gmshPointType {
		return 1, nil
	}
	var kind elements.Kind
	if kind, err = elements.KindFromGmshType(gmshType); err != nil {
		return
	}
	return kind.GetNumNodes(), nil
}
