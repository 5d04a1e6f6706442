package mesh

import (
	"fmt"
	"sort"
)

// Nodal field storage. Fields are created zeroed on first use, sized to the
// node count at that time.

func (m *Mesh) AddScalarField(name string) []float64 {
	if f, ok := m.scalarFields[name]; ok {
		return f
	}
	f := make([]float64, len(m.Nodes))
	m.scalarFields[name] = f
	return f
}

func (m *Mesh) AddVectorField(name string) [][3]float64 {
	if f, ok := m.vectorFields[name]; ok {
		return f
	}
	f := make([][3]float64, len(m.Nodes))
	m.vectorFields[name] = f
	return f
}

// AddTensorField stores symmetric tensors in Voigt order xx, yy, zz, xy, yz, zx.
// Off-diagonal entries are tensor components, not engineering shear.
func (m *Mesh) AddTensorField(name string) [][6]float64 {
	if f, ok := m.tensorFields[name]; ok {
		return f
	}
	f := make([][6]float64, len(m.Nodes))
	m.tensorFields[name] = f
	return f
}

func (m *Mesh) ScalarFieldSetValue(name string, node int, val float64) {
	f := m.AddScalarField(name)
	m.checkNode(node)
	f[node] = val
}

func (m *Mesh) VectorFieldSetValue(name string, node int, val [3]float64) {
	f := m.AddVectorField(name)
	m.checkNode(node)
	f[node] = val
}

func (m *Mesh) TensorFieldSetValue(name string, node int, val [6]float64) {
	f := m.AddTensorField(name)
	m.checkNode(node)
	f[node] = val
}

func (m *Mesh) ScalarField(name string) (f []float64, ok bool) {
	f, ok = m.scalarFields[name]
	return
}

func (m *Mesh) VectorField(name string) (f [][3]float64, ok bool) {
	f, ok = m.vectorFields[name]
	return
}

func (m *Mesh) TensorField(name string) (f [][6]float64, ok bool) {
	f, ok = m.tensorFields[name]
	return
}

// FieldNames returns the sorted names of each field type
func (m *Mesh) FieldNames() (scalars, vectors, tensors []string) {
	for name := range m.scalarFields {
		scalars = append(scalars, name)
	}
	for name := range m.vectorFields {
		vectors = append(vectors, name)
	}
	for name := range m.tensorFields {
		tensors = append(tensors, name)
	}
	sort.Strings(scalars)
	sort.Strings(vectors)
	sort.Strings(tensors)
	return
}

func (m *Mesh) checkNode(node int) {
	if node < 0 || node >= len(m.Nodes) {
		panic(fmt.Errorf("field node %d out of range [0,%d)", node, len(m.Nodes)))
	}
}
