package assembly

import (
	"errors"
	"fmt"
	"sort"

	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/geometry3D"
	"github.com/notargets/gofea/linalg"
	"github.com/notargets/gofea/utils"
)

var (
	ErrDofsPerNode = errors.New("kernel does not match dofs per node")
	ErrBCValue     = errors.New("boundary value length does not match dofs per node")
)

// ApplyDirichlet prescribes values on every node of the elements of
// dimension bcDim in each named physical group. values[name] holds one entry
// per node component. Groups are visited in name order and a node shared by
// two groups keeps the value of the later one. K must be assembled. The
// constrained dofs are returned in ascending order.
func (a *Assembler) ApplyDirichlet(K *linalg.Matrix, f *linalg.Vector, bcDim int,
	values map[string][]float64) (dofs []int, err error) {
	var (
		prescribed  = a.NewVector()
		constrained utils.Index
	)
	for _, name := range sortedNames(values) {
		val := values[name]
		var ids []int
		if ids, err = a.boundaryElements(name, bcDim, val); err != nil {
			return
		}
		var nodes utils.Index
		for _, id := range ids {
			nodes = append(nodes, a.Mesh.GetElement(bcDim, id).NodeIndices()...)
		}
		for _, dof := range nodes.Unique().Strided(a.DofsPerNode) {
			prescribed.SetValue(dof, val[dof%a.DofsPerNode])
			constrained = append(constrained, dof)
		}
	}
	dofs = constrained.Unique()
	for _, dof := range dofs {
		if err = K.SetDirichletBC(dof, prescribed, f); err != nil {
			return
		}
	}
	utils.Debugf("dirichlet conditions on %d groups constrain %d dofs", len(values), len(dofs))
	return
}

// ApplyNeumann adds the integral of values[name] times each shape function
// over the elements of dimension bcDim in each named physical group. Apply it
// before ApplyDirichlet so constrained entries of f keep their values.
func (a *Assembler) ApplyNeumann(f *linalg.Vector, bcDim int, values map[string][]float64) (err error) {
	for _, name := range sortedNames(values) {
		val := values[name]
		var ids []int
		if ids, err = a.boundaryElements(name, bcDim, val); err != nil {
			return
		}
		if len(ids) == 0 {
			continue
		}
		err = a.AddLoad(f, bcDim, ids, func(el *elements.Element, i, c int) func(pos geometry3D.Coord) float64 {
			return func(pos geometry3D.Coord) float64 { return val[c] * el.ShapeFn(i, pos) }
		})
		if err != nil {
			return
		}
	}
	return
}

func (a *Assembler) boundaryElements(name string, bcDim int, val []float64) (ids []int, err error) {
	if len(val) != a.DofsPerNode {
		err = fmt.Errorf("%q has %d values for %d dofs per node: %w", name, len(val), a.DofsPerNode, ErrBCValue)
		return
	}
	if ids, err = a.Mesh.PhysicalElements(name, bcDim); err != nil {
		return
	}
	if len(ids) == 0 {
		utils.Warnf("physical group %q has no elements of dimension %d", name, bcDim)
	}
	return
}

func sortedNames(values map[string][]float64) (names []string) {
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
