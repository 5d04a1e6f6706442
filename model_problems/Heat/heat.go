package Heat

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"

	"github.com/notargets/gofea/assembly"
	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/geometry3D"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

var ErrInvalidInput = errors.New("invalid heat equation input")

// Input describes a steady conduction problem. Boundary values are keyed by
// physical group name on the boundary dimension.
type Input struct {
	MeshFile            string
	ThermalConductivity float64
	HeatSource          float64            // volumetric source, zero if unset
	DirichletBCs        map[string]float64 // temperature
	NeumannBCs          map[string]float64 // inward normal flux
}

// HeatEq solves -div(k grad T) = s over the elements of dimension Dim
type HeatEq struct {
	Input     Input
	Dim       int
	mesh      *mesh.Mesh
	assembler *assembly.Assembler
}

type HeatEq2D struct{ *HeatEq }

type HeatEq3D struct{ *HeatEq }

func NewHeatEq2D(input Input, opts ...assembly.Option) (h *HeatEq2D, err error) {
	var c *HeatEq
	if c, err = newHeatEq(2, input, nil, opts); err != nil {
		return
	}
	return &HeatEq2D{c}, nil
}

func NewHeatEq2DFromMesh(input Input, m *mesh.Mesh, opts ...assembly.Option) (h *HeatEq2D, err error) {
	var c *HeatEq
	if c, err = newHeatEq(2, input, m, opts); err != nil {
		return
	}
	return &HeatEq2D{c}, nil
}

func NewHeatEq3D(input Input, opts ...assembly.Option) (h *HeatEq3D, err error) {
	var c *HeatEq
	if c, err = newHeatEq(3, input, nil, opts); err != nil {
		return
	}
	return &HeatEq3D{c}, nil
}

func NewHeatEq3DFromMesh(input Input, m *mesh.Mesh, opts ...assembly.Option) (h *HeatEq3D, err error) {
	var c *HeatEq
	if c, err = newHeatEq(3, input, m, opts); err != nil {
		return
	}
	return &HeatEq3D{c}, nil
}

func newHeatEq(dim int, input Input, m *mesh.Mesh, opts []assembly.Option) (c *HeatEq, err error) {
	if err = input.Validate(); err != nil {
		return
	}
	if m == nil {
		if m, err = mesh.ReadMeshFile(input.MeshFile); err != nil {
			return
		}
	}
	if m.GetNumElements(dim) == 0 {
		err = fmt.Errorf("%w: mesh has no elements of dimension %d", ErrInvalidInput, dim)
		return
	}
	c = &HeatEq{
		Input:     input,
		Dim:       dim,
		mesh:      m,
		assembler: assembly.NewAssembler(m, 1, opts...),
	}
	return
}

// Validate reports every invalid parameter
func (in Input) Validate() (err error) {
	if math.IsNaN(in.ThermalConductivity) || in.ThermalConductivity <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: thermal conductivity %v must be positive",
			ErrInvalidInput, in.ThermalConductivity))
	}
	if math.IsNaN(in.HeatSource) {
		err = multierr.Append(err, fmt.Errorf("%w: heat source is NaN", ErrInvalidInput))
	}
	for name, v := range in.DirichletBCs {
		if math.IsNaN(v) {
			err = multierr.Append(err, fmt.Errorf("%w: dirichlet value on %q is NaN", ErrInvalidInput, name))
		}
	}
	for name, v := range in.NeumannBCs {
		if math.IsNaN(v) {
			err = multierr.Append(err, fmt.Errorf("%w: neumann value on %q is NaN", ErrInvalidInput, name))
		}
	}
	return
}

func (c *HeatEq) Mesh() *mesh.Mesh { return c.mesh }

func (c *HeatEq) Assembler() *assembly.Assembler { return c.assembler }

// Solve computes the nodal field "temperature"
func (c *HeatEq) Solve() (err error) {
	var (
		start = time.Now()
		k     = c.Input.ThermalConductivity
		a     = c.assembler
	)
	c.mesh.AddScalarField("temperature")
	K, err := a.AssembleStiffness(c.Dim, func(el *elements.Element, i, j int) func(pos geometry3D.Coord) float64 {
		return func(pos geometry3D.Coord) float64 {
			gi, gj := el.ShapeFnGradient(i, pos), el.ShapeFnGradient(j, pos)
			var sum float64
			for d := 0; d < c.Dim; d++ {
				sum += gi[d] * gj[d]
			}
			return k * sum
		}
	})
	if err != nil {
		return
	}
	f := a.NewVector()
	if s := c.Input.HeatSource; s != 0 {
		if f, err = a.AssembleLoad(c.Dim, func(el *elements.Element, i, _ int) func(pos geometry3D.Coord) float64 {
			return func(pos geometry3D.Coord) float64 { return s * el.ShapeFn(i, pos) }
		}); err != nil {
			return
		}
	}
	bcDim := c.Dim - 1
	if err = a.ApplyNeumann(f, bcDim, scalarBCs(c.Input.NeumannBCs)); err != nil {
		return
	}
	if _, err = a.ApplyDirichlet(K, f, bcDim, scalarBCs(c.Input.DirichletBCs)); err != nil {
		return
	}
	x, err := a.Solve(K, f)
	if err != nil {
		return
	}
	if err = a.ScatterScalar(x, "temperature"); err != nil {
		return
	}
	utils.Infof("heat equation (%dD) solved on %d nodes in %v", c.Dim, c.mesh.GetNumNodes(), time.Since(start))
	return
}

func (c *HeatEq) WriteVTK(path string) error { return c.mesh.WriteVTKFile(path) }

func scalarBCs(bcs map[string]float64) (R map[string][]float64) {
	R = make(map[string][]float64, len(bcs))
	for name, v := range bcs {
		R[name] = []float64{v}
	}
	return
}
