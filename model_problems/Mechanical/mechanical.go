package Mechanical

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofea/assembly"
	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/geometry3D"
	"github.com/notargets/gofea/linalg"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

var ErrInvalidInput = errors.New("invalid mechanical input")

const (
	dimension   = 3
	bcDimension = 2
)

// Input describes a linear elastic solid. Boundary vectors are keyed by
// physical surface name.
type Input struct {
	MeshFile      string
	YoungsModulus float64
	PoissonRatio  float64
	DirichletBCs  map[string][3]float64 // displacement
	NeumannBCs    map[string][3]float64 // traction
}

// Validate reports every invalid parameter
func (in Input) Validate() (err error) {
	if math.IsNaN(in.YoungsModulus) || in.YoungsModulus <= 0 {
		err = multierr.Append(err, fmt.Errorf("%w: Young's modulus %v must be positive",
			ErrInvalidInput, in.YoungsModulus))
	}
	if math.IsNaN(in.PoissonRatio) || in.PoissonRatio <= -1 || in.PoissonRatio >= 0.5 {
		err = multierr.Append(err, fmt.Errorf("%w: Poisson ratio %v outside (-1, 0.5)",
			ErrInvalidInput, in.PoissonRatio))
	}
	for _, bcs := range []map[string][3]float64{in.DirichletBCs, in.NeumannBCs} {
		for name, v := range bcs {
			if math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2]) {
				err = multierr.Append(err, fmt.Errorf("%w: boundary value on %q is NaN", ErrInvalidInput, name))
			}
		}
	}
	return
}

type Mechanical struct {
	Input     Input
	D         utils.Matrix
	mesh      *mesh.Mesh
	assembler *assembly.Assembler
}

func NewMechanical(input Input, opts ...assembly.Option) (c *Mechanical, err error) {
	if err = input.Validate(); err != nil {
		return
	}
	var m *mesh.Mesh
	if m, err = mesh.ReadMeshFile(input.MeshFile); err != nil {
		return
	}
	return NewMechanicalFromMesh(input, m, opts...)
}

func NewMechanicalFromMesh(input Input, m *mesh.Mesh, opts ...assembly.Option) (c *Mechanical, err error) {
	if err = input.Validate(); err != nil {
		return
	}
	if m.GetNumElements(dimension) == 0 {
		err = fmt.Errorf("%w: mesh has no volume elements", ErrInvalidInput)
		return
	}
	c = &Mechanical{
		Input:     input,
		D:         ElasticityMatrix(input.YoungsModulus, input.PoissonRatio),
		mesh:      m,
		assembler: assembly.NewAssembler(m, 3, opts...),
	}
	return
}

// ElasticityMatrix is the isotropic 6x6 constitutive matrix in Voigt order
// xx, yy, zz, xy, yz, zx with engineering shear strains
func ElasticityMatrix(E, nu float64) (D utils.Matrix) {
	var (
		c     = E / ((1 + nu) * (1 - 2*nu))
		diag  = c * (1 - nu)
		off   = c * nu
		shear = c * 0.5 * (1 - 2*nu)
	)
	D = utils.NewMatrix(6, 6)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				D.Set(i, j, diag)
			} else {
				D.Set(i, j, off)
			}
		}
		D.Set(i+3, i+3, shear)
	}
	D.SetReadOnly("D")
	return
}

// StrainDisplacement is the 6x3 matrix mapping the displacement of local
// node i to strain at p
func StrainDisplacement(el *elements.Element, i int, p geometry3D.Coord) (B utils.Matrix) {
	g := el.ShapeFnGradient(i, p)
	B = utils.NewMatrix(6, 3, []float64{
		g[0], 0, 0,
		0, g[1], 0,
		0, 0, g[2],
		g[1], g[0], 0,
		0, g[2], g[1],
		g[2], 0, g[0],
	})
	return
}

func (c *Mechanical) Mesh() *mesh.Mesh { return c.mesh }

// Solve computes the nodal fields "displacement", "stress" and "strain"
func (c *Mechanical) Solve() (err error) {
	var (
		start = time.Now()
		a     = c.assembler
	)
	c.mesh.AddVectorField("displacement")
	K, err := a.AssembleBlockStiffness(dimension, func(el *elements.Element, i, j int) func(pos geometry3D.Coord) *mat.Dense {
		return func(pos geometry3D.Coord) *mat.Dense {
			// Bi^T D Bj
			return StrainDisplacement(el, i, pos).Transpose().Mul(c.D.Mul(StrainDisplacement(el, j, pos))).M
		}
	})
	if err != nil {
		return
	}
	f := a.NewVector()
	if err = a.ApplyNeumann(f, bcDimension, vectorBCs(c.Input.NeumannBCs)); err != nil {
		return
	}
	if _, err = a.ApplyDirichlet(K, f, bcDimension, vectorBCs(c.Input.DirichletBCs)); err != nil {
		return
	}
	x, err := a.Solve(K, f)
	if err != nil {
		return
	}
	if err = a.ScatterVector(x, "displacement"); err != nil {
		return
	}
	c.recoverStressStrain(x)
	utils.Infof("mechanical problem solved on %d nodes in %v", c.mesh.GetNumNodes(), time.Since(start))
	return
}

// recoverStressStrain evaluates strain and stress at every node of every
// element and averages over the elements sharing each node. Strain is stored
// with tensor shear components, half the engineering shear of StrainDisplacement.
func (c *Mechanical) recoverStressStrain(x *linalg.Vector) {
	var (
		nn     = c.mesh.GetNumNodes()
		stress = make([][6]float64, nn)
		strain = make([][6]float64, nn)
		count  = make([]float64, nn)
		disp   = mat.NewVecDense(3, nil)
		eps    = mat.NewVecDense(6, nil)
		sig    = mat.NewVecDense(6, nil)
		tmp    = mat.NewVecDense(6, nil)
	)
	for _, el := range c.mesh.Elements[dimension] {
		for i := 0; i < el.NumNodes(); i++ {
			node := el.GetNodeIndex(i)
			pos := c.mesh.GetNodePosition(node)
			eps.Zero()
			for j := 0; j < el.NumNodes(); j++ {
				col := el.GetNodeIndex(j)
				for d := 0; d < 3; d++ {
					disp.SetVec(d, x.GetValue(c.assembler.Dof(col, d)))
				}
				tmp.MulVec(StrainDisplacement(el, j, pos), disp)
				eps.AddVec(eps, tmp)
			}
			sig.MulVec(c.D, eps)
			for k := 0; k < 6; k++ {
				e := eps.AtVec(k)
				if k >= 3 {
					// engineering shear to tensor shear
					e *= 0.5
				}
				strain[node][k] += e
				stress[node][k] += sig.AtVec(k)
			}
			count[node]++
		}
	}
	c.mesh.AddTensorField("stress")
	c.mesh.AddTensorField("strain")
	for node := 0; node < nn; node++ {
		if count[node] == 0 {
			continue
		}
		for k := 0; k < 6; k++ {
			stress[node][k] /= count[node]
			strain[node][k] /= count[node]
		}
		c.mesh.TensorFieldSetValue("stress", node, stress[node])
		c.mesh.TensorFieldSetValue("strain", node, strain[node])
	}
}

func (c *Mechanical) WriteVTK(path string) error { return c.mesh.WriteVTKFile(path) }

func vectorBCs(bcs map[string][3]float64) (R map[string][]float64) {
	R = make(map[string][]float64, len(bcs))
	for name, v := range bcs {
		R[name] = []float64{v[0], v[1], v[2]}
	}
	return
}
