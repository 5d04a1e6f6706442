package assembly

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/geometry3D"
	"github.com/notargets/gofea/linalg"
	"github.com/notargets/gofea/mesh"
)

func laplace(el *elements.Element, i, j int) func(pos geometry3D.Coord) float64 {
	return func(pos geometry3D.Coord) float64 {
		gi, gj := el.ShapeFnGradient(i, pos), el.ShapeFnGradient(j, pos)
		return gi[0]*gj[0] + gi[1]*gj[1] + gi[2]*gj[2]
	}
}

func laplaceBlock(nd int) BlockKernel {
	return func(el *elements.Element, i, j int) func(pos geometry3D.Coord) *mat.Dense {
		k := laplace(el, i, j)
		return func(pos geometry3D.Coord) *mat.Dense {
			v := k(pos)
			R := mat.NewDense(nd, nd, nil)
			for c := 0; c < nd; c++ {
				R.Set(c, c, v)
			}
			return R
		}
	}
}

func TestAssembleStiffness(t *testing.T) {
	m := mesh.UnitSquareGmsh(3, false).Mesh()
	a := NewAssembler(m, 1)
	K, err := a.AssembleStiffness(2, laplace)
	require.NoError(t, err)
	require.True(t, K.IsAssembled())
	assert.Equal(t, 16, K.Rows())
	assert.True(t, K.IsSymmetric(1.e-12))
	// Constants are in the null space of the Laplacian
	ones := linalg.NewVector(16)
	for i := 0; i < 16; i++ {
		ones.SetValue(i, 1)
	}
	y, err := K.MulVec(ones)
	require.NoError(t, err)
	assert.InDelta(t, 0., y.Norm(), 1.e-12)
	// Interior node of a uniform right triangle grid has the 5 point stencil
	center := 5
	assert.InDelta(t, 4., K.GetValue(center, center), 1.e-12)
	assert.InDelta(t, -1., K.GetValue(center, center+1), 1.e-12)
	assert.InDelta(t, -1., K.GetValue(center, center+4), 1.e-12)
	assert.InDelta(t, 0., K.GetValue(center, center+5), 1.e-12)

	_, err = NewAssembler(m, 2).AssembleStiffness(2, laplace)
	assert.True(t, errors.Is(err, ErrDofsPerNode))
}

func TestAssembleBlockStiffness(t *testing.T) {
	m := mesh.UnitSquareGmsh(2, true).Mesh()
	K1, err := NewAssembler(m, 1).AssembleStiffness(2, laplace)
	require.NoError(t, err)
	a2 := NewAssembler(m, 2)
	K2, err := a2.AssembleBlockStiffness(2, laplaceBlock(2))
	require.NoError(t, err)
	require.Equal(t, 2*m.GetNumNodes(), K2.Rows())
	n := m.GetNumNodes()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := K1.GetValue(i, j)
			assert.InDelta(t, v, K2.GetValue(a2.Dof(i, 0), a2.Dof(j, 0)), 1.e-12)
			assert.InDelta(t, v, K2.GetValue(a2.Dof(i, 1), a2.Dof(j, 1)), 1.e-12)
			assert.Equal(t, 0., K2.GetValue(a2.Dof(i, 0), a2.Dof(j, 1)))
		}
	}
}

func TestAssembleLoad(t *testing.T) {
	m := mesh.UnitSquareGmsh(4, true).Mesh()
	a := NewAssembler(m, 1)
	f, err := a.AssembleLoad(2, func(el *elements.Element, i, _ int) func(pos geometry3D.Coord) float64 {
		return func(pos geometry3D.Coord) float64 { return el.ShapeFn(i, pos) }
	})
	require.NoError(t, err)
	var sum float64
	for _, v := range f.Data() {
		sum += v
	}
	assert.InDelta(t, 1., sum, 1.e-12)
}

func TestParallelMatchesSerial(t *testing.T) {
	m := mesh.UnitSquareGmsh(8, false).Mesh()
	serial, err := NewAssembler(m, 1).AssembleStiffness(2, laplace)
	require.NoError(t, err)
	for _, opts := range [][]Option{
		{WithWorkers(4)},
		{WithWorkers(3), WithPartition(true)},
		{WithWorkers(1000)},
	} {
		K, err := NewAssembler(m, 1, opts...).AssembleStiffness(2, laplace)
		require.NoError(t, err)
		assert.Equal(t, serial.NNZ(), K.NNZ())
		assert.True(t, mat.EqualApprox(serial.ToDense(), K.ToDense(), 1.e-12))
	}
}

func solveLaplace(t *testing.T, m *mesh.Mesh, dirichlet, neumann map[string][]float64,
	opts ...Option) (a *Assembler, dofs []int) {
	a = NewAssembler(m, 1, opts...)
	K, err := a.AssembleStiffness(2, laplace)
	require.NoError(t, err)
	f := a.NewVector()
	require.NoError(t, a.ApplyNeumann(f, 1, neumann))
	dofs, err = a.ApplyDirichlet(K, f, 1, dirichlet)
	require.NoError(t, err)
	x, err := a.Solve(K, f)
	require.NoError(t, err)
	require.NoError(t, a.ScatterScalar(x, "temperature"))
	return
}

func TestLaplaceLinearSolution(t *testing.T) {
	for _, quadratic := range []bool{false, true} {
		m := mesh.UnitSquareGmsh(4, quadratic).Mesh()
		_, dofs := solveLaplace(t, m, map[string][]float64{"left": {0}, "right": {1}}, nil)
		if quadratic {
			assert.Len(t, dofs, 18)
		} else {
			assert.Len(t, dofs, 10)
		}
		T, ok := m.ScalarField("temperature")
		require.True(t, ok)
		for node, val := range T {
			assert.InDelta(t, m.GetNodePosition(node).X, val, 1.e-8)
		}
	}
}

func TestLaplaceNeumann(t *testing.T) {
	m := mesh.UnitSquareGmsh(4, true).Mesh()
	solveLaplace(t, m, map[string][]float64{"left": {0}}, map[string][]float64{"right": {2}},
		WithWorkers(2), WithSolverOptions(linalg.SolverOptions{Method: linalg.LU}))
	T, _ := m.ScalarField("temperature")
	for node, val := range T {
		assert.InDelta(t, 2*m.GetNodePosition(node).X, val, 1.e-10)
	}
}

func TestDirichletIdempotent(t *testing.T) {
	m := mesh.UnitSquareGmsh(3, false).Mesh()
	a := NewAssembler(m, 1)
	K, err := a.AssembleStiffness(2, laplace)
	require.NoError(t, err)
	f := a.NewVector()
	bc := map[string][]float64{"left": {1}, "top": {3}}
	_, err = a.ApplyDirichlet(K, f, 1, bc)
	require.NoError(t, err)
	x1, err := a.Solve(K, f)
	require.NoError(t, err)
	_, err = a.ApplyDirichlet(K, f, 1, bc)
	require.NoError(t, err)
	x2, err := a.Solve(K, f)
	require.NoError(t, err)
	for i := range x1.Data() {
		assert.InDelta(t, x1.GetValue(i), x2.GetValue(i), 1.e-10)
	}
	// The corner shared by left and top takes the value applied last
	corner := 12
	assert.Equal(t, 0., m.GetNodePosition(corner).X)
	assert.Equal(t, 1., m.GetNodePosition(corner).Y)
	assert.InDelta(t, 3., x1.GetValue(corner), 1.e-12)
}

func TestBoundaryErrors(t *testing.T) {
	m := mesh.UnitSquareGmsh(2, false).Mesh()
	a := NewAssembler(m, 1)
	K, err := a.AssembleStiffness(2, laplace)
	require.NoError(t, err)
	f := a.NewVector()
	_, err = a.ApplyDirichlet(K, f, 1, map[string][]float64{"inlet": {0}})
	assert.True(t, errors.Is(err, mesh.ErrUnknownPhysicalName))
	_, err = a.ApplyDirichlet(K, f, 1, map[string][]float64{"left": {0, 1}})
	assert.True(t, errors.Is(err, ErrBCValue))
	err = a.ApplyNeumann(f, 1, map[string][]float64{"outlet": {1}})
	assert.True(t, errors.Is(err, mesh.ErrUnknownPhysicalName))
	err = a.ApplyNeumann(linalg.NewVector(3), 1, map[string][]float64{"left": {1}})
	assert.True(t, errors.Is(err, linalg.ErrDimension))

	assert.True(t, errors.Is(a.ScatterScalar(linalg.NewVector(2), "T"), linalg.ErrDimension))
	a2 := NewAssembler(m, 2)
	assert.True(t, errors.Is(a2.ScatterScalar(linalg.NewVector(a2.NumDofs()), "T"), ErrDofsPerNode))
}

func TestScatterVector(t *testing.T) {
	m := mesh.UnitSquareGmsh(1, false).Mesh()
	a := NewAssembler(m, 2)
	x := a.NewVector()
	for node := 0; node < m.GetNumNodes(); node++ {
		x.SetValue(a.Dof(node, 0), float64(node))
		x.SetValue(a.Dof(node, 1), -float64(node))
	}
	require.NoError(t, a.ScatterVector(x, "displacement"))
	u, ok := m.VectorField("displacement")
	require.True(t, ok)
	assert.Equal(t, [3]float64{3, -3, 0}, u[3])
	assert.False(t, math.IsNaN(u[0][2]))
}
