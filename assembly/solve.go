package assembly

import (
	"fmt"

	"github.com/notargets/gofea/linalg"
	"github.com/notargets/gofea/utils"
)

// Solve solves K x = f with the assembler's solver options
func (a *Assembler) Solve(K *linalg.Matrix, f *linalg.Vector) (x *linalg.Vector, err error) {
	K.Options = a.Solver
	utils.Infof("Beginning linear solve: %d dofs, %s", K.Rows(), a.Solver.Method)
	if x, err = K.Solve(f); err != nil {
		return nil, fmt.Errorf("linear solve failed: %w", err)
	}
	if utils.IsNan(x.Data()) {
		return nil, fmt.Errorf("linear solve failed: NaN in solution")
	}
	utils.Infof("Finished linear solve: %s", K.LastSolve)
	return
}

// ScatterScalar writes x into the scalar field name, one value per node
func (a *Assembler) ScatterScalar(x *linalg.Vector, name string) (err error) {
	if err = a.checkSolution(x, 1); err != nil {
		return
	}
	a.Mesh.AddScalarField(name)
	for node := 0; node < a.Mesh.GetNumNodes(); node++ {
		a.Mesh.ScalarFieldSetValue(name, node, x.GetValue(node))
	}
	return
}

// ScatterVector writes x into the vector field name. Components beyond
// DofsPerNode are zero.
func (a *Assembler) ScatterVector(x *linalg.Vector, name string) (err error) {
	if a.DofsPerNode > 3 {
		return fmt.Errorf("vector field from %d dofs per node: %w", a.DofsPerNode, ErrDofsPerNode)
	}
	if err = a.checkSolution(x, a.DofsPerNode); err != nil {
		return
	}
	a.Mesh.AddVectorField(name)
	for node := 0; node < a.Mesh.GetNumNodes(); node++ {
		var v [3]float64
		for c := 0; c < a.DofsPerNode; c++ {
			v[c] = x.GetValue(a.Dof(node, c))
		}
		a.Mesh.VectorFieldSetValue(name, node, v)
	}
	return
}

func (a *Assembler) checkSolution(x *linalg.Vector, dofsPerNode int) error {
	if a.DofsPerNode != dofsPerNode {
		return fmt.Errorf("field of %d components from %d dofs per node: %w", dofsPerNode, a.DofsPerNode, ErrDofsPerNode)
	}
	if x.Size() != a.NumDofs() {
		return fmt.Errorf("solution of size %d for %d dofs: %w", x.Size(), a.NumDofs(), linalg.ErrDimension)
	}
	return nil
}
