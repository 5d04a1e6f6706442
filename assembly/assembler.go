package assembly

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofea/elements"
	"github.com/notargets/gofea/geometry3D"
	"github.com/notargets/gofea/linalg"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// ScalarKernel returns the weak form integrand coupling local nodes i and j
// of el, for problems with one degree of freedom per node
type ScalarKernel func(el *elements.Element, i, j int) func(pos geometry3D.Coord) float64

// BlockKernel returns the DofsPerNode x DofsPerNode integrand coupling local
// nodes i and j of el
type BlockKernel func(el *elements.Element, i, j int) func(pos geometry3D.Coord) *mat.Dense

// LoadKernel returns the forcing integrand for component c of local node i
type LoadKernel func(el *elements.Element, i, c int) func(pos geometry3D.Coord) float64

// Assembler builds global systems from element contributions over a mesh.
// The mesh is only read; matrices and vectors are created per call.
type Assembler struct {
	Mesh        *mesh.Mesh
	DofsPerNode int
	Workers     int  // element loops run on this many goroutines
	Partition   bool // group elements per worker with a METIS partition instead of index ranges
	Solver      linalg.SolverOptions
}

type Option func(a *Assembler)

func WithWorkers(n int) Option {
	return func(a *Assembler) {
		if n < 1 {
			n = 1
		}
		a.Workers = n
	}
}

func WithPartition(on bool) Option { return func(a *Assembler) { a.Partition = on } }

func WithSolverOptions(opts linalg.SolverOptions) Option {
	return func(a *Assembler) { a.Solver = opts }
}

func NewAssembler(m *mesh.Mesh, dofsPerNode int, opts ...Option) (a *Assembler) {
	if dofsPerNode < 1 {
		panic(fmt.Errorf("invalid number of dofs per node: %d", dofsPerNode))
	}
	a = &Assembler{
		Mesh:        m,
		DofsPerNode: dofsPerNode,
		Workers:     1,
		Solver:      linalg.DefaultSolverOptions(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return
}

// NumDofs is the global system size
func (a *Assembler) NumDofs() int { return a.DofsPerNode * a.Mesh.GetNumNodes() }

// Dof is the global index of component c at global node
func (a *Assembler) Dof(node, c int) int { return a.DofsPerNode*node + c }

func (a *Assembler) NewVector() *linalg.Vector { return linalg.NewVector(a.NumDofs()) }

// AssembleStiffness integrates kernel over every element of dimension dim
// and returns the assembled global matrix
func (a *Assembler) AssembleStiffness(dim int, kernel ScalarKernel) (K *linalg.Matrix, err error) {
	if a.DofsPerNode != 1 {
		err = fmt.Errorf("scalar kernel with %d dofs per node: %w", a.DofsPerNode, ErrDofsPerNode)
		return
	}
	return a.assembleMatrix(dim, func(el *elements.Element, tl *triplets) {
		nn := el.NumNodes()
		for i := 0; i < nn; i++ {
			row := el.GetNodeIndex(i)
			for j := 0; j < nn; j++ {
				tl.add(row, el.GetNodeIndex(j), el.Integrate(kernel(el, i, j)))
			}
		}
	})
}

// AssembleBlockStiffness integrates a DofsPerNode x DofsPerNode kernel per
// local node pair and scatters each block with dofsPerNode strides
func (a *Assembler) AssembleBlockStiffness(dim int, kernel BlockKernel) (K *linalg.Matrix, err error) {
	nd := a.DofsPerNode
	return a.assembleMatrix(dim, func(el *elements.Element, tl *triplets) {
		nn := el.NumNodes()
		for i := 0; i < nn; i++ {
			row := el.GetNodeIndex(i)
			for j := 0; j < nn; j++ {
				col := el.GetNodeIndex(j)
				block := el.IntegrateMatrix(kernel(el, i, j), nd, nd)
				for c1 := 0; c1 < nd; c1++ {
					for c2 := 0; c2 < nd; c2++ {
						tl.add(nd*row+c1, nd*col+c2, block.At(c1, c2))
					}
				}
			}
		}
	})
}

// AssembleLoad integrates kernel over every element of dimension dim into a
// new forcing vector
func (a *Assembler) AssembleLoad(dim int, kernel LoadKernel) (f *linalg.Vector, err error) {
	f = a.NewVector()
	err = a.AddLoad(f, dim, nil, kernel)
	return
}

// AddLoad adds the integral of kernel over the elements ids of dimension dim
// into f. A nil ids covers every element of that dimension.
func (a *Assembler) AddLoad(f *linalg.Vector, dim int, ids []int, kernel LoadKernel) (err error) {
	if f.Size() != a.NumDofs() {
		return fmt.Errorf("forcing vector of size %d for %d dofs: %w", f.Size(), a.NumDofs(), linalg.ErrDimension)
	}
	nd := a.DofsPerNode
	parts, err := a.forEachElement(dim, ids, func(el *elements.Element, tl *triplets) {
		for i := 0; i < el.NumNodes(); i++ {
			row := el.GetNodeIndex(i)
			for c := 0; c < nd; c++ {
				tl.add(nd*row+c, 0, el.Integrate(kernel(el, i, c)))
			}
		}
	})
	if err != nil {
		return
	}
	for _, tl := range parts {
		for _, t := range tl {
			f.AddValue(t.i, t.v)
		}
	}
	f.Assemble()
	return
}

type triplet struct {
	i, j int
	v    float64
}

type triplets []triplet

func (tl *triplets) add(i, j int, v float64) { *tl = append(*tl, triplet{i, j, v}) }

// assembleMatrix accumulates worker triplets into a new matrix. Workers only
// append to their own lists; the merge into the shared matrix is serial.
func (a *Assembler) assembleMatrix(dim int, local func(el *elements.Element, tl *triplets)) (K *linalg.Matrix, err error) {
	start := time.Now()
	parts, err := a.forEachElement(dim, nil, local)
	if err != nil {
		return
	}
	n := a.NumDofs()
	K = linalg.NewMatrix(n, n)
	K.Options = a.Solver
	for _, tl := range parts {
		for _, t := range tl {
			K.AddValue(t.i, t.j, t.v)
		}
	}
	K.Assemble()
	utils.Debugf("assembled %dx%d matrix from %d elements of dimension %d: %d nonzeros, %v",
		n, n, a.Mesh.GetNumElements(dim), dim, K.NNZ(), time.Since(start))
	return
}

// forEachElement runs local over the selected elements, one triplet list per
// worker
func (a *Assembler) forEachElement(dim int, ids []int,
	local func(el *elements.Element, tl *triplets)) (parts []triplets, err error) {
	var (
		order []int
		pm    *utils.PartitionMap
	)
	if ids == nil {
		if order, pm, err = a.elementOrder(dim); err != nil {
			return
		}
	} else {
		order = ids
		pm = utils.NewPartitionMap(a.workers(len(ids)), len(ids))
	}
	parts = make([]triplets, pm.ParallelDegree)
	pm.ForEachBucket(func(bn, kMin, kMax int) {
		for k := kMin; k < kMax; k++ {
			local(a.Mesh.GetElement(dim, order[k]), &parts[bn])
		}
	})
	return
}

// elementOrder returns the element visiting order and the ranges of it owned
// by each worker
func (a *Assembler) elementOrder(dim int) (order []int, pm *utils.PartitionMap, err error) {
	ne := a.Mesh.GetNumElements(dim)
	order = make([]int, ne)
	for i := range order {
		order[i] = i
	}
	nw := a.workers(ne)
	if nw == 1 || !a.Partition {
		pm = utils.NewPartitionMap(nw, ne)
		return
	}
	var part []int
	if part, err = a.Mesh.Partition(dim, mesh.DefaultPartitionConfig(int32(nw))); err != nil {
		return
	}
	sort.SliceStable(order, func(i, j int) bool { return part[order[i]] < part[order[j]] })
	sorted := make([]int, ne)
	for k, id := range order {
		sorted[k] = part[id]
	}
	pm = utils.NewPartitionMapFromParts(nw, sorted)
	return
}

func (a *Assembler) workers(n int) int {
	nw := a.Workers
	if nw > n {
		nw = n
	}
	if nw < 1 {
		nw = 1
	}
	return nw
}
