package mesh

import (
	"fmt"

	metis "github.com/notargets/go-metis"

	"github.com/notargets/gofea/utils"
)

// PartitionConfig holds configuration for element partitioning
type PartitionConfig struct {
	NumPartitions   int32
	ImbalanceFactor float32 // e.g., 1.05 for 5% imbalance
	Objective       string  // "cut" or "vol"
}

// DefaultPartitionConfig returns default partitioning configuration
func DefaultPartitionConfig(nparts int32) *PartitionConfig {
	return &PartitionConfig{
		NumPartitions:   nparts,
		ImbalanceFactor: 1.05,
		Objective:       "cut",
	}
}

// Partition assigns each element of dimension dim to one of
// config.NumPartitions parts with a METIS k-way partition of the facet dual
// graph. Vertex weights are the local matrix sizes, edge weights the shared
// facet node counts.
func (m *Mesh) Partition(dim int, config *PartitionConfig) (part []int, err error) {
	ne := m.GetNumElements(dim)
	part = make([]int, ne)
	if config.NumPartitions <= 1 {
		return
	}
	if ne <= int(config.NumPartitions) {
		for i := range part {
			part[i] = i
		}
		return
	}
	conn := m.BuildConnectivity(dim)
	xadj, adjncy, vwgt, adjwgt := m.buildMetisGraph(dim, conn)

	opts := make([]int32, metis.NoOptions)
	if err = metis.SetDefaultOptions(opts); err != nil {
		return nil, fmt.Errorf("failed to set METIS options: %w", err)
	}
	if config.Objective == "vol" {
		opts[metis.OptionObjType] = metis.ObjTypeVol
	} else {
		opts[metis.OptionObjType] = metis.ObjTypeCut
	}
	ubvec := []float32{config.ImbalanceFactor}

	p32, objval, err := metis.PartGraphKwayWeighted(
		xadj, adjncy, vwgt, adjwgt,
		config.NumPartitions, nil, ubvec, opts,
	)
	if err != nil {
		return nil, fmt.Errorf("METIS partitioning failed: %w", err)
	}
	for i := range part {
		part[i] = int(p32[i])
	}
	analyzePartition(part, int(config.NumPartitions), objval)
	return
}

// buildMetisGraph converts facet connectivity to METIS CSR form
func (m *Mesh) buildMetisGraph(dim int, conn *Connectivity) (xadj, adjncy, vwgt, adjwgt []int32) {
	ne := len(conn.EToE)
	xadj = make([]int32, ne+1)
	vwgt = make([]int32, ne)
	for elem := 0; elem < ne; elem++ {
		nn := int32(m.Elements[dim][elem].NumNodes())
		vwgt[elem] = nn * nn
		for faceIdx, neighbor := range conn.EToE[elem] {
			if neighbor >= 0 && neighbor != elem {
				adjncy = append(adjncy, int32(neighbor))
				face := conn.Faces[conn.EToF[elem][faceIdx]]
				adjwgt = append(adjwgt, int32(len(face.Vertices)))
			}
		}
		xadj[elem+1] = int32(len(adjncy))
	}
	return
}

func analyzePartition(part []int, nparts int, objval int32) {
	counts := make([]int, nparts)
	for _, p := range part {
		counts[p]++
	}
	minC, maxC := len(part), 0
	for _, c := range counts {
		if c < minC {
			minC = c
		}
		if c > maxC {
			maxC = c
		}
	}
	utils.Debugf("partitioned %d elements into %d parts: sizes %d..%d, objective %d",
		len(part), nparts, minC, maxC, objval)
}
