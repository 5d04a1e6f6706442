package utils

import (
	"runtime"
	"sync"
)

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets, one per worker
type PartitionMap struct {
	MaxIndex       int
	ParallelDegree int
	Partitions     [][2]int // [begin, end) of each bucket
}

// NewPartitionMap splits maxIndex into buckets whose sizes differ by at most
// one, the larger buckets first
func NewPartitionMap(parallelDegree, maxIndex int) (pm *PartitionMap) {
	if parallelDegree < 1 {
		parallelDegree = 1
	}
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: parallelDegree,
		Partitions:     make([][2]int, parallelDegree),
	}
	var (
		size      = maxIndex / parallelDegree
		remainder = maxIndex % parallelDegree
		begin     int
	)
	for bn := range pm.Partitions {
		end := begin + size
		if bn < remainder {
			end++
		}
		pm.Partitions[bn] = [2]int{begin, end}
		begin = end
	}
	return
}

// NewPartitionMapFromParts builds buckets over an index ordering already
// sorted by part number, so that bucket p holds every index of part p.
// Parts with no members give empty buckets.
func NewPartitionMapFromParts(nParts int, sortedParts []int) (pm *PartitionMap) {
	if nParts < 1 {
		nParts = 1
	}
	pm = &PartitionMap{
		MaxIndex:       len(sortedParts),
		ParallelDegree: nParts,
		Partitions:     make([][2]int, nParts),
	}
	var k int
	for p := range pm.Partitions {
		pm.Partitions[p][0] = k
		for k < len(sortedParts) && sortedParts[k] == p {
			k++
		}
		pm.Partitions[p][1] = k
	}
	// anything past the last part number lands in the final bucket
	pm.Partitions[nParts-1][1] = len(sortedParts)
	return
}

func (pm *PartitionMap) BucketRange(bn int) (kMin, kMax int) {
	return pm.Partitions[bn][0], pm.Partitions[bn][1]
}

func (pm *PartitionMap) BucketSize(bn int) int {
	kMin, kMax := pm.BucketRange(bn)
	return kMax - kMin
}

// ForEachBucket runs f once per bucket, concurrently, and waits for all
func (pm *PartitionMap) ForEachBucket(f func(bn, kMin, kMax int)) {
	if pm.ParallelDegree == 1 {
		f(0, pm.Partitions[0][0], pm.Partitions[0][1])
		return
	}
	var wg sync.WaitGroup
	for bn := 0; bn < pm.ParallelDegree; bn++ {
		wg.Add(1)
		go func(bn int) {
			defer wg.Done()
			kMin, kMax := pm.BucketRange(bn)
			f(bn, kMin, kMax)
		}(bn)
	}
	wg.Wait()
}

// DefaultParallelDegree is the number of usable CPUs
func DefaultParallelDegree() int { return runtime.GOMAXPROCS(0) }
