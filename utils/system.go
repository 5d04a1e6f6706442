package utils

import (
	"fmt"
	"math"
	"runtime"
)

// GetMemUsage reports the heap in use, total allocated and obtained from the
// system in MiB
func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	const mib = 1 << 20
	return fmt.Sprintf("memory: heap %d MiB, total alloc %d MiB, sys %d MiB, %d GC cycles",
		m.HeapAlloc/mib, m.TotalAlloc/mib, m.Sys/mib, m.NumGC)
}

// IsNan is true if A is NaN or holds a NaN. A can be a float64, a []float64
// or anything exposing its values through Data().
func IsNan(A any) bool {
	var data []float64
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case []float64:
		data = v
	case interface{ Data() []float64 }:
		data = v.Data()
	}
	for _, f := range data {
		if math.IsNaN(f) {
			return true
		}
	}
	return false
}
