package utils

import "sort"

type Index []int

// Unique returns the sorted distinct values of I
func (I Index) Unique() (r Index) {
	if len(I) == 0 {
		return Index{}
	}
	r = make(Index, len(I))
	copy(r, I)
	sort.Ints(r)
	n := 1
	for i := 1; i < len(r); i++ {
		if r[i] != r[n-1] {
			r[n] = r[i]
			n++
		}
	}
	return r[:n]
}

// Strided expands node indices into degree of freedom indices, with the
// components of each node contiguous: stride*I[i] + c for c < stride
func (I Index) Strided(stride int) (r Index) {
	r = make(Index, 0, stride*len(I))
	for _, val := range I {
		for c := 0; c < stride; c++ {
			r = append(r, stride*val+c)
		}
	}
	return
}
