// Package floatutils provides utilities for working with floats
package floatutils

import "math"

func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// MaxSlice returns the maximum value in s and its first index.
func MaxSlice(s []float64) (float64, int) {
	best, bestIdx := s[0], 0
	for i, v := range s {
		if v > best {
			best, bestIdx = v, i
		}
	}
	return best, bestIdx
}

// ArgMax returns the indices of every maximum-valued element of s.
func ArgMax(s ...float64) []int {
	best, _ := MaxSlice(s)
	var idxs []int
	for i, v := range s {
		if v == best {
			idxs = append(idxs, i)
		}
	}
	return idxs
}
