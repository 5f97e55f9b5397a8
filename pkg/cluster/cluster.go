// Package cluster implements the shell classification step of acquisition
// scheme construction: agglomerative single-linkage clustering of
// one-dimensional b-values with a distance-based cut.
package cluster

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultMaxDistance is the default maximum intra-shell b-value distance
// in s/m^2 (50 s/mm^2).
const DefaultMaxDistance = 50e6

// Shells partitions the given 1-D values into clusters by agglomerative
// single-linkage clustering, cutting the dendrogram at maxDistance. Under
// single linkage a cluster is a maximal chain of values whose neighbouring
// gaps do not exceed maxDistance, so the merge loop reduces to scanning
// the sorted values once.
//
// The returned indices assign each input value a 0-based cluster label,
// relabelled by ascending cluster mean; means holds the per-cluster mean
// value in matching order. The result is deterministic for a fixed
// maxDistance and identical input.
func Shells(values []float64, maxDistance float64) (indices []int, means []float64) {
	n := len(values)
	if n == 0 {
		return []int{}, []float64{}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return values[order[a]] < values[order[b]] })

	// Walking the sorted values, a gap larger than maxDistance can never
	// be merged, so it starts a new cluster. Clusters found in sorted
	// order are already ordered by ascending mean.
	indices = make([]int, n)
	label := 0
	start := 0
	var clusterVals []float64
	flush := func(end int) {
		clusterVals = clusterVals[:0]
		for _, idx := range order[start:end] {
			indices[idx] = label
			clusterVals = append(clusterVals, values[idx])
		}
		means = append(means, stat.Mean(clusterVals, nil))
		label++
		start = end
	}
	for k := 1; k < n; k++ {
		if values[order[k]]-values[order[k-1]] > maxDistance {
			flush(k)
		}
	}
	flush(n)

	return indices, means
}
