package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellsSplitsAtGap(t *testing.T) {
	// [1 2] and [4 5] are separated by a gap of 2 > maxDistance.
	indices, means := Shells([]float64{1, 2, 4, 5}, 1)

	require.Len(t, means, 2)
	assert.Equal(t, []int{0, 0, 1, 1}, indices)
	assert.InDelta(t, 1.5, means[0], 1e-12)
	assert.InDelta(t, 4.5, means[1], 1e-12)
}

func TestShellsChainMergesIntoOne(t *testing.T) {
	// Every neighbouring gap is 1, so single linkage chains all values
	// into one cluster even though 1 and 5 are far apart.
	indices, means := Shells([]float64{1, 2, 3, 4, 5}, 1)

	require.Len(t, means, 1)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, indices)
	assert.InDelta(t, 3, means[0], 1e-12)
}

func TestShellsLargeDistanceSingleCluster(t *testing.T) {
	indices, means := Shells([]float64{1, 2, 4, 5}, 4)

	require.Len(t, means, 1)
	assert.Equal(t, []int{0, 0, 0, 0}, indices)
}

func TestShellsLabelsOrderedByMean(t *testing.T) {
	// Input order is shuffled; labels must still ascend with b-value.
	indices, means := Shells([]float64{5.1, 0.1, 5.0, 0.2, 10.0}, 1)

	require.Len(t, means, 3)
	assert.Equal(t, []int{1, 0, 1, 0, 2}, indices)
	assert.InDelta(t, 0.15, means[0], 1e-12)
	assert.InDelta(t, 5.05, means[1], 1e-12)
	assert.InDelta(t, 10.0, means[2], 1e-12)
}

func TestShellsPartitionProperty(t *testing.T) {
	values := []float64{0, 0, 1e9, 1.01e9, 2e9, 0, 2.02e9, 1e9}
	indices, means := Shells(values, 50e6)

	require.Len(t, indices, len(values))
	seen := make(map[int]int)
	for _, idx := range indices {
		seen[idx]++
	}
	// Labels contiguous from 0 with no gaps, every measurement in
	// exactly one shell.
	total := 0
	for label := 0; label < len(means); label++ {
		require.Contains(t, seen, label, "label %d missing", label)
		total += seen[label]
	}
	assert.Equal(t, len(values), total)
	assert.Len(t, seen, len(means))
}

func TestShellsDeterministic(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	first, firstMeans := Shells(values, 1.5)
	for i := 0; i < 10; i++ {
		again, againMeans := Shells(values, 1.5)
		assert.Equal(t, first, again)
		assert.Equal(t, firstMeans, againMeans)
	}
}

func TestShellsSingleValue(t *testing.T) {
	indices, means := Shells([]float64{7.5}, 1)
	assert.Equal(t, []int{0}, indices)
	require.Len(t, means, 1)
	assert.Equal(t, 7.5, means[0])
}

func TestShellsEmpty(t *testing.T) {
	indices, means := Shells(nil, 1)
	assert.Empty(t, indices)
	assert.Empty(t, means)
}

func TestShellsIdenticalValues(t *testing.T) {
	indices, means := Shells([]float64{2, 2, 2, 2}, 0.5)
	assert.Equal(t, []int{0, 0, 0, 0}, indices)
	require.Len(t, means, 1)
	assert.Equal(t, 2.0, means[0])
}
