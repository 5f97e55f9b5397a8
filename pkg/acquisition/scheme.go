// Package acquisition builds diffusion-MRI acquisition schemes from raw
// per-measurement physical parameters. Given one of the three equivalent
// diffusion-weighting representations (b-values, q-values or gradient
// strengths) plus gradient directions and pulse timings, it validates the
// input, derives the remaining representations, partitions the
// measurements into b-value shells and precomputes the per-shell
// spherical harmonics observation matrices consumed by model fitting.
package acquisition

import (
	"fmt"
	"log"
	"sort"

	"gonum.org/v1/gonum/mat"

	"microstruct/pkg/cluster"
	"microstruct/pkg/sh"
	"microstruct/pkg/units"
)

// Default classification thresholds in SI units (s/m^2).
const (
	// DefaultMinShellDistance is the minimum b-value distance between
	// distinct shells (50 s/mm^2).
	DefaultMinShellDistance = cluster.DefaultMaxDistance
	// DefaultB0Threshold is the b-value at or below which a measurement
	// counts as a b0 reference (10 s/mm^2).
	DefaultB0Threshold = 10e6
)

// warnf emits non-fatal construction warnings. Tests replace it to
// capture output.
var warnf = log.Printf

// Options control shell classification during scheme construction.
type Options struct {
	// MinShellDistance is the maximum intra-shell b-value distance in
	// s/m^2 used by the shell classifier.
	MinShellDistance float64

	// B0Threshold is the b-value in s/m^2 at or below which a
	// measurement is treated as a b0 reference.
	B0Threshold float64

	// OrderTable maps shell b-values to spherical harmonics orders.
	OrderTable sh.OrderTable
}

// DefaultOptions returns the standard classification options.
func DefaultOptions() *Options {
	return &Options{
		MinShellDistance: DefaultMinShellDistance,
		B0Threshold:      DefaultB0Threshold,
		OrderTable:       sh.DefaultOrderTable(),
	}
}

// AcquisitionScheme holds all information needed to simulate and fit
// diffusion data with microstructure models: the full measurement set in
// all three diffusion-weighting representations, the derived shell
// partition and the per-shell spherical harmonics matrices. Derived
// fields are immutable after construction.
type AcquisitionScheme struct {
	// Per-measurement arrays, all of length NumberOfMeasurements.
	Bvalues           []float64 // s/m^2
	Qvalues           []float64 // 1/m
	GradientStrengths []float64 // T/m
	SmallDelta        []float64 // pulse duration delta, seconds
	BigDelta          []float64 // pulse separation Delta, seconds
	Tau               []float64 // Delta - delta/3, seconds

	// GradientDirections is the (N, 3) matrix of unit vectors.
	GradientDirections *mat.Dense

	// B0Mask marks measurements with Bvalues <= B0Threshold.
	B0Mask               []bool
	NumberOfMeasurements int
	NumberOfB0s          int

	// ShellIndices assigns each measurement its 0-based shell,
	// partitioned first by unique (delta, Delta) group in order of first
	// appearance, then by ascending mean b-value within the group.
	ShellIndices []int

	// Per-shell representative values, taken from the shell's first
	// member in measurement order.
	ShellBvalues           []float64
	ShellQvalues           []float64
	ShellGradientStrengths []float64
	ShellSmallDelta        []float64
	ShellBigDelta          []float64
	ShellB0Mask            []bool

	// UniqueDWIIndices lists the shells containing non-b0 measurements;
	// only these have a spherical harmonics order and matrix.
	UniqueDWIIndices []int
	ShellSHOrders    []int
	ShellSHMatrices  map[int]*mat.Dense

	MinShellDistance float64
	B0Threshold      float64
}

// SchemeFromBvalues constructs an acquisition scheme anchored on b-values
// in s/m^2 (a b-value of 1000 s/mm^2 is 1000e6 s/m^2). smallDelta and
// bigDelta are in seconds; a length-1 slice broadcasts to every
// measurement. A nil opts uses DefaultOptions.
func SchemeFromBvalues(bvalues []float64, directions *mat.Dense, smallDelta, bigDelta []float64, opts *Options) (*AcquisitionScheme, error) {
	sd, bd := broadcastTiming(len(bvalues), smallDelta, bigDelta)
	if err := checkAcquisition(bvalues, directions, sd, bd); err != nil {
		return nil, err
	}
	qvalues := units.QvaluesFromBvalues(bvalues, sd, bd)
	strengths := units.GradientStrengthsFromBvalues(bvalues, sd, bd)
	return newScheme(bvalues, qvalues, strengths, directions, sd, bd, opts)
}

// SchemeFromQvalues constructs an acquisition scheme anchored on q-values
// in 1/m (a q-value of 10 1/mm is 10e3 1/m).
func SchemeFromQvalues(qvalues []float64, directions *mat.Dense, smallDelta, bigDelta []float64, opts *Options) (*AcquisitionScheme, error) {
	sd, bd := broadcastTiming(len(qvalues), smallDelta, bigDelta)
	if err := checkAcquisition(qvalues, directions, sd, bd); err != nil {
		return nil, err
	}
	bvalues := units.BvaluesFromQvalues(qvalues, sd, bd)
	strengths := units.GradientStrengthsFromQvalues(qvalues, sd)
	return newScheme(bvalues, qvalues, strengths, directions, sd, bd, opts)
}

// SchemeFromGradientStrengths constructs an acquisition scheme anchored
// on gradient strengths in T/m (a strength of 300 mT/m is 0.3 T/m).
func SchemeFromGradientStrengths(strengths []float64, directions *mat.Dense, smallDelta, bigDelta []float64, opts *Options) (*AcquisitionScheme, error) {
	sd, bd := broadcastTiming(len(strengths), smallDelta, bigDelta)
	if err := checkAcquisition(strengths, directions, sd, bd); err != nil {
		return nil, err
	}
	bvalues := units.BvaluesFromGradientStrengths(strengths, sd, bd)
	qvalues := units.QvaluesFromGradientStrengths(strengths, sd)
	return newScheme(bvalues, qvalues, strengths, directions, sd, bd, opts)
}

// broadcastTiming tiles scalar (length-1) delta and Delta inputs to the
// measurement count. Mismatched lengths pass through untouched and are
// rejected by validation.
func broadcastTiming(n int, smallDelta, bigDelta []float64) (sd, bd []float64) {
	sd, bd = smallDelta, bigDelta
	if len(smallDelta) == 1 && n > 1 {
		sd = tile(smallDelta[0], n)
	}
	if len(bigDelta) == 1 && n > 1 {
		bd = tile(bigDelta[0], n)
	}
	return sd, bd
}

func tile(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// newScheme derives the shell partition and spherical harmonics matrices.
// Inputs are already validated and of consistent length.
func newScheme(bvalues, qvalues, strengths []float64, directions *mat.Dense, smallDelta, bigDelta []float64, opts *Options) (*AcquisitionScheme, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.OrderTable.Validate(); err != nil {
		return nil, fmt.Errorf("acquisition: %w", err)
	}

	n := len(bvalues)
	s := &AcquisitionScheme{
		Bvalues:              bvalues,
		Qvalues:              qvalues,
		GradientStrengths:    strengths,
		SmallDelta:           smallDelta,
		BigDelta:             bigDelta,
		Tau:                  units.Taus(smallDelta, bigDelta),
		GradientDirections:   directions,
		NumberOfMeasurements: n,
		MinShellDistance:     opts.MinShellDistance,
		B0Threshold:          opts.B0Threshold,
	}

	s.B0Mask = make([]bool, n)
	for i, b := range bvalues {
		if b <= opts.B0Threshold {
			s.B0Mask[i] = true
			s.NumberOfB0s++
		}
	}

	if n > 1 {
		s.classifyShells(opts.MinShellDistance)
	} else {
		// Degenerate single-measurement input, kept for synthetic
		// schemes: the lone measurement is shell 0 and is classified by
		// the b0 threshold directly, without clustering.
		s.ShellIndices = []int{0}
		s.ShellBvalues = []float64{bvalues[0]}
		s.ShellQvalues = []float64{qvalues[0]}
		s.ShellGradientStrengths = []float64{strengths[0]}
		s.ShellSmallDelta = []float64{smallDelta[0]}
		s.ShellBigDelta = []float64{bigDelta[0]}
		s.ShellB0Mask = []bool{bvalues[0] <= opts.B0Threshold}
	}

	s.computeShellSH(opts.OrderTable)

	if s.NumberOfB0s == 0 {
		warnf("acquisition: no b0 measurements were detected; check that the " +
			"b0 threshold is high enough and that the acquisition design is correct")
	}
	return s, nil
}

// classifyShells partitions the measurements into shells. Measurements
// are grouped by their exact (delta, Delta) pair first because different
// timings can produce the same b-value, which would otherwise merge
// physically distinct shells. Groups are processed in order of first
// appearance and each group's cluster labels are offset by the number of
// shells already assigned, yielding one contiguous global numbering.
func (s *AcquisitionScheme) classifyShells(minShellDistance float64) {
	type timing struct{ sd, bd float64 }

	n := s.NumberOfMeasurements
	var groupOrder []timing
	groups := make(map[timing][]int)
	for i := 0; i < n; i++ {
		key := timing{s.SmallDelta[i], s.BigDelta[i]}
		if _, ok := groups[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], i)
	}

	s.ShellIndices = make([]int, n)
	offset := 0
	for _, key := range groupOrder {
		members := groups[key]
		groupBvals := make([]float64, len(members))
		for j, i := range members {
			groupBvals[j] = s.Bvalues[i]
		}
		local, means := cluster.Shells(groupBvals, minShellDistance)
		for j, i := range members {
			s.ShellIndices[i] = offset + local[j]
		}
		offset += len(means)
	}

	// Representative values come from each shell's first member in
	// measurement order; clustering keeps b/q/G approximately (not
	// exactly) homogeneous within a shell.
	numShells := offset
	first := make([]int, numShells)
	for i := range first {
		first[i] = -1
	}
	for i, idx := range s.ShellIndices {
		if first[idx] == -1 {
			first[idx] = i
		}
	}

	s.ShellBvalues = make([]float64, numShells)
	s.ShellQvalues = make([]float64, numShells)
	s.ShellGradientStrengths = make([]float64, numShells)
	s.ShellSmallDelta = make([]float64, numShells)
	s.ShellBigDelta = make([]float64, numShells)
	s.ShellB0Mask = make([]bool, numShells)
	for idx, i := range first {
		s.ShellBvalues[idx] = s.Bvalues[i]
		s.ShellQvalues[idx] = s.Qvalues[i]
		s.ShellGradientStrengths[idx] = s.GradientStrengths[i]
		s.ShellSmallDelta[idx] = s.SmallDelta[i]
		s.ShellBigDelta[idx] = s.BigDelta[i]
		s.ShellB0Mask[idx] = s.ShellBvalues[idx] <= s.B0Threshold
	}
}

// computeShellSH determines each diffusion-weighted shell's spherical
// harmonics order from the order table and builds the observation matrix
// for that shell's gradient directions.
func (s *AcquisitionScheme) computeShellSH(table sh.OrderTable) {
	s.ShellSHOrders = make([]int, len(s.ShellBvalues))
	s.ShellSHMatrices = make(map[int]*mat.Dense)

	seen := make(map[int]bool)
	for i, idx := range s.ShellIndices {
		if s.B0Mask[i] || seen[idx] {
			continue
		}
		seen[idx] = true
		s.UniqueDWIIndices = append(s.UniqueDWIIndices, idx)
	}
	// Kept in ascending shell order for reproducible downstream traversal.
	sort.Ints(s.UniqueDWIIndices)

	for _, idx := range s.UniqueDWIIndices {
		var theta, phi []float64
		for i, shellIdx := range s.ShellIndices {
			if shellIdx != idx {
				continue
			}
			_, th, ph := sh.Cart2Sphere(
				s.GradientDirections.At(i, 0),
				s.GradientDirections.At(i, 1),
				s.GradientDirections.At(i, 2))
			theta = append(theta, th)
			phi = append(phi, ph)
		}
		order := table.OrderForBvalue(s.ShellBvalues[idx])
		s.ShellSHOrders[idx] = order
		s.ShellSHMatrices[idx] = sh.Matrix(order, theta, phi)
	}
}
