package acquisition

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"microstruct/internal/models"
)

// Shells returns one summary record per shell, in shell-index order.
func (s *AcquisitionScheme) Shells() []models.Shell {
	counts := make([]int, len(s.ShellBvalues))
	for _, idx := range s.ShellIndices {
		counts[idx]++
	}
	shells := make([]models.Shell, len(s.ShellBvalues))
	for idx := range shells {
		shells[idx] = models.Shell{
			Index:            idx,
			NumMeasurements:  counts[idx],
			Bvalue:           s.ShellBvalues[idx],
			Qvalue:           s.ShellQvalues[idx],
			GradientStrength: s.ShellGradientStrengths[idx],
			SmallDelta:       s.ShellSmallDelta[idx],
			BigDelta:         s.ShellBigDelta[idx],
			IsB0:             s.ShellB0Mask[idx],
			SHOrder:          s.ShellSHOrders[idx],
		}
	}
	return shells
}

// NumberOfDWIShells returns the count of shells that are not b0 shells.
func (s *AcquisitionScheme) NumberOfDWIShells() int {
	n := 0
	for _, b0 := range s.ShellB0Mask {
		if !b0 {
			n++
		}
	}
	return n
}

// WriteSummary writes a human-readable report of the scheme to w: totals
// followed by one row per shell with the b-value in s/mm^2, gradient
// strength in mT/m and pulse timings in ms. It is meant for inspecting
// whether shells were separated correctly and inputs were given in the
// right scale; the exact layout is not part of the programmatic contract.
func (s *AcquisitionScheme) WriteSummary(w io.Writer) error {
	fmt.Fprintf(w, "Acquisition scheme summary\n\n")
	fmt.Fprintf(w, "total number of measurements: %d\n", s.NumberOfMeasurements)
	fmt.Fprintf(w, "number of b0 measurements: %d\n", s.NumberOfB0s)
	fmt.Fprintf(w, "number of DWI shells: %d\n\n", s.NumberOfDWIShells())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "shell_index\t# of DWIs\tbvalue [s/mm^2]\tgradient strength [mT/m]\tdelta [ms]\tDelta [ms]")
	for _, shell := range s.Shells() {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%g\t%g\n",
			shell.Index,
			shell.NumMeasurements,
			int(math.Round(shell.Bvalue/1e6)),
			int(math.Round(shell.GradientStrength*1e3)),
			shell.SmallDelta*1e3,
			shell.BigDelta*1e3)
	}
	return tw.Flush()
}

// Summary returns WriteSummary's report as a string.
func (s *AcquisitionScheme) Summary() string {
	var sb strings.Builder
	s.WriteSummary(&sb)
	return sb.String()
}
