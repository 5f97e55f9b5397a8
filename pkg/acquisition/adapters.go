package acquisition

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// bvalueUnitScale converts between the gradient-table b-value unit
// (s/mm^2) and this package's SI b-values (s/m^2).
const bvalueUnitScale = 1e6

// GradientTable is the external gradient-table representation used by
// scanner and preprocessing tooling: b-values in s/mm^2, unit direction
// vectors, and the two pulse timings in seconds.
type GradientTable struct {
	Bvals      []float64
	Bvecs      *mat.Dense
	SmallDelta []float64
	BigDelta   []float64
}

// SchemeFromGradientTable converts an external gradient table into an
// acquisition scheme, rescaling b-values to SI units. It returns an error
// wrapping ErrUnsupportedInput when the table is nil or its fields do not
// form a consistent (N, 3) layout, and any validation error the builder
// itself produces.
func SchemeFromGradientTable(gtab *GradientTable, opts *Options) (*AcquisitionScheme, error) {
	if gtab == nil {
		return nil, fmt.Errorf("%w: gradient table is nil", ErrUnsupportedInput)
	}
	if gtab.Bvecs == nil {
		return nil, fmt.Errorf("%w: gradient table has no direction matrix", ErrUnsupportedInput)
	}
	rows, cols := gtab.Bvecs.Dims()
	if cols != 3 || rows != len(gtab.Bvals) {
		return nil, fmt.Errorf("%w: gradient table directions are (%d, %d) for %d bvals",
			ErrUnsupportedInput, rows, cols, len(gtab.Bvals))
	}

	bvalues := make([]float64, len(gtab.Bvals))
	for i, b := range gtab.Bvals {
		bvalues[i] = b * bvalueUnitScale
	}
	return SchemeFromBvalues(bvalues, gtab.Bvecs, gtab.SmallDelta, gtab.BigDelta, opts)
}

// GradientTable exports the scheme in the external gradient-table
// representation, rescaling b-values to s/mm^2. Directions and timings
// are copied, so mutating the table does not touch the scheme.
func (s *AcquisitionScheme) GradientTable() *GradientTable {
	bvals := make([]float64, len(s.Bvalues))
	for i, b := range s.Bvalues {
		bvals[i] = b / bvalueUnitScale
	}
	return &GradientTable{
		Bvals:      bvals,
		Bvecs:      mat.DenseCopyOf(s.GradientDirections),
		SmallDelta: append([]float64(nil), s.SmallDelta...),
		BigDelta:   append([]float64(nil), s.BigDelta...),
	}
}
