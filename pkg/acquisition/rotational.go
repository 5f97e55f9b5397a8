package acquisition

import (
	"gonum.org/v1/gonum/mat"

	"microstruct/pkg/units"
)

// RotationalHarmonicsScheme is a minimal single-shell scheme used
// internally when building rotational harmonics for spherical
// convolution: one b-value tiled over a set of directions, with no b0
// measurements and no shell classification.
type RotationalHarmonicsScheme struct {
	Bvalues            []float64
	Qvalues            []float64
	GradientStrengths  []float64
	GradientDirections *mat.Dense
	SmallDelta         []float64
	BigDelta           []float64
	Tau                []float64
	B0Mask             []bool
}

// NewRotationalHarmonicsScheme tiles the given b-value and timings over
// the (N, 3) direction matrix. No validation or shell classification is
// performed; callers supply synthetic directions.
func NewRotationalHarmonicsScheme(bvalue float64, directions *mat.Dense, smallDelta, bigDelta float64) *RotationalHarmonicsScheme {
	n, _ := directions.Dims()
	return &RotationalHarmonicsScheme{
		Bvalues:            tile(bvalue, n),
		Qvalues:            tile(units.QFromB(bvalue, smallDelta, bigDelta), n),
		GradientStrengths:  tile(units.GFromB(bvalue, smallDelta, bigDelta), n),
		GradientDirections: directions,
		SmallDelta:         tile(smallDelta, n),
		BigDelta:           tile(bigDelta, n),
		Tau:                tile(units.Tau(smallDelta, bigDelta), n),
		B0Mask:             make([]bool, n),
	}
}
