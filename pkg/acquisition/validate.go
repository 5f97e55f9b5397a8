package acquisition

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// unitNormTolerance is the maximum deviation of a gradient direction's
// norm from 1 before it is rejected.
const unitNormTolerance = 1e-3

// checkAcquisition validates the raw acquisition arrays before any
// derived quantity is computed. values is the anchor representation
// (b-values, q-values or gradient strengths). Checks run in a fixed
// order and only the first failure is reported: length consistency,
// delta/Delta sign, gradient direction shape, anchor sign, unit norm.
func checkAcquisition(values []float64, directions *mat.Dense, smallDelta, bigDelta []float64) error {
	if directions == nil {
		return invalidf("gradient directions shape",
			"gradient_directions must be an (N, 3) matrix, got nil")
	}
	rows, cols := directions.Dims()
	n := len(values)

	if n != rows {
		return invalidf("length mismatch",
			"b/q/G input and gradient_directions must have the same length, got %d and %d", n, rows)
	}
	if n != len(smallDelta) || n != len(bigDelta) {
		return invalidf("length mismatch",
			"b/q/G input, delta and Delta must have the same length, got %d, %d and %d",
			n, len(smallDelta), len(bigDelta))
	}
	if n == 0 {
		return invalidf("length mismatch", "acquisition has no measurements")
	}
	if minSD, minBD := floats.Min(smallDelta), floats.Min(bigDelta); minSD < 0 || minBD < 0 {
		return invalidf("pulse timing sign",
			"delta and Delta must be zero or positive, minimum values are %g and %g", minSD, minBD)
	}
	if cols != 3 {
		return invalidf("gradient directions shape",
			"gradient_directions must be an (N, 3) matrix, got (%d, %d)", rows, cols)
	}
	if min := floats.Min(values); min < 0 {
		return invalidf("anchor sign",
			"b/q/G input must be zero or positive, minimum value is %g", min)
	}
	for i := 0; i < rows; i++ {
		norm := math.Hypot(math.Hypot(directions.At(i, 0), directions.At(i, 1)), directions.At(i, 2))
		if math.Abs(norm-1) >= unitNormTolerance {
			return invalidf("unit norm",
				"gradient direction %d is not a unit vector, norm is %g", i, norm)
		}
	}
	return nil
}
