package models

// Shell is a read-only summary record for one acquisition shell, used by
// reporting code.
type Shell struct {
	// Index is the 0-based shell number in the scheme's global ordering.
	Index int

	// NumMeasurements is how many measurements the shell contains.
	NumMeasurements int

	// Bvalue is the representative b-value in s/m^2.
	Bvalue float64

	// Qvalue is the representative q-value in 1/m.
	Qvalue float64

	// GradientStrength is the representative gradient strength in T/m.
	GradientStrength float64

	// SmallDelta is the pulse duration in seconds.
	SmallDelta float64

	// BigDelta is the pulse separation in seconds.
	BigDelta float64

	// IsB0 marks a shell with negligible diffusion weighting.
	IsB0 bool

	// SHOrder is the spherical harmonics order of the shell's observation
	// matrix; 0 for b0 shells, which have none.
	SHOrder int
}
