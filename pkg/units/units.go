// Package units provides conversions between the three equivalent
// representations of diffusion weighting in a pulsed-gradient spin-echo
// acquisition: the b-value (s/m^2), the q-value (1/m) and the gradient
// strength (T/m), given the pulse duration delta and pulse separation
// Delta (both in seconds).
//
// All values are SI. The relations are the standard Stejskal-Tanner ones:
//
//	q = gamma * delta * G / (2*pi)
//	b = (2*pi*q)^2 * tau,  tau = Delta - delta/3
//
// Each conversion is exactly invertible with its counterpart up to
// floating-point rounding. NaN and Inf propagate; nothing is trapped.
package units

import "math"

// GyromagneticRatio is the gyromagnetic ratio of water protons in
// rad/(s*T), the fixed constant tying gradient strength to q-value.
const GyromagneticRatio = 267.513e6

// Tau returns the effective diffusion time Delta - delta/3 in seconds.
func Tau(smallDelta, bigDelta float64) float64 {
	return bigDelta - smallDelta/3
}

// QFromG converts a gradient strength in T/m to a q-value in 1/m.
func QFromG(g, smallDelta float64) float64 {
	return GyromagneticRatio * smallDelta * g / (2 * math.Pi)
}

// GFromQ converts a q-value in 1/m to a gradient strength in T/m.
func GFromQ(q, smallDelta float64) float64 {
	return q * 2 * math.Pi / (GyromagneticRatio * smallDelta)
}

// BFromQ converts a q-value in 1/m to a b-value in s/m^2.
func BFromQ(q, smallDelta, bigDelta float64) float64 {
	twoPiQ := 2 * math.Pi * q
	return twoPiQ * twoPiQ * Tau(smallDelta, bigDelta)
}

// QFromB converts a b-value in s/m^2 to a q-value in 1/m.
func QFromB(b, smallDelta, bigDelta float64) float64 {
	return math.Sqrt(b/Tau(smallDelta, bigDelta)) / (2 * math.Pi)
}

// BFromG converts a gradient strength in T/m to a b-value in s/m^2.
func BFromG(g, smallDelta, bigDelta float64) float64 {
	return BFromQ(QFromG(g, smallDelta), smallDelta, bigDelta)
}

// GFromB converts a b-value in s/m^2 to a gradient strength in T/m.
func GFromB(b, smallDelta, bigDelta float64) float64 {
	return GFromQ(QFromB(b, smallDelta, bigDelta), smallDelta)
}

// QvaluesFromBvalues applies QFromB elementwise. All slices must have the
// same length.
func QvaluesFromBvalues(bvalues, smallDelta, bigDelta []float64) []float64 {
	return mapTimed(QFromB, bvalues, smallDelta, bigDelta)
}

// GradientStrengthsFromBvalues applies GFromB elementwise.
func GradientStrengthsFromBvalues(bvalues, smallDelta, bigDelta []float64) []float64 {
	return mapTimed(GFromB, bvalues, smallDelta, bigDelta)
}

// BvaluesFromQvalues applies BFromQ elementwise.
func BvaluesFromQvalues(qvalues, smallDelta, bigDelta []float64) []float64 {
	return mapTimed(BFromQ, qvalues, smallDelta, bigDelta)
}

// GradientStrengthsFromQvalues applies GFromQ elementwise.
func GradientStrengthsFromQvalues(qvalues, smallDelta []float64) []float64 {
	out := make([]float64, len(qvalues))
	for i, q := range qvalues {
		out[i] = GFromQ(q, smallDelta[i])
	}
	return out
}

// BvaluesFromGradientStrengths applies BFromG elementwise.
func BvaluesFromGradientStrengths(strengths, smallDelta, bigDelta []float64) []float64 {
	return mapTimed(BFromG, strengths, smallDelta, bigDelta)
}

// QvaluesFromGradientStrengths applies QFromG elementwise.
func QvaluesFromGradientStrengths(strengths, smallDelta []float64) []float64 {
	out := make([]float64, len(strengths))
	for i, g := range strengths {
		out[i] = QFromG(g, smallDelta[i])
	}
	return out
}

// Taus applies Tau elementwise.
func Taus(smallDelta, bigDelta []float64) []float64 {
	out := make([]float64, len(smallDelta))
	for i := range smallDelta {
		out[i] = Tau(smallDelta[i], bigDelta[i])
	}
	return out
}

func mapTimed(f func(v, sd, bd float64) float64, values, smallDelta, bigDelta []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = f(v, smallDelta[i], bigDelta[i])
	}
	return out
}
