// Package sh computes real symmetric spherical harmonics observation
// matrices for shells of gradient directions, following the MRtrix basis
// convention: only even degrees appear (diffusion signals are antipodally
// symmetric), and for degree l the 2l+1 columns hold, in order of m from
// -l to l,
//
//	m < 0:  Im(Y_l^|m|)
//	m = 0:  Y_l^0
//	m > 0:  Re(Y_l^m)
//
// where Y_l^m is the complex spherical harmonic with Condon-Shortley phase
// and full orthonormal normalization. Angles use the physics convention:
// theta is the polar angle from +z, phi the azimuth in the x-y plane.
package sh

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// NumCoefficients returns the number of basis functions for a symmetric
// basis truncated at the given even order: (order+1)(order+2)/2.
func NumCoefficients(order int) int {
	return (order + 1) * (order + 2) / 2
}

// IndexList returns the per-column degree l and order m of the basis
// truncated at the given even order.
func IndexList(order int) (degrees, orders []int) {
	n := NumCoefficients(order)
	degrees = make([]int, 0, n)
	orders = make([]int, 0, n)
	for l := 0; l <= order; l += 2 {
		for m := -l; m <= l; m++ {
			degrees = append(degrees, l)
			orders = append(orders, m)
		}
	}
	return degrees, orders
}

// Cart2Sphere converts a cartesian vector to spherical coordinates
// (radius, polar angle theta, azimuth phi). The zero vector maps to
// (0, 0, 0).
func Cart2Sphere(x, y, z float64) (r, theta, phi float64) {
	r = math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return 0, 0, 0
	}
	theta = math.Acos(z / r)
	phi = math.Atan2(y, x)
	return r, theta, phi
}

// Matrix returns the observation matrix mapping spherical harmonics
// coefficients to samples at the given directions: element (i, j) is basis
// function j evaluated at (theta[i], phi[i]). The matrix has len(theta)
// rows and NumCoefficients(order) columns. theta and phi must have equal
// length; order must be even and non-negative.
func Matrix(order int, theta, phi []float64) *mat.Dense {
	n := len(theta)
	m := mat.NewDense(n, NumCoefficients(order), nil)
	for i := 0; i < n; i++ {
		ct := math.Cos(theta[i])
		col := 0
		for l := 0; l <= order; l += 2 {
			for mm := -l; mm <= l; mm++ {
				m.Set(i, col, realBasis(l, mm, ct, phi[i]))
				col++
			}
		}
	}
	return m
}

// realBasis evaluates the real basis function of degree l, order m at
// cos(theta) = ct and azimuth phi.
func realBasis(l, m int, ct, phi float64) float64 {
	am := m
	if am < 0 {
		am = -am
	}
	norm := normalization(l, am) * assocLegendre(l, am, ct)
	switch {
	case m < 0:
		return norm * math.Sin(float64(am)*phi)
	case m > 0:
		return norm * math.Cos(float64(m)*phi)
	default:
		return norm
	}
}

// normalization returns sqrt((2l+1)/(4*pi) * (l-m)!/(l+m)!). The factorial
// ratio is accumulated as a running product to stay in float64 range.
func normalization(l, m int) float64 {
	ratio := 1.0
	for k := l - m + 1; k <= l+m; k++ {
		ratio /= float64(k)
	}
	return math.Sqrt(float64(2*l+1) / (4 * math.Pi) * ratio)
}

// assocLegendre evaluates the associated Legendre function P_l^m(x) with
// Condon-Shortley phase via the standard three-term recurrence, for
// 0 <= m <= l.
func assocLegendre(l, m int, x float64) float64 {
	// P_m^m = (-1)^m (2m-1)!! (1-x^2)^(m/2)
	pmm := 1.0
	if m > 0 {
		somx2 := math.Sqrt((1 - x) * (1 + x))
		fact := 1.0
		for i := 1; i <= m; i++ {
			pmm *= -fact * somx2
			fact += 2
		}
	}
	if l == m {
		return pmm
	}
	// P_{m+1}^m = x (2m+1) P_m^m
	pmmp1 := x * float64(2*m+1) * pmm
	if l == m+1 {
		return pmmp1
	}
	var pll float64
	for ll := m + 2; ll <= l; ll++ {
		pll = (x*float64(2*ll-1)*pmmp1 - float64(ll+m-1)*pmm) / float64(ll-m)
		pmm = pmmp1
		pmmp1 = pll
	}
	return pll
}
