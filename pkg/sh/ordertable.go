package sh

import (
	"fmt"
	"math"
)

// MaxOrder is the highest spherical harmonics order used for any shell.
const MaxOrder = 14

// OrderTable maps a shell's representative b-value to the spherical
// harmonics order used for that shell: the order of the first breakpoint
// strictly greater than the b-value is chosen. Higher diffusion weighting
// carries higher angular frequency content and so gets a higher order.
//
// An OrderTable is a value and is never mutated after construction;
// builders own their table instead of consulting a package global.
type OrderTable struct {
	// Breakpoints are strictly increasing b-values in s/m^2. The final
	// breakpoint is +Inf so every b-value maps to an order.
	Breakpoints []float64
	// Orders holds the even spherical harmonics order per breakpoint.
	Orders []int
}

// DefaultOrderTable returns the standard breakpoint table covering even
// orders 2 through 14.
func DefaultOrderTable() OrderTable {
	return OrderTable{
		Breakpoints: []float64{
			2.02020202e8, 7.07070707e8, 1.21212121e9,
			2.52525253e9, 3.13131313e9, 5.35353535e9,
			math.Inf(1),
		},
		Orders: []int{2, 4, 6, 8, 10, 12, 14},
	}
}

// OrderForBvalue returns the spherical harmonics order for a shell with
// the given representative b-value in s/m^2. B-values beyond every finite
// breakpoint map to the last order.
func (t OrderTable) OrderForBvalue(bvalue float64) int {
	for i, bp := range t.Breakpoints {
		if bp > bvalue {
			return t.Orders[i]
		}
	}
	return t.Orders[len(t.Orders)-1]
}

// Validate reports whether the table is usable: non-empty, matching
// lengths, strictly increasing breakpoints and positive even orders.
func (t OrderTable) Validate() error {
	if len(t.Breakpoints) == 0 {
		return fmt.Errorf("sh: order table has no breakpoints")
	}
	if len(t.Breakpoints) != len(t.Orders) {
		return fmt.Errorf("sh: order table has %d breakpoints but %d orders",
			len(t.Breakpoints), len(t.Orders))
	}
	for i := 1; i < len(t.Breakpoints); i++ {
		if t.Breakpoints[i] <= t.Breakpoints[i-1] {
			return fmt.Errorf("sh: order table breakpoints must be strictly increasing, got %g after %g",
				t.Breakpoints[i], t.Breakpoints[i-1])
		}
	}
	for _, o := range t.Orders {
		if o <= 0 || o%2 != 0 {
			return fmt.Errorf("sh: order table orders must be positive and even, got %d", o)
		}
	}
	return nil
}
