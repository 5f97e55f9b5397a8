package acquisition

import (
	"errors"
	"fmt"
)

// ErrUnsupportedInput is returned by the gradient-table adapters when the
// input is missing or does not have the expected external shape.
var ErrUnsupportedInput = errors.New("unsupported input")

// InvalidAcquisitionError reports a structural or physical inconsistency
// in the raw acquisition arrays. It is always fatal to scheme
// construction: no derived field is computed once a check fails.
type InvalidAcquisitionError struct {
	// Check names the violated invariant, e.g. "unit norm".
	Check string
	// Detail describes the observed values.
	Detail string
}

func (e *InvalidAcquisitionError) Error() string {
	return fmt.Sprintf("invalid acquisition (%s): %s", e.Check, e.Detail)
}

func invalidf(check, format string, args ...interface{}) error {
	return &InvalidAcquisitionError{Check: check, Detail: fmt.Sprintf(format, args...)}
}
