package dsys

import "errors"

// Construction-time validation errors. All are raised by constructors only;
// once a block is built, Advance and Reset never fail.
var (
	// ErrInvalidSamplingTime indicates a sampling period <= 0.
	ErrInvalidSamplingTime = errors.New("dsys: sampling period must be > 0")

	// ErrInvalidCoefficients indicates an empty or non-normalizable
	// transfer-function coefficient vector.
	ErrInvalidCoefficients = errors.New("dsys: invalid transfer function coefficients")

	// ErrInvalidDimensions indicates mismatched state-space dimensions or a
	// degenerate buffer capacity.
	ErrInvalidDimensions = errors.New("dsys: invalid dimensions")
)
