package amortization

import "errors"

// Calculation errors. All of them are detected before any schedule entry is
// produced, so a failed computation never returns a partial plan.
var (
	// ErrInvalidTenureUnit indicates a tenure unit that cannot be combined
	// with the requested frequency (e.g. quarterly only accepts months/years).
	ErrInvalidTenureUnit = errors.New("invalid tenure unit for frequency")

	// ErrInvalidTenure indicates a tenure that resolves to fewer than one
	// period, or one that is structurally incompatible with the chosen
	// method (balloon with a single period).
	ErrInvalidTenure = errors.New("invalid tenure")

	// ErrMissingRequiredField indicates a required input that was not set.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrUnsupportedMethod indicates an unknown calculation method.
	ErrUnsupportedMethod = errors.New("unsupported calculation method")
)
