package domain

import "errors"

// Analysis failure taxonomy. Callers distinguish conditions with errors.Is;
// the engines wrap these with per-call detail.
var (
	// ErrEmptySample indicates a statistical operation received an empty sample.
	ErrEmptySample = errors.New("sample is empty")

	// ErrInsufficientData indicates a sample is too small for the requested test.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrUnknownMetric indicates a metric name not present on test results.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrUnknownModel indicates a model absent from the pricing registry.
	ErrUnknownModel = errors.New("unknown model")

	// ErrNoModelsMeetThreshold indicates no benchmarked model reached the
	// configured quality threshold.
	ErrNoModelsMeetThreshold = errors.New("no models meet quality threshold")
)
