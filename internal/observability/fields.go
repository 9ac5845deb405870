package observability

import "go.uber.org/zap"

// Re-exported zap field constructors so call sites outside the logging
// package do not import zap directly.
//
//nolint:gochecknoglobals // Function aliases, not mutable state
var (
	String  = zap.String
	Int     = zap.Int
	Float64 = zap.Float64
	Bool    = zap.Bool
	Error   = zap.Error
)
