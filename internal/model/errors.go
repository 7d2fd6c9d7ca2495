package model

import "errors"

// Request-fatal error kinds. Callers wrap these with context and test for
// them with errors.Is.
var (
	// ErrSourceUnavailable means a rule or statement source could not be
	// fetched or opened.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedSource means required columns are missing.
	ErrMalformedSource = errors.New("malformed source")
	// ErrUnsupportedFormat means no parser could read the input.
	ErrUnsupportedFormat = errors.New("unsupported format")
)
