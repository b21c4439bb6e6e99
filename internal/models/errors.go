package models

import "errors"

var (
	// ErrNoData indicates a valid upstream response that carries no rows,
	// typically a non-trading day or a report not yet published.
	ErrNoData = errors.New("no data")

	// ErrMalformedField indicates an upstream row whose shape or content
	// does not match the report's declared layout.
	ErrMalformedField = errors.New("malformed field")

	// ErrDenominatorMissing indicates a derived metric whose denominator
	// record is not in the store, e.g. computing sector trade weights
	// before the market index trade value for the same date exists.
	ErrDenominatorMissing = errors.New("denominator missing")
)
