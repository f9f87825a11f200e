package dataset

import "errors"

// Sentinel errors for dataset generation and export.
// Every error returned by this package wraps one of them.
var (
	// ErrInvalidArgument reports a bad count, format, path or record.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIOFailure reports that a destination could not be created or written,
	// or a source could not be read.
	ErrIOFailure = errors.New("io failure")

	// ErrMalformed reports a dataset file that does not decode as the expected format.
	ErrMalformed = errors.New("malformed dataset")

	// ErrIncompatibleVersion reports a manifest written by an incompatible version.
	ErrIncompatibleVersion = errors.New("incompatible manifest version")
)
