// Package errs defines the sentinel errors shared across the ncseries
// packages.
//
// Callers match them with errors.Is; the packages that raise them wrap them
// with contextual detail (file path, variable name, attempted shape) using
// fmt.Errorf and %w.
package errs

import "errors"

var (
	// ErrNameCollision indicates that a dimension or variable with the same
	// name has already been created in the target file.
	ErrNameCollision = errors.New("name already in use")

	// ErrMissingVariable indicates that a required variable is absent from a
	// file opened for reading.
	ErrMissingVariable = errors.New("variable not found")

	// ErrMissingCoordinate indicates that neither the prefixed nor the bare
	// row-label variable is present in a file opened for reading.
	ErrMissingCoordinate = errors.New("coordinate variable not found")

	// ErrDuplicateSubdevice indicates that a file's coordinate variable
	// contains the same row label twice, making the row mapping ambiguous.
	ErrDuplicateSubdevice = errors.New("duplicate (sub)device name")

	// ErrNoSubdeviceData indicates that a logged (sub)device has no matching
	// row in the file being read.
	ErrNoSubdeviceData = errors.New("no data for (sub)device")

	// ErrNotInvertible indicates an attempt to read an aggregated variable.
	// Spatial aggregation is a lossy write-only reduction.
	ErrNotInvertible = errors.New("aggregation is not invertible")

	// ErrNoTimegrid indicates a write attempt on a session that was not
	// configured with a simulation time window.
	ErrNoTimegrid = errors.New("no simulation timegrid configured")

	// ErrUnknownFile indicates a keyed lookup for a file that was never
	// registered with the session.
	ErrUnknownFile = errors.New("no such file registered")

	// ErrUnknownVariable indicates a keyed lookup for a variable that was
	// never registered with its file.
	ErrUnknownVariable = errors.New("no such variable registered")

	// ErrVariantMismatch indicates that a quantity was logged twice under the
	// same variable key but with layouts requiring different variants.
	ErrVariantMismatch = errors.New("variable variant mismatch")

	// ErrGridMismatch indicates that a time window does not line up with the
	// window the data was recorded on (different step, or not covered).
	ErrGridMismatch = errors.New("timegrid mismatch")

	// ErrShapeMismatch indicates a value block whose length does not match
	// the shape implied by its series handle.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrBadContainer indicates a compressed container with an invalid magic,
	// version, or truncated header.
	ErrBadContainer = errors.New("invalid container framing")

	// ErrChecksumMismatch indicates that a container payload digest does not
	// match the stored digest.
	ErrChecksumMismatch = errors.New("container checksum mismatch")

	// ErrUnknownCompression indicates an unsupported compression type, either
	// configured or found in a container header.
	ErrUnknownCompression = errors.New("unknown compression type")
)
