package uploads

import "errors"

var (
	// ErrConfiguration is returned when an upload set has no resolvable
	// destination or its configuration is requested without a registry.
	ErrConfiguration = errors.New("upload configuration error")

	// ErrUploadNotAllowed is returned when the file extension is rejected by
	// the set's policy. Callers are expected to report it to the user.
	ErrUploadNotAllowed = errors.New("upload not allowed")

	// ErrInvalidInput is returned for a nil candidate.
	ErrInvalidInput = errors.New("invalid upload input")

	// ErrInvalidFilename is returned when the candidate has no filename or
	// nothing usable is left after sanitizing it.
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrInvalidSetName is returned when an upload set name is not alphanumeric.
	ErrInvalidSetName = errors.New("invalid upload set name")
)
