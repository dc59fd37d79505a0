package app

import "errors"

// Sentinel kinds for engine errors.
var (
	// ErrRequesterNotFound means the requester has no profile. It is
	// surfaced to the caller and never cached.
	ErrRequesterNotFound = errors.New("requester profile not found")
)
