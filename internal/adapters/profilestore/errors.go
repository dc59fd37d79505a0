package profilestore

import "errors"

// Sentinel kinds for profile store errors.
var (
	ErrNotFound = errors.New("profile not found")
)
