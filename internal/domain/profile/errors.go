package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	// ErrStoreUnavailable wraps profile store failures that survived every retry.
	ErrStoreUnavailable = errors.New("profile store unavailable")
)
