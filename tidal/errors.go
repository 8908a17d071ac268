package tidal

import "errors"

var (
	// ErrNotAuthenticated is returned when an operation requires
	// credentials the session does not hold. It is never retried.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotStreamable is returned when stream resolution fails
	// upstream, e.g. for region-locked or removed tracks.
	ErrNotStreamable = errors.New("can not get stream url")

	errMalformedItem = errors.New("malformed item")
)
