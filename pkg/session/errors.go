package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session has expired.
	ErrExpired = errors.New("session: expired")

	// ErrCorrupt is returned when a stored session cannot be decoded.
	ErrCorrupt = errors.New("session: corrupt")

	// ErrClosed is returned when a store is used after Close.
	ErrClosed = errors.New("session: store closed")
)
