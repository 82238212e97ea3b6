package clipboard

import "errors"

// Clipboard errors.
var (
	// ErrBusy is returned when a publish is already in flight.
	ErrBusy = errors.New("clipboard: publish already in progress")

	// ErrEmpty is returned when there is nothing to publish.
	ErrEmpty = errors.New("clipboard: empty payload")

	// ErrNoBackend is returned when no system clipboard utility is available.
	ErrNoBackend = errors.New("clipboard: no clipboard utility found")

	// ErrPermissionDenied is returned by writers that were refused access.
	ErrPermissionDenied = errors.New("clipboard: permission denied")
)
