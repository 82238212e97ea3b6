package signature

import "errors"

// Signature data errors.
var (
	// ErrUnknownField is returned when a field name does not map to a signature field.
	ErrUnknownField = errors.New("signature: unknown field")

	// ErrIndexOutOfRange is returned when a position index does not address an existing slot.
	ErrIndexOutOfRange = errors.New("signature: position index out of range")

	// ErrTooManyPositions is returned when appending past MaxPositions slots.
	ErrTooManyPositions = errors.New("signature: too many positions")

	// ErrLastPosition is returned when removing the only remaining position slot.
	ErrLastPosition = errors.New("signature: cannot remove last position")
)
