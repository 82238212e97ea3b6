package validator

import "errors"

// ErrInvalidForm is returned when a signature form fails a blocking rule.
var ErrInvalidForm = errors.New("validator: form has blocking errors")
