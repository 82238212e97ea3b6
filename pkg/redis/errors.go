package redis

import (
	"errors"
	"fmt"
)

// Errors reported while opening or checking the session store.
var (
	ErrEmptyConnectionURL = errors.New("redis: session store URL is empty")
	ErrFailedToParseURL   = errors.New("redis: invalid session store URL")
	ErrUnsupportedScheme  = fmt.Errorf("%w: scheme must be redis:// or rediss://", ErrFailedToParseURL)
	ErrConnectionFailed   = errors.New("redis: session store unreachable")
	ErrHealthcheckFailed  = errors.New("redis: session store healthcheck failed")
)
