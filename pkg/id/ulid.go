// Package id generates identifiers for sessions and requests.
package id

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID returns a 26-character, time-sortable identifier.
func NewULID() string {
	return ulid.Make().String()
}

// Time returns the creation time encoded in a ULID string.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}

// NewToken returns a URL-safe random token with 32 bytes of entropy.
func NewToken() string {
	// crypto/rand.Read never returns an error
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
