package session

import (
	"time"

	"github.com/disc-ucn/firma/pkg/signature"
)

// Session is one signature editing session. It lives until it expires;
// nothing in it outlives the session.
type Session struct {
	CreatedAt    time.Time      `json:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at"`
	ExpiresAt    time.Time      `json:"expires_at"`
	CopiedUntil  time.Time      `json:"copied_until"`
	ID           string         `json:"id"`
	Token        string         `json:"token"`
	Draft        signature.Data `json:"draft"`
	LogoSize     int            `json:"logo_size"`
	LogoObserved bool           `json:"logo_observed"`

	dirty bool // tracks if session needs saving
	isNew bool // tracks if session was just created
}

// New creates a session with an empty draft.
func New(id, token string, now, expiresAt time.Time) *Session {
	return &Session{
		ID:           id,
		Token:        token,
		Draft:        signature.Empty(),
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    expiresAt,
		isNew:        true,
		dirty:        true,
	}
}

// SetDraft replaces the draft and marks the session dirty.
func (s *Session) SetDraft(d signature.Data) {
	s.Draft = d.Clone()
	s.dirty = true
}

// IsDirty returns true if the session has unsaved changes.
func (s *Session) IsDirty() bool {
	return s.dirty
}

// ClearDirty marks the session as saved.
func (s *Session) ClearDirty() {
	s.dirty = false
}

// MarkDirty marks the session as needing to be saved.
func (s *Session) MarkDirty() {
	s.dirty = true
}

// IsNew returns true if the session was just created.
func (s *Session) IsNew() bool {
	return s.isNew
}

// ClearNew marks the session as persisted.
func (s *Session) ClearNew() {
	s.isNew = false
}

// IsExpired reports whether the session has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	c := *s
	c.Draft = s.Draft.Clone()
	return &c
}
