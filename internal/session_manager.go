package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/disc-ucn/firma/pkg/cookie"
	"github.com/disc-ucn/firma/pkg/id"
	"github.com/disc-ucn/firma/pkg/logger"
	"github.com/disc-ucn/firma/pkg/session"
)

// Default session configuration.
const (
	defaultSessionCookieName = "__firma"
	defaultSessionTTL        = 24 * time.Hour
	defaultTouchInterval     = time.Minute
)

// ErrSessionNotConfigured is returned by Context.Session when the app runs
// without a session store.
var ErrSessionNotConfigured = errors.New("session: not configured")

// SessionManager ties editing sessions to the signed session cookie.
// Requests carrying the same token are serialized with a per-token lock so a
// burst of field updates cannot lose a write.
type SessionManager struct {
	store      session.Store
	cookies    *cookie.Manager
	logger     *slog.Logger
	now        func() time.Time
	locks      map[string]*tokenLock
	cookieName string
	ttl        time.Duration
	touchEvery time.Duration
	mu         sync.Mutex
}

type tokenLock struct {
	mu   sync.Mutex
	refs int
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a SessionManager over store. Cookies are signed
// with cm, which must carry a secret.
func NewSessionManager(store session.Store, cm *cookie.Manager, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		cookies:    cm,
		logger:     logger.NewNope(),
		now:        time.Now,
		locks:      make(map[string]*tokenLock),
		cookieName: defaultSessionCookieName,
		ttl:        defaultSessionTTL,
		touchEvery: defaultTouchInterval,
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionTTL sets how long an idle session is kept.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(sm *SessionManager) {
		if ttl > 0 {
			sm.ttl = ttl
		}
	}
}

// WithSessionClock overrides the time source. Used by tests.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(sm *SessionManager) {
		if now != nil {
			sm.now = now
		}
	}
}

// SetLogger sets the logger for session events. Called by App after initialization.
func (sm *SessionManager) SetLogger(l *slog.Logger) {
	if l != nil {
		sm.logger = l
	}
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

// TTL returns the session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// Load returns the session named by the request cookie.
// Returns session.ErrNotFound when there is no usable cookie.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*session.Session, error) {
	token, err := sm.token(ctx, r)
	if err != nil {
		return nil, err
	}
	return sm.store.Get(ctx, token)
}

func (sm *SessionManager) token(ctx context.Context, r *http.Request) (string, error) {
	token, err := sm.cookies.GetSigned(r, sm.cookieName)
	if err != nil {
		if errors.Is(err, cookie.ErrBadSig) {
			sm.logger.WarnContext(ctx, "session cookie signature mismatch")
		}
		return "", session.ErrNotFound
	}
	return token, nil
}

// Create starts a new session with an empty draft and persists it.
func (sm *SessionManager) Create(ctx context.Context) (*session.Session, error) {
	now := sm.now()
	sess := session.New(id.NewULID(), id.NewToken(), now, now.Add(sm.ttl))
	if err := sm.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	sess.ClearDirty()
	return sess, nil
}

// Acquire returns the caller's session locked for the rest of the request,
// starting a fresh one when the cookie is missing or forged, or when the
// stored session is gone or unreadable. A fresh session is written to the response cookie and
// stays marked new until the request ends. The returned func releases the lock.
func (sm *SessionManager) Acquire(ctx context.Context, w http.ResponseWriter, r *http.Request) (*session.Session, func(), error) {
	if token, err := sm.token(ctx, r); err == nil {
		release := sm.Lock(token)
		sess, err := sm.store.Get(ctx, token)
		switch {
		case err == nil:
			return sess, release, nil
		case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
			release()
		case errors.Is(err, session.ErrCorrupt):
			sm.logger.WarnContext(ctx, "discarding unreadable session", slog.String("error", err.Error()))
			release()
		default:
			release()
			return nil, nil, err
		}
	}

	sess, err := sm.Create(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := sm.SetCookie(w, sess); err != nil {
		return nil, nil, err
	}
	sm.logger.DebugContext(ctx, "session started", slog.String("session_id", sess.ID))
	return sess, sm.Lock(sess.Token), nil
}

// Save persists a dirty session and slides its expiry. Clean sessions are
// only touched, and no more than once per touch interval.
func (sm *SessionManager) Save(ctx context.Context, sess *session.Session) error {
	now := sm.now()
	if !sess.IsDirty() {
		if now.Sub(sess.LastActiveAt) < sm.touchEvery {
			return nil
		}
		sess.LastActiveAt = now
		sess.ExpiresAt = now.Add(sm.ttl)
		return sm.store.Touch(ctx, sess.Token, sess.LastActiveAt, sess.ExpiresAt)
	}

	sess.LastActiveAt = now
	sess.ExpiresAt = now.Add(sm.ttl)
	if err := sm.store.Update(ctx, sess); err != nil {
		return err
	}
	sess.ClearDirty()
	return nil
}

// SetCookie writes the signed session cookie.
func (sm *SessionManager) SetCookie(w http.ResponseWriter, sess *session.Session) error {
	return sm.cookies.SetSigned(w, sm.cookieName, sess.Token, int(sm.ttl.Seconds()))
}

// Destroy removes the session from the store and clears the cookie.
func (sm *SessionManager) Destroy(ctx context.Context, w http.ResponseWriter, sess *session.Session) error {
	if sess != nil {
		if err := sm.store.Delete(ctx, sess.Token); err != nil && !errors.Is(err, session.ErrNotFound) {
			return err
		}
	}
	sm.cookies.Delete(w, sm.cookieName)
	return nil
}

// Lock serializes work on one session token. The returned func releases it.
func (sm *SessionManager) Lock(token string) func() {
	sm.mu.Lock()
	l, ok := sm.locks[token]
	if !ok {
		l = &tokenLock{}
		sm.locks[token] = l
	}
	l.refs++
	sm.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		sm.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(sm.locks, token)
		}
		sm.mu.Unlock()
	}
}
