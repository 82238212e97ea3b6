package session

import (
	"context"
	"sync"
	"time"
)

// Memory keeps sessions in process memory. Expired sessions are dropped on
// access and by a background sweep.
type Memory struct {
	items  map[string]*Session
	now    func() time.Time
	done   chan struct{}
	mu     sync.Mutex
	closed bool
}

// MemoryOption configures a Memory store.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	now             func() time.Time
	cleanupInterval time.Duration
}

// WithCleanupInterval sets how often expired sessions are swept.
// Zero disables the sweep. Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(o *memoryOptions) { o.cleanupInterval = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) { o.now = now }
}

// NewMemory creates an in-memory store. Call Close to stop the sweep.
func NewMemory(opts ...MemoryOption) *Memory {
	o := &memoryOptions{now: time.Now, cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items: make(map[string]*Session),
		now:   o.now,
		done:  make(chan struct{}),
	}
	if o.cleanupInterval > 0 {
		go m.janitor(o.cleanupInterval)
	}
	return m
}

func (m *Memory) Create(_ context.Context, s *Session) error {
	return m.put(s)
}

func (m *Memory) Update(_ context.Context, s *Session) error {
	return m.put(s)
}

func (m *Memory) put(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	stored := s.Clone()
	stored.ClearDirty()
	stored.ClearNew()
	m.items[s.Token] = stored
	return nil
}

func (m *Memory) Get(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}

	s, ok := m.items[token]
	if !ok {
		return nil, ErrNotFound
	}
	if s.IsExpired(m.now()) {
		delete(m.items, token)
		return nil, ErrExpired
	}
	return s.Clone(), nil
}

func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, token)
	return nil
}

func (m *Memory) Touch(_ context.Context, token string, lastActiveAt, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[token]
	if !ok {
		return ErrNotFound
	}
	s.LastActiveAt = lastActiveAt
	s.ExpiresAt = expiresAt
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops the background sweep. It is safe to call more than once.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for token, s := range m.items {
		if s.IsExpired(now) {
			delete(m.items, token)
		}
	}
}
