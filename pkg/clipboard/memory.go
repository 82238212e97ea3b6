package clipboard

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Memory is an in-process clipboard. It supports multi-format writes unless
// configured as text only, and can be told to fail or panic on the next writes.
// It is safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	last     Payload
	writes   int
	textOnly bool
	failMult error
	failText error
	panicMsg any
	delay    time.Duration
}

// MemoryOption configures a Memory clipboard.
type MemoryOption func(*Memory)

// TextOnly makes WriteMulti report errors.ErrUnsupported so callers fall back to text.
func TextOnly() MemoryOption {
	return func(m *Memory) { m.textOnly = true }
}

// FailMulti makes every WriteMulti return err.
func FailMulti(err error) MemoryOption {
	return func(m *Memory) { m.failMult = err }
}

// FailText makes every WriteText return err.
func FailText(err error) MemoryOption {
	return func(m *Memory) { m.failText = err }
}

// PanicOnWrite makes every write panic with v.
func PanicOnWrite(v any) MemoryOption {
	return func(m *Memory) { m.panicMsg = v }
}

// WithDelay makes every write block for d or until the context is done.
func WithDelay(d time.Duration) MemoryOption {
	return func(m *Memory) { m.delay = d }
}

// NewMemory returns an empty in-process clipboard.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WriteText implements Writer.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panicMsg != nil {
		panic(m.panicMsg)
	}
	if m.failText != nil {
		return m.failText
	}
	m.last = Payload{Text: text}
	m.writes++
	return nil
}

// WriteMulti implements MultiWriter.
func (m *Memory) WriteMulti(ctx context.Context, p Payload) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panicMsg != nil {
		panic(m.panicMsg)
	}
	if m.textOnly {
		return errors.ErrUnsupported
	}
	if m.failMult != nil {
		return m.failMult
	}
	m.last = p
	m.writes++
	return nil
}

// Last returns the most recent successful write.
func (m *Memory) Last() Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Writes returns the number of successful writes.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *Memory) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
