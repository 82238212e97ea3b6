package clipboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/disc-ucn/firma/pkg/logger"
	"github.com/disc-ucn/firma/pkg/sanitizer"
)

// Fallback selects what a text-only clipboard receives.
type Fallback string

const (
	// FallbackText writes the derived plain text.
	FallbackText Fallback = "text"
	// FallbackHTML writes the raw HTML markup as text.
	FallbackHTML Fallback = "html"
)

// ParseFallback maps a config value to a Fallback. Unknown values map to FallbackText.
func ParseFallback(s string) Fallback {
	if Fallback(strings.ToLower(strings.TrimSpace(s))) == FallbackHTML {
		return FallbackHTML
	}
	return FallbackText
}

// DefaultTimeout bounds a single clipboard write.
const DefaultTimeout = 5 * time.Second

// Publisher writes composed signatures to a clipboard.
// At most one publish runs at a time; overlapping calls are dropped.
type Publisher struct {
	w        Writer
	logger   *slog.Logger
	recorder Recorder
	sem      *semaphore.Weighted
	fallback Fallback
	timeout  time.Duration
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithFallback sets what a text-only clipboard receives.
func WithFallback(f Fallback) Option {
	return func(p *Publisher) { p.fallback = f }
}

// WithLogger sets the logger for write failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithTimeout bounds each write. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) { p.timeout = d }
}

// WithRecorder reports every outcome to r.
func WithRecorder(r Recorder) Option {
	return func(p *Publisher) { p.recorder = r }
}

// NewPublisher returns a Publisher writing to w.
func NewPublisher(w Writer, opts ...Option) *Publisher {
	p := &Publisher{
		w:        w,
		logger:   logger.NewNope(),
		sem:      semaphore.NewWeighted(1),
		fallback: FallbackText,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish places html and its plain-text counterpart on the clipboard.
//
// A multi-format writer receives both in one entry. Otherwise the fallback
// representation is written as text. Any error, timeout or panic in the
// writer is logged and reported as false; Publish never panics. A call made
// while another is in flight returns false without writing.
func (p *Publisher) Publish(ctx context.Context, html string) bool {
	if !p.sem.TryAcquire(1) {
		p.logger.WarnContext(ctx, "clipboard publish dropped", slog.String("error", ErrBusy.Error()))
		p.record(ResultBusy)
		return false
	}
	defer p.sem.Release(1)

	if strings.TrimSpace(html) == "" {
		p.logger.WarnContext(ctx, "clipboard publish skipped", slog.String("error", ErrEmpty.Error()))
		p.record(ResultEmpty)
		return false
	}

	payload := Payload{HTML: html, Text: sanitizer.PlainText(html)}

	result, err := p.write(ctx, payload)
	if err != nil {
		p.logger.ErrorContext(ctx, "clipboard write failed", slog.String("error", err.Error()))
		p.record(ResultFailed)
		return false
	}

	p.logger.DebugContext(ctx, "clipboard write succeeded",
		slog.String("result", result),
		slog.Int("html_bytes", len(payload.HTML)),
		slog.Int("text_bytes", len(payload.Text)),
	)
	p.record(result)
	return true
}

func (p *Publisher) write(ctx context.Context, payload Payload) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = ResultFailed, fmt.Errorf("clipboard: writer panicked: %v", r)
		}
	}()

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if mw, ok := p.w.(MultiWriter); ok {
		err := mw.WriteMulti(ctx, payload)
		if err == nil {
			return ResultMulti, nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return ResultFailed, err
		}
	}

	text := payload.Text
	if p.fallback == FallbackHTML {
		text = payload.HTML
	}
	if err := p.w.WriteText(ctx, text); err != nil {
		return ResultFailed, err
	}
	return ResultFallback, nil
}

func (p *Publisher) record(result string) {
	if p.recorder != nil {
		p.recorder.ObserveCopy(result)
	}
}
