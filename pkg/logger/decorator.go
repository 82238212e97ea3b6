package logger

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// personalKeys name attributes that carry the contact data of a signature
// owner. Their values are masked before any handler sees them.
var personalKeys = map[string]bool{
	"email":     true,
	"to":        true,
	"phone":     true,
	"full_name": true,
	"name":      true,
}

// contextHandler adds request-scoped attributes to every record and masks
// personal data.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

// NewLogHandlerDecorator wraps next. extractors run on every record so
// per-request values such as the request ID stay fresh. Nil extractors are
// dropped.
func NewLogHandlerDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	clean := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			clean = append(clean, ex)
		}
	}
	return &contextHandler{next: next, extractors: clean}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(mask(a))
		return true
	})
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			out.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, out)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = mask(a)
	}
	return &contextHandler{next: h.next.WithAttrs(masked), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}

func mask(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		group := v.Group()
		masked := make([]any, len(group))
		for i, g := range group {
			masked[i] = mask(g)
		}
		return slog.Group(a.Key, masked...)
	}
	if !personalKeys[strings.ToLower(a.Key)] || v.Kind() != slog.KindString {
		return slog.Attr{Key: a.Key, Value: v}
	}
	return slog.String(a.Key, Mask(v.String()))
}

// Mask hides all but the first rune of s. The domain of an email address
// is kept so delivery problems stay traceable.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	local, domain, isEmail := strings.Cut(s, "@")
	_, size := utf8.DecodeRuneInString(local)
	masked := local[:size] + "***"
	if isEmail {
		return masked + "@" + domain
	}
	return masked
}
