package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the level, format and destinations of a logger.
type Config struct {
	// Output defaults to os.Stdout.
	Output io.Writer
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// Format is json or text. Defaults to json.
	Format string `env:"LOG_FORMAT" envDefault:"json"`
	Sentry SentryConfig
}

// New creates a logger from cfg with optional context extractors.
// When cfg.Sentry.DSN is set, warnings and errors are also sent to Sentry.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}

	if cfg.Sentry.DSN != "" {
		sh, err := newSentryHandler(cfg.Sentry)
		if err != nil {
			// stdout keeps working when Sentry cannot start
			slog.New(h).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		} else {
			h = newMultiHandler(h, sh)
		}
	}

	return slog.New(NewLogHandlerDecorator(h, extractors...))
}

// NewNope returns a logger that drops every record. Packages start with it
// until the caller supplies a real logger.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
