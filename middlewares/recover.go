package middlewares

import (
	"runtime"

	"github.com/disc-ucn/firma/internal"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	StackSize         int  // Max stack trace size (default: 4096)
	DisablePrintStack bool // Leave the stack out of logs and errors
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		if size > 0 {
			cfg.StackSize = size
		}
	}
}

// WithRecoverDisablePrintStack leaves the stack trace out.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns middleware that turns a panicking handler into a
// *PanicError for the ErrorHandler. The panic is logged at error level with
// the route, so it reaches Sentry when the logger forwards errors there.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := &RecoverConfig{
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = cfg.capture(c, r)
				}
			}()

			return next(c)
		}
	}
}

func (cfg *RecoverConfig) capture(c internal.Context, r any) *PanicError {
	req := c.Request()
	pe := &PanicError{Value: r, Method: req.Method, Path: req.URL.Path}

	attrs := []any{"panic", r, "method", pe.Method, "path", pe.Path, "htmx", c.IsHTMX()}
	if !cfg.DisablePrintStack {
		buf := make([]byte, cfg.StackSize)
		pe.Stack = buf[:runtime.Stack(buf, false)]
		attrs = append(attrs, "stack", string(pe.Stack))
	}
	c.LogError("panic recovered", attrs...)

	return pe
}
