package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/disc-ucn/firma/internal"
)

// DefaultTimeout bounds a request when no budget is given.
const DefaultTimeout = 10 * time.Second

// TimeoutConfig configures the timeout middleware.
type TimeoutConfig struct {
	Routes  map[string]time.Duration
	Timeout time.Duration
}

// TimeoutOption configures TimeoutConfig.
type TimeoutOption func(*TimeoutConfig)

// WithRouteTimeout gives requests to path their own budget, such as a
// longer one for mail delivery.
func WithRouteTimeout(path string, d time.Duration) TimeoutOption {
	return func(cfg *TimeoutConfig) {
		if d > 0 {
			cfg.Routes[path] = d
		}
	}
}

// Timeout returns middleware that bounds each request with a deadline.
//
// The handler runs on the request goroutine with the deadline installed in
// its context, so clipboard publishes and mail delivery give up once it
// passes and the session lock is never released under a running handler.
// A handler that returns past the deadline without having answered yields
// a *TimeoutError for the ErrorHandler.
func Timeout(timeout time.Duration, opts ...TimeoutOption) internal.Middleware {
	cfg := &TimeoutConfig{
		Routes:  make(map[string]time.Duration),
		Timeout: timeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			path := c.Request().URL.Path
			budget, ok := cfg.Routes[path]
			if !ok {
				budget = cfg.Timeout
			}

			ctx, cancel := context.WithTimeout(c.Context(), budget)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Written() {
				c.LogWarn("request timeout", "path", path, "timeout", budget.String())
				return &TimeoutError{Err: err, Path: path, Duration: budget}
			}
			return err
		}
	}
}
