package middlewares

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/disc-ucn/firma/internal"
)

// RequestObserver records one served request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// Metrics returns middleware that reports every request to obs, labelled
// with the chi route pattern rather than the raw path so URL parameters
// do not explode label cardinality.
func Metrics(obs RequestObserver) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			start := time.Now()
			err := next(c)

			route := "unmatched"
			if rctx := chi.RouteContext(c.Request().Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			obs.ObserveRequest(c.Request().Method, route, c.ResponseWriter().Status(), time.Since(start))
			return err
		}
	}
}
