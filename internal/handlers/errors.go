package handlers

import (
	"net/http"

	"github.com/disc-ucn/firma/internal"
	"github.com/disc-ucn/firma/internal/views"
	"github.com/disc-ucn/firma/middlewares"
	"github.com/disc-ucn/firma/pkg/htmx"
)

// ErrorHandler renders handler errors as an error page, or as a panel in
// the page's alert slot for HTMX requests. languages feeds the page header.
func ErrorHandler(languages ...string) internal.ErrorHandler {
	return func(c internal.Context, err error) error {
		code := http.StatusInternalServerError
		msg := c.T("error.internal")

		switch {
		case middlewares.IsTimeoutError(err):
			code = http.StatusServiceUnavailable
			msg = c.T("error.timeout")
		case middlewares.IsPanicError(err):
			// Recover already logged the stack.
		default:
			if he := internal.AsHTTPError(err); he != nil {
				code = he.Code
				switch {
				case he.ErrorCode != "":
					msg = c.T(he.ErrorCode)
				case code < http.StatusInternalServerError && he.Message != "":
					msg = he.Message
				}
			}
		}

		if code >= http.StatusInternalServerError {
			c.LogError("request failed", "status", code, "error", err)
		} else {
			c.LogDebug("request rejected", "status", code, "error", err)
		}

		p := views.Page{T: c.T, Lang: c.Language(), Languages: languages}
		return c.RenderPartial(code, views.ErrorPage(p, code, msg), views.ErrorPanel(p, code, msg),
			htmx.WithRetarget(views.AlertsTarget),
			htmx.WithReswap(htmx.SwapInnerHTML),
		)
	}
}

// NotFound answers unmatched routes through the error handler.
func NotFound(c internal.Context) error {
	return internal.ErrNotFound(c.T("error.notFound"))
}

// MethodNotAllowed answers known paths hit with the wrong method.
func MethodNotAllowed(c internal.Context) error {
	return internal.NewHTTPError(http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
}
