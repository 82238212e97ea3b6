// Package internal provides the core types of the firma web application.
//
// Import "github.com/disc-ucn/firma" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: HTTP routing, middleware and graceful shutdown
//   - Context: request/response access plus session, cookies and i18n
//   - Router: interface handlers use to declare routes
//   - Handler: implemented by types that declare routes on a router
//   - HandlerFunc, Middleware, ErrorHandler
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context:
//
//	func (h *Editor) copy(c firma.Context) error {
//	    ok := ed.Copy(c)
//	    ...
//	}
//
// # Sessions
//
// Context.Session loads the caller's editing session on first use, creating
// one (and its signed cookie) when needed. The session is locked until the
// request ends so concurrent edits from the same browser apply in order, and
// it is saved just before the first byte of the response is written.
//
// # HTMX
//
// Responses to HTMX requests always carry status 200 because HTMX refuses
// to swap other statuses. Render and RenderPartial accept htmx.RenderOption
// values for triggers, retargeting and out-of-band fragments.
package internal
