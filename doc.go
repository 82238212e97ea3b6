// Package firma is the web layer of the UCN email signature editor.
//
// It re-exports the application runtime from internal so commands and
// tests can assemble a server without reaching into internal packages.
// The signature engine itself lives under pkg: [signature] holds the
// data model, [validator] checks it, [logosize] picks the logo width,
// [composer] renders the HTML fragment and [clipboard] publishes it.
//
// # Quick Start
//
//	app := firma.New(
//	    firma.WithSession(session.NewMemory()),
//	    firma.WithCookieOptions(firma.WithCookieSecret(secret)),
//	    firma.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.I18n(catalog),
//	    ),
//	    firma.WithHandlers(editorHandler),
//	    firma.WithErrorHandler(handlers.ErrorHandler(catalog.Languages()...)),
//	    firma.WithHealthChecks(),
//	)
//
//	if err := app.Run(":8080", firma.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Handlers
//
// Handlers implement [Handler] and declare their routes:
//
//	func (h *Editor) Routes(r firma.Router) {
//	    r.GET("/", h.index)
//	    r.POST("/fields/{field}", h.setField)
//	}
//
// Each route receives a [Context] with the session, the translator and
// HTMX-aware rendering helpers. Returning an error hands it to the
// configured [ErrorHandler].
//
// # Sessions
//
// Every browser gets its own editing session keyed by a signed cookie.
// Sessions live in memory by default; a Redis store keeps them across
// restarts and replicas.
//
// # Health Checks
//
// [WithHealthChecks] mounts /health/live and /health/ready. Readiness
// runs every check added with [WithReadinessCheck].
//
// [signature]: github.com/disc-ucn/firma/pkg/signature
// [validator]: github.com/disc-ucn/firma/pkg/validator
// [logosize]: github.com/disc-ucn/firma/pkg/logosize
// [composer]: github.com/disc-ucn/firma/pkg/composer
// [clipboard]: github.com/disc-ucn/firma/pkg/clipboard
package firma
