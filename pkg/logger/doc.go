// Package logger builds the application's structured slog logger.
//
// New returns a JSON (or text) logger with a configurable level. Context
// extractors add request-scoped attributes such as the request ID on every
// call, and a Sentry DSN adds a second destination for warnings and errors:
//
//	log := logger.New(logger.Config{Level: "debug"}, middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "signature copied", slog.Int("bytes", n))
//
// Sentry startup failures fall back to the primary handler. NewNope returns a
// logger that discards everything and is the default for library packages.
package logger
