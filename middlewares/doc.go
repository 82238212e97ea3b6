// Package middlewares provides the HTTP middleware used by the firma server.
//
// # Request ID
//
// RequestID assigns a ULID to each request, or keeps an upstream
// X-Request-ID. Pair it with RequestIDExtractor so every log line carries it:
//
//	app := firma.New(
//	    firma.WithLogger(cfg.Log, "http", middlewares.RequestIDExtractor()),
//	    firma.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover and Timeout
//
// Recover turns panics into *PanicError. Timeout installs a deadline in the
// request context and reports a handler that outlived it without answering
// as *TimeoutError. Both are handed to the app's ErrorHandler.
//
// # I18n
//
// I18n resolves the request language from ?lang=, the lang cookie or
// Accept-Language and stores a Translator in the context, which Context.T uses.
//
// # Metrics
//
// Metrics reports method, route pattern, status and latency of every request.
//
// # Recommended Middleware Order
//
//	firma.WithMiddleware(
//	    middlewares.RequestID(),
//	    middlewares.Metrics(m),
//	    middlewares.Recover(),
//	    middlewares.I18n(catalog),
//	    middlewares.Timeout(10*time.Second),
//	)
package middlewares
