package internal

// Handler declares routes on a router.
//
// Example:
//
//	type Editor struct {
//	    svc *editor.Service
//	}
//
//	func (h *Editor) Routes(r firma.Router) {
//	    r.GET("/", h.page)
//	    r.POST("/fields/{field}", h.setField)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers.
// It receives a Context and returns an error.
// Returning a non-nil error hands it to the app's ErrorHandler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func NoStore(next firma.HandlerFunc) firma.HandlerFunc {
//	    return func(c firma.Context) error {
//	        c.SetHeader("Cache-Control", "no-store")
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
