package internal_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disc-ucn/firma/internal"
	"github.com/disc-ucn/firma/pkg/cookie"
	"github.com/disc-ucn/firma/pkg/htmx"
	"github.com/disc-ucn/firma/pkg/session"
	"github.com/disc-ucn/firma/pkg/signature"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type text string

func (t text) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, string(t))
	return err
}

type routes func(r internal.Router)

func (f routes) Routes(r internal.Router) { f(r) }

func newApp(t *testing.T, store session.Store, h routes, opts ...internal.Option) *internal.App {
	t.Helper()
	base := []internal.Option{
		internal.WithCookieOptions(cookie.WithSecret(testSecret)),
		internal.WithHandlers(h),
	}
	if store != nil {
		base = append(base, internal.WithSession(store))
	}
	return internal.New(append(base, opts...)...)
}

func do(app http.Handler, method, target string, cookies []*http.Cookie, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

// --- Routing ---

func TestApp_Routing(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil, func(r internal.Router) {
		r.GET("/hello/{name}", func(c internal.Context) error {
			return c.String(http.StatusOK, "hola "+c.Param("name"))
		})
		r.DELETE("/positions/{index}", func(c internal.Context) error {
			i, ok := internal.Param[int](c, "index")
			if !ok {
				return internal.ErrBadRequest("bad index")
			}
			return c.JSON(http.StatusOK, map[string]int{"index": i})
		})
	})

	t.Run("url param", func(t *testing.T) {
		t.Parallel()
		w := do(app, http.MethodGet, "/hello/ana", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "hola ana", w.Body.String())
	})

	t.Run("typed param", func(t *testing.T) {
		t.Parallel()
		w := do(app, http.MethodDelete, "/positions/2", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"index":2}`, w.Body.String())
	})

	t.Run("http error without handler", func(t *testing.T) {
		t.Parallel()
		w := do(app, http.MethodDelete, "/positions/x", nil, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "bad index")
	})
}

func TestApp_ErrorHandler(t *testing.T) {
	t.Parallel()

	var got error
	app := newApp(t, nil, func(r internal.Router) {
		r.GET("/boom", func(c internal.Context) error {
			return errors.New("boom")
		})
		r.GET("/written", func(c internal.Context) error {
			_ = c.String(http.StatusAccepted, "done")
			return errors.New("late")
		})
	}, internal.WithErrorHandler(func(c internal.Context, err error) error {
		got = err
		return c.String(http.StatusTeapot, "handled")
	}))

	w := do(app, http.MethodGet, "/boom", nil, nil)
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.EqualError(t, got, "boom")

	w = do(app, http.MethodGet, "/written", nil, nil)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "done", w.Body.String())
}

// --- Middleware ---

type ctxKey struct{}

func TestApp_Middleware(t *testing.T) {
	t.Parallel()

	var order []string
	trace := func(name string) internal.Middleware {
		return func(next internal.HandlerFunc) internal.HandlerFunc {
			return func(c internal.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}
	setter := func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			c.Set(ctxKey{}, "from-middleware")
			return next(c)
		}
	}

	app := newApp(t, nil, func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			return c.String(http.StatusOK, internal.ContextValue[string](c, ctxKey{}))
		}, trace("first"), trace("second"))
	}, internal.WithMiddleware(setter))

	w := do(app, http.MethodGet, "/", nil, nil)
	assert.Equal(t, "from-middleware", w.Body.String())
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestApp_Mount(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil, func(internal.Router) {},
		internal.WithMount("/metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "# metrics")
		})),
		internal.WithHealthChecks(),
	)

	w := do(app, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, "# metrics", w.Body.String())

	w = do(app, http.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

// --- Render ---

func TestContext_Render(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil, func(r internal.Router) {
		r.GET("/page", func(c internal.Context) error {
			return c.RenderPartial(http.StatusUnprocessableEntity, text("<html>full</html>"), text("<div>partial</div>"),
				htmx.WithTrigger("signature-copied"),
				htmx.WithOOB(text(`<p hx-swap-oob="true">oob</p>`)),
			)
		})
		r.GET("/download", func(c internal.Context) error {
			return c.Blob(http.StatusOK, "text/html; charset=utf-8", "firma.html", []byte("<table></table>"))
		})
	})

	t.Run("regular request keeps status", func(t *testing.T) {
		t.Parallel()
		w := do(app, http.MethodGet, "/page", nil, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "<html>full</html>", w.Body.String())
		assert.Empty(t, w.Header().Get(htmx.HeaderHXTrigger))
	})

	t.Run("htmx request gets 200 with headers", func(t *testing.T) {
		t.Parallel()
		w := do(app, http.MethodGet, "/page", nil, http.Header{"Hx-Request": {"true"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `<div>partial</div><p hx-swap-oob="true">oob</p>`, w.Body.String())
		assert.Equal(t, "signature-copied", w.Header().Get(htmx.HeaderHXTrigger))
	})

	t.Run("download", func(t *testing.T) {
		t.Parallel()
		w := do(app, http.MethodGet, "/download", nil, nil)
		assert.Equal(t, `attachment; filename=firma.html`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "<table></table>", w.Body.String())
	})
}

// --- Session ---

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "__firma" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestContext_Session(t *testing.T) {
	t.Parallel()

	store := session.NewMemory()
	t.Cleanup(func() { _ = store.Close() })

	app := newApp(t, store, func(r internal.Router) {
		r.POST("/name", func(c internal.Context) error {
			sess, err := c.Session()
			if err != nil {
				return err
			}
			d, err := sess.Draft.SetField(signature.FieldFullName, c.Query("v"))
			if err != nil {
				return err
			}
			sess.SetDraft(d)
			return c.NoContent(http.StatusNoContent)
		})
		r.GET("/name", func(c internal.Context) error {
			sess, err := c.Session()
			if err != nil {
				return err
			}
			return c.String(http.StatusOK, sess.Draft.FullName)
		})
		r.POST("/silent", func(c internal.Context) error {
			sess, err := c.Session()
			if err != nil {
				return err
			}
			d, _ := sess.Draft.SetField(signature.FieldFullName, "Sin Respuesta")
			sess.SetDraft(d)
			return nil
		})
		r.POST("/reset", func(c internal.Context) error {
			if err := c.DestroySession(); err != nil {
				return err
			}
			return c.NoContent(http.StatusNoContent)
		})
	})

	w := do(app, http.MethodPost, "/name?v=Ana+P%C3%A9rez", nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	sc := sessionCookie(t, w)
	assert.True(t, sc.HttpOnly)
	assert.Equal(t, 1, store.Len())

	w = do(app, http.MethodGet, "/name", []*http.Cookie{sc}, nil)
	assert.Equal(t, "Ana Pérez", w.Body.String())
	assert.Empty(t, w.Result().Cookies(), "known session must not be reissued")

	t.Run("saved without a response body", func(t *testing.T) {
		do(app, http.MethodPost, "/silent", []*http.Cookie{sc}, nil)
		w := do(app, http.MethodGet, "/name", []*http.Cookie{sc}, nil)
		assert.Equal(t, "Sin Respuesta", w.Body.String())
	})

	t.Run("forged cookie starts over", func(t *testing.T) {
		forged := &http.Cookie{Name: "__firma", Value: strings.Replace(sc.Value, ".", "x.", 1)}
		w := do(app, http.MethodGet, "/name", []*http.Cookie{forged}, nil)
		assert.Empty(t, w.Body.String())
		assert.NotEqual(t, sc.Value, sessionCookie(t, w).Value)
	})

	t.Run("destroy", func(t *testing.T) {
		before := store.Len()
		w := do(app, http.MethodPost, "/reset", []*http.Cookie{sc}, nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, -1, sessionCookie(t, w).MaxAge)
		assert.Equal(t, before-1, store.Len())
	})
}

// corruptStore fails reads of the first session it created as undecodable
// once broken is set.
type corruptStore struct {
	*session.Memory
	first  string
	broken bool
}

func (s *corruptStore) Create(ctx context.Context, sess *session.Session) error {
	if s.first == "" {
		s.first = sess.Token
	}
	return s.Memory.Create(ctx, sess)
}

func (s *corruptStore) Get(ctx context.Context, token string) (*session.Session, error) {
	if s.broken && token == s.first {
		return nil, fmt.Errorf("%w: unexpected end of JSON input", session.ErrCorrupt)
	}
	return s.Memory.Get(ctx, token)
}

func TestContext_CorruptSessionStartsOver(t *testing.T) {
	t.Parallel()

	store := &corruptStore{Memory: session.NewMemory()}
	t.Cleanup(func() { _ = store.Close() })

	app := newApp(t, store, func(r internal.Router) {
		r.GET("/name", func(c internal.Context) error {
			sess, err := c.Session()
			if err != nil {
				return err
			}
			return c.String(http.StatusOK, sess.Draft.FullName)
		})
	})

	w := do(app, http.MethodGet, "/name", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sc := sessionCookie(t, w)

	require.NotEmpty(t, store.first)
	store.broken = true

	w = do(app, http.MethodGet, "/name", []*http.Cookie{sc}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, sc.Value, sessionCookie(t, w).Value)
	assert.Equal(t, 2, store.Len())
}

func TestContext_SessionNotConfigured(t *testing.T) {
	t.Parallel()

	app := newApp(t, nil, func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			_, err := c.Session()
			return err
		})
	}, internal.WithErrorHandler(func(c internal.Context, err error) error {
		if errors.Is(err, internal.ErrSessionNotConfigured) {
			return c.String(http.StatusServiceUnavailable, "no sessions")
		}
		return err
	}))

	w := do(app, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// --- Extractor ---

func TestExtractor(t *testing.T) {
	t.Parallel()

	ext := internal.NewExtractor(
		internal.FromQuery("lang"),
		internal.FromCookie("lang"),
		internal.FromHeader("X-Lang"),
	)
	app := newApp(t, nil, func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			v, ok := ext.Extract(c)
			if !ok {
				v = "none"
			}
			return c.String(http.StatusOK, v)
		})
	})

	tests := []struct {
		name    string
		target  string
		cookies []*http.Cookie
		header  http.Header
		want    string
	}{
		{name: "query wins", target: "/?lang=en", cookies: []*http.Cookie{{Name: "lang", Value: "es"}}, want: "en"},
		{name: "cookie", target: "/", cookies: []*http.Cookie{{Name: "lang", Value: "es"}}, want: "es"},
		{name: "header", target: "/", header: http.Header{"X-Lang": {"en"}}, want: "en"},
		{name: "blank query skipped", target: "/?lang=+", cookies: []*http.Cookie{{Name: "lang", Value: "es"}}, want: "es"},
		{name: "nothing", target: "/", want: "none"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := do(app, http.MethodGet, tt.target, tt.cookies, tt.header)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestExtractor_Accepting(t *testing.T) {
	t.Parallel()

	ext := internal.NewExtractor(
		internal.FromQuery("lang"),
		internal.FromCookie("lang"),
	).Accepting(func(v string) (string, bool) {
		v = strings.ToLower(v)
		return v, v == "es" || v == "en"
	})
	app := newApp(t, nil, func(r internal.Router) {
		r.GET("/", func(c internal.Context) error {
			v, ok := ext.Extract(c)
			if !ok {
				v = "none"
			}
			return c.String(http.StatusOK, v)
		})
	})

	lang := []*http.Cookie{{Name: "lang", Value: "en"}}
	assert.Equal(t, "en", do(app, http.MethodGet, "/?lang=fr", lang, nil).Body.String())
	assert.Equal(t, "es", do(app, http.MethodGet, "/?lang=ES", lang, nil).Body.String())
	assert.Equal(t, "none", do(app, http.MethodGet, "/?lang=fr", nil, nil).Body.String())
}

// --- Errors ---

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	base := internal.ErrUnprocessable("invalid", internal.WithErrorCode("notice.invalid"))
	wrapped := errors.Join(errors.New("context"), base)

	got := internal.AsHTTPError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, http.StatusUnprocessableEntity, got.StatusCode())
	assert.Equal(t, "notice.invalid", got.ErrorCode)
	assert.Nil(t, internal.AsHTTPError(errors.New("plain")))
}
