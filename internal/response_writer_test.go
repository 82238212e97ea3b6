package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter_HTMXStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		code       int
		isHTMX     bool
		wantWire   int
		wantStatus int
	}{
		{"plain 422", http.StatusUnprocessableEntity, false, http.StatusUnprocessableEntity, http.StatusUnprocessableEntity},
		{"htmx 200", http.StatusOK, true, http.StatusOK, http.StatusOK},
		{"htmx 422 becomes 200", http.StatusUnprocessableEntity, true, http.StatusOK, http.StatusUnprocessableEntity},
		{"htmx 500 becomes 200", http.StatusInternalServerError, true, http.StatusOK, http.StatusInternalServerError},
		{"htmx 204 kept", http.StatusNoContent, true, http.StatusNoContent, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			rw := NewResponseWriter(w, tt.isHTMX)

			rw.WriteHeader(tt.code)
			rw.WriteHeader(http.StatusTeapot) // ignored

			assert.Equal(t, tt.wantWire, w.Code)
			assert.Equal(t, tt.wantStatus, rw.Status())
			assert.True(t, rw.Written())
		})
	}
}

func TestResponseWriter_Hooks(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	rw := NewResponseWriter(w, false)

	calls := 0
	rw.OnBeforeWrite(func() {
		calls++
		rw.Header().Set("X-Hook", "ran")
	})
	assert.False(t, rw.Written())

	n, err := rw.Write([]byte("hola"))
	require.NoError(t, err)
	_, _ = rw.Write([]byte("!"))

	assert.Equal(t, 4, n)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "ran", w.Header().Get("X-Hook"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), rw.Size())
	assert.Equal(t, "hola!", w.Body.String())
}

func TestSessionManager_Lock(t *testing.T) {
	t.Parallel()

	sm := NewSessionManager(nil, nil)

	release := sm.Lock("tok")
	acquired := make(chan struct{})
	done := make(chan struct{})
	go func() {
		r := sm.Lock("tok")
		close(acquired)
		r()
		close(done)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first is held")
	default:
	}

	release()
	<-acquired
	<-done

	sm.mu.Lock()
	defer sm.mu.Unlock()
	assert.Empty(t, sm.locks)
}
