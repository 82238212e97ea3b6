package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := Open(ctx, "")
	require.ErrorIs(t, err, ErrEmptyConnectionURL)

	for _, url := range []string{"http://localhost:6379", "localhost:6379", "redis//x"} {
		_, err := Open(ctx, url)
		require.ErrorIs(t, err, ErrUnsupportedScheme, url)
		require.ErrorIs(t, err, ErrFailedToParseURL, url)
	}

	_, err = Open(ctx, "redis://localhost:notaport")
	require.ErrorIs(t, err, ErrFailedToParseURL)
}

func TestOpen_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, "redis://127.0.0.1:1/0",
		WithRetry(2, time.Millisecond),
		WithTimeouts(50*time.Millisecond, 50*time.Millisecond),
	)
	require.ErrorIs(t, err, ErrConnectionFailed)
}

func TestHealthcheck_NilClient(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Healthcheck(nil)(context.Background()), ErrHealthcheckFailed)
}

type closer struct {
	err    error
	called bool
}

func (c *closer) Close() error {
	c.called = true
	return c.err
}

func TestShutdown(t *testing.T) {
	t.Parallel()

	c := &closer{}
	require.NoError(t, Shutdown(c)(context.Background()))
	require.True(t, c.called)

	boom := errors.New("boom")
	require.ErrorIs(t, Shutdown(&closer{err: boom})(context.Background()), boom)
}

func TestWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, wait(ctx, time.Hour), context.Canceled)
	require.NoError(t, wait(context.Background(), time.Millisecond))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := defaultOptions()
	for _, opt := range []Option{
		WithPoolSize(20),
		WithRetry(5, time.Second),
		WithTimeouts(time.Second, 2*time.Second),
		WithLogger(nil),
	} {
		opt(o)
	}
	require.Equal(t, 20, o.poolSize)
	require.Equal(t, 5, o.retryAttempts)
	require.Equal(t, time.Second, o.retryInterval)
	require.Equal(t, time.Second, o.ioTimeout)
	require.Equal(t, 2*time.Second, o.dialTimeout)
	require.NotNil(t, o.logger)
}
