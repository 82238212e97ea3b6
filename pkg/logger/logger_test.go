package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/disc-ucn/firma/pkg/logger"
)

type ctxKey struct{}

func sessionExtractor(ctx context.Context) (slog.Attr, bool) {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return slog.String("session_id", v), true
	}
	return slog.Attr{}, false
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json with extractor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf}, sessionExtractor, nil)

		ctx := context.WithValue(context.Background(), ctxKey{}, "01JABC")
		log.InfoContext(ctx, "signature copied", slog.Int("bytes", 42))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "signature copied", entry["msg"])
		require.Equal(t, "01JABC", entry["session_id"])
		require.EqualValues(t, 42, entry["bytes"])
	})

	t.Run("level filter", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.Config{Output: &buf, Level: "warn", Format: "text"})
		log.Info("hidden")
		require.Zero(t, buf.Len())
		log.Warn("shown")
		require.Contains(t, buf.String(), "msg=shown")
	})
}

func TestNew_MasksPersonalData(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.Config{Output: &buf}).With(slog.String("phone", "+56 9 1234 5678"))
	log.Error("signature mail failed",
		slog.String("email", "mjperez@ucn.cl"),
		slog.Group("mail", slog.String("to", "ana@disc.ucn.cl"), slog.Int("attempt", 2)),
		slog.String("result", "failed"),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "m***@ucn.cl", entry["email"])
	require.Equal(t, "+***", entry["phone"])
	require.Equal(t, "failed", entry["result"])
	mail, ok := entry["mail"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "a***@disc.ucn.cl", mail["to"])
	require.EqualValues(t, 2, mail["attempt"])
	require.NotContains(t, buf.String(), "mjperez")
}

func TestMask(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", logger.Mask(""))
	require.Equal(t, "Á***", logger.Mask("Álvaro Soto"))
	require.Equal(t, "***@ucn.cl", logger.Mask("@ucn.cl"))
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := logger.NewNope()
	require.False(t, log.Enabled(context.Background(), slog.LevelError))
	log.Error("dropped")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel(""))
}
