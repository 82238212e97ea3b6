//go:build integration

package session_test

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/disc-ucn/firma/pkg/redis"
	"github.com/disc-ucn/firma/pkg/session"
	"github.com/disc-ucn/firma/pkg/signature"
)

func newTestRedisClient(t *testing.T) goredis.UniversalClient {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	client, err := redis.Open(context.Background(), url)
	require.NoError(t, err, "failed to connect to Redis")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedis(t *testing.T) {
	ctx := context.Background()
	client := newTestRedisClient(t)
	prefix := "firma-test:" + t.Name() + ":"
	store := session.NewRedis(client, session.WithPrefix(prefix))

	now := time.Now()
	s := session.New("id", "tok", now, now.Add(time.Minute))
	d, err := s.Draft.SetField(signature.FieldLinkedIn, "https://www.linkedin.com/in/ana")
	require.NoError(t, err)
	s.SetDraft(d)
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, "tok")
	require.NoError(t, err)
	require.True(t, got.Draft.HasLinkedIn())
	require.False(t, got.Draft.HasScholar())

	require.NoError(t, store.Touch(ctx, "tok", now, now.Add(time.Hour)))
	require.NoError(t, store.Delete(ctx, "tok"))

	_, err = store.Get(ctx, "tok")
	require.ErrorIs(t, err, session.ErrNotFound)

	expired := session.New("id2", "tok2", now, now.Add(-time.Second))
	require.ErrorIs(t, store.Create(ctx, expired), session.ErrExpired)

	require.NoError(t, client.Set(ctx, prefix+"garbled", "{not json", time.Minute).Err())
	t.Cleanup(func() { client.Del(context.Background(), prefix+"garbled") })
	_, err = store.Get(ctx, "garbled")
	require.ErrorIs(t, err, session.ErrCorrupt)
}
