package id_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/disc-ucn/firma/pkg/id"
)

func TestNewULID(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	a, b := id.NewULID(), id.NewULID()
	require.Len(t, a, 26)
	require.NotEqual(t, a, b)

	ts, err := id.Time(a)
	require.NoError(t, err)
	require.True(t, ts.After(before))

	_, err = id.Time("not-a-ulid")
	require.Error(t, err)
}

func TestNewToken(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 100 {
		tok := id.NewToken()
		require.Len(t, tok, 43)
		require.False(t, seen[tok])
		seen[tok] = true
	}
}
