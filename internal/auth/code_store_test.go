package auth

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestCodeStore(t *testing.T, ttl time.Duration) (CodeStore, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisCodeStore(client, ttl, zerolog.Nop()), server
}

func TestCodeStoreIssueAndVerify(t *testing.T) {
	store, _ := newTestCodeStore(t, time.Minute)

	code, err := store.Issue(context.Background(), "alice@qq.com")
	require.NoError(t, err)
	require.Len(t, code, 6)

	require.NoError(t, store.Verify(context.Background(), "alice@qq.com", code))

	// A verified code is one-shot.
	err = store.Verify(context.Background(), "alice@qq.com", code)
	require.ErrorIs(t, err, ErrCodeMismatch)
}

func TestCodeStoreRejectsWrongCode(t *testing.T) {
	store, _ := newTestCodeStore(t, time.Minute)

	_, err := store.Issue(context.Background(), "alice@qq.com")
	require.NoError(t, err)

	err = store.Verify(context.Background(), "alice@qq.com", "000000")
	require.ErrorIs(t, err, ErrCodeMismatch)
}

func TestCodeStoreExpiry(t *testing.T) {
	store, server := newTestCodeStore(t, time.Minute)

	code, err := store.Issue(context.Background(), "alice@qq.com")
	require.NoError(t, err)

	server.FastForward(2 * time.Minute)

	err = store.Verify(context.Background(), "alice@qq.com", code)
	require.ErrorIs(t, err, ErrCodeMismatch)
}

func TestCodeStoreIsPerEmail(t *testing.T) {
	store, _ := newTestCodeStore(t, time.Minute)

	aliceCode, err := store.Issue(context.Background(), "alice@qq.com")
	require.NoError(t, err)
	_, err = store.Issue(context.Background(), "bob@gmail.com")
	require.NoError(t, err)

	err = store.Verify(context.Background(), "bob@gmail.com", aliceCode)
	require.ErrorIs(t, err, ErrCodeMismatch)
}
