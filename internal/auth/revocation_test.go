package auth

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRevocationList_RevokeAndExpire(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	list := NewRedisRevocationList(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	ctx := context.Background()
	token := "access-token-1"

	require.NoError(t, list.Revoke(ctx, token, 2*time.Second))
	ok, err := list.IsRevoked(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, m.Exists(token))
	require.True(t, m.Exists(revocationKey(token)))

	ok, err = list.IsRevoked(ctx, "other")
	require.NoError(t, err)
	require.False(t, ok)

	m.FastForward(3 * time.Second)
	ok, err = list.IsRevoked(ctx, token)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRevocationList_NoClientNoop(t *testing.T) {
	list := NewRedisRevocationList(nil)
	require.False(t, list.Enabled())
	ctx := context.Background()
	require.NoError(t, list.Revoke(ctx, "t", time.Second))
	ok, err := list.IsRevoked(ctx, "t")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRevocationList_RedisDown(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	list := NewRedisRevocationList(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	m.Close()

	_, err = list.IsRevoked(context.Background(), "t")
	require.Error(t, err)
}
