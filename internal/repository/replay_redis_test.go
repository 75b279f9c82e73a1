package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, redis.UniversalClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestReplayGuardFirstDeliveryWins(t *testing.T) {
	_, client := newTestRedis(t)
	guard := NewRedisReplayGuard(client)

	first, err := guard.MarkDelivery(context.Background(), "dlv-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := guard.MarkDelivery(context.Background(), "dlv-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, second)
}

func TestReplayGuardDistinctDeliveries(t *testing.T) {
	_, client := newTestRedis(t)
	guard := NewRedisReplayGuard(client)

	first, err := guard.MarkDelivery(context.Background(), "dlv-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	other, err := guard.MarkDelivery(context.Background(), "dlv-2", time.Hour)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestReplayGuardEntryExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	guard := NewRedisReplayGuard(client)

	_, err := guard.MarkDelivery(context.Background(), "dlv-1", time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	again, err := guard.MarkDelivery(context.Background(), "dlv-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, again)
}

func TestReplayGuardEmptyIDPasses(t *testing.T) {
	_, client := newTestRedis(t)
	guard := NewRedisReplayGuard(client)

	ok, err := guard.MarkDelivery(context.Background(), "", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReplayGuardFailsOpenWhenStoreDown(t *testing.T) {
	mr, client := newTestRedis(t)
	guard := NewRedisReplayGuard(client)
	mr.Close()

	ok, err := guard.MarkDelivery(context.Background(), "dlv-1", time.Hour)
	assert.Error(t, err)
	assert.True(t, ok)
}
