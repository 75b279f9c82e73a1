package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Waypost/waypost/internal/domain"
)

func TestGlobalSwitchEngageAndGet(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisGlobalSwitchStore(client)

	err := store.Engage(context.Background(), &domain.GlobalSwitchState{
		Reason:    domain.KillAccountBlocked,
		Detail:    "account disabled by provider",
		EngagedBy: "health-sync",
	}, time.Hour)
	require.NoError(t, err)

	state, err := store.Get(context.Background())
	require.NoError(t, err)

	assert.True(t, state.Engaged)
	assert.Equal(t, domain.KillAccountBlocked, state.Reason)
	assert.Equal(t, "account disabled by provider", state.Detail)
	assert.False(t, state.EngagedAt.IsZero())
}

func TestGlobalSwitchDisengagedByDefault(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisGlobalSwitchStore(client)

	state, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Engaged)
}

func TestGlobalSwitchClear(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisGlobalSwitchStore(client)

	require.NoError(t, store.Engage(context.Background(), &domain.GlobalSwitchState{
		Reason: domain.KillAdminTriggered,
	}, time.Hour))
	require.NoError(t, store.Clear(context.Background()))

	state, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Engaged)
}

func TestGlobalSwitchExpiresOnItsOwn(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisGlobalSwitchStore(client)

	require.NoError(t, store.Engage(context.Background(), &domain.GlobalSwitchState{
		Reason: domain.KillEnforcementDetected,
	}, time.Minute))

	mr.FastForward(2 * time.Minute)

	state, err := store.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, state.Engaged)
}

func TestGlobalSwitchFailsClosedWhenStoreDown(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisGlobalSwitchStore(client)
	mr.Close()

	state, err := store.Get(context.Background())
	assert.Error(t, err)
	assert.True(t, state.Engaged)
}

func TestGlobalSwitchFailsClosedOnCorruptState(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisGlobalSwitchStore(client)

	require.NoError(t, mr.Set("killswitch:global", "not-json"))

	state, err := store.Get(context.Background())
	assert.Error(t, err)
	assert.True(t, state.Engaged)
}
