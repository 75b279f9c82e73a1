package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Waypost/waypost/internal/domain"
)

const globalSwitchKey = "killswitch:global"

type redisGlobalSwitchStore struct {
	client redis.UniversalClient
}

// NewRedisGlobalSwitchStore creates the shared global kill-switch store. The
// switch lives under a single Redis key with a TTL so a forgotten trip decays
// on its own.
func NewRedisGlobalSwitchStore(client redis.UniversalClient) domain.GlobalSwitchStore {
	return &redisGlobalSwitchStore{client: client}
}

func (s *redisGlobalSwitchStore) Engage(ctx context.Context, state *domain.GlobalSwitchState, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = domain.GlobalKillSwitchTTL
	}
	state.Engaged = true
	if state.EngagedAt.IsZero() {
		state.EngagedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal global switch state: %w", err)
	}
	if err := s.client.Set(ctx, globalSwitchKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to engage global switch: %w", err)
	}
	return nil
}

func (s *redisGlobalSwitchStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, globalSwitchKey).Err(); err != nil {
		return fmt.Errorf("failed to clear global switch: %w", err)
	}
	return nil
}

// Get fails closed: if Redis is unreachable the switch reports engaged so
// campaign sends stay blocked until the store recovers.
func (s *redisGlobalSwitchStore) Get(ctx context.Context) (*domain.GlobalSwitchState, error) {
	payload, err := s.client.Get(ctx, globalSwitchKey).Bytes()
	if err == redis.Nil {
		return &domain.GlobalSwitchState{Engaged: false}, nil
	}
	if err != nil {
		return &domain.GlobalSwitchState{
			Engaged: true,
			Reason:  domain.KillAdminTriggered,
			Detail:  "kill-switch store unreachable",
		}, fmt.Errorf("failed to read global switch: %w", err)
	}

	var state domain.GlobalSwitchState
	if err := json.Unmarshal(payload, &state); err != nil {
		return &domain.GlobalSwitchState{
			Engaged: true,
			Reason:  domain.KillAdminTriggered,
			Detail:  "kill-switch state unreadable",
		}, fmt.Errorf("failed to decode global switch state: %w", err)
	}
	return &state, nil
}
