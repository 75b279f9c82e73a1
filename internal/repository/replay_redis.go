package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Waypost/waypost/internal/domain"
)

const replayKeyPrefix = "replay:delivery:"

type redisReplayGuard struct {
	client redis.UniversalClient
}

// NewRedisReplayGuard creates a replay guard backed by Redis. Delivery ids
// are stored with SET NX so the first writer wins.
func NewRedisReplayGuard(client redis.UniversalClient) domain.ReplayGuard {
	return &redisReplayGuard{client: client}
}

// MarkDelivery fails open: an unreachable store reports the delivery as
// first-seen and returns the error so the caller can log the degraded check.
func (g *redisReplayGuard) MarkDelivery(ctx context.Context, deliveryID string, ttl time.Duration) (bool, error) {
	if deliveryID == "" {
		return true, nil
	}
	key := replayKeyPrefix + deliveryID
	set, err := g.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), ttl).Result()
	if err != nil {
		return true, fmt.Errorf("replay guard unavailable: %w", err)
	}
	return set, nil
}
