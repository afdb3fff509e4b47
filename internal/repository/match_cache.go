package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"swap-service/internal/models"

	"github.com/redis/go-redis/v9"
)

// MatchCache keeps ranked match lists in Redis so repeated discovery
// requests don't rescore the whole user set. Entries expire on their own
// and are dropped eagerly when a user's skills change.
type MatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMatchCache(client *redis.Client, ttl time.Duration) *MatchCache {
	return &MatchCache{
		client: client,
		ttl:    ttl,
	}
}

func matchKey(userID string) string {
	return "matches:" + userID
}

func (c *MatchCache) Get(ctx context.Context, userID string) ([]models.MatchView, error) {
	data, err := c.client.Get(ctx, matchKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read match cache: %w", err)
	}

	var matches []models.MatchView
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode cached matches: %w", err)
	}
	return matches, nil
}

func (c *MatchCache) Set(ctx context.Context, userID string, matches []models.MatchView) error {
	data, err := json.Marshal(matches)
	if err != nil {
		return fmt.Errorf("failed to encode matches: %w", err)
	}

	if err := c.client.Set(ctx, matchKey(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write match cache: %w", err)
	}
	return nil
}

func (c *MatchCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, matchKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate match cache: %w", err)
	}
	return nil
}
