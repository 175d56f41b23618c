package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sumersovitkargit/content-safety-gateway/internal/models"
)

// ReviewCache stores completed reviews in Redis keyed by content hash, so a
// re-uploaded file skips the provider call entirely.
type ReviewCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewReviewCache(client *redis.Client, prefix string, ttl time.Duration) *ReviewCache {
	if prefix == "" {
		prefix = "review:"
	}
	return &ReviewCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get returns the cached review for a content hash, or nil on a miss.
func (c *ReviewCache) Get(ctx context.Context, contentHash string) (*models.Review, error) {
	data, err := c.client.Get(ctx, c.prefix+contentHash).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache lookup failed: %w", err)
	}

	var review models.Review
	if err := json.Unmarshal(data, &review); err != nil {
		return nil, fmt.Errorf("failed to decode cached review: %w", err)
	}

	return &review, nil
}

func (c *ReviewCache) Set(ctx context.Context, contentHash string, review *models.Review) error {
	data, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("failed to encode review: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+contentHash, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache store failed: %w", err)
	}

	return nil
}
