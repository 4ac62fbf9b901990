package cache

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
)

// Redis shares submission answers between service instances.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis constructs a Redis-backed cache. The client lifecycle is managed
// by the caller.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) IsSubmitted(ctx context.Context, hash [32]byte, submitter common.Address) (bool, error) {
	err := c.client.Get(ctx, key(hash, submitter)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkSubmitted stores a marker; key existence is what matters.
func (c *Redis) MarkSubmitted(ctx context.Context, hash [32]byte, submitter common.Address) error {
	return c.client.Set(ctx, key(hash, submitter), "1", c.ttl).Err()
}
