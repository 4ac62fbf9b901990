package cache

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	gocache "github.com/patrickmn/go-cache"
)

// InMemory is the per-process fallback used when Redis is not configured.
type InMemory struct {
	cache *gocache.Cache
}

// NewInMemory creates a cache whose entries live for ttl.
func NewInMemory(ttl time.Duration) *InMemory {
	return &InMemory{cache: gocache.New(ttl, ttl/2)}
}

func (c *InMemory) IsSubmitted(_ context.Context, hash [32]byte, submitter common.Address) (bool, error) {
	_, found := c.cache.Get(key(hash, submitter))
	return found, nil
}

func (c *InMemory) MarkSubmitted(_ context.Context, hash [32]byte, submitter common.Address) error {
	c.cache.SetDefault(key(hash, submitter), struct{}{})
	return nil
}
