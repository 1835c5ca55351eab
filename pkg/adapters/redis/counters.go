package redis

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// Counters implements ports.CounterStore using Redis INCRBY, which is
// atomic across concurrent callers and replicas.
type Counters struct {
	client *backend.Client
	prefix string
}

// NewCounters creates a counter store on an existing client.
func NewCounters(client *backend.Client, prefix string) *Counters {
	if prefix == "" {
		prefix = "switchboard:counter:"
	}
	return &Counters{client: client, prefix: prefix}
}

// Incr adds amount to the named counter and returns the new value.
func (c *Counters) Incr(ctx context.Context, key string, amount int64) (int64, error) {
	v, err := c.client.IncrBy(ctx, c.prefix+key, amount).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %q: %w", key, err)
	}
	return v, nil
}
