package memory

import (
	"context"
	"sync"
)

// Counters implements ports.CounterStore in memory. Increments are atomic
// across concurrent callers within the process.
type Counters struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewCounters creates an empty counter store.
func NewCounters() *Counters {
	return &Counters{values: make(map[string]int64)}
}

// Incr adds amount to the named counter and returns the new value.
func (c *Counters) Incr(ctx context.Context, key string, amount int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] += amount
	return c.values[key], nil
}

// Value returns the current value of a counter (test helper).
func (c *Counters) Value(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}
