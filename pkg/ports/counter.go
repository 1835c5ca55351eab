package ports

import "context"

// CounterStore provides atomic increment of a named counter. Implementations
// MUST guarantee atomicity across concurrent callers; the engine depends on,
// but does not implement, that guarantee.
type CounterStore interface {
	// Incr adds amount to the counter stored under key and returns the new
	// value.
	Incr(ctx context.Context, key string, amount int64) (int64, error)
}
