package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/ports"
)

func TestWithLock_SerializesSameIdentity(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithLock(ctx, "111", func(ctx context.Context) error {
				// Unsynchronized on purpose; the lock is the synchronization.
				v := counter
				time.Sleep(time.Millisecond)
				counter = v + 1
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, counter)
}

func TestWithLock_ReleasesEntryAtZeroRefs(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	require.NoError(t, m.WithLock(ctx, "111", func(ctx context.Context) error {
		return nil
	}))

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.locks, "lock entries are garbage collected at zero refs")
}

// fakeLocker records distributed lock usage.
type fakeLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked int
}

func (l *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = append(l.locked, key)
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocked++
		return nil
	}, nil
}

func TestWithLock_UsesDistributedLocker(t *testing.T) {
	locker := &fakeLocker{}
	m := NewManager(WithLocker(locker))

	require.NoError(t, m.WithLock(context.Background(), "111", func(ctx context.Context) error {
		return nil
	}))

	assert.Equal(t, []string{"111"}, locker.locked)
	assert.Equal(t, 1, locker.unlocked, "the distributed lock is released after fn")
}

func TestWithLock_PropagatesFnError(t *testing.T) {
	m := NewManager()

	err := m.WithLock(context.Background(), "111", func(ctx context.Context) error {
		return context.Canceled
	})
	assert.ErrorIs(t, err, context.Canceled)
}
