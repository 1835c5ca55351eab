package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/ports"
)

// lockTTL bounds how long a replica may hold the distributed lock. A USSD
// turn is a handful of HTTP calls; anything longer is a stuck replica.
const lockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to one identity's conversation. It uses
// reference counting to garbage collect unused locks.
type Manager struct {
	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker ports.DistributedLocker // Optional distributed locker
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for deferred errors.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new identity serializer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
func (m *Manager) acquire(identity string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[identity]
	if !exists {
		entry = &lockEntry{}
		m.locks[identity] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[identity]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, identity)
	}
}

// WithLock executes fn while holding the identity's lock.
func (m *Manager) WithLock(ctx context.Context, identity string, fn func(context.Context) error) error {
	entry := m.acquire(identity)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(identity)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, identity, lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"identity", identity,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
