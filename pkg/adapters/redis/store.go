package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Store implements ports.ProfileStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for profiles. Zero keeps them forever, which
// is the default: profiles must survive between sessions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for profiles.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "switchboard:profile:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(identity string) string {
	return s.prefix + identity
}

// Save persists the profile to Redis.
func (s *Store) Save(ctx context.Context, identity string, profile *domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := s.client.Set(ctx, s.key(identity), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the profile from Redis.
func (s *Store) Load(ctx context.Context, identity string) (*domain.Profile, error) {
	val, err := s.client.Get(ctx, s.key(identity)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal([]byte(val), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// Delete removes the profile.
func (s *Store) Delete(ctx context.Context, identity string) error {
	return s.client.Del(ctx, s.key(identity)).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
