package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Store implements ports.ProfileStore in memory. Intended for tests and
// single-process deployments.
type Store struct {
	mu       sync.RWMutex
	profiles map[string][]byte
}

// NewStore creates an empty in-memory profile store.
func NewStore() *Store {
	return &Store{profiles: make(map[string][]byte)}
}

// Save persists a deep copy of the profile (via JSON round-trip, matching
// what a real store would preserve).
func (s *Store) Save(ctx context.Context, identity string, profile *domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[identity] = data
	return nil
}

// Load retrieves the profile for an identity.
func (s *Store) Load(ctx context.Context, identity string) (*domain.Profile, error) {
	s.mu.RLock()
	data, ok := s.profiles[identity]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Delete removes the profile for an identity.
func (s *Store) Delete(ctx context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, identity)
	return nil
}
