package ports

import (
	"context"

	"github.com/aretw0/switchboard/pkg/domain"
)

// ProfileStore defines the interface for persisting per-identity profiles.
// The engine loads a profile at the start of a turn and saves it back once
// the turn settles.
type ProfileStore interface {
	// Load retrieves the profile for an identity.
	// Returns domain.ErrProfileNotFound if the identity has never been seen.
	Load(ctx context.Context, identity string) (*domain.Profile, error)

	// Save persists the profile for an identity.
	Save(ctx context.Context, identity string, profile *domain.Profile) error

	// Delete removes the profile for an identity.
	Delete(ctx context.Context, identity string) error
}
