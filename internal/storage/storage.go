package storage

import (
	"context"

	"github.com/yourhelpa/helpa/pkg/profile"
)

// Storage defines the interface for Profile persistence.
type Storage interface {
	// Ping tests the store connection
	Ping(ctx context.Context) error

	// Close closes the store connection
	Close() error

	// LoadProfile retrieves the Profile for a visitor. A visitor with no
	// stored record gets a fresh default Profile, not an error; errors are
	// reserved for transport and parse failures.
	LoadProfile(ctx context.Context, visitorID string) (*profile.Profile, error)

	// SaveProfile persists the Profile, stamping UpdatedAt.
	SaveProfile(ctx context.Context, p *profile.Profile) error

	// DeleteProfile removes a visitor's Profile.
	DeleteProfile(ctx context.Context, visitorID string) error
}
