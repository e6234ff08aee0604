// Package matching produces ranked provider candidates for a confirmed
// request. The engine only consumes the ranked list; implementations may
// be backed by the listing directory or mocked in tests.
package matching

import (
	"context"

	"github.com/yourhelpa/helpa/pkg/profile"
)

// MaxCandidates bounds every result set so the selectable list stays
// within the channel's row limits.
const MaxCandidates = 5

// Criteria describes what the visitor is looking for.
type Criteria struct {
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	Summary     string `json:"summary,omitempty"`
	City        string `json:"city"`
	RegionState string `json:"region_state"`
	Budget      string `json:"budget,omitempty"`
}

// Provider finds candidates for the given criteria. No matches is an
// empty slice, never an error.
type Provider interface {
	Find(ctx context.Context, criteria Criteria) ([]profile.Candidate, error)
}
