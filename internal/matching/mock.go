package matching

import (
	"context"
	"sync"

	"github.com/yourhelpa/helpa/pkg/profile"
)

// MockProvider is a mock implementation of Provider for testing
type MockProvider struct {
	FindFunc func(ctx context.Context, criteria Criteria) ([]profile.Candidate, error)

	// Track calls for testing
	FindCalls []Criteria

	mu sync.Mutex
}

var _ Provider = (*MockProvider)(nil)

func NewMockProvider() *MockProvider {
	return &MockProvider{
		FindCalls: make([]Criteria, 0),
	}
}

func (m *MockProvider) Find(ctx context.Context, criteria Criteria) ([]profile.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FindCalls = append(m.FindCalls, criteria)

	if m.FindFunc != nil {
		return m.FindFunc(ctx, criteria)
	}
	return []profile.Candidate{}, nil
}

// SetCandidates sets up the mock to return a fixed candidate list.
func (m *MockProvider) SetCandidates(candidates []profile.Candidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindFunc = func(ctx context.Context, criteria Criteria) ([]profile.Candidate, error) {
		return candidates, nil
	}
}

// SetError sets up the mock to return an error on Find.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindFunc = func(ctx context.Context, criteria Criteria) ([]profile.Candidate, error) {
		return nil, err
	}
}

// CallCount returns the number of Find calls in a thread-safe way.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.FindCalls)
}
