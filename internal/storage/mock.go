package storage

import (
	"context"
	"sync"
	"time"

	"github.com/yourhelpa/helpa/pkg/profile"
)

// MockStorage is an in-memory implementation of Storage for testing
type MockStorage struct {
	mu       sync.RWMutex
	profiles map[string]*profile.Profile

	// Error injection
	LoadErr   error
	SaveErr   error
	DeleteErr error
	PingErr   error

	// Call tracking
	SaveCalls []string
	LoadCalls []string
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

func NewMockStorage() *MockStorage {
	return &MockStorage{
		profiles: make(map[string]*profile.Profile),
	}
}

func (m *MockStorage) Ping(ctx context.Context) error {
	return m.PingErr
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) LoadProfile(ctx context.Context, visitorID string) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LoadCalls = append(m.LoadCalls, visitorID)

	if m.LoadErr != nil {
		return nil, m.LoadErr
	}

	p, ok := m.profiles[visitorID]
	if !ok {
		return profile.NewProfile(visitorID, ""), nil
	}

	cp := p.Clone()
	cp.Normalize()
	return cp, nil
}

func (m *MockStorage) SaveProfile(ctx context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveCalls = append(m.SaveCalls, p.VisitorID)

	if m.SaveErr != nil {
		return m.SaveErr
	}

	p.UpdatedAt = time.Now()
	m.profiles[p.VisitorID] = p.Clone()
	return nil
}

func (m *MockStorage) DeleteProfile(ctx context.Context, visitorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	delete(m.profiles, visitorID)
	return nil
}

// Seed stores a profile directly, bypassing error injection.
func (m *MockStorage) Seed(p *profile.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.VisitorID] = p.Clone()
}
