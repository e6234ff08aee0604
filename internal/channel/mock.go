package channel

import (
	"context"
	"sync"

	"github.com/yourhelpa/helpa/pkg/message"
)

// MockSender records outbound sends for testing
type MockSender struct {
	SendFunc func(ctx context.Context, visitorID string, r message.Renderable) error

	// Track calls for testing
	Sent []SentMessage

	mu sync.Mutex
}

type SentMessage struct {
	VisitorID  string
	Renderable message.Renderable
}

var _ Sender = (*MockSender)(nil)

func NewMockSender() *MockSender {
	return &MockSender{
		Sent: make([]SentMessage, 0),
	}
}

func (m *MockSender) Send(ctx context.Context, visitorID string, r message.Renderable) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Sent = append(m.Sent, SentMessage{VisitorID: visitorID, Renderable: r})

	if m.SendFunc != nil {
		return m.SendFunc(ctx, visitorID, r)
	}
	return nil
}

// SentCount returns the number of sends in a thread-safe way.
func (m *MockSender) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
