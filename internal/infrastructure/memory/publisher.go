package memory

import (
	"context"
	"sync"

	"github.com/ticketline/auth-service/internal/application/auth"
)

// NoopPublisher is the dev fallback when RabbitMQ is unavailable. It records
// published events so tests can assert on them.
type NoopPublisher struct {
	mu     sync.Mutex
	Resets []auth.PasswordResetEvent
}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (p *NoopPublisher) PublishPasswordReset(ctx context.Context, evt auth.PasswordResetEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Resets = append(p.Resets, evt)
	return nil
}

func (p *NoopPublisher) ResetEvents() []auth.PasswordResetEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]auth.PasswordResetEvent, len(p.Resets))
	copy(out, p.Resets)
	return out
}
