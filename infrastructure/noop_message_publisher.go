package infrastructure

import (
	"context"
)

// NoopMessagePublisher discards every message. It stands in for NATS when
// forwarding is disabled.
type NoopMessagePublisher struct{}

// NewNoopMessagePublisher creates a new no-op message publisher
func NewNoopMessagePublisher() *NoopMessagePublisher {
	return &NoopMessagePublisher{}
}

// Publish does nothing with the message
func (n *NoopMessagePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	return nil
}
