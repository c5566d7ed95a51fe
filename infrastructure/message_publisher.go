package infrastructure

import (
	"context"
)

// MessagePublisher publishes raw messages to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}
