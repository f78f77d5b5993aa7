package queue

import "context"

// EventPublisher publishes a serializable event record to a broker topic.
// The boolean result reports per-send outcome: a failed send is logged by the
// implementation and must never escalate past the action that triggered it.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) bool
}
