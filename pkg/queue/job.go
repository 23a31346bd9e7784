package queue

import "context"

// Job handles one message type pulled from the queue.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	// Handle processes one payload. A returned error triggers a retry.
	Handle(ctx context.Context, payload interface{}) error
}
