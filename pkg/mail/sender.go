package mail

import "context"

// Message is one outbound email.
type Message struct {
	ToEmail  string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// Sender dispatches email. Workflow callers treat dispatch as fire-and-forget:
// records persisted before the send count as issued even if transport fails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
