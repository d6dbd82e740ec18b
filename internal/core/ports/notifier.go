package ports

import "context"

// ChangeNotifier broadcasts that the rules collection changed. The payload is
// a short event name ("created", "updated", "deactivated"); consumers refetch
// rather than patch, so the payload carries no rule data.
type ChangeNotifier interface {
	Publish(ctx context.Context, event string) error
}

// ChangeListener delivers change notifications to a handler. Listen blocks
// until ctx is cancelled.
type ChangeListener interface {
	Listen(ctx context.Context, handler func(event string)) error
}
