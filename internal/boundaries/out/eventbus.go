package out

import (
	"context"

	"github.com/bnema/dockhand/internal/domain"
)

// EventHandler receives console events it has declared interest in.
// Handle runs on the bus delivery goroutine and should return quickly.
type EventHandler interface {
	CanHandle(eventType domain.EventType) bool
	Handle(ctx context.Context, event domain.Event) error
}

// EventBus carries console events from the service to live views.
type EventBus interface {
	Publish(eventType domain.EventType, payload any) error
	Subscribe(handler EventHandler) error
	Unsubscribe(handler EventHandler) error
	Start() error
	Stop() error
}
