package dispatcher

import (
	"context"

	"github.com/techvibe/backoffice/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo pairs a handler with the name it is logged under
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}
