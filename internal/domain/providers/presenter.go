package providers

import (
	"context"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
)

// NotificationPresenter renders notifications to the user. No acknowledgment
// flows back to the push origin.
type NotificationPresenter interface {
	Show(ctx context.Context, n *entities.Notification) error
}

// WindowOpener opens or focuses an application window at a route, used when
// the user activates a notification.
type WindowOpener interface {
	OpenWindow(ctx context.Context, url string) error
}
