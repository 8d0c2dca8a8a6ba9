package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
)

// PushService renders inbound push messages as notifications and routes the
// user's interaction back into the application. Fire-and-forget: no
// acknowledgment ever flows back to the push origin.
type PushService struct {
	presenter providers.NotificationPresenter
	windows   providers.WindowOpener
}

// NewPushService creates a new push service
func NewPushService(presenter providers.NotificationPresenter, windows providers.WindowOpener) *PushService {
	return &PushService{
		presenter: presenter,
		windows:   windows,
	}
}

// HandlePush displays a notification for a push payload. A missing or blank
// body is not an error; the default body is substituted.
func (s *PushService) HandlePush(ctx context.Context, body string) error {
	n := entities.NewNotification(strings.TrimSpace(body))
	if err := s.presenter.Show(ctx, n); err != nil {
		return err
	}
	log.Debug().Str("body", n.Body).Msg("notification shown")
	return nil
}

// HandleNotificationClick routes a notification interaction. View-details and
// bare clicks open the application root; close dismisses with no action.
func (s *PushService) HandleNotificationClick(ctx context.Context, action string) error {
	switch action {
	case entities.ActionClose:
		return nil
	case entities.ActionViewDetails, "":
		return s.windows.OpenWindow(ctx, "/")
	default:
		log.Debug().Str("action", action).Msg("ignoring unknown notification action")
		return nil
	}
}
