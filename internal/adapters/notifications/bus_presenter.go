package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
)

// BusPresenter shows notifications by broadcasting them over the message bus
// for controlled pages to render. Fire-and-forget: no delivery acknowledgment.
type BusPresenter struct {
	bus providers.MessageBus
}

// NewBusPresenter creates a new bus-backed notification presenter
func NewBusPresenter(bus providers.MessageBus) *BusPresenter {
	return &BusPresenter{bus: bus}
}

// Show broadcasts a notification on the show channel
func (p *BusPresenter) Show(ctx context.Context, n *entities.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := entities.NewWorkerMessage(entities.MessageNotificationShow)
	msg.Data = data
	return p.bus.Publish(ctx, providers.ChannelNotificationShow, msg)
}

// OpenWindow asks controlled pages to open or focus a route
func (p *BusPresenter) OpenWindow(ctx context.Context, url string) error {
	msg := entities.NewWorkerMessage(entities.MessageOpenWindow)
	msg.URL = url
	return p.bus.Publish(ctx, providers.ChannelBroadcast, msg)
}
