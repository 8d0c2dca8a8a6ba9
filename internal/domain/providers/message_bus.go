package providers

import (
	"context"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
)

// MessageBus carries the typed message protocol between pages, the platform,
// and the worker. Delivery is fire-and-forget; slow subscribers drop.
type MessageBus interface {
	// Publish publishes a message to all subscribers of a channel
	Publish(ctx context.Context, channel string, msg *entities.WorkerMessage) error

	// Subscribe subscribes to messages on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.WorkerMessage, error)

	// Unsubscribe tears down a channel subscription
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the bus and all subscriptions
	Close() error
}

// Bus channel names
const (
	// ChannelWorkerMessages carries page→worker messages (CACHE_TILES,
	// CACHE_HOSPITAL_DATA)
	ChannelWorkerMessages = "worker:messages"

	// ChannelBroadcast carries worker→page broadcasts (TILES_CACHED,
	// OPEN_WINDOW)
	ChannelBroadcast = "worker:broadcast"

	// ChannelSyncPrefix prefixes background sync trigger channels, one per tag
	ChannelSyncPrefix = "sync:"

	// ChannelPushIncoming carries inbound push payloads
	ChannelPushIncoming = "push:incoming"

	// ChannelNotificationShow carries notifications for pages to render
	ChannelNotificationShow = "notifications:show"

	// ChannelNotificationClick carries notification interactions back in
	ChannelNotificationClick = "notifications:click"
)

// SyncChannel returns the trigger channel for a sync tag
func SyncChannel(tag string) string {
	return ChannelSyncPrefix + tag
}
