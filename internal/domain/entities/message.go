package entities

import (
	"encoding/json"

	"github.com/google/uuid"
)

// MessageType discriminates messages on the page/worker channel
type MessageType string

const (
	// MessageCacheTiles asks the worker to proactively fetch and store tiles
	MessageCacheTiles MessageType = "CACHE_TILES"

	// MessageCacheHospitalData seeds the hospital fallback entry directly
	MessageCacheHospitalData MessageType = "CACHE_HOSPITAL_DATA"

	// MessageTilesCached is broadcast to pages when a tile batch completes
	MessageTilesCached MessageType = "TILES_CACHED"

	// MessageSyncTrigger wakes a deferred sync replay for a tag
	MessageSyncTrigger MessageType = "SYNC_TRIGGER"

	// MessagePush carries an inbound push payload
	MessagePush MessageType = "PUSH"

	// MessageNotificationShow broadcasts a notification for pages to render
	MessageNotificationShow MessageType = "NOTIFICATION_SHOW"

	// MessageNotificationClick carries a user's notification interaction
	MessageNotificationClick MessageType = "NOTIFICATION_CLICK"

	// MessageOpenWindow asks controlled pages to open or focus a route
	MessageOpenWindow MessageType = "OPEN_WINDOW"
)

// WorkerMessage is the typed envelope exchanged between pages and the worker
type WorkerMessage struct {
	ID   string      `json:"id"`
	Type MessageType `json:"type"`

	// Tiles carries tile URLs for CACHE_TILES
	Tiles []string `json:"tiles,omitempty"`

	// Data carries the opaque payload for CACHE_HOSPITAL_DATA, PUSH bodies,
	// and NOTIFICATION_SHOW content
	Data json.RawMessage `json:"data,omitempty"`

	// Tag names the sync registration for SYNC_TRIGGER
	Tag string `json:"tag,omitempty"`

	// Count reports completed work for TILES_CACHED
	Count int `json:"count,omitempty"`

	// Action identifies the chosen notification action for NOTIFICATION_CLICK
	Action string `json:"action,omitempty"`

	// URL is the route to open for OPEN_WINDOW
	URL string `json:"url,omitempty"`
}

// NewWorkerMessage creates a message envelope with a fresh ID
func NewWorkerMessage(t MessageType) *WorkerMessage {
	return &WorkerMessage{
		ID:   uuid.New().String(),
		Type: t,
	}
}
