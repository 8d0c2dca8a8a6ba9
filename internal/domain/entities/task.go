package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TaskKind identifies a deferred task's replay behavior
type TaskKind string

const (
	// TaskKindHospitalSync refreshes the hospital fallback entry from upstream
	TaskKindHospitalSync TaskKind = "hospital-data-sync"

	// TaskKindEmergencySync replays a queued emergency dispatch
	TaskKindEmergencySync TaskKind = "emergency-sync"
)

// DeferredTask is a mutation captured while offline, held until a sync
// trigger fires. Payloads are opaque to the worker.
type DeferredTask struct {
	ID   string   `json:"id"`
	Kind TaskKind `json:"kind"`

	Payload json.RawMessage `json:"payload,omitempty"`

	// IdempotencyKey is generated once at enqueue time and sent with every
	// replay attempt, so at-least-once delivery cannot double-dispatch an
	// emergency on the server side.
	IdempotencyKey string `json:"idempotency_key"`

	CreatedAt time.Time `json:"created_at"`
}

// NewDeferredTask creates a deferred task with a fresh ID and idempotency key
func NewDeferredTask(kind TaskKind, payload json.RawMessage) *DeferredTask {
	return &DeferredTask{
		ID:             uuid.New().String(),
		Kind:           kind,
		Payload:        payload,
		IdempotencyKey: uuid.New().String(),
		CreatedAt:      time.Now().UTC(),
	}
}

// ValidSyncTag reports whether tag names a recognized task kind
func ValidSyncTag(tag string) bool {
	return tag == string(TaskKindHospitalSync) || tag == string(TaskKindEmergencySync)
}
