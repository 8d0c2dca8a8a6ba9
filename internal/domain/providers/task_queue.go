package providers

import (
	"context"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
)

// TaskQueue is the durable store for deferred tasks. Tasks are appended and
// removed as whole units, never partially mutated; a task stays queued until
// a replay succeeds.
type TaskQueue interface {
	// Enqueue appends a task
	Enqueue(ctx context.Context, task *entities.DeferredTask) error

	// Pending lists queued tasks of a kind, oldest first
	Pending(ctx context.Context, kind entities.TaskKind) ([]*entities.DeferredTask, error)

	// Remove deletes a task after successful replay
	Remove(ctx context.Context, id string) error
}
