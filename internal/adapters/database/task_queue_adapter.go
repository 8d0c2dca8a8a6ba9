package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/clients/postgres"
	apperrors "github.com/Devyalamaddi/CareConnect/pkg/errors"
)

const tasksTable = "deferred_tasks"

// TaskQueueAdapter implements the durable deferred-task queue in Postgres.
type TaskQueueAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTaskQueueAdapter creates a new task queue adapter.
func NewTaskQueueAdapter(client *postgres.Client) providers.TaskQueue {
	return &TaskQueueAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Enqueue appends a task.
func (a *TaskQueueAdapter) Enqueue(ctx context.Context, task *entities.DeferredTask) error {
	if task == nil {
		return apperrors.NewInternalError("task is nil", fmt.Errorf("task is nil"))
	}

	record := goqu.Record{
		"id":              task.ID,
		"kind":            string(task.Kind),
		"payload":         sql.NullString{String: string(task.Payload), Valid: len(task.Payload) > 0},
		"idempotency_key": task.IdempotencyKey,
		"created_at":      task.CreatedAt,
	}

	query, args, err := a.db.Insert(tasksTable).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build task insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStorageUnavailableError("failed to enqueue deferred task", err)
	}

	return nil
}

// Pending lists queued tasks of a kind, oldest first.
func (a *TaskQueueAdapter) Pending(ctx context.Context, kind entities.TaskKind) ([]*entities.DeferredTask, error) {
	query, args, err := a.db.From(tasksTable).
		Select("id", "kind", "payload", "idempotency_key", "created_at").
		Where(goqu.C("kind").Eq(string(kind))).
		Order(goqu.C("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build pending tasks query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to list pending tasks", err)
	}
	defer rows.Close()

	var tasks []*entities.DeferredTask
	for rows.Next() {
		var task entities.DeferredTask
		var payload sql.NullString
		if err := rows.Scan(&task.ID, &task.Kind, &payload, &task.IdempotencyKey, &task.CreatedAt); err != nil {
			return nil, apperrors.NewInternalError("failed to scan deferred task", err)
		}
		if payload.Valid {
			task.Payload = json.RawMessage(payload.String)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageUnavailableError("failed to iterate pending tasks", err)
	}

	return tasks, nil
}

// Remove deletes a task after successful replay.
func (a *TaskQueueAdapter) Remove(ctx context.Context, id string) error {
	query, args, err := a.db.Delete(tasksTable).
		Where(goqu.C("id").Eq(id)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build task delete query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewStorageUnavailableError("failed to remove deferred task", err)
	}

	return nil
}
