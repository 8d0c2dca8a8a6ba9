package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/observability"
	"github.com/Devyalamaddi/CareConnect/pkg/config"
	apperrors "github.com/Devyalamaddi/CareConnect/pkg/errors"
)

// SyncService bridges "attempted while offline" to "completed once online".
// It wakes on background sync triggers, never polls. Replay failures are
// logged and the work item retained; the next trigger retries.
type SyncService struct {
	store   providers.PartitionStore
	queue   providers.TaskQueue
	fetcher providers.Fetcher
	cfg     *config.WorkerConfig
	metrics *observability.Metrics
}

// NewSyncService creates a new sync service
func NewSyncService(
	store providers.PartitionStore,
	queue providers.TaskQueue,
	fetcher providers.Fetcher,
	cfg *config.WorkerConfig,
	metrics *observability.Metrics,
) *SyncService {
	return &SyncService{
		store:   store,
		queue:   queue,
		fetcher: fetcher,
		cfg:     cfg,
		metrics: metrics,
	}
}

// Defer records a mutation that failed while offline for later replay
func (s *SyncService) Defer(ctx context.Context, kind entities.TaskKind, payload json.RawMessage) (*entities.DeferredTask, error) {
	task := entities.NewDeferredTask(kind, payload)
	if err := s.queue.Enqueue(ctx, task); err != nil {
		return nil, err
	}
	log.Info().Str("task_id", task.ID).Str("kind", string(kind)).Msg("deferred task queued")
	return task, nil
}

// HandleSync replays deferred work for a sync tag. The returned error is
// informational; callers log it and rely on the next trigger, they never
// escalate it.
func (s *SyncService) HandleSync(ctx context.Context, tag string) error {
	if !entities.ValidSyncTag(tag) {
		return apperrors.NewSyncReplayFailedError("unrecognized sync tag "+tag, nil)
	}

	switch entities.TaskKind(tag) {
	case entities.TaskKindHospitalSync:
		return s.syncHospitalData(ctx)
	case entities.TaskKindEmergencySync:
		return s.syncEmergencies(ctx)
	}
	return nil
}

// syncHospitalData refreshes the hospital fallback entry from upstream.
// Idempotent overwrite, safe to retry indefinitely.
func (s *SyncService) syncHospitalData(ctx context.Context) error {
	resp, err := s.fetcher.Fetch(ctx, &entities.FetchRequest{Method: "GET", URL: s.cfg.HospitalEndpoint})
	if err != nil {
		observability.RecordSyncReplay(ctx, s.metrics, string(entities.TaskKindHospitalSync), false)
		return apperrors.NewSyncReplayFailedError("hospital data refresh failed", err)
	}
	if !resp.OK() {
		observability.RecordSyncReplay(ctx, s.metrics, string(entities.TaskKindHospitalSync), false)
		return apperrors.NewSyncReplayFailedError(fmt.Sprintf("hospital data refresh returned status %d", resp.StatusCode), nil)
	}

	part, err := s.store.Open(ctx, s.cfg.HospitalPartition)
	if err != nil {
		return err
	}
	entry := &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": "application/json"},
		Body:       resp.Body,
	}
	if err := part.Put(ctx, s.cfg.HospitalFallbackKey, entry); err != nil {
		return err
	}

	observability.RecordSyncReplay(ctx, s.metrics, string(entities.TaskKindHospitalSync), true)
	log.Info().Int("bytes", len(resp.Body)).Msg("hospital fallback entry refreshed")
	return nil
}

// syncEmergencies replays every queued emergency dispatch. Successes are
// removed from the queue, failures stay for the next trigger. Items are
// independent; no ordering between them is guaranteed or required.
func (s *SyncService) syncEmergencies(ctx context.Context) error {
	tasks, err := s.queue.Pending(ctx, entities.TaskKindEmergencySync)
	if err != nil {
		return err
	}

	var failed int
	for _, task := range tasks {
		req := &entities.FetchRequest{
			Method: "POST",
			URL:    s.cfg.EmergencyEndpoint,
			Header: map[string]string{
				"Content-Type":    "application/json",
				"Idempotency-Key": task.IdempotencyKey,
			},
			Body: task.Payload,
		}

		resp, err := s.fetcher.Fetch(ctx, req)
		if err != nil || !resp.OK() {
			failed++
			observability.RecordSyncReplay(ctx, s.metrics, string(entities.TaskKindEmergencySync), false)
			log.Warn().Str("task_id", task.ID).Err(err).Msg("emergency replay failed, task retained")
			continue
		}

		if err := s.queue.Remove(ctx, task.ID); err != nil {
			log.Warn().Str("task_id", task.ID).Err(err).Msg("failed to remove replayed task")
			continue
		}
		observability.RecordSyncReplay(ctx, s.metrics, string(entities.TaskKindEmergencySync), true)
		log.Info().Str("task_id", task.ID).Msg("emergency replayed")
	}

	if failed > 0 {
		return apperrors.NewSyncReplayFailedError(fmt.Sprintf("%d of %d emergency replays failed", failed, len(tasks)), nil)
	}
	return nil
}
