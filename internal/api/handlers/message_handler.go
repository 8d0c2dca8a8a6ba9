package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Devyalamaddi/CareConnect/internal/application/services"
	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
)

// MessageHandler is the HTTP inlet for the page→worker message protocol and
// for deferring mutations that failed while offline.
type MessageHandler struct {
	worker *services.Worker
	sync   *services.SyncService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(worker *services.Worker, sync *services.SyncService) *MessageHandler {
	return &MessageHandler{worker: worker, sync: sync}
}

// PostMessage handles POST /worker/message
func (h *MessageHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var msg entities.WorkerMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid message payload")
		return
	}
	if msg.Type == "" {
		respondWithError(w, http.StatusBadRequest, "message type is required")
		return
	}

	if err := h.worker.HandleMessage(r.Context(), &msg); err != nil {
		respondWithError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

type deferRequest struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// DeferTask handles POST /worker/defer, queueing a mutation for replay on
// the next sync trigger
func (h *MessageHandler) DeferTask(w http.ResponseWriter, r *http.Request) {
	var req deferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid defer payload")
		return
	}
	if !entities.ValidSyncTag(req.Kind) {
		respondWithError(w, http.StatusBadRequest, "unrecognized task kind")
		return
	}

	task, err := h.sync.Defer(r.Context(), entities.TaskKind(req.Kind), req.Payload)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"task_id":         task.ID,
		"idempotency_key": task.IdempotencyKey,
	})
}

// TriggerSync handles POST /worker/sync/{tag}, the HTTP form of a background
// sync trigger. Replay failures are reported but the tasks stay queued.
func (h *MessageHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	if !entities.ValidSyncTag(tag) {
		respondWithError(w, http.StatusBadRequest, "unrecognized sync tag")
		return
	}

	if err := h.worker.HandleSync(r.Context(), tag); err != nil {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "retry-pending",
			"detail": err.Error(),
		})
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "synced"})
}
