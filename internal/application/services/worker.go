package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
)

// Worker composes the per-event handlers behind a thin dispatcher: one method
// per platform event, each testable in isolation with fake collaborators.
type Worker struct {
	partitions *PartitionManager
	router     *RequestRouter
	messages   *MessageService
	sync       *SyncService
	push       *PushService
	bus        providers.MessageBus
}

// NewWorker creates a new worker dispatcher
func NewWorker(
	partitions *PartitionManager,
	router *RequestRouter,
	messages *MessageService,
	sync *SyncService,
	push *PushService,
	bus providers.MessageBus,
) *Worker {
	return &Worker{
		partitions: partitions,
		router:     router,
		messages:   messages,
		sync:       sync,
		push:       push,
		bus:        bus,
	}
}

// Install primes the shell partition. Failure is fatal to this install
// attempt; the worker must not partially activate.
func (w *Worker) Install(ctx context.Context) error {
	return w.partitions.PrimeShellPartition(ctx)
}

// Activate reconciles partitions against the current generation
func (w *Worker) Activate(ctx context.Context) error {
	return w.partitions.ReconcileOnActivate(ctx)
}

// HandleFetch routes one intercepted request; it always returns a response
func (w *Worker) HandleFetch(ctx context.Context, req *entities.FetchRequest) *entities.FetchResponse {
	return w.router.Route(ctx, req)
}

// HandleMessage dispatches one page→worker message
func (w *Worker) HandleMessage(ctx context.Context, msg *entities.WorkerMessage) error {
	return w.messages.HandleMessage(ctx, msg)
}

// HandleSync replays deferred work for a sync tag
func (w *Worker) HandleSync(ctx context.Context, tag string) error {
	return w.sync.HandleSync(ctx, tag)
}

// HandlePush shows a notification for a push payload
func (w *Worker) HandlePush(ctx context.Context, body string) error {
	return w.push.HandlePush(ctx, body)
}

// HandleNotificationClick routes a notification interaction
func (w *Worker) HandleNotificationClick(ctx context.Context, action string) error {
	return w.push.HandleNotificationClick(ctx, action)
}

// Run subscribes to the worker's event channels and dispatches until ctx is
// done. Handler errors are logged, never escalated: a failed event must not
// take the worker down.
func (w *Worker) Run(ctx context.Context) error {
	channels := []string{
		providers.ChannelWorkerMessages,
		providers.SyncChannel(string(entities.TaskKindHospitalSync)),
		providers.SyncChannel(string(entities.TaskKindEmergencySync)),
		providers.ChannelPushIncoming,
		providers.ChannelNotificationClick,
	}

	for _, channel := range channels {
		msgs, err := w.bus.Subscribe(ctx, channel)
		if err != nil {
			return err
		}
		go w.dispatchLoop(ctx, channel, msgs)
	}

	log.Info().Int("channels", len(channels)).Msg("worker event loop started")
	<-ctx.Done()
	return nil
}

func (w *Worker) dispatchLoop(ctx context.Context, channel string, msgs <-chan *entities.WorkerMessage) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			if err := w.dispatch(ctx, channel, msg); err != nil {
				log.Warn().Str("channel", channel).Str("type", string(msg.Type)).Err(err).Msg("event handler failed")
			}
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, channel string, msg *entities.WorkerMessage) error {
	switch {
	case channel == providers.ChannelWorkerMessages:
		return w.HandleMessage(ctx, msg)
	case strings.HasPrefix(channel, providers.ChannelSyncPrefix):
		tag := msg.Tag
		if tag == "" {
			tag = strings.TrimPrefix(channel, providers.ChannelSyncPrefix)
		}
		return w.HandleSync(ctx, tag)
	case channel == providers.ChannelPushIncoming:
		return w.HandlePush(ctx, pushBody(msg.Data))
	case channel == providers.ChannelNotificationClick:
		return w.HandleNotificationClick(ctx, msg.Action)
	default:
		return nil
	}
}

// pushBody extracts the plain-text body from a push payload. The payload is
// either a bare string, a {"body": ...} object, or raw text.
func pushBody(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	var pm entities.PushMessage
	if err := json.Unmarshal(data, &pm); err == nil && pm.Body != "" {
		return pm.Body
	}
	return string(data)
}
