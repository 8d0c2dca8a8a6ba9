package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devyalamaddi/CareConnect/internal/adapters/cache"
	"github.com/Devyalamaddi/CareConnect/internal/application/services"
	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
)

type workerFixture struct {
	worker    *services.Worker
	store     *cache.MemoryPartitionStore
	fetcher   *MockFetcher
	queue     *MockTaskQueue
	bus       *MockMessageBus
	presenter *MockPresenter
}

func newWorkerFixture() *workerFixture {
	store := cache.NewMemoryPartitionStore()
	fetcher := NewMockFetcher()
	queue := NewMockTaskQueue()
	bus := NewMockMessageBus()
	presenter := NewMockPresenter()
	cfg := testWorkerConfig()
	fallback := services.NewFallbackSynthesizer()

	worker := services.NewWorker(
		services.NewPartitionManager(store, fetcher, cfg),
		services.NewRequestRouter(store, fetcher, fallback, cfg, nil),
		services.NewMessageService(store, fetcher, bus, cfg, nil),
		services.NewSyncService(store, queue, fetcher, cfg, nil),
		services.NewPushService(presenter, presenter),
		bus,
	)
	return &workerFixture{
		worker:    worker,
		store:     store,
		fetcher:   fetcher,
		queue:     queue,
		bus:       bus,
		presenter: presenter,
	}
}

func TestWorker_InstallThenActivateThenFetch(t *testing.T) {
	ctx := context.Background()
	fx := newWorkerFixture()
	cfg := testWorkerConfig()
	fx.fetcher.RespondBody("/", "text/html", []byte("<html>shell</html>"))

	require.NoError(t, fx.worker.Install(ctx))
	require.NoError(t, fx.worker.Activate(ctx))

	names, err := fx.store.Names(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, cfg.PartitionNames(), names)

	// The shell primed at install serves navigations once offline
	fx.fetcher.SetOffline(true)
	resp := fx.worker.HandleFetch(ctx, &entities.FetchRequest{Method: "GET", URL: "/patient/records", Navigate: true})
	assert.Equal(t, []byte("<html>shell</html>"), resp.Body)
}

func TestWorker_EventLoopDispatchesBusMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fx := newWorkerFixture()
	cfg := testWorkerConfig()

	go fx.worker.Run(ctx)
	// Give Run a moment to register its subscriptions
	time.Sleep(20 * time.Millisecond)

	seed := entities.NewWorkerMessage(entities.MessageCacheHospitalData)
	seed.Data = []byte(`{"hospitals":[{"name":"FromBus"}]}`)
	require.NoError(t, fx.bus.Publish(ctx, providers.ChannelWorkerMessages, seed))

	assert.Eventually(t, func() bool {
		part, err := fx.store.Open(context.Background(), cfg.HospitalPartition)
		if err != nil {
			return false
		}
		_, err = part.Get(context.Background(), cfg.HospitalFallbackKey)
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func TestWorker_EventLoopHandlesPushAndClick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fx := newWorkerFixture()

	go fx.worker.Run(ctx)
	time.Sleep(20 * time.Millisecond)

	push := entities.NewWorkerMessage(entities.MessagePush)
	push.Data = json.RawMessage(`{"body":"Lab results ready"}`)
	require.NoError(t, fx.bus.Publish(ctx, providers.ChannelPushIncoming, push))

	assert.Eventually(t, func() bool {
		shown := fx.presenter.Shown()
		return len(shown) == 1 && shown[0].Body == "Lab results ready"
	}, time.Second, 10*time.Millisecond)

	click := entities.NewWorkerMessage(entities.MessageNotificationClick)
	click.Action = entities.ActionViewDetails
	require.NoError(t, fx.bus.Publish(ctx, providers.ChannelNotificationClick, click))

	assert.Eventually(t, func() bool {
		return len(fx.presenter.Opened()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWorker_EventLoopTriggersSyncByChannel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fx := newWorkerFixture()
	cfg := testWorkerConfig()
	fx.fetcher.RespondBody(cfg.HospitalEndpoint, "application/json", []byte(`{"hospitals":[{"name":"Synced"}]}`))

	go fx.worker.Run(ctx)
	time.Sleep(20 * time.Millisecond)

	// A bare trigger with no tag field falls back to the channel's tag
	trigger := entities.NewWorkerMessage(entities.MessageSyncTrigger)
	require.NoError(t, fx.bus.Publish(ctx, providers.SyncChannel(string(entities.TaskKindHospitalSync)), trigger))

	assert.Eventually(t, func() bool {
		part, err := fx.store.Open(context.Background(), cfg.HospitalPartition)
		if err != nil {
			return false
		}
		entry, err := part.Get(context.Background(), cfg.HospitalFallbackKey)
		return err == nil && string(entry.Body) == `{"hospitals":[{"name":"Synced"}]}`
	}, time.Second, 10*time.Millisecond)
}

func TestPushBodyExtraction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fx := newWorkerFixture()

	go fx.worker.Run(ctx)
	time.Sleep(20 * time.Millisecond)

	// Bare JSON string, object form, and raw text all resolve to a body
	for _, payload := range []json.RawMessage{
		json.RawMessage(`"plain string"`),
		json.RawMessage(`{"body":"object form"}`),
		json.RawMessage(`raw text`),
	} {
		msg := entities.NewWorkerMessage(entities.MessagePush)
		msg.Data = payload
		require.NoError(t, fx.bus.Publish(ctx, providers.ChannelPushIncoming, msg))
	}

	assert.Eventually(t, func() bool {
		return len(fx.presenter.Shown()) == 3
	}, time.Second, 10*time.Millisecond)

	bodies := make([]string, 0, 3)
	for _, n := range fx.presenter.Shown() {
		bodies = append(bodies, n.Body)
	}
	assert.ElementsMatch(t, []string{"plain string", "object form", "raw text"}, bodies)
}
