package handlers_test

import (
	"context"
	"net/http"
	"sync"

	"github.com/Devyalamaddi/CareConnect/internal/adapters/cache"
	"github.com/Devyalamaddi/CareConnect/internal/api/handlers"
	"github.com/Devyalamaddi/CareConnect/internal/api/routes"
	"github.com/Devyalamaddi/CareConnect/internal/application/services"
	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	"github.com/Devyalamaddi/CareConnect/pkg/config"
	apperrors "github.com/Devyalamaddi/CareConnect/pkg/errors"
)

func testConfig() *config.WorkerConfig {
	return &config.WorkerConfig{
		Generation:          "v1",
		ShellPartition:      "careconnect-shell-v1",
		TilePartition:       "careconnect-tiles-v1",
		HospitalPartition:   "careconnect-hospitals-v1",
		ShellManifest:       []string{"/"},
		TileHost:            "tile.openstreetmap.org",
		HospitalAPIPrefix:   "/api/hospitals",
		HospitalFallbackKey: "/api/hospitals/fallback",
		UpstreamOrigin:      "http://localhost:3000",
		HospitalEndpoint:    "/api/hospitals",
		EmergencyEndpoint:   "/api/emergency",
	}
}

// stubFetcher answers every URL with a fixed body unless offline
type stubFetcher struct {
	mu      sync.Mutex
	offline bool
	bodies  map[string][]byte
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{bodies: make(map[string][]byte)}
}

func (f *stubFetcher) respond(url string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[url] = body
}

func (f *stubFetcher) setOffline(offline bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = offline
}

func (f *stubFetcher) Fetch(ctx context.Context, req *entities.FetchRequest) (*entities.FetchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return nil, apperrors.NewNetworkUnavailableError("offline", nil)
	}
	body, ok := f.bodies[req.URL]
	if !ok {
		body = []byte("upstream:" + req.URL)
	}
	return &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": "text/plain"},
		Body:       body,
		Source:     entities.SourceNetwork,
	}, nil
}

// stubBus accepts publishes and hands out idle channels
type stubBus struct{}

func (stubBus) Publish(ctx context.Context, channel string, msg *entities.WorkerMessage) error {
	return nil
}

func (stubBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.WorkerMessage, error) {
	return make(chan *entities.WorkerMessage), nil
}

func (stubBus) Unsubscribe(ctx context.Context, channel string) error { return nil }

func (stubBus) Close() error { return nil }

// stubQueue is an in-memory TaskQueue
type stubQueue struct {
	mu    sync.Mutex
	tasks []*entities.DeferredTask
}

func (q *stubQueue) Enqueue(ctx context.Context, task *entities.DeferredTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *stubQueue) Pending(ctx context.Context, kind entities.TaskKind) ([]*entities.DeferredTask, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*entities.DeferredTask
	for _, t := range q.tasks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (q *stubQueue) Remove(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, t := range q.tasks {
		if t.ID == id {
			q.tasks = append(q.tasks[:i], q.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (q *stubQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// stubPresenter drops everything
type stubPresenter struct{}

func (stubPresenter) Show(ctx context.Context, n *entities.Notification) error { return nil }

func (stubPresenter) OpenWindow(ctx context.Context, url string) error { return nil }

type fixture struct {
	handler http.Handler
	store   providers.PartitionStore
	fetcher *stubFetcher
	queue   *stubQueue
	cfg     *config.WorkerConfig
}

// newFixture wires the full HTTP surface over in-memory collaborators
func newFixture() *fixture {
	return newFixtureWithStore(cache.NewMemoryPartitionStore())
}

func newFixtureWithStore(store providers.PartitionStore) *fixture {
	fetcher := newStubFetcher()
	queue := &stubQueue{}
	cfg := testConfig()
	fallback := services.NewFallbackSynthesizer()

	partitions := services.NewPartitionManager(store, fetcher, cfg)
	syncSvc := services.NewSyncService(store, queue, fetcher, cfg, nil)
	worker := services.NewWorker(
		partitions,
		services.NewRequestRouter(store, fetcher, fallback, cfg, nil),
		services.NewMessageService(store, fetcher, stubBus{}, cfg, nil),
		syncSvc,
		services.NewPushService(stubPresenter{}, stubPresenter{}),
		stubBus{},
	)

	router := routes.NewRouter(
		handlers.NewFetchHandler(worker),
		handlers.NewMessageHandler(worker, syncSvc),
		handlers.NewHealthHandler(partitions),
		nil,
	)

	return &fixture{
		handler: router.Handler(),
		store:   store,
		fetcher: fetcher,
		queue:   queue,
		cfg:     cfg,
	}
}

// brokenStore fails every operation with StorageUnavailable
type brokenStore struct{}

func (brokenStore) Open(ctx context.Context, name string) (providers.Partition, error) {
	return nil, apperrors.NewStorageUnavailableError("storage disabled", nil)
}

func (brokenStore) Names(ctx context.Context) ([]string, error) {
	return nil, apperrors.NewStorageUnavailableError("storage disabled", nil)
}

func (brokenStore) Delete(ctx context.Context, name string) error {
	return apperrors.NewStorageUnavailableError("storage disabled", nil)
}
