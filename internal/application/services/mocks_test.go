package services_test

import (
	"context"
	"sync"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	apperrors "github.com/Devyalamaddi/CareConnect/pkg/errors"
)

func okResponse(contentType string, body []byte) *entities.FetchResponse {
	return &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": contentType},
		Body:       body,
		Source:     entities.SourceNetwork,
	}
}

func notFoundResponse() *entities.FetchResponse {
	return &entities.FetchResponse{
		StatusCode: 404,
		Header:     map[string]string{"Content-Type": "text/plain"},
		Body:       []byte("not found"),
		Source:     entities.SourceNetwork,
	}
}

// MockFetcher is a programmable network fake tracking per-URL call counts
type MockFetcher struct {
	mu        sync.Mutex
	responses map[string]*entities.FetchResponse
	failures  map[string]bool
	offline   bool
	calls     map[string]int
	requests  []*entities.FetchRequest
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		responses: make(map[string]*entities.FetchResponse),
		failures:  make(map[string]bool),
		calls:     make(map[string]int),
	}
}

func (m *MockFetcher) Respond(url string, resp *entities.FetchResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[url] = resp
}

func (m *MockFetcher) RespondBody(url, contentType string, body []byte) {
	m.Respond(url, &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": contentType},
		Body:       body,
		Source:     entities.SourceNetwork,
	})
}

func (m *MockFetcher) Fail(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[url] = true
}

func (m *MockFetcher) SetOffline(offline bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offline = offline
}

func (m *MockFetcher) Calls(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[url]
}

func (m *MockFetcher) Requests() []*entities.FetchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entities.FetchRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockFetcher) Fetch(ctx context.Context, req *entities.FetchRequest) (*entities.FetchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[req.URL]++
	m.requests = append(m.requests, req)

	if m.offline || m.failures[req.URL] {
		return nil, apperrors.NewNetworkUnavailableError("fetch failed for "+req.URL, nil)
	}
	if resp, ok := m.responses[req.URL]; ok {
		return resp.Clone(), nil
	}
	return &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": "text/plain"},
		Body:       []byte("ok"),
		Source:     entities.SourceNetwork,
	}, nil
}

// MockMessageBus records publishes and fans out to subscribers
type MockMessageBus struct {
	mu          sync.Mutex
	published   map[string][]*entities.WorkerMessage
	subscribers map[string][]chan *entities.WorkerMessage
}

func NewMockMessageBus() *MockMessageBus {
	return &MockMessageBus{
		published:   make(map[string][]*entities.WorkerMessage),
		subscribers: make(map[string][]chan *entities.WorkerMessage),
	}
}

func (m *MockMessageBus) Publish(ctx context.Context, channel string, msg *entities.WorkerMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published[channel] = append(m.published[channel], msg)
	for _, sub := range m.subscribers[channel] {
		select {
		case sub <- msg:
		default:
		}
	}
	return nil
}

func (m *MockMessageBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.WorkerMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *entities.WorkerMessage, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockMessageBus) Unsubscribe(ctx context.Context, channel string) error {
	return nil
}

func (m *MockMessageBus) Close() error {
	return nil
}

func (m *MockMessageBus) Published(channel string) []*entities.WorkerMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entities.WorkerMessage, len(m.published[channel]))
	copy(out, m.published[channel])
	return out
}

// MockTaskQueue is an in-memory TaskQueue
type MockTaskQueue struct {
	mu    sync.Mutex
	tasks []*entities.DeferredTask
}

func NewMockTaskQueue() *MockTaskQueue {
	return &MockTaskQueue{}
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, task *entities.DeferredTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *MockTaskQueue) Pending(ctx context.Context, kind entities.TaskKind) ([]*entities.DeferredTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.DeferredTask
	for _, t := range m.tasks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTaskQueue) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MockTaskQueue) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// MockPresenter records shown notifications and opened windows
type MockPresenter struct {
	mu     sync.Mutex
	shown  []*entities.Notification
	opened []string
}

func NewMockPresenter() *MockPresenter {
	return &MockPresenter{}
}

func (m *MockPresenter) Show(ctx context.Context, n *entities.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = append(m.shown, n)
	return nil
}

func (m *MockPresenter) OpenWindow(ctx context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened = append(m.opened, url)
	return nil
}

func (m *MockPresenter) Shown() []*entities.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entities.Notification, len(m.shown))
	copy(out, m.shown)
	return out
}

func (m *MockPresenter) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.opened))
	copy(out, m.opened)
	return out
}

// BrokenPartitionStore fails every operation with StorageUnavailable
type BrokenPartitionStore struct{}

func (BrokenPartitionStore) Open(ctx context.Context, name string) (providers.Partition, error) {
	return nil, apperrors.NewStorageUnavailableError("storage disabled", nil)
}

func (BrokenPartitionStore) Names(ctx context.Context) ([]string, error) {
	return nil, apperrors.NewStorageUnavailableError("storage disabled", nil)
}

func (BrokenPartitionStore) Delete(ctx context.Context, name string) error {
	return apperrors.NewStorageUnavailableError("storage disabled", nil)
}
