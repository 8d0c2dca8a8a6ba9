package cache

import (
	"context"
	"sync"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	apperrors "github.com/Devyalamaddi/CareConnect/pkg/errors"
)

// MemoryPartitionStore implements PartitionStore in process memory. It backs
// unit tests and cache-disabled runs; contents do not survive a restart.
type MemoryPartitionStore struct {
	mu         sync.RWMutex
	partitions map[string]*memoryPartition
}

// NewMemoryPartitionStore creates a new in-memory partition store
func NewMemoryPartitionStore() *MemoryPartitionStore {
	return &MemoryPartitionStore{
		partitions: make(map[string]*memoryPartition),
	}
}

// Open returns a handle to the named partition, creating it if absent
func (s *MemoryPartitionStore) Open(ctx context.Context, name string) (providers.Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.partitions[name]; ok {
		return p, nil
	}
	p := &memoryPartition{
		name:    name,
		entries: make(map[string]*entities.FetchResponse),
	}
	s.partitions[name] = p
	return p, nil
}

// Names enumerates all existing partitions
func (s *MemoryPartitionStore) Names(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.partitions))
	for name := range s.partitions {
		names = append(names, name)
	}
	return names, nil
}

// Delete destroys a partition and all its entries
func (s *MemoryPartitionStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partitions, name)
	return nil
}

type memoryPartition struct {
	name    string
	mu      sync.RWMutex
	entries map[string]*entities.FetchResponse
}

func (p *memoryPartition) Name() string {
	return p.name
}

func (p *memoryPartition) Get(ctx context.Context, key string) (*entities.FetchResponse, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	resp, ok := p.entries[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("no entry for " + key + " in " + p.name)
	}
	out := resp.Clone()
	out.Source = entities.SourceCache
	return out, nil
}

func (p *memoryPartition) Put(ctx context.Context, key string, resp *entities.FetchResponse) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[key] = resp.Clone()
	return nil
}

func (p *memoryPartition) Has(ctx context.Context, key string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.entries[key]
	return ok, nil
}

func (p *memoryPartition) Keys(ctx context.Context) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	keys := make([]string, 0, len(p.entries))
	for key := range p.entries {
		keys = append(keys, key)
	}
	return keys, nil
}

func (p *memoryPartition) Len(ctx context.Context) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries), nil
}
