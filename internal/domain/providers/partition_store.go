package providers

import (
	"context"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
)

// PartitionStore manages named, independently-versioned response partitions.
// Partitions are created on first open and only ever destroyed wholesale by
// generation reconciliation, never evicted entry-by-entry.
type PartitionStore interface {
	// Open returns a handle to the partition named name, creating it if
	// absent. Storage failures surface as a StorageUnavailable error and the
	// caller degrades to network-only behavior.
	Open(ctx context.Context, name string) (Partition, error)

	// Names enumerates every existing partition
	Names(ctx context.Context) ([]string, error)

	// Delete destroys a partition and all its entries
	Delete(ctx context.Context, name string) error
}

// Partition is one named key→response store. Get and Put are individually
// atomic; no multi-operation invariant is assumed, so concurrent writers for
// the same key resolve last-writer-wins.
type Partition interface {
	// Name returns the partition's name
	Name() string

	// Get retrieves a stored response; returns a NotFound error on miss
	Get(ctx context.Context, key string) (*entities.FetchResponse, error)

	// Put stores a response under key, overwriting any existing entry
	Put(ctx context.Context, key string, resp *entities.FetchResponse) error

	// Has reports whether key is present
	Has(ctx context.Context, key string) (bool, error)

	// Keys enumerates member keys
	Keys(ctx context.Context) ([]string, error)

	// Len returns the number of entries
	Len(ctx context.Context) (int, error)
}
