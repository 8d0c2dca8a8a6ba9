package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	"github.com/Devyalamaddi/CareConnect/pkg/config"
	apperrors "github.com/Devyalamaddi/CareConnect/pkg/errors"
	"github.com/Devyalamaddi/CareConnect/pkg/retry"
)

// PartitionManager owns the three named partitions: creation, install-time
// shell priming, and generation reconciliation on activate.
type PartitionManager struct {
	store   providers.PartitionStore
	fetcher providers.Fetcher
	cfg     *config.WorkerConfig
}

// NewPartitionManager creates a new partition manager
func NewPartitionManager(store providers.PartitionStore, fetcher providers.Fetcher, cfg *config.WorkerConfig) *PartitionManager {
	return &PartitionManager{
		store:   store,
		fetcher: fetcher,
		cfg:     cfg,
	}
}

// OpenPartition returns a handle to the named partition, creating it if absent
func (m *PartitionManager) OpenPartition(ctx context.Context, name string) (providers.Partition, error) {
	return m.store.Open(ctx, name)
}

// PrimeShellPartition bulk-caches the shell manifest at install time.
// All-or-nothing: every URL is fetched (with bounded per-URL retry) before a
// single entry is written, so a failed install leaves no partial shell behind.
// A partial shell is worse than no shell, since navigation fallback depends
// on shell completeness.
func (m *PartitionManager) PrimeShellPartition(ctx context.Context) error {
	staged := make(map[string]*entities.FetchResponse, len(m.cfg.ShellManifest))

	for _, u := range m.cfg.ShellManifest {
		req := &entities.FetchRequest{Method: "GET", URL: u}

		var resp *entities.FetchResponse
		err := retry.Do(ctx, retry.FetchConfig(), func() error {
			fetched, ferr := m.fetcher.Fetch(ctx, req)
			if ferr != nil {
				return ferr
			}
			if !fetched.OK() {
				return fmt.Errorf("unexpected status %d for %s", fetched.StatusCode, u)
			}
			resp = fetched
			return nil
		})
		if err != nil {
			return apperrors.NewInstallIncompleteError("shell manifest URL failed to cache: "+u, err)
		}

		staged[req.Key()] = resp
	}

	shell, err := m.store.Open(ctx, m.cfg.ShellPartition)
	if err != nil {
		return err
	}
	for key, resp := range staged {
		if err := shell.Put(ctx, key, resp); err != nil {
			return apperrors.NewInstallIncompleteError("failed to store shell entry "+key, err)
		}
	}

	log.Info().Int("entries", len(staged)).Str("partition", m.cfg.ShellPartition).Msg("shell partition primed")
	return nil
}

// ReconcileOnActivate deletes every partition whose name is not in the
// current generation's set. This is the system's only eviction mechanism,
// coarse and generation-based, never per-entry.
func (m *PartitionManager) ReconcileOnActivate(ctx context.Context) error {
	existing, err := m.store.Names(ctx)
	if err != nil {
		return err
	}

	current := make(map[string]struct{}, 3)
	for _, name := range m.cfg.PartitionNames() {
		current[name] = struct{}{}
	}

	for _, name := range existing {
		if _, keep := current[name]; keep {
			continue
		}
		if err := m.store.Delete(ctx, name); err != nil {
			return err
		}
		log.Info().Str("partition", name).Msg("purged stale partition")
	}

	return nil
}

// Status reports per-partition entry counts for the health endpoint
func (m *PartitionManager) Status(ctx context.Context) (map[string]int, error) {
	status := make(map[string]int, 3)
	for _, name := range m.cfg.PartitionNames() {
		part, err := m.store.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		n, err := part.Len(ctx)
		if err != nil {
			return nil, err
		}
		status[name] = n
	}
	return status, nil
}
