package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/observability"
	"github.com/Devyalamaddi/CareConnect/pkg/config"
	apperrors "github.com/Devyalamaddi/CareConnect/pkg/errors"
)

// Policy names, used for routing decisions and metric labels
const (
	PolicyTile     = "tile"
	PolicyHospital = "hospital"
	PolicyGeneric  = "generic"
)

// route is one (predicate, policy) pair. Routes are evaluated top-down;
// first match wins.
type route struct {
	name   string
	match  func(u *url.URL) bool
	handle func(ctx context.Context, req *entities.FetchRequest) *entities.FetchResponse
}

// RequestRouter classifies every intercepted request by URL shape and
// dispatches it to the matching caching policy. Every path terminates in a
// valid response; network and storage failures degrade, they never propagate.
type RequestRouter struct {
	store    providers.PartitionStore
	fetcher  providers.Fetcher
	fallback *FallbackSynthesizer
	cfg      *config.WorkerConfig
	metrics  *observability.Metrics
	routes   []route
}

// NewRequestRouter creates a new request router
func NewRequestRouter(
	store providers.PartitionStore,
	fetcher providers.Fetcher,
	fallback *FallbackSynthesizer,
	cfg *config.WorkerConfig,
	metrics *observability.Metrics,
) *RequestRouter {
	r := &RequestRouter{
		store:    store,
		fetcher:  fetcher,
		fallback: fallback,
		cfg:      cfg,
		metrics:  metrics,
	}
	r.routes = []route{
		{
			name:   PolicyTile,
			match:  func(u *url.URL) bool { return u.Host != "" && strings.Contains(u.Host, cfg.TileHost) },
			handle: r.handleTile,
		},
		{
			name:   PolicyHospital,
			match:  func(u *url.URL) bool { return strings.HasPrefix(u.Path, cfg.HospitalAPIPrefix) },
			handle: r.handleHospital,
		},
		{
			name:   PolicyGeneric,
			match:  func(u *url.URL) bool { return true },
			handle: r.handleGeneric,
		},
	}
	return r
}

// Classify returns the policy name a request routes to
func (r *RequestRouter) Classify(req *entities.FetchRequest) string {
	u, err := req.ParsedURL()
	if err != nil {
		return PolicyGeneric
	}
	for _, rt := range r.routes {
		if rt.match(u) {
			return rt.name
		}
	}
	return PolicyGeneric
}

// Route dispatches one intercepted request. It always returns a response.
func (r *RequestRouter) Route(ctx context.Context, req *entities.FetchRequest) *entities.FetchResponse {
	u, err := req.ParsedURL()
	if err != nil {
		log.Warn().Str("url", req.URL).Err(err).Msg("unparseable request URL")
		return r.fallback.OfflineStatus()
	}

	for _, rt := range r.routes {
		if rt.match(u) {
			return rt.handle(ctx, req)
		}
	}
	return r.handleGeneric(ctx, req)
}

// handleTile is cache-first with network refill. Tiles are immutable once
// cached: a hit never revalidates. A failed fetch synthesizes a placeholder
// image, never a hard failure.
func (r *RequestRouter) handleTile(ctx context.Context, req *entities.FetchRequest) *entities.FetchResponse {
	part := r.openPartition(ctx, r.cfg.TilePartition)

	if cached := r.lookup(ctx, part, req.Key()); cached != nil {
		return cached
	}

	resp, err := r.fetcher.Fetch(ctx, req)
	if err != nil {
		observability.RecordFallback(ctx, r.metrics, "tile")
		return r.fallback.TilePlaceholder()
	}
	if resp.OK() && part != nil {
		r.storeEntry(ctx, part, req.Key(), resp)
	}
	return resp
}

// handleHospital is cache-first with network refill. On total failure it
// serves the designated fallback entry if one was seeded; only when that is
// also absent does it synthesize the explicit offline envelope, so the caller
// can tell "no data at all" from stale cached data.
func (r *RequestRouter) handleHospital(ctx context.Context, req *entities.FetchRequest) *entities.FetchResponse {
	part := r.openPartition(ctx, r.cfg.HospitalPartition)

	if cached := r.lookup(ctx, part, req.Key()); cached != nil {
		return cached
	}

	resp, err := r.fetcher.Fetch(ctx, req)
	if err == nil {
		if resp.OK() && part != nil {
			r.storeEntry(ctx, part, req.Key(), resp)
		}
		return resp
	}

	if part != nil {
		if fb, ferr := part.Get(ctx, r.cfg.HospitalFallbackKey); ferr == nil {
			observability.RecordFallback(ctx, r.metrics, "hospital-seeded")
			return fb
		}
	}

	observability.RecordFallback(ctx, r.metrics, "hospital-envelope")
	return r.fallback.OfflineDirectory()
}

// handleGeneric is cache-first against the shell partition. Safe reads are
// inserted on successful fetch. A failed navigation falls back to the cached
// shell root; anything else gets an explicit offline status.
func (r *RequestRouter) handleGeneric(ctx context.Context, req *entities.FetchRequest) *entities.FetchResponse {
	part := r.openPartition(ctx, r.cfg.ShellPartition)

	if cached := r.lookup(ctx, part, req.Key()); cached != nil {
		return cached
	}

	resp, err := r.fetcher.Fetch(ctx, req)
	if err == nil {
		if resp.OK() && req.IsSafeRead() && part != nil {
			r.storeEntry(ctx, part, req.Key(), resp)
		}
		return resp
	}

	if req.Navigate {
		if part != nil {
			rootKey := (&entities.FetchRequest{Method: "GET", URL: "/"}).Key()
			if shell, serr := part.Get(ctx, rootKey); serr == nil {
				observability.RecordFallback(ctx, r.metrics, "navigation-shell")
				return shell
			}
		}
		observability.RecordFallback(ctx, r.metrics, "navigation-offline-page")
		return r.fallback.OfflineDocument()
	}

	observability.RecordFallback(ctx, r.metrics, "offline-status")
	return r.fallback.OfflineStatus()
}

// openPartition opens a partition, degrading to network-only (nil handle) on
// storage failure instead of failing the request.
func (r *RequestRouter) openPartition(ctx context.Context, name string) providers.Partition {
	part, err := r.store.Open(ctx, name)
	if err != nil {
		log.Warn().Str("partition", name).Err(err).Msg("storage unavailable, degrading to network-only")
		return nil
	}
	return part
}

// lookup reads a partition entry, tolerating a nil handle and storage errors
func (r *RequestRouter) lookup(ctx context.Context, part providers.Partition, key string) *entities.FetchResponse {
	if part == nil {
		return nil
	}
	cached, err := part.Get(ctx, key)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			log.Warn().Str("key", key).Err(err).Msg("partition read failed")
		}
		observability.RecordCacheMiss(ctx, r.metrics, part.Name())
		return nil
	}
	observability.RecordCacheHit(ctx, r.metrics, part.Name())
	return cached
}

// storeEntry inserts a clone of a live response; insert failures are logged,
// the live response is still returned to the caller
func (r *RequestRouter) storeEntry(ctx context.Context, part providers.Partition, key string, resp *entities.FetchResponse) {
	if err := part.Put(ctx, key, resp.Clone()); err != nil {
		log.Warn().Str("key", key).Str("partition", part.Name()).Err(err).Msg("failed to store fetched entry")
	}
}
