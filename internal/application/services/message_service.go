package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/observability"
	"github.com/Devyalamaddi/CareConnect/pkg/config"
)

// MessageService handles the page→worker message protocol: proactive tile
// caching and direct seeding of the hospital fallback entry.
type MessageService struct {
	store   providers.PartitionStore
	fetcher providers.Fetcher
	bus     providers.MessageBus
	cfg     *config.WorkerConfig
	metrics *observability.Metrics
}

// NewMessageService creates a new message service
func NewMessageService(
	store providers.PartitionStore,
	fetcher providers.Fetcher,
	bus providers.MessageBus,
	cfg *config.WorkerConfig,
	metrics *observability.Metrics,
) *MessageService {
	return &MessageService{
		store:   store,
		fetcher: fetcher,
		bus:     bus,
		cfg:     cfg,
		metrics: metrics,
	}
}

// HandleMessage dispatches one page→worker message
func (s *MessageService) HandleMessage(ctx context.Context, msg *entities.WorkerMessage) error {
	switch msg.Type {
	case entities.MessageCacheTiles:
		return s.cacheTiles(ctx, msg.Tiles)
	case entities.MessageCacheHospitalData:
		return s.cacheHospitalData(ctx, msg.Data)
	default:
		return fmt.Errorf("unrecognized message type: %s", msg.Type)
	}
}

// cacheTiles proactively fetches and stores a pre-limited list of tile URLs.
// Individual fetch failures are logged and skipped; the batch always
// completes and TILES_CACHED is broadcast with the requested count.
func (s *MessageService) cacheTiles(ctx context.Context, tiles []string) error {
	part, err := s.store.Open(ctx, s.cfg.TilePartition)
	if err != nil {
		return err
	}

	stored := 0
	for _, tileURL := range tiles {
		req := &entities.FetchRequest{Method: "GET", URL: tileURL}
		resp, err := s.fetcher.Fetch(ctx, req)
		if err != nil || !resp.OK() {
			log.Warn().Str("tile", tileURL).Err(err).Msg("failed to cache tile")
			continue
		}
		if err := part.Put(ctx, req.Key(), resp); err != nil {
			log.Warn().Str("tile", tileURL).Err(err).Msg("failed to store tile")
			continue
		}
		stored++
	}

	observability.RecordTilesCached(ctx, s.metrics, stored)
	log.Info().Int("requested", len(tiles)).Int("stored", stored).Msg("tile batch cached")

	done := entities.NewWorkerMessage(entities.MessageTilesCached)
	done.Count = len(tiles)
	return s.bus.Publish(ctx, providers.ChannelBroadcast, done)
}

// cacheHospitalData overwrites the hospital fallback entry with a dataset
// supplied by the page, letting it seed offline data before going offline.
// Identical payloads leave the entry byte-for-byte unchanged.
func (s *MessageService) cacheHospitalData(ctx context.Context, data []byte) error {
	part, err := s.store.Open(ctx, s.cfg.HospitalPartition)
	if err != nil {
		return err
	}

	entry := &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": "application/json"},
		Body:       data,
	}
	if err := part.Put(ctx, s.cfg.HospitalFallbackKey, entry); err != nil {
		return err
	}

	log.Info().Int("bytes", len(data)).Msg("hospital fallback entry seeded")
	return nil
}
