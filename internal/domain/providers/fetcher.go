package providers

import (
	"context"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
)

// Fetcher performs network fetches on behalf of the worker. A transport
// failure or timeout returns a NetworkUnavailable error; a reachable server
// returning a non-2xx status is a valid response, not an error.
type Fetcher interface {
	Fetch(ctx context.Context, req *entities.FetchRequest) (*entities.FetchResponse, error)
}
