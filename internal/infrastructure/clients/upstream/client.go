package upstream

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/domain/providers"
	apperrors "github.com/Devyalamaddi/CareConnect/pkg/errors"
)

// maxResponseBody caps how much of a response the worker will buffer for
// caching. Map tiles and hospital payloads are far below this.
const maxResponseBody = 8 << 20

// Client is the worker's network fetcher. Absolute request URLs (map tiles)
// are fetched directly; relative paths resolve against the configured
// upstream origin. A circuit breaker trips after repeated transport failures
// so that an offline upstream routes requests to the fallback path without
// waiting out full timeouts.
type Client struct {
	origin     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a new upstream fetcher
func NewClient(origin string) providers.Fetcher {
	return &Client{
		origin: strings.TrimRight(origin, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "upstream",
			MaxRequests: 3,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// Fetch performs the request. Transport failures, timeouts, and an open
// breaker all normalize to a NetworkUnavailable error; any reachable-server
// status is returned as a valid response.
func (c *Client) Fetch(ctx context.Context, req *entities.FetchRequest) (*entities.FetchResponse, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doFetch(ctx, req)
	})
	if err != nil {
		return nil, apperrors.NewNetworkUnavailableError("fetch failed for "+req.URL, err)
	}
	return result.(*entities.FetchResponse), nil
}

func (c *Client) doFetch(ctx context.Context, req *entities.FetchRequest) (*entities.FetchResponse, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.resolveURL(req.URL), body)
	if err != nil {
		return nil, err
	}
	for k, v := range req.Header {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return nil, err
	}

	header := make(map[string]string, len(httpResp.Header))
	for k := range httpResp.Header {
		header[k] = httpResp.Header.Get(k)
	}

	return &entities.FetchResponse{
		StatusCode: httpResp.StatusCode,
		Header:     header,
		Body:       respBody,
		Source:     entities.SourceNetwork,
	}, nil
}

func (c *Client) resolveURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.origin + raw
}
