package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/Devyalamaddi/CareConnect/internal/application/services"
	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
)

// maxInterceptedBody caps how much request body the worker buffers when
// forwarding an intercepted mutation.
const maxInterceptedBody = 1 << 20

// FetchHandler is the interception entry point: every request from a
// controlled page passes through it, gets classified by the router, and
// always receives a response, degraded if necessary.
type FetchHandler struct {
	worker *services.Worker
}

// NewFetchHandler creates a new fetch handler
func NewFetchHandler(worker *services.Worker) *FetchHandler {
	return &FetchHandler{worker: worker}
}

// Intercept handles every request not claimed by a worker control route
func (h *FetchHandler) Intercept(w http.ResponseWriter, r *http.Request) {
	req := h.toFetchRequest(r)
	resp := h.worker.HandleFetch(r.Context(), req)

	for k, v := range resp.Header {
		w.Header().Set(k, v)
	}
	if resp.Source != "" {
		w.Header().Set("X-Worker-Source", string(resp.Source))
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// toFetchRequest normalizes an incoming request. Proxy-style absolute URLs
// (map tiles) keep their full form; same-origin requests keep path and query.
func (h *FetchHandler) toFetchRequest(r *http.Request) *entities.FetchRequest {
	rawURL := r.URL.RequestURI()
	if r.URL.IsAbs() {
		rawURL = r.URL.String()
	}

	var body []byte
	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
		body, _ = io.ReadAll(io.LimitReader(r.Body, maxInterceptedBody))
	}

	header := make(map[string]string)
	if ct := r.Header.Get("Content-Type"); ct != "" {
		header["Content-Type"] = ct
	}
	if accept := r.Header.Get("Accept"); accept != "" {
		header["Accept"] = accept
	}

	return &entities.FetchRequest{
		Method:   r.Method,
		URL:      rawURL,
		Navigate: isNavigation(r),
		Header:   header,
		Body:     body,
	}
}

// isNavigation detects a full-page navigation, which falls back to the
// cached shell instead of an error status when offline.
func isNavigation(r *http.Request) bool {
	if r.Method != http.MethodGet {
		return false
	}
	if mode := r.Header.Get("Sec-Fetch-Mode"); mode != "" {
		return mode == "navigate"
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
