package entities

import (
	"net/url"
	"strings"
)

// ResponseSource identifies where a response was produced
type ResponseSource string

const (
	// SourceCache marks a response served from a partition
	SourceCache ResponseSource = "cache"

	// SourceNetwork marks a live upstream response
	SourceNetwork ResponseSource = "network"

	// SourceFallback marks a synthesized degraded response
	SourceFallback ResponseSource = "fallback"
)

// FetchRequest is one intercepted network request
type FetchRequest struct {
	Method string
	URL    string

	// Navigate marks a full-page navigation, which falls back to the cached
	// shell root instead of an error status when the network is down.
	Navigate bool

	Header map[string]string
	Body   []byte
}

// Key returns the request's cache key: method plus URL, effectively GET-only
func (r *FetchRequest) Key() string {
	return r.Method + " " + r.URL
}

// IsSafeRead reports whether the request has no side effects and may be
// inserted into a partition on a successful fetch
func (r *FetchRequest) IsSafeRead() bool {
	return r.Method == "GET" || r.Method == ""
}

// ParsedURL returns the parsed request URL
func (r *FetchRequest) ParsedURL() (*url.URL, error) {
	return url.Parse(r.URL)
}

// FetchResponse is one response, live, cached, or synthesized.
// It is the unit stored in cache partitions, serialized as JSON.
type FetchResponse struct {
	StatusCode int               `json:"status_code"`
	Header     map[string]string `json:"header,omitempty"`
	Body       []byte            `json:"body,omitempty"`
	Source     ResponseSource    `json:"source,omitempty"`
}

// OK reports whether the response carries a success status
func (r *FetchResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ContentType returns the response content type, if set
func (r *FetchResponse) ContentType() string {
	for k, v := range r.Header {
		if strings.EqualFold(k, "Content-Type") {
			return v
		}
	}
	return ""
}

// Clone returns a deep copy, so one copy can be stored while the other is
// returned to the caller.
func (r *FetchResponse) Clone() *FetchResponse {
	out := &FetchResponse{
		StatusCode: r.StatusCode,
		Source:     r.Source,
	}
	if r.Header != nil {
		out.Header = make(map[string]string, len(r.Header))
		for k, v := range r.Header {
			out.Header[k] = v
		}
	}
	if r.Body != nil {
		out.Body = make([]byte, len(r.Body))
		copy(out.Body, r.Body)
	}
	return out
}
