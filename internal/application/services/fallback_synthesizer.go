package services

import (
	"encoding/json"

	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
)

// placeholderTileSVG is the fixed placeholder served for uncacheable tiles
// while offline. Always the same bytes, no network or disk involved.
const placeholderTileSVG = `<svg width="256" height="256" xmlns="http://www.w3.org/2000/svg"><rect width="256" height="256" fill="#f3f4f6"/><text x="128" y="128" text-anchor="middle" fill="#9ca3af" font-family="Arial" font-size="14">Offline</text></svg>`

// offlineDocumentHTML is served for navigations when the shell was never
// primed. A navigation request must never go unanswered.
const offlineDocumentHTML = `<!DOCTYPE html><html><head><title>CareConnect - Offline</title></head><body><h1>You are offline</h1><p>CareConnect could not load this page. Reconnect and try again.</p></body></html>`

// FallbackSynthesizer produces well-formed substitute responses so callers
// never special-case a cache-and-network double failure beyond inspecting
// content.
type FallbackSynthesizer struct {
	offlineDirectory []byte
}

// NewFallbackSynthesizer creates a new fallback synthesizer
func NewFallbackSynthesizer() *FallbackSynthesizer {
	// Marshal once; the envelope is a fixed constant.
	data, _ := json.Marshal(entities.NewOfflineHospitalDirectory())
	return &FallbackSynthesizer{offlineDirectory: data}
}

// TilePlaceholder returns the fixed placeholder tile image
func (f *FallbackSynthesizer) TilePlaceholder() *entities.FetchResponse {
	return &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": "image/svg+xml"},
		Body:       []byte(placeholderTileSVG),
		Source:     entities.SourceFallback,
	}
}

// OfflineDirectory returns the empty-but-valid hospital envelope with the
// explicit offline marker
func (f *FallbackSynthesizer) OfflineDirectory() *entities.FetchResponse {
	body := make([]byte, len(f.offlineDirectory))
	copy(body, f.offlineDirectory)
	return &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": "application/json"},
		Body:       body,
		Source:     entities.SourceFallback,
	}
}

// OfflineDocument returns the minimal inline offline page
func (f *FallbackSynthesizer) OfflineDocument() *entities.FetchResponse {
	return &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": "text/html; charset=utf-8"},
		Body:       []byte(offlineDocumentHTML),
		Source:     entities.SourceFallback,
	}
}

// OfflineStatus returns the explicit non-success response for unclassified
// requests that miss both cache and network
func (f *FallbackSynthesizer) OfflineStatus() *entities.FetchResponse {
	return &entities.FetchResponse{
		StatusCode: 503,
		Header:     map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       []byte("Offline"),
		Source:     entities.SourceFallback,
	}
}
