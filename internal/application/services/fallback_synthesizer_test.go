package services_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devyalamaddi/CareConnect/internal/application/services"
	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
)

func TestOfflineDirectory_ExactEnvelope(t *testing.T) {
	f := services.NewFallbackSynthesizer()
	resp := f.OfflineDirectory()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType())
	assert.Equal(t,
		`{"hospitals":[],"offline":true,"message":"Offline mode - limited data available"}`,
		string(resp.Body))

	// "hospitals" must decode as [], not null
	var decoded struct {
		Hospitals []json.RawMessage `json:"hospitals"`
		Offline   bool              `json:"offline"`
	}
	require.NoError(t, json.Unmarshal(resp.Body, &decoded))
	assert.NotNil(t, decoded.Hospitals)
	assert.Empty(t, decoded.Hospitals)
	assert.True(t, decoded.Offline)
}

func TestOfflineDirectory_CallersCannotCorruptEnvelope(t *testing.T) {
	f := services.NewFallbackSynthesizer()

	first := f.OfflineDirectory()
	first.Body[0] = 'X'

	second := f.OfflineDirectory()
	assert.Equal(t, byte('{'), second.Body[0])
}

func TestTilePlaceholder_IsDeterministicSVG(t *testing.T) {
	f := services.NewFallbackSynthesizer()

	a := f.TilePlaceholder()
	b := f.TilePlaceholder()
	assert.Equal(t, a.Body, b.Body)
	assert.Equal(t, "image/svg+xml", a.ContentType())
	assert.Contains(t, string(a.Body), "<svg")
	assert.Contains(t, string(a.Body), "Offline")
	assert.Equal(t, entities.SourceFallback, a.Source)
}

func TestOfflineStatus_Is503(t *testing.T) {
	f := services.NewFallbackSynthesizer()
	resp := f.OfflineStatus()

	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, []byte("Offline"), resp.Body)
	assert.False(t, resp.OK())
}

func TestOfflineDocument_IsValidHTML(t *testing.T) {
	f := services.NewFallbackSynthesizer()
	resp := f.OfflineDocument()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, resp.ContentType(), "text/html")
	assert.Contains(t, string(resp.Body), "<!DOCTYPE html>")
}
