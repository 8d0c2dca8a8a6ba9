package entities

import "encoding/json"

// OfflineDirectoryMessage is the marker text in the degraded hospital envelope
const OfflineDirectoryMessage = "Offline mode - limited data available"

// OfflineHospitalDirectory is the envelope served for hospital-API requests
// when both cache and network are unavailable. The explicit offline marker
// lets the consuming UI distinguish "no data at all" from stale cached data.
type OfflineHospitalDirectory struct {
	Hospitals []json.RawMessage `json:"hospitals"`
	Offline   bool              `json:"offline"`
	Message   string            `json:"message"`
}

// NewOfflineHospitalDirectory returns the canonical empty offline envelope
func NewOfflineHospitalDirectory() *OfflineHospitalDirectory {
	return &OfflineHospitalDirectory{
		Hospitals: []json.RawMessage{},
		Offline:   true,
		Message:   OfflineDirectoryMessage,
	}
}
