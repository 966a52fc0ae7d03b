package sync

import "time"

// Event types published after each ingestion attempt.
const (
	EventCatalogUpdated = "catalog.updated"
	EventIngestRejected = "ingest.rejected"
	EventIngestError    = "ingest.error"
)

// CatalogEvent tells subscribers what an ingestion did to the catalog.
type CatalogEvent struct {
	Type    string    `json:"type"`
	BatchID string    `json:"batch_id"`
	Origin  string    `json:"origin"`            // "push" or "refresh"
	Count   int       `json:"count,omitempty"`   // accepted records
	Total   int       `json:"total,omitempty"`   // catalog size after publish
	Version uint64    `json:"version,omitempty"` // snapshot version after publish
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}
