package services

import (
	"context"

	"servicehub/internal/catalog"
	"servicehub/internal/ingest"
	"servicehub/internal/upstream"
	"servicehub/pkg/models"
)

// Catalog is the read side the handlers need. *catalog.Store implements it.
type Catalog interface {
	Query(q catalog.Query) []models.Service
	Categories() []string
	Lookup(name string) (models.Service, bool)
	Snapshot() *catalog.Snapshot
}

// Ingester commits batches. *ingest.Coordinator implements it.
type Ingester interface {
	Ingest(ctx context.Context, body []byte) ingest.Result
	Refresh(ctx context.Context, src upstream.Source) ingest.Result
}

var (
	_ Catalog  = (*catalog.Store)(nil)
	_ Ingester = (*ingest.Coordinator)(nil)
)
