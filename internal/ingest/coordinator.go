// Package ingest turns raw batches into catalog updates.
//
// A batch is filtered item by item (garbage is dropped silently) but
// committed all-or-nothing: either the surviving records replace the
// dynamic set in one publish, or the catalog is left exactly as it was.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"servicehub/internal/catalog"
	"servicehub/internal/classifier"
	"servicehub/internal/logger"
	synchub "servicehub/internal/sync"
	"servicehub/internal/upstream"
	"servicehub/pkg/models"
)

// ErrMalformed is returned for payloads that are not JSON at all.
var ErrMalformed = errors.New("malformed payload")

// Origins recorded on events.
const (
	OriginPush    = "push"
	OriginRefresh = "refresh"
)

// Publisher receives one event per ingestion attempt.
type Publisher interface {
	Publish(ev synchub.CatalogEvent)
}

// Coordinator runs classification and normalization over a batch and
// commits the result to the store.
type Coordinator struct {
	store      *catalog.Store
	classifier *classifier.Classifier
	publisher  Publisher
	log        *logger.Logger
}

// NewCoordinator wires a coordinator. publisher may be nil.
func NewCoordinator(store *catalog.Store, c *classifier.Classifier, pub Publisher, log *logger.Logger) *Coordinator {
	if log == nil {
		log = logger.Discard()
	}
	return &Coordinator{
		store:      store,
		classifier: c,
		publisher:  pub,
		log:        log.With("component", "ingest"),
	}
}

// Ingest decodes body as JSON and ingests it.
func (co *Coordinator) Ingest(ctx context.Context, body []byte) Result {
	v, err := upstream.Decode(body)
	if err != nil {
		return co.finish(OriginPush, failed(uuid.NewString(), fmt.Errorf("%w: %v", ErrMalformed, err)))
	}
	return co.IngestValue(ctx, v)
}

// IngestValue ingests an already decoded payload: {"services": [...]},
// a bare array, or a single record.
func (co *Coordinator) IngestValue(ctx context.Context, payload any) Result {
	return co.commit(OriginPush, Items(payload))
}

// Refresh pulls a payload from src and ingests it. Fetch failures leave
// the catalog untouched.
func (co *Coordinator) Refresh(ctx context.Context, src upstream.Source) Result {
	if src == nil {
		return co.finish(OriginRefresh, failed(uuid.NewString(), upstream.ErrNotConfigured))
	}

	start := time.Now()
	v, err := src.Fetch(ctx)
	if err != nil {
		return co.finish(OriginRefresh, failed(uuid.NewString(), err))
	}
	co.log.Debug("upstream fetched", "source", src.Name(), "took", time.Since(start))

	return co.commit(OriginRefresh, Items(UnwrapData(v)))
}

// Stage classifies and normalizes items without touching the store.
// It returns the survivors in input order and the number dropped.
func (co *Coordinator) Stage(items []any) ([]models.Service, int) {
	p := PlanItems(co.classifier, items)
	for _, d := range p.Dropped {
		co.log.Debug("dropping garbage item", "index", d.Index, "reason", string(d.Reason))
	}
	return p.Staged, len(p.Dropped)
}

func (co *Coordinator) commit(origin string, items []any) Result {
	batchID := uuid.NewString()

	staged, dropped := co.Stage(items)
	if len(staged) == 0 {
		return co.finish(origin, rejected(batchID, dropped))
	}

	snap := co.store.Replace(staged, batchID)
	res := accepted(batchID, len(staged), dropped, snap.Version)
	res.Total = len(snap.Records)
	return co.finish(origin, res)
}

// finish logs and publishes the outcome.
func (co *Coordinator) finish(origin string, res Result) Result {
	ev := synchub.CatalogEvent{
		BatchID: res.BatchID,
		Origin:  origin,
		Message: res.Message,
		At:      time.Now().UTC(),
	}

	switch res.Outcome {
	case Accepted:
		ev.Type = synchub.EventCatalogUpdated
		ev.Count = res.Count
		ev.Total = res.Total
		ev.Version = res.Version
		co.log.Info("batch accepted", "batch", res.BatchID, "origin", origin,
			"count", res.Count, "dropped", res.Dropped, "version", res.Version)
	case Rejected:
		ev.Type = synchub.EventIngestRejected
		co.log.Warn("batch rejected", "batch", res.BatchID, "origin", origin, "dropped", res.Dropped)
	default:
		ev.Type = synchub.EventIngestError
		co.log.Error("ingestion failed", "batch", res.BatchID, "origin", origin, "error", res.Err)
	}

	if co.publisher != nil {
		co.publisher.Publish(ev)
	}
	return res
}
