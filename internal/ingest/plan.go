package ingest

import (
	"servicehub/internal/classifier"
	"servicehub/internal/normalizer"
	"servicehub/pkg/models"
)

// Drop records one discarded item.
type Drop struct {
	Index  int               `json:"index"`
	Reason classifier.Reason `json:"reason"`
}

// Plan is what ingesting a batch would produce, computed without touching
// any store.
type Plan struct {
	Staged  []models.Service `json:"staged"`
	Dropped []Drop           `json:"dropped"`
}

// Accepts reports whether the batch would be committed.
func (p Plan) Accepts() bool {
	return len(p.Staged) > 0
}

// PlanItems classifies and normalizes items in order.
func PlanItems(c *classifier.Classifier, items []any) Plan {
	p := Plan{Staged: make([]models.Service, 0, len(items))}
	for i, raw := range items {
		if reason := c.Reason(raw); reason != classifier.ReasonNone {
			p.Dropped = append(p.Dropped, Drop{Index: i, Reason: reason})
			continue
		}
		p.Staged = append(p.Staged, normalizer.Normalize(raw.(map[string]any)))
	}
	return p
}
