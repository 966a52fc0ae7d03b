package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"servicehub/internal/classifier"
	"servicehub/internal/normalizer"
	"servicehub/pkg/models"
)

// ErrEmptyBaseline is returned when a baseline file holds no usable records.
var ErrEmptyBaseline = errors.New("baseline contains no valid records")

// defaultBaseline is the curated set shipped with the service. Its values
// are served exactly as written; only ingested records are normalized.
var defaultBaseline = []models.Service{
	{
		ServiceName:   "Passport Application (Ordinary)",
		Category:      "Government",
		PaybillNumber: "222222",
		AccountFormat: "eCitizen Invoice No",
		Cost:          "34 Pages: Ksh 7,550 | 50 Pages: Ksh 9,550 | 66 Pages: Ksh 12,050",
		Requirements:  "ID, Birth Cert, Parents IDs, Recommender ID",
		ProcessSteps:  "Apply via eCitizen -> Immigration. Booking required.",
		SourceURL:     "https://immigration.go.ke",
	},
	{
		ServiceName:   "National ID (First Time)",
		Category:      "Government",
		PaybillNumber: "222222",
		AccountFormat: "eCitizen Invoice No",
		Cost:          "Ksh 300",
		Requirements:  "Birth Cert, Parents IDs, Proof of Residence",
		ProcessSteps:  "Must be done in person at Huduma Center/Registrar",
		SourceURL:     "https://identity.go.ke",
	},
	{
		ServiceName:   "Equity Bank (Mobile)",
		Category:      "Banking",
		PaybillNumber: "247247",
		AccountFormat: "Bank Account Number",
		Cost:          "Transaction Fee",
		Requirements:  models.NoRequirements,
		ProcessSteps:  "Dial USSD *247# for menu",
		SourceURL:     "https://equitygroupholdings.com",
	},
	{
		ServiceName:   "KCB Bank (Mobile)",
		Category:      "Banking",
		PaybillNumber: "522522",
		AccountFormat: "Bank Account Number",
		Cost:          "Transaction Fee",
		Requirements:  models.NoRequirements,
		ProcessSteps:  "Dial USSD *522# for menu",
		SourceURL:     "https://kcbgroup.com",
	},
	{
		ServiceName:   "DSTV Kenya",
		Category:      "Entertainment",
		PaybillNumber: "444900",
		AccountFormat: "Smart Card Number",
		Cost:          "Subscription Plan",
		Requirements:  models.NoRequirements,
		ProcessSteps:  "Ensure decoder is on when paying",
		SourceURL:     "https://dstv.com",
	},
}

// DefaultBaseline returns a copy of the built-in baseline.
func DefaultBaseline() []models.Service {
	return slices.Clone(defaultBaseline)
}

// LoadBaseline reads a JSON array of raw records from path, drops garbage
// and normalizes the rest.
func LoadBaseline(path string, c *classifier.Classifier) ([]models.Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read baseline %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	var raws []any
	if err := dec.Decode(&raws); err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", path, err)
	}

	out := make([]models.Service, 0, len(raws))
	for _, raw := range raws {
		if c.IsGarbage(raw) {
			continue
		}
		out = append(out, normalizer.Normalize(raw.(map[string]any)))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyBaseline)
	}
	return out, nil
}
