// Package normalizer maps heterogeneous raw records onto models.Service.
//
// Every external shape is resolved here: aliased keys, missing fields and
// placeholder junk ("nan", "undefined", ...) all end up as either a real
// value or a sentinel. Normalize never fails.
package normalizer

import (
	"strings"
	"unicode"

	"servicehub/pkg/models"
)

// Alias lists, tried in order.
var (
	serviceNameKeys = []string{"service_name", "title"}
	categoryKeys    = []string{"category"}
	paybillKeys     = []string{"paybill_number", "paybill", "Paybill"}
	accountKeys     = []string{"account_format"}
	costKeys        = []string{"cost"}
	requirementKeys = []string{"requirements"}
	stepsKeys       = []string{"process_steps"}
	sourceURLKeys   = []string{"source_url"}
)

// Placeholder strings some scrapers emit instead of leaving a field out.
// Compared case-insensitively.
var (
	paybillJunk = []string{"nan", "none", "undefined"}
	costJunk    = []string{"none", "null", "undefined"}
)

// Normalize maps raw onto a fully populated Service.
func Normalize(raw map[string]any) models.Service {
	f := Fields(raw)

	return models.Service{
		ServiceName:   TitleCase(resolve(f, serviceNameKeys, models.UnknownServiceName, nil)),
		Category:      TitleCase(resolve(f, categoryKeys, models.DefaultCategory, nil)),
		PaybillNumber: resolve(f, paybillKeys, models.UnknownPaybill, paybillJunk),
		AccountFormat: resolve(f, accountKeys, models.DefaultAccount, nil),
		Cost:          resolve(f, costKeys, models.DefaultCost, costJunk),
		Requirements:  resolve(f, requirementKeys, models.NoRequirements, nil),
		ProcessSteps:  resolve(f, stepsKeys, models.DefaultProcessSteps, nil),
		SourceURL:     resolve(f, sourceURLKeys, models.NoSourceURL, nil),
	}
}

// NormalizeAll maps each record in order.
func NormalizeAll(raws []map[string]any) []models.Service {
	out := make([]models.Service, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r))
	}
	return out
}

// resolve picks the first usable alias, falling back when nothing is set or
// the resolved value is one of the junk placeholders.
func resolve(f Fields, aliases []string, fallback string, junk []string) string {
	v, ok := f.First(aliases...)
	if !ok {
		return fallback
	}
	for _, j := range junk {
		if strings.EqualFold(v, j) {
			return fallback
		}
	}
	return v
}

// TitleCase uppercases the first letter of each whitespace-delimited word
// and lowercases the rest. Leading punctuation is skipped, so "(ordinary)"
// becomes "(Ordinary)"; a word starting with a digit is only lowercased.
// Runs of whitespace collapse to a single space.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		for j, r := range runes {
			if unicode.IsLetter(r) {
				runes[j] = unicode.ToUpper(r)
				break
			}
			if unicode.IsDigit(r) {
				break
			}
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
