package catalog

import (
	"sort"
	"strings"

	"servicehub/pkg/models"
)

// AllCategories is the category value meaning "no category filter".
const AllCategories = "all"

// Query narrows a catalog read. Both filters are optional and combine
// with AND.
type Query struct {
	Category string // exact, case-insensitive; "" or "all" disables
	Search   string // substring of name, requirements or paybill
}

// Filter returns the records matching q, preserving catalog order.
func Filter(records []models.Service, q Query) []models.Service {
	category := strings.TrimSpace(q.Category)
	if strings.EqualFold(category, AllCategories) {
		category = ""
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]models.Service, 0, len(records))
	for _, r := range records {
		if category != "" && !strings.EqualFold(r.Category, category) {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r models.Service, kw string) bool {
	return strings.Contains(strings.ToLower(r.ServiceName), kw) ||
		strings.Contains(strings.ToLower(r.Requirements), kw) ||
		strings.Contains(strings.ToLower(r.PaybillNumber), kw)
}

// Categories returns the distinct categories, sorted.
func Categories(records []models.Service) []string {
	seen := make(map[string]struct{}, len(records))
	out := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	sort.Strings(out)
	return out
}

// Lookup finds the first record whose name matches, ignoring case.
func Lookup(records []models.Service, name string) (models.Service, bool) {
	name = strings.TrimSpace(name)
	for _, r := range records {
		if strings.EqualFold(r.ServiceName, name) {
			return r, true
		}
	}
	return models.Service{}, false
}

// Query runs q against the current snapshot.
func (s *Store) Query(q Query) []models.Service {
	return Filter(s.Snapshot().Records, q)
}

// Categories lists the categories of the current snapshot.
func (s *Store) Categories() []string {
	return Categories(s.Snapshot().Records)
}

// Lookup finds a record by name in the current snapshot.
func (s *Store) Lookup(name string) (models.Service, bool) {
	return Lookup(s.Snapshot().Records, name)
}
