package normalizer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fields gives alias-aware, optional access to an untyped raw record.
// It is the only place that knows raw records are map[string]any.
type Fields map[string]any

// First returns the first alias whose value is present and non-empty once
// stringified. Whitespace-only values count as empty.
func (f Fields) First(aliases ...string) (string, bool) {
	for _, k := range aliases {
		v, ok := f[k]
		if !ok {
			continue
		}
		if s, ok := stringify(v); ok {
			return s, true
		}
	}
	return "", false
}

// stringify renders a decoded JSON value as trimmed text.
func stringify(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		s = x
	case json.Number:
		s = x.String()
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool, int, int64, int32, uint, uint64:
		s = fmt.Sprint(x)
	default:
		// nested objects/arrays: keep their JSON text rather than Go syntax
		b, err := json.Marshal(x)
		if err != nil {
			s = fmt.Sprint(x)
		} else {
			s = string(b)
		}
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
