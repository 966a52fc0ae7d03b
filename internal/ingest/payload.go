package ingest

// Items extracts the raw item list from a payload: the "services" value of a
// mapping when present, the payload itself when it is a sequence, and a
// one-element sequence otherwise.
func Items(payload any) []any {
	v := payload
	if m, ok := payload.(map[string]any); ok {
		if s, ok := m["services"]; ok {
			v = s
		}
	}

	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}

// UnwrapData strips the {"data": [...]} envelope used by the upstream
// automation source. Anything else passes through for normal extraction.
func UnwrapData(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if d, ok := m["data"]; ok {
		return d
	}
	return v
}
