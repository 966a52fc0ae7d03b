// Package classifier decides whether a raw record is a real service entry
// or scraper junk (markup fragments, placeholder names).
package classifier

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Policy is the declarative rule set the classifier applies to a record's
// candidate name. It is loaded from configuration so the denylist can be
// extended without touching the algorithm.
type Policy struct {
	// Tokens are substrings that mark a name as a markup/styling fragment.
	// Matched against the lowercased name.
	Tokens []string `yaml:"denylist_tokens"`
	// Chars is a set of raw characters that must not appear in a name.
	Chars string `yaml:"denylist_chars"`
	// MinNameLength is the shortest accepted name, in runes.
	MinNameLength int `yaml:"min_name_length"`
}

// DefaultPolicy guards against HTML/CSS fragments leaking through a scraper.
func DefaultPolicy() Policy {
	return Policy{
		Tokens: []string{
			"z-index", "width", "height", "padding", "margin",
			"charset", "viewport", "var(", "function",
		},
		Chars:         "&;{",
		MinNameLength: 3,
	}
}

// nameKeys are the raw keys a candidate name is read from, in priority order.
var nameKeys = []string{"service_name", "title"}

// Reason identifies which rule rejected a record. The zero value means the
// record is not garbage.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonNotMapping Reason = "not_mapping"
	ReasonDenyToken  Reason = "deny_token"
	ReasonDenyChar   Reason = "deny_char"
	ReasonTooShort   Reason = "too_short"
	ReasonDigitsOnly Reason = "digits_only"
)

// Classifier applies a Policy. It holds no mutable state and is safe for
// concurrent use.
type Classifier struct {
	policy Policy
}

// New creates a classifier. Tokens are lowercased once here so matching
// stays case-insensitive regardless of how the policy was written.
func New(p Policy) *Classifier {
	tokens := make([]string, 0, len(p.Tokens))
	for _, t := range p.Tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	p.Tokens = tokens
	return &Classifier{policy: p}
}

// Policy returns the effective rule set.
func (c *Classifier) Policy() Policy {
	return c.policy
}

// IsGarbage reports whether raw is not a real service entry.
func (c *Classifier) IsGarbage(raw any) bool {
	return c.Reason(raw) != ReasonNone
}

// Reason runs the rules in order and returns the first one that fires.
func (c *Classifier) Reason(raw any) Reason {
	rec, ok := raw.(map[string]any)
	if !ok {
		return ReasonNotMapping
	}

	name := strings.ToLower(candidateName(rec))

	for _, t := range c.policy.Tokens {
		if strings.Contains(name, t) {
			return ReasonDenyToken
		}
	}
	if c.policy.Chars != "" && strings.ContainsAny(name, c.policy.Chars) {
		return ReasonDenyChar
	}
	if utf8.RuneCountInString(name) < c.policy.MinNameLength {
		return ReasonTooShort
	}
	if allDigits(name) {
		return ReasonDigitsOnly
	}
	return ReasonNone
}

// candidateName returns the first non-empty name key, or "".
func candidateName(rec map[string]any) string {
	for _, k := range nameKeys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		s, isStr := v.(string)
		if !isStr {
			s = fmt.Sprint(v)
		}
		if s != "" {
			return s
		}
	}
	return ""
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
