// Package upstream fetches raw service batches from the external automation
// source for pull-based refreshes.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Upstream failures. Callers match them with errors.Is.
var (
	ErrNotConfigured = errors.New("upstream source not configured")
	ErrRateLimited   = errors.New("upstream refresh rate limit exceeded")
	ErrStatus        = errors.New("upstream returned non-success status")
	ErrDecode        = errors.New("upstream body is not valid JSON")
)

// Source is implemented by anything that can produce a raw ingestion
// payload. The returned value is decoded JSON (numbers as json.Number).
type Source interface {
	Name() string
	Fetch(ctx context.Context) (any, error)
}

// maxBody caps how much of an upstream response we read.
const maxBody = 8 << 20

// HTTPSource fetches a JSON document with GET. Calls are throttled by a
// token bucket so a busy refresh endpoint cannot hammer the upstream.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	limiter *rate.Limiter
}

// Options configure an HTTPSource.
type Options struct {
	Timeout           time.Duration
	RequestsPerMinute float64 // <= 0 disables throttling
	Burst             int
}

// NewHTTPSource creates a source for url.
func NewHTTPSource(url string, opts Options) *HTTPSource {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(opts.RequestsPerMinute / 60)
	}

	return &HTTPSource{
		URL:     strings.TrimSpace(url),
		Client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(limit, opts.Burst),
	}
}

func (s *HTTPSource) Name() string { return s.URL }

// Fetch performs one GET. It never waits for the limiter: an exhausted
// bucket fails fast with ErrRateLimited.
func (s *HTTPSource) Fetch(ctx context.Context) (any, error) {
	if s == nil || s.URL == "" {
		return nil, ErrNotConfigured
	}
	if !s.limiter.Allow() {
		return nil, ErrRateLimited
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("upstream: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	v, err := Decode(body)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Decode parses a JSON document keeping numbers as json.Number, so numeric
// paybills survive with their original text.
func Decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrDecode)
	}
	return v, nil
}
