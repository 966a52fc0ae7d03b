package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"servicehub/internal/classifier"
	"servicehub/internal/config"
	"servicehub/internal/ingest"
	"servicehub/internal/logger"
	"servicehub/internal/upstream"
)

// scraper pulls one batch from the upstream source, reports what the
// ingestion pipeline would keep, and optionally pushes the raw batch to a
// running api-server.
func main() {
	configPath := flag.String("config", "", "path to YAML config (default $SERVICEHUB_CONFIG)")
	sourceURL := flag.String("url", "", "upstream URL (overrides config)")
	push := flag.String("push", "", "api-server base URL to POST the batch to, e.g. http://localhost:8080")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *sourceURL != "" {
		cfg.Upstream.URL = *sourceURL
	}

	log := logger.New(cfg.Logging.Level).With("component", "scraper")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	src := upstream.NewHTTPSource(cfg.Upstream.URL, upstream.Options{Timeout: cfg.Upstream.Timeout()})
	v, err := src.Fetch(ctx)
	if err != nil {
		log.Error("fetch failed", "source", cfg.Upstream.URL, "error", err)
		os.Exit(1)
	}

	items := ingest.Items(ingest.UnwrapData(v))
	plan := ingest.PlanItems(classifier.New(cfg.Classifier), items)

	log.Info("fetched batch", "items", len(items), "staged", len(plan.Staged), "dropped", len(plan.Dropped))
	for _, d := range plan.Dropped {
		log.Info("garbage item", "index", d.Index, "reason", string(d.Reason))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(plan); err != nil {
		log.Error("write plan", "error", err)
		os.Exit(1)
	}

	if *push == "" {
		return
	}
	if !plan.Accepts() {
		log.Warn("not pushing: batch has no valid records")
		os.Exit(2)
	}

	if err := pushBatch(ctx, strings.TrimRight(*push, "/"), items); err != nil {
		log.Error("push failed", "error", err)
		os.Exit(1)
	}
	log.Info("batch pushed", "api", *push)
}

// pushBatch posts the raw items; the server classifies them again.
func pushBatch(ctx context.Context, baseURL string, items []any) error {
	body, err := json.Marshal(map[string]any{"services": items})
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/services", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := (&http.Client{Timeout: 15 * time.Second}).Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
