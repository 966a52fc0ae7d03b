package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// ingestResponse is the body of POST /api/services and POST /api/refresh.
type ingestResponse struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

func ingestCmd(cl *client) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file.json|file.csv>",
		Short: "Push a batch of raw records to the catalog",
		Long: `Push a batch to POST /api/services. The batch replaces the dynamic
portion of the catalog when at least one record survives cleaning.

JSON files are sent as-is. CSV files need a header row; each data row
becomes one raw record keyed by the header names.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBatch(args[0])
			if err != nil {
				return err
			}
			return cl.postBatch(cmd, "/api/services", body)
		},
	}
}

func refreshCmd(cl *client) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Ask the server to pull a fresh batch from its upstream source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cl.postBatch(cmd, "/api/refresh", nil)
		},
	}
}

func (cl *client) postBatch(cmd *cobra.Command, path string, body []byte) error {
	var payload io.Reader
	if body != nil {
		payload = bytes.NewReader(body)
	}

	var res ingestResponse
	err := cl.doJSON(cmd.Context(), http.MethodPost, cl.endpoint(path, nil), payload, &res)

	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity {
		return fmt.Errorf("batch rejected: %s", apiErr.Body)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "accepted %d service(s)\n", res.Count)
	return nil
}

// readBatch loads a batch file, converting CSV into a JSON array.
func readBatch(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return io.ReadAll(f)
	}

	records, err := csvRecords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return json.Marshal(records)
}

// csvRecords turns a CSV stream into raw records keyed by the trimmed
// header names. Empty cells are left out so the server applies its own
// defaults.
func csvRecords(r io.Reader) ([]map[string]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	out := []map[string]any{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		rec := make(map[string]any, len(header))
		for i, name := range header {
			if name == "" || i >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[i]); v != "" {
				rec[name] = v
			}
		}
		if len(rec) > 0 {
			out = append(out, rec)
		}
	}
	return out, nil
}
