package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:8080"

var Version = "dev"

// client carries the global flags shared by every subcommand.
type client struct {
	baseURL string
	http    *http.Client
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cl := &client{http: &http.Client{Timeout: 15 * time.Second}}

	rootCmd := &cobra.Command{
		Use:           "servicehub",
		Short:         "servicehub - query and feed the service payment catalog",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cl.baseURL, "api", envOr("SERVICEHUB_API", defaultBaseURL), "API base URL")

	rootCmd.AddCommand(servicesCmd(cl))
	rootCmd.AddCommand(categoriesCmd(cl))
	rootCmd.AddCommand(ingestCmd(cl))
	rootCmd.AddCommand(refreshCmd(cl))
	rootCmd.AddCommand(exportCmd(cl))
	rootCmd.AddCommand(watchCmd(cl))

	return rootCmd
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (cl *client) endpoint(path string, query url.Values) string {
	u := strings.TrimRight(cl.baseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// apiError is a non-2xx answer from the API. Body holds the decoded
// message when the server sent one.
type apiError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s %s failed (%d): %s", e.Method, e.URL, e.Status, e.Body)
}

func (cl *client) doJSON(ctx context.Context, method, endpoint string, payload io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := cl.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return &apiError{Method: method, URL: endpoint, Status: resp.StatusCode, Body: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// errorMessage pulls "message" or "error" out of a JSON error body.
func errorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return strings.TrimSpace(string(data))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
