package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	synchub "servicehub/internal/sync"
)

func watchCmd(cl *client) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream catalog change events over WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			wsURL, err := websocketURL(cl.baseURL, "/ws")
			if err != nil {
				return err
			}

			conn, _, err := websocket.DefaultDialer.DialContext(cmd.Context(), wsURL, nil)
			if err != nil {
				return fmt.Errorf("dial %s: %w", wsURL, err)
			}
			defer conn.Close()

			fmt.Fprintf(cmd.ErrOrStderr(), "[watch] connected to %s\n", wsURL)
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return err
				}
				printEvent(cmd.OutOrStdout(), msg, raw)
			}
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print raw JSON messages")
	return cmd
}

func printEvent(w io.Writer, msg []byte, raw bool) {
	var ev synchub.CatalogEvent
	if raw || json.Unmarshal(msg, &ev) != nil || ev.BatchID == "" {
		fmt.Fprintln(w, string(msg))
		return
	}

	at := ev.At.Local().Format(time.TimeOnly)
	if ev.Type == synchub.EventCatalogUpdated {
		fmt.Fprintf(w, "%s %s via %s: %d new, %d total (v%d)\n", at, ev.Type, ev.Origin, ev.Count, ev.Total, ev.Version)
		return
	}
	fmt.Fprintf(w, "%s %s via %s: %s\n", at, ev.Type, ev.Origin, ev.Message)
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid API URL %q", baseURL)
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{
		Scheme: scheme,
		Host:   u.Host,
		Path:   path,
	}).String(), nil
}
