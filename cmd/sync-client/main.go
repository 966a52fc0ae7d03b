package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	synchub "servicehub/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP sync server address")
	raw := flag.Bool("raw", false, "print raw JSON lines")
	flag.Parse()

	for {
		if err := run(*addr, *raw); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()
		if raw {
			fmt.Println(string(line))
			continue
		}
		fmt.Println(formatEvent(line))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

// formatEvent renders a catalog event as one readable line; anything that
// is not an event is printed as-is.
func formatEvent(line []byte) string {
	var ev synchub.CatalogEvent
	if err := json.Unmarshal(line, &ev); err != nil || ev.BatchID == "" {
		return string(line)
	}

	at := ev.At.Local().Format(time.TimeOnly)
	switch ev.Type {
	case synchub.EventCatalogUpdated:
		return fmt.Sprintf("%s %-16s %s batch=%s count=%d total=%d version=%d",
			at, ev.Type, ev.Origin, ev.BatchID, ev.Count, ev.Total, ev.Version)
	default:
		return fmt.Sprintf("%s %-16s %s batch=%s message=%q", at, ev.Type, ev.Origin, ev.BatchID, ev.Message)
	}
}
