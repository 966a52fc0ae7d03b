package sync

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTCP(t *testing.T, hub *Hub) *Server {
	t.Helper()
	srv := NewServer("127.0.0.1:0", hub)
	go func() { _ = srv.Run() }()
	require.Eventually(t, func() bool { return srv.ListenAddr() != "" }, 2*time.Second, 10*time.Millisecond)
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestTCPSubscriberReceivesEvents(t *testing.T) {
	hub := NewHub(nil)
	srv := startTCP(t, hub)

	conn, err := net.Dial("tcp", srv.ListenAddr())
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"type":"welcome"`)
	assert.Contains(t, line, `"clients":1`)
	require.Eventually(t, func() bool { return hub.Stats().TCPClients == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(CatalogEvent{Type: EventCatalogUpdated, BatchID: "b1", Origin: "push", Count: 3, Total: 8, Version: 1})

	line, err = r.ReadString('\n')
	require.NoError(t, err)

	var ev CatalogEvent
	require.NoError(t, json.Unmarshal([]byte(line), &ev))
	assert.Equal(t, EventCatalogUpdated, ev.Type)
	assert.Equal(t, "b1", ev.BatchID)
	assert.Equal(t, 3, ev.Count)
	assert.False(t, ev.At.IsZero())
}

func TestTCPSubscriberRemovedOnDisconnect(t *testing.T) {
	hub := NewHub(nil)
	srv := startTCP(t, hub)

	conn, err := net.Dial("tcp", srv.ListenAddr())
	require.NoError(t, err)
	_, _ = bufio.NewReader(conn).ReadString('\n')
	require.Eventually(t, func() bool { return hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	_ = conn.Close()
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestServer_CloseStopsRun(t *testing.T) {
	hub := NewHub(nil)
	srv := NewServer("127.0.0.1:0", hub)

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()
	require.Eventually(t, func() bool { return srv.ListenAddr() != "" }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, srv.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestServer_CloseBeforeRun(t *testing.T) {
	srv := NewServer("127.0.0.1:0", NewHub(nil))
	require.NoError(t, srv.Close())

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept listening after an earlier Close")
	}
	assert.Empty(t, srv.ListenAddr())
}

func TestHub_WelcomeBeforeRegistration(t *testing.T) {
	hub := NewHub(nil)
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() { _ = hub.Welcome(server) }()

	line, err := bufio.NewReader(client).ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"transport":"tcp"`)
	assert.Equal(t, 0, hub.Count())

	// a subscriber that never reads must not block the greeting forever
	stalled, peer := net.Pipe()
	defer stalled.Close()
	defer peer.Close()

	start := time.Now()
	assert.Error(t, hub.Welcome(stalled))
	assert.Less(t, time.Since(start), writeTimeout+time.Second)
}

func TestWebSocketSubscriberReceivesEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(nil)

	r := gin.New()
	r.GET("/ws", WSHandler(hub))
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer ws.Close()
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))

	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "welcome")

	require.Eventually(t, func() bool { return hub.Stats().WSClients == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish(CatalogEvent{Type: EventIngestRejected, BatchID: "b2", Message: "no valid records"})

	_, msg, err = ws.ReadMessage()
	require.NoError(t, err)
	var ev CatalogEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, EventIngestRejected, ev.Type)
	assert.Equal(t, "no valid records", ev.Message)
}
