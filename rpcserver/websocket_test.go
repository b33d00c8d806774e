package rpcserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/daglabs/phantomdag/agent"
	"github.com/gorilla/websocket"
)

func TestHandleEventsStreamsAgentEvents(t *testing.T) {
	dag := newColoredDag(t)
	server := New(":0", dag, nil)

	httpServer := httptest.NewServer(http.HandlerFunc(server.handleEvents))
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Give the server a moment to register the subscriber before publishing.
	time.Sleep(20 * time.Millisecond)
	server.broadcast.publish([]byte(`{"type":"StateChanged","data":{"from":"SYNCED","to":"DRIFTING"}}`))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if !strings.Contains(string(msg), "StateChanged") {
		t.Errorf("expected frame to contain StateChanged, got %s", msg)
	}
}

func TestWireEventMarshalsEveryVariant(t *testing.T) {
	cases := []agent.Event{
		agent.StateChangedEvent{From: agent.StateSynced, To: agent.StateDrifting},
		agent.DivergenceDetectedEvent{DivergenceDepth: 2},
		agent.RecoveryCompleteEvent{BlocksRecovered: 5},
		agent.ErrorEvent{Message: "boom"},
	}
	for _, event := range cases {
		frame := wireEvent(event)
		if frame.Type == "" || frame.Type == "Unknown" {
			t.Errorf("expected a concrete wire type for %T, got %q", event, frame.Type)
		}
	}
}
