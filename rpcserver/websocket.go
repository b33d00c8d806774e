package rpcserver

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsOutboxSize bounds each client's pending-frame queue. A client that
// cannot keep up is marked lagged and has frames dropped for it alone,
// per SPEC_FULL §5's lossy-broadcast discipline.
const wsOutboxSize = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// eventBroadcaster fans agent event frames out to every subscribed
// WebSocket client via a small bounded outbox per client.
type eventBroadcaster struct {
	mtx     sync.Mutex
	clients map[*wsClient]struct{}
}

func newEventBroadcaster() *eventBroadcaster {
	return &eventBroadcaster{clients: make(map[*wsClient]struct{})}
}

type wsClient struct {
	conn   *websocket.Conn
	outbox chan []byte
	lagged bool
}

func (b *eventBroadcaster) subscribe(conn *websocket.Conn) *wsClient {
	client := &wsClient{conn: conn, outbox: make(chan []byte, wsOutboxSize)}
	b.mtx.Lock()
	b.clients[client] = struct{}{}
	b.mtx.Unlock()
	return client
}

func (b *eventBroadcaster) unsubscribe(client *wsClient) {
	b.mtx.Lock()
	delete(b.clients, client)
	b.mtx.Unlock()
	close(client.outbox)
}

// publish fans frame out to every subscriber's outbox. A subscriber whose
// outbox is full is marked lagged and the frame is dropped for it only;
// publish never blocks on a slow client.
func (b *eventBroadcaster) publish(frame []byte) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	for client := range b.clients {
		select {
		case client.outbox <- frame:
		default:
			client.lagged = true
			log.Warnf("Wire server WebSocket client lagged, dropping frame")
		}
	}
}

func (b *eventBroadcaster) closeAll() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	for client := range b.clients {
		_ = client.conn.Close()
		delete(b.clients, client)
	}
}

// handleEvents upgrades the request to a WebSocket and streams agent
// events as one JSON frame per line until the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("Wire server WebSocket upgrade failed: %+v", err)
		return
	}

	client := s.broadcast.subscribe(conn)
	defer func() {
		s.broadcast.unsubscribe(client)
		_ = conn.Close()
	}()

	// Drain and discard anything the client sends; this endpoint is
	// publish-only. A read error (including a client-initiated close)
	// ends the session.
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				_ = conn.Close()
				return
			}
		}
	}()

	for frame := range client.outbox {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}
