// Package rpcserver serves the snapshot/health/submit contract described in
// SPEC_FULL §6 over HTTP and relays agent events over a WebSocket, in the
// teacher's apiserver/server idiom (gorilla/mux router, a thin handler
// wrapper that separates transport from response-building).
package rpcserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/daglabs/phantomdag/agent"
	"github.com/daglabs/phantomdag/blockdag"
	"github.com/daglabs/phantomdag/logger"
	"github.com/gorilla/mux"
)

var log, _ = logger.Get(logger.SubsystemTags.RPCS)

// Server serves SPEC_FULL §6's wire contract over HTTP and WebSocket.
type Server struct {
	dag   *blockdag.DagStore
	agent *agent.Agent

	httpServer *http.Server
	broadcast  *eventBroadcaster
}

// New creates a Server bound to listenAddr. a may be nil, in which case
// GET /health reports AgentStateInit and POST /submit still serves tip
// guidance purely from the DAG.
func New(listenAddr string, dag *blockdag.DagStore, a *agent.Agent) *Server {
	s := &Server{
		dag:       dag,
		agent:     a,
		broadcast: newEventBroadcaster(),
	}

	router := mux.NewRouter()
	router.HandleFunc("/snapshot", makeHandler(s.handleSnapshot)).Methods(http.MethodGet)
	router.HandleFunc("/health", makeHandler(s.handleHealth)).Methods(http.MethodGet)
	router.HandleFunc("/submit", makeHandler(s.handleSubmit)).Methods(http.MethodPost)
	router.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	s.httpServer = &http.Server{Addr: listenAddr, Handler: router}
	return s
}

// Start launches the HTTP listener in its own goroutine and, if an agent
// was supplied, a goroutine relaying its events into the WebSocket
// broadcaster. It returns immediately; ListenAndServe errors are logged,
// not returned, matching the teacher's apiserver.server.Start shape.
func (s *Server) Start() {
	if s.agent != nil {
		go s.relayAgentEvents()
	}
	go func() {
		log.Infof("Wire server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("Wire server stopped: %+v", err)
		}
	}()
}

// Stop gracefully shuts down the HTTP listener and closes every connected
// WebSocket client.
func (s *Server) Stop() error {
	s.broadcast.closeAll()
	return s.httpServer.Shutdown(context.Background())
}

func (s *Server) relayAgentEvents() {
	for event := range s.agent.Events() {
		frame, err := json.Marshal(wireEvent(event))
		if err != nil {
			log.Warnf("Wire server could not marshal event %T: %+v", event, err)
			continue
		}
		s.broadcast.publish(frame)
	}
}

// makeHandler adapts a (request) -> (response, error) function into an
// http.HandlerFunc, following the teacher's apiserver/server.makeHandler
// split between transport plumbing and response-building.
func makeHandler(handler func(r *http.Request) (interface{}, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response, status, err := handler(r)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			if status == 0 {
				status = http.StatusInternalServerError
			}
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}
}
