package rpcserver

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/daglabs/phantomdag/agent"
	"github.com/daglabs/phantomdag/daghash"
	"github.com/daglabs/phantomdag/snapshot"
	"github.com/pkg/errors"
)

// handleSnapshot serves GET /snapshot: a full DagSnapshot built from the
// current coloring.
func (s *Server) handleSnapshot(_ *http.Request) (interface{}, int, error) {
	snap, err := snapshot.BuildDagSnapshot(s.dag)
	if err != nil {
		return nil, http.StatusConflict, err
	}
	return snap, http.StatusOK, nil
}

// handleHealth serves GET /health: the agent's current state and a coarse
// blue/red health signal. If no agent is wired, it reports AgentStateInit.
func (s *Server) handleHealth(_ *http.Request) (interface{}, int, error) {
	var currentK uint32
	state := snapshot.AgentStateInit
	if s.agent != nil {
		currentK = s.agent.K()
		state = s.agent.State().String()
	}

	health, err := snapshot.BuildAgentHealth(s.dag, currentK, state)
	if err != nil {
		return nil, http.StatusConflict, err
	}
	return health, http.StatusOK, nil
}

// handleSubmit serves POST /submit: tip-selection guidance for a block the
// caller is about to mine. It never mutates the DAG -- the caller is
// expected to derive a hash from the suggested parents and call AddBlock
// through the ingestion interface separately.
func (s *Server) handleSubmit(r *http.Request) (interface{}, int, error) {
	var req snapshot.SmartSubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(err, "invalid submit request body")
	}
	if _, err := hex.DecodeString(req.Payload); err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(err, "payload must be hex-encoded")
	}

	count := snapshot.ClampParentCount(req.ParentCount)
	parents, scores, err := snapshot.SelectParentsForSubmit(s.dag, count)
	if err != nil {
		return nil, http.StatusConflict, err
	}

	return &snapshot.SmartSubmitResponse{
		Accepted:           len(parents) > 0,
		SelectedParents:    daghash.Strings(parents),
		ParentBlueScores:   scores,
		SuggestedTimestamp: time.Now().UnixMilli(),
	}, http.StatusOK, nil
}

// wireEventFrame is the JSON shape streamed by GET /events, one per line,
// per SPEC_FULL §6.
type wireEventFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// wireEvent adapts an agent.Event into its wire frame.
func wireEvent(event agent.Event) wireEventFrame {
	switch e := event.(type) {
	case agent.StateChangedEvent:
		return wireEventFrame{Type: "StateChanged", Data: map[string]string{
			"from": e.From.String(),
			"to":   e.To.String(),
		}}
	case agent.DivergenceDetectedEvent:
		return wireEventFrame{Type: "DivergenceDetected", Data: map[string]interface{}{
			"local_tip":        e.LocalTip.String(),
			"network_tip":      e.NetworkTip.String(),
			"divergence_depth": e.DivergenceDepth,
		}}
	case agent.RecoveryCompleteEvent:
		return wireEventFrame{Type: "RecoveryComplete", Data: map[string]interface{}{
			"blocks_recovered": e.BlocksRecovered,
		}}
	case agent.ErrorEvent:
		return wireEventFrame{Type: "Error", Data: map[string]string{"message": e.Message}}
	default:
		return wireEventFrame{Type: "Unknown"}
	}
}
