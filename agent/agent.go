// Package agent implements the self-healing four-state agent described in
// SPEC_FULL §4.5: it watches a cached network tip against the local DAG,
// moves to DRIFTING when it falls behind, to RECOVERING while a
// StartRecovery runs, and reports PARTITIONED when the divergence is too
// deep to safely auto-heal.
package agent

import (
	"sync/atomic"

	"github.com/daglabs/phantomdag/blockdag"
	"github.com/daglabs/phantomdag/daghash"
	"github.com/daglabs/phantomdag/dagconfig"
	"github.com/daglabs/phantomdag/logger"
	"github.com/daglabs/phantomdag/util/panics"
)

var log, _ = logger.Get(logger.SubsystemTags.AGNT)

// BlockSource fetches a full block header by hash from wherever missing
// blocks actually live (a peer, a local archive, ...). It is an external
// collaborator: the agent package has no opinion on transport.
type BlockSource interface {
	FetchBlock(hash daghash.Hash) (*blockdag.BlockHeader, error)
}

// PeerChainSource supplies the peer's selected-parent chain, genesis-first,
// for use by GreedyPathIntersection. In production this is backed by a
// network round-trip; see recovery.LocalChainDerivation for the in-process
// derivation used when no peer is configured.
type PeerChainSource interface {
	PeerSelectedParentChain() ([]daghash.Hash, error)
}

// Agent owns the event loop driving the four-state machine.
type Agent struct {
	dag             *blockdag.DagStore
	blockSource     BlockSource
	peerChainSource PeerChainSource
	params          dagconfig.Params

	k             uint32
	state         State
	localTip      daghash.Hash
	networkTip    daghash.Hash
	hasNetworkTip bool

	commands chan Command
	events   chan Event
	done     chan struct{}

	started  int32
	shutdown int32

	spawn func(func())
}

// New creates an Agent over dag, with the given block and peer-chain
// collaborators. dag must already have a genesis block; New runs an initial
// coloring pass at params.K if the DAG has not been colored yet.
func New(dag *blockdag.DagStore, params dagconfig.Params, blockSource BlockSource, peerChainSource PeerChainSource) (*Agent, error) {
	if _, colored := dag.Coloring(); !colored {
		if _, err := blockdag.ColorDAG(dag, params.K); err != nil {
			return nil, err
		}
	}

	localTip, err := blockdag.BestTip(dag)
	if err != nil {
		return nil, err
	}

	return &Agent{
		dag:             dag,
		blockSource:     blockSource,
		peerChainSource: peerChainSource,
		params:          params,
		k:               params.K,
		state:           StateSynced,
		localTip:        localTip,
		commands:        make(chan Command, 32),
		events:          make(chan Event, 32),
		done:            make(chan struct{}),
		spawn:           panics.GoroutineWrapperFunc(log),
	}, nil
}

// Commands returns the channel callers send Command values on.
func (a *Agent) Commands() chan<- Command {
	return a.commands
}

// Events returns the channel callers receive Event values from.
func (a *Agent) Events() <-chan Event {
	return a.events
}

// LocalTip returns the agent's current view of the local tip.
func (a *Agent) LocalTip() daghash.Hash {
	return a.localTip
}

// State returns the agent's current state.
func (a *Agent) State() State {
	return a.state
}

// K returns the agent's current k parameter, as last set by UpdateKCommand
// or the parameters New was constructed with.
func (a *Agent) K() uint32 {
	return a.k
}

// Start launches the event loop in its own goroutine. Calling Start more
// than once is a no-op.
func (a *Agent) Start() {
	if atomic.AddInt32(&a.started, 1) != 1 {
		return
	}
	a.spawn(a.run)
}

// Stop requests the event loop exit. It is safe to call multiple times.
func (a *Agent) Stop() {
	if atomic.AddInt32(&a.shutdown, 1) != 1 {
		return
	}
	close(a.done)
}

func (a *Agent) run() {
	log.Infof("Agent event loop started, state=%s", a.state)
	for {
		select {
		case cmd, ok := <-a.commands:
			if !ok {
				log.Infof("Agent command channel closed, stopping")
				return
			}
			a.handle(cmd)
			if _, ok := cmd.(ShutdownCommand); ok {
				return
			}
		case <-a.done:
			log.Infof("Agent event loop stopping")
			return
		}
	}
}

func (a *Agent) handle(cmd Command) {
	switch c := cmd.(type) {
	case CheckDivergenceCommand:
		a.handleCheckDivergence(c)
	case StartRecoveryCommand:
		a.handleStartRecovery(c)
	case UpdateNetworkTipCommand:
		a.networkTip = c.Tip
		a.hasNetworkTip = true
	case UpdateKCommand:
		a.k = c.NewK
	case ShutdownCommand:
		log.Infof("Agent received Shutdown command")
	default:
		log.Warnf("Agent received unknown command %T", cmd)
	}
}

func (a *Agent) setState(to State) {
	if a.state == to {
		return
	}
	from := a.state
	a.state = to
	a.emit(StateChangedEvent{From: from, To: to})
}

func (a *Agent) emit(event Event) {
	select {
	case a.events <- event:
	default:
		log.Warnf("Agent event channel full, dropping %T", event)
	}
}

func (a *Agent) emitError(err error) {
	log.Errorf("Agent error: %+v", err)
	a.emit(ErrorEvent{Message: err.Error()})
}

// handleCheckDivergence implements SPEC_FULL §4.4/§4.5: it recomputes
// whether the local tip still sits on the peer's selected-parent chain and
// moves to DRIFTING or PARTITIONED depending on how deep the divergence is.
// Commands are handled one at a time, so the agent is only still RECOVERING
// here after a failed recovery attempt; CheckDivergence is evaluated then
// too, so that it can drive another attempt.
func (a *Agent) handleCheckDivergence(cmd CheckDivergenceCommand) {
	a.networkTip = cmd.NetworkTip
	a.hasNetworkTip = true

	peerChain, err := a.peerChainSource.PeerSelectedParentChain()
	if err != nil {
		a.emitError(err)
		return
	}

	diverged := !a.dag.Has(cmd.NetworkTip) || blockdag.HasDiverged(a.localTip, peerChain)
	if !diverged {
		return
	}

	result, err := blockdag.GreedyPathIntersection(a.dag, a.localTip, peerChain)
	if err != nil {
		a.emitError(err)
		return
	}

	threshold := a.params.PartitionThresholdMultiplier * a.k
	if uint32(result.DivergenceDepth) > threshold {
		a.setState(StatePartitioned)
	} else {
		a.setState(StateDrifting)
	}

	a.emit(DivergenceDetectedEvent{
		LocalTip:        a.localTip,
		NetworkTip:      cmd.NetworkTip,
		DivergenceDepth: result.DivergenceDepth,
	})
}

// handleStartRecovery implements the RECOVERING branch of SPEC_FULL §4.5:
// it fetches each missing block, skips any whose parents still aren't
// available, re-colors, and advances LocalTip only on success.
func (a *Agent) handleStartRecovery(cmd StartRecoveryCommand) {
	a.setState(StateRecovering)

	recovered := 0
	for _, hash := range cmd.MissingBlocks {
		header, err := a.blockSource.FetchBlock(hash)
		if err != nil {
			log.Warnf("Agent could not fetch missing block %s: %+v", hash, err)
			continue
		}

		err = a.dag.AddBlock(header)
		if err != nil {
			if ruleErr, ok := blockdag.AsRuleError(err); ok &&
				(ruleErr.ErrorCode == blockdag.ErrMissingParent || ruleErr.ErrorCode == blockdag.ErrDuplicateBlock) {
				continue
			}
			a.emitError(err)
			continue
		}
		recovered++
	}

	if _, err := blockdag.ColorDAG(a.dag, a.k); err != nil {
		a.emitError(err)
		return
	}

	newTip, err := blockdag.BestTip(a.dag)
	if err != nil {
		a.emitError(err)
		return
	}

	a.localTip = newTip
	a.setState(StateSynced)
	a.emit(RecoveryCompleteEvent{BlocksRecovered: recovered})
}
