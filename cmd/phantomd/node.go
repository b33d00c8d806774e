package main

import (
	"sync/atomic"

	"github.com/daglabs/phantomdag/agent"
	"github.com/daglabs/phantomdag/blockdag"
	"github.com/daglabs/phantomdag/config"
	"github.com/daglabs/phantomdag/daghash"
	"github.com/daglabs/phantomdag/recovery"
	"github.com/daglabs/phantomdag/rpcserver"
)

// phantomd wraps every long-lived service this process runs, in the
// teacher's kaspad-wrapper idiom (kaspad.go's kaspad struct): a plain
// struct with atomic started/shutdown guards and start/stop methods.
type phantomd struct {
	cfg *config.Config

	dag       *blockdag.DagStore
	agent     *agent.Agent
	monitor   *recovery.Monitor
	rpcServer *rpcserver.Server
	peerTips  *recovery.CachedPeerTipSource

	started, shutdown int32
}

// newPhantomd wires a genesis-only DagStore into an Agent, a recovery
// Monitor, and a wire server, per SPEC_FULL §2's control-flow description.
// blockSource is the external block-fetch collaborator (§6); in the
// absence of real peers it defaults to noBlockSource, which reports every
// hash as unavailable.
func newPhantomd(cfg *config.Config, genesis *blockdag.BlockHeader, blockSource agent.BlockSource) (*phantomd, error) {
	dag := blockdag.NewDagStore()
	if err := dag.AddGenesis(genesis); err != nil {
		return nil, err
	}
	if _, err := blockdag.ColorDAG(dag, cfg.Params.K); err != nil {
		return nil, err
	}

	peerTips := recovery.NewCachedPeerTipSource()
	chainSource := recovery.LocalChainDerivation{Dag: dag}

	a, err := agent.New(dag, cfg.Params, blockSource, localPeerChainSource{dag: dag})
	if err != nil {
		return nil, err
	}

	monitor := recovery.NewMonitor(dag, a.Commands(), peerTips, chainSource, cfg.Params)
	server := rpcserver.New(cfg.ListenAddr, dag, a)

	return &phantomd{
		cfg:       cfg,
		dag:       dag,
		agent:     a,
		monitor:   monitor,
		rpcServer: server,
		peerTips:  peerTips,
	}, nil
}

// start launches the agent, the recovery monitor, and the wire server.
func (p *phantomd) start() {
	if atomic.AddInt32(&p.started, 1) != 1 {
		return
	}
	log.Infof("Starting phantomd")
	p.agent.Start()
	p.monitor.Start()
	p.rpcServer.Start()
}

// stop gracefully shuts down every service started by start.
func (p *phantomd) stop() error {
	if atomic.AddInt32(&p.shutdown, 1) != 1 {
		log.Infof("phantomd is already shutting down")
		return nil
	}
	log.Warnf("phantomd shutting down")

	p.monitor.Stop()
	p.agent.Commands() <- agent.ShutdownCommand{}

	return p.rpcServer.Stop()
}

// localPeerChainSource satisfies agent.PeerChainSource by deriving the
// selected-parent chain from the local DAG's own coloring, rooted at the
// best tip. It stands in for a real peer round-trip until one is wired up.
type localPeerChainSource struct {
	dag *blockdag.DagStore
}

func (s localPeerChainSource) PeerSelectedParentChain() ([]daghash.Hash, error) {
	tip, err := blockdag.BestTip(s.dag)
	if err != nil {
		return nil, err
	}
	derivation := recovery.LocalChainDerivation{Dag: s.dag}
	return derivation.PeerSelectedParentChain(tip)
}
