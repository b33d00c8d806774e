// Package recovery implements the standalone periodic divergence monitor
// described in SPEC_FULL §4.6. It is independent of the agent's own event
// loop: it only ever dispatches commands onto the agent's command channel,
// never mutates agent state directly.
package recovery

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/daglabs/phantomdag/agent"
	"github.com/daglabs/phantomdag/blockdag"
	"github.com/daglabs/phantomdag/daghash"
	"github.com/daglabs/phantomdag/dagconfig"
	"github.com/daglabs/phantomdag/logger"
	"github.com/daglabs/phantomdag/util/panics"
)

var log, _ = logger.Get(logger.SubsystemTags.RCVR)

// PeerTipSource returns the cached peer tip last observed, and whether one
// has been observed at all.
type PeerTipSource interface {
	PeerTip() (daghash.Hash, bool)
}

// LocalChainSource derives the peer selected-parent chain. In production
// this is a network round-trip; LocalChainDerivation below satisfies it by
// walking the local DAG itself, for the common case where no external peer
// is wired up yet.
type LocalChainSource interface {
	PeerSelectedParentChain(tip daghash.Hash) ([]daghash.Hash, error)
}

// LocalChainDerivation derives a selected-parent chain straight from the
// local DAG store, rooted at a given tip. It implements LocalChainSource.
type LocalChainDerivation struct {
	Dag *blockdag.DagStore
}

// PeerSelectedParentChain walks SelectedParent from tip back to genesis,
// genesis-first, using only the local DAG's coloring.
func (d LocalChainDerivation) PeerSelectedParentChain(tip daghash.Hash) ([]daghash.Hash, error) {
	var reversed []daghash.Hash
	current := tip
	for {
		reversed = append(reversed, current)
		parent, has, err := d.Dag.SelectedParentOf(current)
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		current = parent
	}
	chain := make([]daghash.Hash, len(reversed))
	for i, hash := range reversed {
		chain[len(reversed)-1-i] = hash
	}
	return chain, nil
}

// Monitor ticks on Params.CheckInterval and drives the agent toward
// recovery per SPEC_FULL §4.6.
type Monitor struct {
	dag           *blockdag.DagStore
	agentCommands chan<- agent.Command
	peerTips      PeerTipSource
	chainSource   LocalChainSource
	params        dagconfig.Params

	ticker   *time.Ticker
	done     chan struct{}
	started  int32
	shutdown int32
	spawn    func(func())
}

// NewMonitor creates a Monitor. agentCommands is typically agent.Agent's
// Commands() channel.
func NewMonitor(dag *blockdag.DagStore, agentCommands chan<- agent.Command, peerTips PeerTipSource,
	chainSource LocalChainSource, params dagconfig.Params) *Monitor {
	return &Monitor{
		dag:           dag,
		agentCommands: agentCommands,
		peerTips:      peerTips,
		chainSource:   chainSource,
		params:        params,
		done:          make(chan struct{}),
		spawn:         panics.GoroutineWrapperFunc(log),
	}
}

// Start launches the ticker loop. Calling Start more than once is a no-op.
func (m *Monitor) Start() {
	if atomic.AddInt32(&m.started, 1) != 1 {
		return
	}
	m.ticker = time.NewTicker(m.params.CheckInterval)
	m.spawn(m.run)
}

// Stop halts the ticker loop. Safe to call multiple times.
func (m *Monitor) Stop() {
	if atomic.AddInt32(&m.shutdown, 1) != 1 {
		return
	}
	close(m.done)
}

func (m *Monitor) run() {
	log.Infof("Recovery monitor started, interval=%s", m.params.CheckInterval)
	defer m.ticker.Stop()
	for {
		select {
		case <-m.ticker.C:
			m.tick()
		case <-m.done:
			log.Infof("Recovery monitor stopping")
			return
		}
	}
}

// tick implements the seven steps of SPEC_FULL §4.6.
func (m *Monitor) tick() {
	peerTip, ok := m.peerTips.PeerTip()
	if !ok {
		return
	}

	localTip, err := blockdag.BestTip(m.dag)
	if err != nil {
		log.Warnf("Recovery monitor could not compute local tip: %+v", err)
		return
	}

	if !m.dag.Has(peerTip) {
		m.dispatch(agent.CheckDivergenceCommand{NetworkTip: peerTip})
		return
	}

	peerChain, err := m.chainSource.PeerSelectedParentChain(peerTip)
	if err != nil {
		log.Warnf("Recovery monitor could not derive peer chain: %+v", err)
		return
	}

	if !blockdag.HasDiverged(localTip, peerChain) {
		return
	}

	result, err := blockdag.GreedyPathIntersection(m.dag, localTip, peerChain)
	if err != nil {
		log.Warnf("Recovery monitor LCA computation failed: %+v", err)
		return
	}

	threshold := m.params.PartitionThresholdMultiplier * m.params.K
	if uint32(result.DivergenceDepth) > threshold {
		m.dispatch(agent.CheckDivergenceCommand{NetworkTip: peerTip})
		return
	}

	batch := result.MissingBlocks
	if len(batch) > m.params.MaxRecoveryBatch {
		log.Infof("Recovery monitor truncating missing-block batch from %d to %d", len(batch), m.params.MaxRecoveryBatch)
		batch = batch[:m.params.MaxRecoveryBatch]
	}
	m.dispatch(agent.StartRecoveryCommand{Lca: result.Lca, MissingBlocks: batch})
}

func (m *Monitor) dispatch(cmd agent.Command) {
	// Block until the agent accepts the command (backpressure), unless the
	// monitor is stopped first.
	select {
	case m.agentCommands <- cmd:
	case <-m.done:
		log.Infof("Recovery monitor stopped before dispatching %T", cmd)
	}
}

// CachedPeerTipSource is a minimal PeerTipSource that can be updated from
// outside, e.g. by an RPC handler receiving a peer announcement. It keeps
// its own RWMutex independent of the DagStore's, per SPEC_FULL §5's note
// that the peer-tip cache is guarded separately from the DAG itself.
type CachedPeerTipSource struct {
	mtx    sync.RWMutex
	tip    daghash.Hash
	hasTip bool
}

// NewCachedPeerTipSource creates an empty CachedPeerTipSource.
func NewCachedPeerTipSource() *CachedPeerTipSource {
	return &CachedPeerTipSource{}
}

// PeerTip returns the most recently set peer tip.
func (c *CachedPeerTipSource) PeerTip() (daghash.Hash, bool) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.tip, c.hasTip
}

// SetPeerTip updates the cached peer tip.
func (c *CachedPeerTipSource) SetPeerTip(tip daghash.Hash) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.tip = tip
	c.hasTip = true
}
