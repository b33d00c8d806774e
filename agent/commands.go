package agent

import "github.com/daglabs/phantomdag/daghash"

// Command is accepted on the agent's buffered command channel.
type Command interface {
	isCommand()
}

// CheckDivergenceCommand re-evaluates divergence against NetworkTip.
type CheckDivergenceCommand struct {
	NetworkTip daghash.Hash
}

// StartRecoveryCommand drives a recovery attempt toward Lca, fetching each
// entry of MissingBlocks from the agent's BlockSource.
type StartRecoveryCommand struct {
	Lca           daghash.Hash
	MissingBlocks []daghash.Hash
}

// UpdateNetworkTipCommand only refreshes the cached peer tip.
type UpdateNetworkTipCommand struct {
	Tip daghash.Hash
}

// UpdateKCommand replaces k. It does not trigger a recolor by itself.
type UpdateKCommand struct {
	NewK uint32
}

// ShutdownCommand stops the event loop.
type ShutdownCommand struct{}

func (CheckDivergenceCommand) isCommand()   {}
func (StartRecoveryCommand) isCommand()     {}
func (UpdateNetworkTipCommand) isCommand()  {}
func (UpdateKCommand) isCommand()           {}
func (ShutdownCommand) isCommand()          {}
