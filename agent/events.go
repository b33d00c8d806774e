package agent

import "github.com/daglabs/phantomdag/daghash"

// Event is emitted on the agent's event channel as a side effect of
// processing a Command.
type Event interface {
	isEvent()
}

// StateChangedEvent fires whenever the agent's state actually changes.
// Same-to-same transitions are no-ops and emit nothing.
type StateChangedEvent struct {
	From State
	To   State
}

// DivergenceDetectedEvent fires when CheckDivergence finds the local and
// network tips have diverged.
type DivergenceDetectedEvent struct {
	LocalTip        daghash.Hash
	NetworkTip      daghash.Hash
	DivergenceDepth int
}

// RecoveryCompleteEvent fires when a StartRecovery attempt finishes
// successfully.
type RecoveryCompleteEvent struct {
	BlocksRecovered int
}

// ErrorEvent reports a failure encountered while processing a command. The
// agent does not stop processing further commands after emitting one.
type ErrorEvent struct {
	Message string
}

func (StateChangedEvent) isEvent()       {}
func (DivergenceDetectedEvent) isEvent() {}
func (RecoveryCompleteEvent) isEvent()   {}
func (ErrorEvent) isEvent()              {}
