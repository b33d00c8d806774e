package agent

// State is one of the four states the self-healing agent can occupy.
type State int

const (
	StateSynced State = iota
	StateDrifting
	StateRecovering
	StatePartitioned
)

func (s State) String() string {
	switch s {
	case StateSynced:
		return "SYNCED"
	case StateDrifting:
		return "DRIFTING"
	case StateRecovering:
		return "RECOVERING"
	case StatePartitioned:
		return "PARTITIONED"
	default:
		return "UNKNOWN"
	}
}
