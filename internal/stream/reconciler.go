package stream

// State tracks a reconciler through its session lifecycle.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateDone
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateDone:
		return "done"
	case StateErrored:
		return "errored"
	default:
		return ""
	}
}

// Reconciler folds an ordered event sequence into one terminal typed result.
//
// Apply is called once per decoded event, in arrival order. Implementations
// swallow heartbeats, ignore events after a terminal state is reached, and
// treat unknown event types as no-ops.
type Reconciler interface {
	Apply(Event)
	State() State
}
