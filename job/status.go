package job

import "fmt"

// State represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	(none)     -> Pending      (enqueue)
//	Pending    -> Processing   (claim)
//	Processing -> Completed    (success)
//	Processing -> Pending      (failure, attempts < max_retries)
//	Processing -> Dead         (failure, attempts >= max_retries)
//	Dead       -> Pending      (retry_dead)
//
// Unknown is reserved as a zero value and may be used to indicate
// an unspecified or invalid state in filtering contexts.
type State uint8

const (
	// Unknown represents an unspecified or invalid job state.
	// It is the zero value of State and is used by List/Clean filters
	// to mean "no state filter".
	Unknown State = iota

	// Pending indicates that the job is eligible for claiming once its
	// run_at (if any) has elapsed.
	Pending

	// Processing indicates that the job has been claimed and is
	// currently owned by exactly one worker.
	Processing

	// Completed indicates successful execution. Terminal: no further
	// mutation or event is emitted for a Completed job.
	Completed

	// Dead indicates the job exhausted its retry budget. Terminal,
	// except that retry_dead may move it back to Pending.
	Dead
)

func stateToString(state State) string {
	switch state {
	case Pending:
		return "pending"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

func stateFromString(state string) (State, error) {
	switch state {
	case "pending":
		return Pending, nil
	case "processing":
		return Processing, nil
	case "completed":
		return Completed, nil
	case "dead":
		return Dead, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("unknown job state: %s", state)
	}
}

// ParseState converts a string representation of a state into a State value.
func ParseState(s string) (State, error) {
	return stateFromString(s)
}

// Terminal reports whether no further state change is permitted for state,
// other than retry_dead moving a Dead job back to Pending.
func (s State) Terminal() bool {
	return s == Completed || s == Dead
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(stateToString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	state, err := stateFromString(string(text))
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// String returns the canonical lowercase name of the state.
func (s State) String() string {
	return stateToString(s)
}
