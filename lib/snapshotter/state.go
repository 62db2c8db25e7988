package snapshotter

// State is the scheduler's position within a poll cycle.
type State int32

const (
	Idle State = iota
	Fetching
	Diffing
	Dispatching
	Persisting
	Sleeping
	Aborted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Diffing:
		return "diffing"
	case Dispatching:
		return "dispatching"
	case Persisting:
		return "persisting"
	case Sleeping:
		return "sleeping"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}
