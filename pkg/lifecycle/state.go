package lifecycle

import "fmt"

// State is the lifecycle state of a Manager or Handle.
type State int

const (
	Uninitialized State = iota
	Acquiring
	Ready
	Released
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Acquiring:
		return "acquiring"
	case Ready:
		return "ready"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
