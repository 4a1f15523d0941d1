// File: capture/state.go
// Author: momentics <momentics@gmail.com>

package capture

// State is the Descriptor's activation state.
type State int

const (
	StateInactive State = iota
	StateActivating
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}
