// File: capture/breakloop.go
// Author: momentics <momentics@gmail.com>
//
// The process-global shutdown flag. A single process-wide datum with clear
// init at program load and no teardown, per the design note against
// extending this pattern to other global state.

package capture

import "sync/atomic"

var globalBreakloop atomic.Bool

// SetGlobalBreakloop is called by the signal handler the orchestrator
// installs; the capture package never calls signal.Notify itself.
func SetGlobalBreakloop() {
	globalBreakloop.Store(true)
}

// ResetGlobalBreakloop clears the flag; exposed for tests that run
// multiple captures in one process.
func ResetGlobalBreakloop() {
	globalBreakloop.Store(false)
}
