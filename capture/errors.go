// File: capture/errors.go
// Author: momentics <momentics@gmail.com>
//
// Error taxonomy for the capture engine: an ErrorCode + structured *Error
// pattern adapted from a transport-error vocabulary to this engine's own
// kinds.

package capture

import "fmt"

// ErrorKind classifies a CaptureError for the orchestrator's exit-code
// decision and for teardown policy.
type ErrorKind int

const (
	// ErrKindConfig marks invalid or out-of-range configuration. Never
	// fatal at the engine level; reported before activation completes.
	ErrKindConfig ErrorKind = iota
	// ErrKindState marks a setter or accessor invoked in the wrong
	// lifecycle state. The descriptor is left unmodified.
	ErrKindState
	// ErrKindResource marks socket/bind/setsockopt/file-open failures.
	// Fatal; terminates the worker or activation attempt.
	ErrKindResource
	// ErrKindIO marks a pcap write or flush failure. Fatal from within a
	// worker.
	ErrKindIO
	// ErrKindTimeout is an internal, non-fatal signal meaning "no data
	// arrived before the receive deadline, recheck shutdown conditions".
	// It never escapes to the orchestrator.
	ErrKindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindConfig:
		return "config"
	case ErrKindState:
		return "state"
	case ErrKindResource:
		return "resource"
	case ErrKindIO:
		return "io"
	case ErrKindTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// CaptureError is the engine's single error type; Kind tells the caller
// whether the failure is fatal, a configuration problem, or a state
// violation.
type CaptureError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("capture: %s: %s", e.Kind, e.Message)
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Fatal reports whether an error of this kind should terminate the worker
// or abort activation rather than simply being reported to the caller.
func (e *CaptureError) Fatal() bool {
	return e.Kind == ErrKindResource || e.Kind == ErrKindIO
}

func newConfigError(format string, args ...any) *CaptureError {
	return &CaptureError{Kind: ErrKindConfig, Message: fmt.Sprintf(format, args...)}
}

func newStateError(format string, args ...any) *CaptureError {
	return &CaptureError{Kind: ErrKindState, Message: fmt.Sprintf(format, args...)}
}

func newResourceError(err error, format string, args ...any) *CaptureError {
	return &CaptureError{Kind: ErrKindResource, Message: fmt.Sprintf(format, args...), Err: err}
}

func newIOError(err error, format string, args ...any) *CaptureError {
	return &CaptureError{Kind: ErrKindIO, Message: fmt.Sprintf(format, args...), Err: err}
}

var errTimeout = &CaptureError{Kind: ErrKindTimeout, Message: "receive timed out"}

// FormatErrbuf renders err into buf the way a cgo-exported variant of this
// engine would fill a caller-provided error buffer: truncating with "..."
// when the message does not fit, per the byte-buffer contract the engine's
// C ancestor exposed. Returns the number of bytes written (excluding a
// trailing NUL, which is also written when buf has room).
func FormatErrbuf(err error, buf []byte) int {
	if err == nil || len(buf) == 0 {
		return 0
	}
	msg := err.Error()
	if len(msg) >= len(buf) {
		n := len(buf) - 1
		if n < 0 {
			return 0
		}
		copy(buf, msg[:n])
		if n >= 3 {
			copy(buf[n-3:n], "...")
		}
		buf[n] = 0
		return n
	}
	n := copy(buf, msg)
	if n < len(buf) {
		buf[n] = 0
	}
	return n
}
