//go:build !linux
// +build !linux

// File: capture/ringio_other.go
// Author: momentics <momentics@gmail.com>
//
// AF_PACKET sockets are Linux-only; non-Linux builds get a descriptive
// stub so the package still compiles for cross-platform tooling, matching
// affinity's affinity_stub.go convention.

package capture

import "errors"

var errUnsupportedPlatform = errors.New("capture: packet sockets are only supported on linux")

func newUnsupportedRingIO(ifindex int) (ringIO, error) {
	return nil, errUnsupportedPlatform
}

var defaultRingIOFactory ringIOFactory = newUnsupportedRingIO
