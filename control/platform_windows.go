//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows has no AF_PACKET fanout path (see capture/ringio_other.go), so
// this variant only ever registers the CPU-count probe; topo is accepted
// for signature parity with platform_linux.go and otherwise unused.

package control

import (
	"runtime"

	"github.com/momentics/rxtxcap/numaset"
)

// RegisterPlatformProbes sets the Windows-reachable debug probes.
func RegisterPlatformProbes(dp *DebugProbes, topo numaset.Resolver) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
}
