//go:build linux
// +build linux

// control/platform_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific topology probes a cmd/ binary registers before it starts
// capturing, so a verbose run's final debug dump records what the fanout
// decision was actually made against.

package control

import (
	"runtime"

	"github.com/momentics/rxtxcap/numaset"
)

// RegisterPlatformProbes registers the logical CPU count and, when a NUMA
// resolver is supplied (nil for rxtxcpu, a numaset.Resolver for rxtxnuma),
// the node count it resolved topology against.
func RegisterPlatformProbes(dp *DebugProbes, topo numaset.Resolver) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	if topo == nil {
		return
	}
	dp.RegisterProbe("platform.numa_nodes", func() any {
		n, err := topo.NodeCount()
		if err != nil {
			return err.Error()
		}
		return n
	})
}
