// File: numaset/numaset.go
// Author: momentics <momentics@gmail.com>
//
// NUMA topology resolution for the rxtxnuma variant, an out-of-scope
// external collaborator per spec.md §1/§6: the capture engine never reads
// sysfs itself, it only consumes a resolved []int CPU set per ring.

package numaset

import "runtime"

// Resolver reports NUMA topology: how many nodes exist, and which logical
// CPUs belong to a given node.
type Resolver interface {
	NodeCount() (int, error)
	CPUSet(node int) ([]int, error)
}

// DefaultResolver is a minimal, non-sysfs fallback: it reports a single
// node owning every CPU runtime.NumCPU() sees. It is intentionally not a
// faithful port of the original's sysfs walk (num_numa/get_numa_cpu_set in
// rxtxnuma.c) — that 35% of the original source is out of scope here; see
// SysfsResolver for the grounded-but-optional fuller implementation.
type DefaultResolver struct{}

func (DefaultResolver) NodeCount() (int, error) {
	return 1, nil
}

func (DefaultResolver) CPUSet(node int) ([]int, error) {
	if node != 0 {
		return nil, nil
	}
	n := runtime.NumCPU()
	cpus := make([]int, n)
	for i := range cpus {
		cpus[i] = i
	}
	return cpus, nil
}
