// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

// SetAffinity pins current OS thread to a given logical CPU/core on supported platforms.
// On unsupported platforms returns an error.
func SetAffinity(cpuID int) error {
	return setAffinityPlatform(cpuID)
}

// SetAffinitySet pins the current OS thread to the union of the given
// logical CPUs/cores, for callers that want node-local scheduling freedom
// across a whole CPU set rather than a single core. On unsupported
// platforms returns an error.
func SetAffinitySet(cpuIDs []int) error {
	return setAffinitySetPlatform(cpuIDs)
}
