//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity.

package affinity

/*
#define _GNU_SOURCE
#include <sched.h>
#include <pthread.h>
#include <errno.h>

// Set calling thread's affinity to the provided CPU core.
int go_setaffinity(int cpu) {
	cpu_set_t set;
	CPU_ZERO(&set);
	CPU_SET(cpu, &set);
	return pthread_setaffinity_np(pthread_self(), sizeof(set), &set);
}

// Set calling thread's affinity to every CPU core listed in cpus.
int go_setaffinity_set(int *cpus, int n) {
	cpu_set_t set;
	CPU_ZERO(&set);
	for (int i = 0; i < n; i++) {
		CPU_SET(cpus[i], &set);
	}
	return pthread_setaffinity_np(pthread_self(), sizeof(set), &set);
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// setAffinityPlatform sets thread affinity to a given CPU for Linux.
func setAffinityPlatform(cpuID int) error {
	ret := C.go_setaffinity(C.int(cpuID))
	if ret != 0 {
		return fmt.Errorf("affinity: pthread_setaffinity_np failed, code %d", ret)
	}
	return nil
}

// setAffinitySetPlatform sets thread affinity to a set of CPUs for Linux,
// matching rxtxnuma.c's pthread_attr_setaffinity_np(&cpu_set) pin-to-node
// idiom.
func setAffinitySetPlatform(cpuIDs []int) error {
	if len(cpuIDs) == 0 {
		return fmt.Errorf("affinity: empty cpu set")
	}
	cCPUs := make([]C.int, len(cpuIDs))
	for i, id := range cpuIDs {
		cCPUs[i] = C.int(id)
	}
	ret := C.go_setaffinity_set((*C.int)(unsafe.Pointer(&cCPUs[0])), C.int(len(cCPUs)))
	if ret != 0 {
		return fmt.Errorf("affinity: pthread_setaffinity_np failed, code %d", ret)
	}
	return nil
}
