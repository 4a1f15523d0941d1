//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"
	"syscall"
)

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
func setAffinityPlatform(cpuID int) error {
	return setAffinitySetPlatform([]int{cpuID})
}

// setAffinitySetPlatform sets thread affinity to a set of CPUs for Windows
// by OR-ing each CPU's bit into the affinity mask.
func setAffinitySetPlatform(cpuIDs []int) error {
	if len(cpuIDs) == 0 {
		return fmt.Errorf("affinity: empty cpu set")
	}
	kernel32 := syscall.NewLazyDLL("kernel32.dll")
	procSetThreadAffinityMask := kernel32.NewProc("SetThreadAffinityMask")
	procGetCurrentThread := kernel32.NewProc("GetCurrentThread")
	hThread, _, _ := procGetCurrentThread.Call()
	var mask uintptr
	for _, cpuID := range cpuIDs {
		mask |= uintptr(1) << cpuID
	}
	ret, _, err := procSetThreadAffinityMask.Call(hThread, mask)
	if ret == 0 {
		return err
	}
	return nil
}
