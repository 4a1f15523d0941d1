//go:build !linux
// +build !linux

// File: numaset/sysfs_other.go
// Author: momentics <momentics@gmail.com>

package numaset

import "errors"

// SysfsResolver is Linux-only; other platforms get a descriptive stub.
type SysfsResolver struct {
	Root string
}

func (SysfsResolver) NodeCount() (int, error) {
	return 0, errors.New("numaset: sysfs NUMA topology is only supported on linux")
}

func (SysfsResolver) CPUSet(node int) ([]int, error) {
	return nil, errors.New("numaset: sysfs NUMA topology is only supported on linux")
}
