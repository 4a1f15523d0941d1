//go:build !linux
// +build !linux

// File: internal/fanout/numaprogram_other.go
// Author: momentics <momentics@gmail.com>

package fanout

import "errors"

// LoadNUMAProgram is Linux-only; eBPF is a Linux kernel feature.
func LoadNUMAProgram() (int, error) {
	return -1, errors.New("fanout: eBPF NUMA fanout program loading is only supported on linux")
}
