//go:build !linux
// +build !linux

// File: ifresolve/promisc_other.go
// Author: momentics <momentics@gmail.com>

package ifresolve

import "errors"

// DefaultPromiscSetter stubs promiscuity control on non-Linux platforms.
type DefaultPromiscSetter struct{}

func (DefaultPromiscSetter) SetPromiscuous(ifindex int) error {
	return errors.New("ifresolve: promiscuous mode is only supported on linux")
}
