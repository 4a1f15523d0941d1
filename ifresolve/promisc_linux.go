//go:build linux
// +build linux

// File: ifresolve/promisc_linux.go
// Author: momentics <momentics@gmail.com>
//
// Promiscuous-mode enablement, ported directly from
// original_source/interface.c's interface_set_promisc_on: a throwaway
// AF_PACKET/SOCK_DGRAM socket joins PACKET_ADD_MEMBERSHIP with
// mr_type = PACKET_MR_PROMISC. The socket is intentionally left open for
// the life of the process — the original never closes it either, and the
// kernel drops membership when the owning fd is closed, which would
// silently undo the promiscuity the caller asked for.

package ifresolve

import "golang.org/x/sys/unix"

// DefaultPromiscSetter enables promiscuous mode via PACKET_ADD_MEMBERSHIP,
// satisfying capture.PromiscSetter.
type DefaultPromiscSetter struct{}

func (DefaultPromiscSetter) SetPromiscuous(ifindex int) error {
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return err
	}

	mreq := &unix.PacketMreq{
		Ifindex: int32(ifindex),
		Type:    unix.PACKET_MR_PROMISC,
	}
	if err := unix.SetsockoptPacketMreq(fd, unix.SOL_PACKET, unix.PACKET_ADD_MEMBERSHIP, mreq); err != nil {
		unix.Close(fd)
		return err
	}
	return nil
}
