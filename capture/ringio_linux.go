//go:build linux
// +build linux

// File: capture/ringio_linux.go
// Author: momentics <momentics@gmail.com>
//
// Real AF_PACKET socket lifecycle, grounded on
// internal/transport/transport_linux.go's golang.org/x/sys/unix socket
// idiom (Socket -> SetsockoptInt -> Bind -> close-on-error), generalized
// from AF_INET/SOCK_STREAM to AF_PACKET/SOCK_RAW/ETH_P_ALL.

package capture

import (
	"encoding/binary"
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

const (
	ethPAll          = 0x0003 // linux/if_ether.h ETH_P_ALL
	packetFanoutOpt  = 18     // linux/if_packet.h PACKET_FANOUT
	packetFanoutData = 22     // linux/if_packet.h PACKET_FANOUT_DATA
	pktTypeOutgoing  = 4      // linux/if_packet.h PACKET_OUTGOING
)

func htons(v uint16) uint16 {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return binary.LittleEndian.Uint16(b[:])
}

type linuxRingIO struct {
	fd int
}

func newLinuxRingIO(ifindex int) (ringIO, error) {
	fd, err := unix.Socket(unix.AF_PACKET, unix.SOCK_RAW, int(htons(ethPAll)))
	if err != nil {
		return nil, newResourceError(err, "socket(AF_PACKET, SOCK_RAW, ETH_P_ALL)")
	}
	return &linuxRingIO{fd: fd}, nil
}

func (r *linuxRingIO) setRingOptions() error {
	req := &unix.TpacketReq{}
	if err := unix.SetsockoptTpacketReq(r.fd, unix.SOL_PACKET, unix.PACKET_RX_RING, req); err != nil {
		unix.Close(r.fd)
		return newResourceError(err, "setsockopt(PACKET_RX_RING)")
	}
	if err := unix.SetsockoptTpacketReq(r.fd, unix.SOL_PACKET, unix.PACKET_TX_RING, req); err != nil {
		unix.Close(r.fd)
		return newResourceError(err, "setsockopt(PACKET_TX_RING)")
	}
	return nil
}

func (r *linuxRingIO) setRecvTimeout(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	if err := unix.SetsockoptTimeval(r.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		unix.Close(r.fd)
		return newResourceError(err, "setsockopt(SO_RCVTIMEO)")
	}
	return nil
}

func (r *linuxRingIO) bind(ifindex int) error {
	sa := &unix.SockaddrLinklayer{
		Protocol: htons(ethPAll),
		Ifindex:  ifindex,
	}
	if err := unix.Bind(r.fd, sa); err != nil {
		unix.Close(r.fd)
		return newResourceError(err, "bind(ifindex=%d)", ifindex)
	}
	return nil
}

func (r *linuxRingIO) joinFanout(groupID uint16, mode int32, dataFD int, needsData bool) error {
	if needsData {
		if err := unix.SetsockoptInt(r.fd, unix.SOL_PACKET, packetFanoutData, dataFD); err != nil {
			unix.Close(r.fd)
			return newResourceError(err, "setsockopt(PACKET_FANOUT_DATA, fd=%d)", dataFD)
		}
	}
	arg := int(groupID) | (int(mode) << 16)
	if err := unix.SetsockoptInt(r.fd, unix.SOL_PACKET, packetFanoutOpt, arg); err != nil {
		unix.Close(r.fd)
		return newResourceError(err, "setsockopt(PACKET_FANOUT, group=%d, mode=%d)", groupID, mode)
	}
	return nil
}

func (r *linuxRingIO) queryStats() (uint64, uint64, error) {
	st, err := unix.GetsockoptTpacketStats(r.fd, unix.SOL_PACKET, unix.PACKET_STATISTICS)
	if err != nil {
		unix.Close(r.fd)
		return 0, 0, newResourceError(err, "getsockopt(PACKET_STATISTICS)")
	}
	return uint64(st.Packets), uint64(st.Drops), nil
}

func (r *linuxRingIO) recv(buf []byte) (int, bool, error) {
	n, from, err := unix.Recvfrom(r.fd, buf, 0)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return 0, false, errTimeout
		}
		return 0, false, newIOError(err, "recvfrom")
	}
	outgoing := false
	if sa, ok := from.(*unix.SockaddrLinklayer); ok {
		outgoing = sa.Pkttype == pktTypeOutgoing
	}
	return n, outgoing, nil
}

func (r *linuxRingIO) close() error {
	if err := unix.Close(r.fd); err != nil {
		return fmt.Errorf("close fd %d: %w", r.fd, err)
	}
	return nil
}

var defaultRingIOFactory ringIOFactory = newLinuxRingIO
