// File: capture/ringio.go
// Author: momentics <momentics@gmail.com>
//
// ringIO is the narrow seam between a Ring and the kernel: every syscall a
// ring's lifecycle and worker loop need is reached through this interface,
// so tests can substitute an in-process fake "kernel" instead of opening a
// real AF_PACKET socket and requiring root, following the convention of
// swapping real OS-facing dependencies for fakes at the same seam
// production code uses.

package capture

import "time"

// ringIO is implemented once for real sockets (ringio_linux.go) and once
// as a descriptive stub for unsupported platforms (ringio_other.go); tests
// provide a third, in-memory implementation.
type ringIO interface {
	// setRingOptions installs the zero-sized PACKET_RX_RING/PACKET_TX_RING
	// placeholders.
	setRingOptions() error
	// setRecvTimeout bounds how long recv blocks before returning errTimeout.
	setRecvTimeout(d time.Duration) error
	// bind attaches the socket to ifindex (0 means any interface).
	bind(ifindex int) error
	// joinFanout attaches the socket to the given fanout group under mode,
	// supplying dataFD first when the mode needs auxiliary data.
	joinFanout(groupID uint16, mode int32, dataFD int, needsData bool) error
	// queryStats returns the kernel's tp_packets/tp_drops counters.
	queryStats() (tpPackets, tpDrops uint64, err error)
	// recv reads one frame into buf, reporting whether it was outgoing
	// (PACKET_OUTGOING) traffic. Returns errTimeout when no frame arrived
	// within the receive timeout.
	recv(buf []byte) (n int, outgoing bool, err error)
	// close releases the socket.
	close() error
}

// ringIOFactory constructs the ringIO for one ring, opening the underlying
// socket bound to ifindex.
type ringIOFactory func(ifindex int) (ringIO, error)
