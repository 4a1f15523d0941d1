// File: capture/ring.go
// Author: momentics <momentics@gmail.com>
//
// One worker's kernel endpoint: a packet socket, its fanout membership,
// the unreliable-prefix size measured at attach time, per-ring stats, and
// an optional savefile sink. Grounded on spec §4.3's strict setup ordering.

package capture

import (
	"time"

	"github.com/momentics/rxtxcap/internal/fanout"
	"github.com/momentics/rxtxcap/stats"
)

const recvTimeout = 10 * time.Microsecond

// savefileSink is the subset of pcapfile.Writer/pcapfile.Shared a ring
// needs; both satisfy it, letting a ring hold either an exclusive or a
// shared savefile without the capture package depending on which.
type savefileSink interface {
	Dump(tsSec int64, data []byte, flush bool) error
	Release() error
}

// Ring is one worker's capture endpoint.
type Ring struct {
	idx         int
	io          ringIO
	unreliable  uint64
	stats       *stats.Stats
	savefile    savefileSink
}

// newRing performs the socket/bind/fanout setup sequence: socket ->
// ring-option setopt -> timeout setopt -> bind -> fanout setopt. A failure
// at any step closes whatever was already opened and returns a Resource
// CaptureError naming the step.
//
// It deliberately does NOT query statistics or measure the unreliable
// window: that must happen only after every ring has joined the fanout
// group (see measureUnreliableWindow and Activate), since frames can
// arrive and queue on ring i's socket while rings i+1..N are still being
// attached.
func newRing(idx int, factory ringIOFactory, ifindex int, groupID uint16, mode fanout.Mode) (*Ring, error) {
	io, err := factory(ifindex)
	if err != nil {
		return nil, err
	}
	if err := io.setRingOptions(); err != nil {
		return nil, err
	}
	if err := io.setRecvTimeout(recvTimeout); err != nil {
		return nil, err
	}
	if err := io.bind(ifindex); err != nil {
		return nil, err
	}
	fanoutMode, dataFD, needsData := fanout.KernelArg(mode)
	if err := io.joinFanout(groupID, fanoutMode, dataFD, needsData); err != nil {
		return nil, err
	}

	return &Ring{
		idx:   idx,
		io:    io,
		stats: stats.New(),
	}, nil
}

// measureUnreliableWindow queries the kernel's packet/drop counters,
// records them in the ring's TPPackets/TPDrops stats, and sets the ring's
// unreliable-prefix size. Callers must invoke this only
// after every ring in the descriptor has completed newRing, so that the
// measurement captures frames queued during the whole attachment window
// rather than just this ring's own setup.
func (r *Ring) measureUnreliableWindow() error {
	tpPackets, tpDrops, err := r.io.queryStats()
	if err != nil {
		return err
	}
	if err := r.stats.Increment(stats.TPPackets, tpPackets); err != nil {
		return newResourceError(err, "record tp_packets")
	}
	if err := r.stats.Increment(stats.TPDrops, tpDrops); err != nil {
		return newResourceError(err, "record tp_drops")
	}
	if tpPackets > tpDrops {
		r.unreliable = tpPackets - tpDrops
	}
	return nil
}

// Snapshot returns the ring's own packets_received and packets_unreliable
// counters, for introspection (e.g. a debug probe) outside the hot path.
func (r *Ring) Snapshot() (received, unreliable uint64) {
	received, _ = r.stats.Get(stats.PacketsReceived)
	unreliable, _ = r.stats.Get(stats.PacketsUnreliable)
	return received, unreliable
}

// destroy closes the savefile if owned and releases the socket. Errors
// encountered are returned but destroy always attempts both steps.
func (r *Ring) destroy() error {
	var sfErr, ioErr error
	if r.savefile != nil {
		sfErr = r.savefile.Release()
		r.savefile = nil
	}
	if r.io != nil {
		ioErr = r.io.close()
		r.io = nil
	}
	if sfErr != nil {
		return sfErr
	}
	return ioErr
}
