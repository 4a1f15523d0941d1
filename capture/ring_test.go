package capture

import (
	"strings"
	"testing"

	"github.com/momentics/rxtxcap/internal/fanout"
)

func TestNewRingSetsUpInOrder(t *testing.T) {
	io := &fakeRingIO{tpPackets: 10, tpDrops: 4}
	factory := sequentialFactory(io)

	r, err := newRing(2, factory, 7, 42, fanout.CPUModulo{})
	if err != nil {
		t.Fatalf("newRing: %v", err)
	}
	if r.idx != 2 {
		t.Fatalf("idx = %d, want 2", r.idx)
	}
	if got, want := strings.Join(io.calls, ","), "setRingOptions,setRecvTimeout,bind,joinFanout"; got != want {
		t.Fatalf("setup calls = %s, want %s", got, want)
	}
	if !io.ringOptionsSet {
		t.Fatal("expected ring options to be set")
	}
	if io.recvTimeout != recvTimeout {
		t.Fatalf("recvTimeout = %v, want %v", io.recvTimeout, recvTimeout)
	}
	if io.boundIfindex != 7 {
		t.Fatalf("boundIfindex = %d, want 7", io.boundIfindex)
	}
	if !io.fanoutJoined || io.fanoutGroupID != 42 {
		t.Fatalf("fanout not joined correctly: joined=%v group=%d", io.fanoutJoined, io.fanoutGroupID)
	}
	if r.unreliable != 0 {
		t.Fatalf("unreliable = %d, want 0 before measureUnreliableWindow runs", r.unreliable)
	}
	if err := r.measureUnreliableWindow(); err != nil {
		t.Fatalf("measureUnreliableWindow: %v", err)
	}
	if r.unreliable != 6 {
		t.Fatalf("unreliable = %d, want 6 (tp_packets - tp_drops)", r.unreliable)
	}
}

func TestNewRingUnreliableNeverNegative(t *testing.T) {
	io := &fakeRingIO{tpPackets: 2, tpDrops: 9}
	r, err := newRing(0, sequentialFactory(io), 0, 1, fanout.CPUModulo{})
	if err != nil {
		t.Fatalf("newRing: %v", err)
	}
	if err := r.measureUnreliableWindow(); err != nil {
		t.Fatalf("measureUnreliableWindow: %v", err)
	}
	if r.unreliable != 0 {
		t.Fatalf("unreliable = %d, want 0", r.unreliable)
	}
}

func TestMeasureUnreliableWindowRunsAfterAllRingsAttached(t *testing.T) {
	// io reports more packets queued than the single-ring-at-a-time setup
	// would see, simulating frames that arrived while a later ring was
	// still being attached; measureUnreliableWindow must be free to run
	// only after every newRing call has returned, not inline with this
	// ring's own setup.
	io := &fakeRingIO{tpPackets: 0, tpDrops: 0}
	r, err := newRing(0, sequentialFactory(io), 0, 1, fanout.CPUModulo{})
	if err != nil {
		t.Fatalf("newRing: %v", err)
	}
	if r.unreliable != 0 {
		t.Fatalf("unreliable = %d before measurement, want 0", r.unreliable)
	}

	// Simulate other rings attaching and frames queuing in the meantime.
	io.tpPackets, io.tpDrops = 5, 1

	if err := r.measureUnreliableWindow(); err != nil {
		t.Fatalf("measureUnreliableWindow: %v", err)
	}
	if r.unreliable != 4 {
		t.Fatalf("unreliable = %d, want 4 (captures the post-setup window)", r.unreliable)
	}
}

func TestNewRingPropagatesNUMAFanoutData(t *testing.T) {
	io := &fakeRingIO{}
	r, err := newRing(0, sequentialFactory(io), 3, 1, fanout.NUMAViaProgram{FD: 9})
	if err != nil {
		t.Fatalf("newRing: %v", err)
	}
	_ = r
	if io.fanoutDataFD != 9 {
		t.Fatalf("fanoutDataFD = %d, want 9", io.fanoutDataFD)
	}
}

func TestRingDestroyClosesSocketAndSavefile(t *testing.T) {
	io := &fakeRingIO{}
	r, err := newRing(0, sequentialFactory(io), 0, 1, fanout.CPUModulo{})
	if err != nil {
		t.Fatalf("newRing: %v", err)
	}
	sf := &fakeSink{}
	r.savefile = sf

	if err := r.destroy(); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if !io.closed {
		t.Fatal("expected socket closed")
	}
	if !sf.released {
		t.Fatal("expected savefile released")
	}
	if r.io != nil || r.savefile != nil {
		t.Fatal("expected ring references cleared after destroy")
	}
}

// fakeSink is a minimal savefileSink for ring/descriptor tests that don't
// need real file I/O.
type fakeSink struct {
	dumped   [][]byte
	released bool
}

func (f *fakeSink) Dump(tsSec int64, data []byte, flush bool) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	f.dumped = append(f.dumped, cp)
	return nil
}

func (f *fakeSink) Release() error {
	f.released = true
	return nil
}
