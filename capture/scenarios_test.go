package capture

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/momentics/rxtxcap/pcapfile"
	"github.com/momentics/rxtxcap/stats"
)

// TestScenarioTwoRingsCountCap is seed scenario 1: two rings, no writer,
// count cap 100, 500 frames fed (250 per ring) -> exactly 100 accepted.
func TestScenarioTwoRingsCountCap(t *testing.T) {
	io0, io1 := &fakeRingIO{}, &fakeRingIO{}
	cfg := baseConfig(2)
	cfg.PacketCount = 100
	d := newActiveTestDescriptor(t, cfg, io0, io1)

	for i := 0; i < 250; i++ {
		io0.push(frame(byte(i), false))
		io1.push(frame(byte(i), false))
	}

	done := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			if err := RunWorker(d, d.Ring(i), []int{i}, nil); err != nil {
				t.Errorf("RunWorker(ring %d): %v", i, err)
			}
			done <- struct{}{}
		}()
	}
	<-done
	<-done

	total, _ := d.PacketsReceived()
	if total != 100 {
		t.Fatalf("packets_received = %d, want 100", total)
	}
	if d.Ring(0).savefile != nil || d.Ring(1).savefile != nil {
		t.Fatal("expected no savefile created for either ring")
	}
}

// TestScenarioFourRingsFourFiles is seed scenario 3: four rings writing to
// out.pcap produce out-0.pcap .. out-3.pcap, each with a valid global
// header (snaplen 65535, link-type Ethernet II checked via pcapfile.Open
// succeeding and the known header size).
func TestScenarioFourRingsFourFiles(t *testing.T) {
	template := filepath.Join(t.TempDir(), "out.pcap")
	cfg := baseConfig(4)
	cfg.SavefileTemplate = template

	ios := []*fakeRingIO{{}, {}, {}, {}}
	d := NewDescriptor(cfg, WithRingIOFactory(sequentialFactory(ios[0], ios[1], ios[2], ios[3])))
	if err := d.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	defer d.Close()

	for i := 0; i < 4; i++ {
		want := pcapfile.Resolve(template, i)
		if d.Ring(i).savefile == nil {
			t.Fatalf("ring %d: expected savefile at %q", i, want)
		}
		info, err := os.Stat(want)
		if err != nil {
			t.Fatalf("ring %d: stat %q: %v", i, want, err)
		}
		if info.Size() != 24 {
			t.Fatalf("ring %d: %q is %d bytes, want the 24-byte pcap global header", i, want, info.Size())
		}
	}
}

// TestScenarioGlobalBreakloopMidCapture is seed scenario 4: the global
// breakloop flag is set after some frames are accepted; all workers must
// return, and the aggregate must land in [accepted, accepted+workers].
func TestScenarioGlobalBreakloopMidCapture(t *testing.T) {
	t.Cleanup(ResetGlobalBreakloop)
	io := &fakeRingIO{}
	cfg := baseConfig(1)
	d := newActiveTestDescriptor(t, cfg, io)

	for i := 0; i < 50; i++ {
		io.push(frame(byte(i), false))
	}

	done := make(chan error, 1)
	go func() { done <- RunWorker(d, d.Ring(0), []int{0}, nil) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		if accepted, _ := d.PacketsReceived(); accepted >= 50 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("worker did not accept the 50 queued frames")
		}
		time.Sleep(time.Millisecond)
	}
	SetGlobalBreakloop()

	if err := <-done; err != nil {
		t.Fatalf("RunWorker: %v", err)
	}

	total, _ := d.PacketsReceived()
	if total < 50 || total > 51 {
		t.Fatalf("packets_received = %d, want within [50, 51]", total)
	}
}

// TestScenarioUnreliablePrefixThenNormalFrames is seed scenario 5.
func TestScenarioUnreliablePrefixThenNormalFrames(t *testing.T) {
	io := &fakeRingIO{tpPackets: 3, tpDrops: 0}
	cfg := baseConfig(1)
	cfg.PacketCount = 2
	d := newActiveTestDescriptor(t, cfg, io)

	io.push(frame(1, false), frame(2, false), frame(3, false), frame(4, false), frame(5, false))

	if err := RunWorker(d, d.Ring(0), []int{0}, nil); err != nil {
		t.Fatalf("RunWorker: %v", err)
	}

	unreliable, _ := d.Ring(0).stats.Get(stats.PacketsUnreliable)
	if unreliable != 3 {
		t.Fatalf("packets_unreliable = %d, want 3", unreliable)
	}
	total, _ := d.PacketsReceived()
	if total != 2 {
		t.Fatalf("packets_received = %d, want 2", total)
	}
}
