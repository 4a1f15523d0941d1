// File: capture/worker.go
// Author: momentics <momentics@gmail.com>
//
// Per-ring packet pump, grounded on core/concurrency/executor.go's
// per-worker run-loop shape (stopCh check, blocking receive, cooperative
// exit) and core/concurrency/pin_linux.go's pin-before-loop idiom,
// generalized from NUMA+CPU pinning via libnuma/cgo to an
// affinity.SetAffinitySet call per ring, sized to either a single CPU or a
// whole NUMA node's CPU set depending on the fanout variant.

package capture

import (
	"errors"
	"runtime"
	"time"

	"github.com/momentics/rxtxcap/affinity"
	"github.com/momentics/rxtxcap/stats"
	"go.uber.org/zap"
)

// directionMissThreshold bounds consecutive wrong-direction receives
// before the loop re-checks shutdown conditions, preventing livelock when
// only unwanted-direction frames arrive.
const directionMissThreshold = 10

// timeNow supplies the wall-clock seconds written into each savefile record.
var timeNow = time.Now

// RunWorker pumps ring until the descriptor's local or the process-global
// breakloop flag is set, or the aggregate packets_received reaches the
// configured cap. cpus is the logical CPU set this worker pins itself to
// before entering the loop — a single-element set for the CPU-fanout
// variant, a whole NUMA node's CPU set for the NUMA-fanout variant.
func RunWorker(d *Descriptor, r *Ring, cpus []int, logger *zap.SugaredLogger) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := affinity.SetAffinitySet(cpus); err != nil && logger != nil {
		logger.Warnw("ring: affinity pin failed, continuing unpinned", "ring", r.idx, "cpus", cpus, "error", err)
	}

	cfg := d.Config()
	if cfg.Verbose && logger != nil {
		logger.Infow("worker starting", "ring", r.idx, "cpus", cpus)
	}

	buf := make([]byte, 65535)

	if err := clearUnreliablePrefix(r, buf); err != nil {
		return err
	}

	missStreak := 0
	for {
		if shouldStop(d, cfg.PacketCount) {
			return nil
		}

		n, outgoing, err := r.io.recv(buf)
		if errors.Is(err, errTimeout) {
			continue
		}
		if err != nil {
			return err
		}

		if !matchesDirection(cfg.Direction, outgoing) {
			missStreak++
			if missStreak >= directionMissThreshold {
				missStreak = 0
			}
			continue
		}
		missStreak = 0

		if err := acceptFrame(d, r, buf[:n], cfg.PacketBuffered); err != nil {
			return err
		}
	}
}

// shouldStop checks the cooperative-shutdown flags and the aggregate cap.
// packetCount is cached once by the caller at worker entry since Config is
// immutable while Active — re-reading it every iteration would take an
// RLock and copy the whole Config (including the ring-selection bitset) on
// the hot path just to read one field.
func shouldStop(d *Descriptor, packetCount uint64) bool {
	if d.Breakloop() || globalBreakloop.Load() {
		return true
	}
	if packetCount == 0 {
		return false
	}
	total, err := d.PacketsReceived()
	if err != nil {
		return true
	}
	return total >= packetCount
}

func matchesDirection(want Direction, outgoing bool) bool {
	switch want {
	case DirectionBoth:
		return true
	case DirectionIn:
		return !outgoing
	case DirectionOut:
		return outgoing
	default:
		return true
	}
}

// clearUnreliablePrefix discards the frames already queued before this
// ring's fanout attachment completed, counting each as packets_unreliable.
func clearUnreliablePrefix(r *Ring, buf []byte) error {
	for {
		got, err := r.stats.Get(stats.PacketsUnreliable)
		if err != nil {
			return newResourceError(err, "read packets_unreliable")
		}
		if got >= r.unreliable {
			return nil
		}
		_, _, err = r.io.recv(buf)
		if errors.Is(err, errTimeout) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.stats.Increment(stats.PacketsUnreliable, 1); err != nil {
			return newResourceError(err, "increment packets_unreliable")
		}
	}
}

// acceptFrame counts an accepted frame and, if a savefile is attached,
// dumps it with caplen == len == len(data) and ts_usec == 0.
func acceptFrame(d *Descriptor, r *Ring, data []byte, flush bool) error {
	if err := d.IncrementPacketsReceived(1); err != nil {
		return err
	}
	if err := r.stats.Increment(stats.PacketsReceived, 1); err != nil {
		return newResourceError(err, "increment ring packets_received")
	}

	if r.savefile == nil {
		return nil
	}
	frame := make([]byte, len(data))
	copy(frame, data)
	if err := r.savefile.Dump(timeNow().Unix(), frame, flush); err != nil {
		return newIOError(err, "dump record on ring %d", r.idx)
	}
	return nil
}
