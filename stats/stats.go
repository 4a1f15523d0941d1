// File: stats/stats.go
// Author: momentics <momentics@gmail.com>
//
// Monotonic packet-capture counters, optionally guarded by a mutex for
// cross-goroutine access. The mutex-less variant is for per-ring stats
// touched by exactly one worker goroutine; the guarded variant is for the
// descriptor-aggregate counters shared by every worker.

package stats

import "sync"

// Field identifies one of the four counters tracked by Stats.
type Field int

const (
	PacketsReceived Field = iota
	PacketsUnreliable
	TPPackets
	TPDrops
)

// Stats holds four monotonically non-decreasing counters. The zero value is
// a usable, mutex-less Stats suitable for single-goroutine (per-ring) use.
type Stats struct {
	mu *sync.Mutex

	packetsReceived   uint64
	packetsUnreliable uint64
	tpPackets         uint64
	tpDrops           uint64
}

// New returns a mutex-less Stats for single-goroutine ownership.
func New() *Stats {
	return &Stats{}
}

// NewGuarded returns a Stats guarded by its own mutex, for sharing across
// goroutines (the descriptor-aggregate case).
func NewGuarded() *Stats {
	return &Stats{mu: &sync.Mutex{}}
}

// Get reads the named counter.
func (s *Stats) Get(f Field) (uint64, error) {
	if s.mu != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	switch f {
	case PacketsReceived:
		return s.packetsReceived, nil
	case PacketsUnreliable:
		return s.packetsUnreliable, nil
	case TPPackets:
		return s.tpPackets, nil
	case TPDrops:
		return s.tpDrops, nil
	default:
		return 0, errInvalidField
	}
}

// Increment adds step to the named counter.
func (s *Stats) Increment(f Field, step uint64) error {
	if s.mu != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	switch f {
	case PacketsReceived:
		s.packetsReceived += step
	case PacketsUnreliable:
		s.packetsUnreliable += step
	case TPPackets:
		s.tpPackets += step
	case TPDrops:
		s.tpDrops += step
	default:
		return errInvalidField
	}
	return nil
}
