// Author: momentics <momentics@gmail.com>
//
// Shared reference-counts a Writer that more than one ring dumps into, so
// the underlying sink is closed exactly once, after the last ring releases
// it, rather than by whichever ring happens to finish first.

package pcapfile

import (
	"fmt"
	"sync"
)

// Shared is a refcounted handle on a Writer. The zero value is not usable;
// construct with NewShared.
type Shared struct {
	mu   sync.Mutex
	w    *Writer
	refs int
}

// NewShared wraps w with an initial reference count of one.
func NewShared(w *Writer) *Shared {
	return &Shared{w: w, refs: 1}
}

// Acquire adds a reference, returning the shared handle itself so callers
// can pass it straight to a second ring.
func (s *Shared) Acquire() *Shared {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs++
	return s
}

// Dump forwards to the wrapped Writer. It is safe to call from multiple
// rings concurrently; Writer itself serializes access.
func (s *Shared) Dump(tsSec int64, data []byte, flush bool) error {
	s.mu.Lock()
	w := s.w
	s.mu.Unlock()
	if w == nil {
		return fmt.Errorf("pcapfile: dump on released shared writer")
	}
	return w.Dump(tsSec, data, flush)
}

// Release drops a reference, closing the underlying Writer once the count
// reaches zero. Calling Release more times than Acquire (plus the initial
// reference) returns an error instead of double-closing.
func (s *Shared) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs <= 0 {
		return fmt.Errorf("pcapfile: Release called with no outstanding reference")
	}
	s.refs--
	if s.refs > 0 {
		return nil
	}
	w := s.w
	s.w = nil
	if w == nil {
		return nil
	}
	return w.Close()
}
