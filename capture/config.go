// File: capture/config.go
// Author: momentics <momentics@gmail.com>

package capture

import (
	"fmt"

	"github.com/momentics/rxtxcap/internal/fanout"
	"github.com/momentics/rxtxcap/ringset"
)

// Direction selects which frames a worker keeps.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
	DirectionBoth
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	case DirectionBoth:
		return "both"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Config is the full configuration surface a Descriptor accepts before
// activation. Every field here is settable only while the Descriptor is
// Inactive.
type Config struct {
	// Interface identifies the capture source. Ifindex 0 with an empty
	// Interface means "any interface".
	Interface string
	Ifindex   int

	// SavefileTemplate, when non-empty, is resolved per-ring via
	// pcapfile.Resolve; "-" shares one Writer across all selected rings.
	SavefileTemplate string

	Direction Direction

	FanoutGroupID uint16
	FanoutMode    fanout.Mode

	RingCount     int
	RingSelection ringset.Set

	// PacketCount is the aggregate packets_received cap; 0 means unlimited.
	PacketCount uint64

	PacketBuffered bool
	Promiscuous    bool
	Verbose        bool
}

func (c Config) validate() error {
	if c.FanoutMode == nil {
		return fmt.Errorf("fanout mode is required")
	}
	if err := c.FanoutMode.Validate(); err != nil {
		return fmt.Errorf("fanout mode: %w", err)
	}
	if c.RingCount < 1 {
		return fmt.Errorf("ring_count must be >= 1, got %d", c.RingCount)
	}
	return nil
}

// effectiveSelection returns the ring-selection bitset to drive savefile
// and worker fan-out from, expanding an empty selection to "all rings" as
// required before activation.
func (c Config) effectiveSelection() (ringset.Set, error) {
	sel := c.RingSelection
	if sel.Count() == 0 {
		sel = ringset.New()
		ringset.ForEachInSize(c.RingCount, func(i int) { sel.Set(i) })
		return sel, nil
	}
	for i := 0; i < ringset.Setsize; i++ {
		if sel.IsSet(i) && i >= c.RingCount {
			return ringset.Set{}, fmt.Errorf("ring selection contains out-of-range index %d (ring_count=%d)", i, c.RingCount)
		}
	}
	return sel, nil
}
