package capture

import (
	"testing"

	"github.com/momentics/rxtxcap/internal/fanout"
	"github.com/momentics/rxtxcap/ringset"
)

func TestConfigValidateRequiresFanoutMode(t *testing.T) {
	c := Config{RingCount: 1}
	if err := c.validate(); err == nil {
		t.Fatal("expected error for missing fanout mode")
	}
}

func TestConfigValidateRejectsZeroRingCount(t *testing.T) {
	c := Config{FanoutMode: fanout.CPUModulo{}, RingCount: 0}
	if err := c.validate(); err == nil {
		t.Fatal("expected error for ring_count 0")
	}
}

func TestConfigValidateRejectsInvalidFanoutMode(t *testing.T) {
	c := Config{FanoutMode: fanout.NUMAViaProgram{FD: 0}, RingCount: 2}
	if err := c.validate(); err == nil {
		t.Fatal("expected error for fd<=0 NUMAViaProgram")
	}
}

func TestConfigValidateAccepts(t *testing.T) {
	c := Config{FanoutMode: fanout.CPUModulo{}, RingCount: 4}
	if err := c.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEffectiveSelectionExpandsEmptyToAll(t *testing.T) {
	c := Config{RingCount: 3}
	sel, err := c.effectiveSelection()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if !sel.IsSet(i) {
			t.Fatalf("expected ring %d selected", i)
		}
	}
	if sel.IsSet(3) {
		t.Fatal("expected ring 3 unselected")
	}
}

func TestEffectiveSelectionRejectsOutOfRange(t *testing.T) {
	c := Config{RingCount: 2}
	sel := ringset.New()
	sel.Set(5)
	c.RingSelection = sel
	if _, err := c.effectiveSelection(); err == nil {
		t.Fatal("expected error for out-of-range selection")
	}
}

func TestEffectiveSelectionPreservesExplicitSubset(t *testing.T) {
	c := Config{RingCount: 4}
	sel := ringset.New()
	sel.Set(1)
	sel.Set(3)
	c.RingSelection = sel
	got, err := c.effectiveSelection()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsSet(0) || got.IsSet(2) || !got.IsSet(1) || !got.IsSet(3) {
		t.Fatalf("unexpected selection: %+v", got)
	}
}
