// File: capture/descriptor.go
// Author: momentics <momentics@gmail.com>
//
// Descriptor is the top-level capture context: configuration, the owned
// vector of Rings, aggregate stats, and the three-state activation
// machine. Grounded on control/config.go's RWMutex-guarded structured
// state with setters gated by current mode, generalized from free-form
// config to an explicit Inactive/Activating/Active machine.

package capture

import (
	"sync"
	"sync/atomic"

	"github.com/momentics/rxtxcap/internal/fanout"
	"github.com/momentics/rxtxcap/pcapfile"
	"github.com/momentics/rxtxcap/ringset"
	"github.com/momentics/rxtxcap/stats"
)

// PromiscSetter enables promiscuous mode on an interface. The default
// implementation lives in the ifresolve package; capture only depends on
// this narrow interface, not on ifresolve itself.
type PromiscSetter interface {
	SetPromiscuous(ifindex int) error
}

type noopPromiscSetter struct{}

func (noopPromiscSetter) SetPromiscuous(ifindex int) error { return nil }

// savefileOpener opens the savefile at path; substituted in tests to avoid
// touching the filesystem.
type savefileOpener func(path string) (savefileSink, error)

func defaultSavefileOpener(path string) (savefileSink, error) {
	w, err := pcapfile.Open(path)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Descriptor is one capture session.
type Descriptor struct {
	mu sync.RWMutex

	cfg   Config
	state State

	rings                 []*Ring
	selection             ringset.Set
	aggStats              *stats.Stats
	initializedRingCount  int

	breakloop atomic.Bool

	ringIOFactory   ringIOFactory
	promiscSetter   PromiscSetter
	savefileOpener  savefileOpener
}

// Option customizes a Descriptor's collaborators; used by tests to inject
// fakes and by cmd/ binaries to wire real ones.
type Option func(*Descriptor)

// WithRingIOFactory overrides how each ring's socket is constructed.
func WithRingIOFactory(f ringIOFactory) Option {
	return func(d *Descriptor) { d.ringIOFactory = f }
}

// WithPromiscSetter overrides how promiscuous mode is enabled.
func WithPromiscSetter(p PromiscSetter) Option {
	return func(d *Descriptor) { d.promiscSetter = p }
}

// WithSavefileOpener overrides how savefiles are opened.
func WithSavefileOpener(f savefileOpener) Option {
	return func(d *Descriptor) { d.savefileOpener = f }
}

// NewDescriptor constructs an Inactive Descriptor with the given
// configuration and collaborators.
func NewDescriptor(cfg Config, opts ...Option) *Descriptor {
	d := &Descriptor{
		cfg:            cfg,
		state:          StateInactive,
		ringIOFactory:  defaultRingIOFactory,
		promiscSetter:  noopPromiscSetter{},
		savefileOpener: defaultSavefileOpener,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// State reports the current activation state.
func (d *Descriptor) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Config returns a copy of the current configuration.
func (d *Descriptor) Config() Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// RingCount reports how many rings were constructed (0 before activation).
func (d *Descriptor) RingCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rings)
}

// Ring returns the ring at idx, or nil if out of range or not yet active.
func (d *Descriptor) Ring(idx int) *Ring {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if idx < 0 || idx >= len(d.rings) {
		return nil
	}
	return d.rings[idx]
}

// Selected returns the ring indices workers should run for, in ascending
// order. Valid only once Activate has succeeded; returns nil before that.
func (d *Descriptor) Selected() []int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.rings) == 0 {
		return nil
	}
	out := make([]int, 0, d.selection.Count())
	ringset.ForEachSetInSize(d.selection, d.cfg.RingCount, func(i int) {
		out = append(out, i)
	})
	return out
}

func (d *Descriptor) setterGuard() error {
	if d.state != StateInactive {
		return newStateError("setter invoked while %s, not inactive", d.state)
	}
	return nil
}

// SetInterface sets the capture interface name and resolved ifindex.
func (d *Descriptor) SetInterface(name string, ifindex int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	d.cfg.Interface = name
	d.cfg.Ifindex = ifindex
	return nil
}

// SetSavefileTemplate sets the output template ("-" for standard output).
func (d *Descriptor) SetSavefileTemplate(template string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	d.cfg.SavefileTemplate = template
	return nil
}

// SetDirection sets the direction filter.
func (d *Descriptor) SetDirection(dir Direction) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	d.cfg.Direction = dir
	return nil
}

// SetFanout sets the fanout group id and mode.
func (d *Descriptor) SetFanout(groupID uint16, mode fanout.Mode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	d.cfg.FanoutGroupID = groupID
	d.cfg.FanoutMode = mode
	return nil
}

// SetRingCount sets the total number of rings to construct on activation.
func (d *Descriptor) SetRingCount(n int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	if n < 1 {
		return newConfigError("ring_count must be >= 1, got %d", n)
	}
	d.cfg.RingCount = n
	return nil
}

// SetRingSelection sets which rings should run workers.
func (d *Descriptor) SetRingSelection(sel ringset.Set) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	d.cfg.RingSelection = sel
	return nil
}

// SetPacketCount sets the aggregate packets_received cap (0 = unlimited).
func (d *Descriptor) SetPacketCount(n uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	d.cfg.PacketCount = n
	return nil
}

// SetPromiscuous toggles promiscuous mode.
func (d *Descriptor) SetPromiscuous(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	d.cfg.Promiscuous = on
	return nil
}

// SetPacketBuffered toggles flush-after-every-record.
func (d *Descriptor) SetPacketBuffered(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	d.cfg.PacketBuffered = on
	return nil
}

// SetVerbose toggles informational logging.
func (d *Descriptor) SetVerbose(on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.setterGuard(); err != nil {
		return err
	}
	d.cfg.Verbose = on
	return nil
}

// SetBreakloop requests cooperative shutdown; permitted only while Active.
func (d *Descriptor) SetBreakloop() error {
	d.mu.RLock()
	state := d.state
	d.mu.RUnlock()
	if state != StateActive {
		return newStateError("set_breakloop invoked while %s, not active", state)
	}
	d.breakloop.Store(true)
	return nil
}

// Breakloop reports whether local shutdown has been requested.
func (d *Descriptor) Breakloop() bool {
	return d.breakloop.Load()
}

// IncrementPacketsReceived adds step to the aggregate counter; permitted
// only while Active.
func (d *Descriptor) IncrementPacketsReceived(step uint64) error {
	d.mu.RLock()
	state := d.state
	agg := d.aggStats
	d.mu.RUnlock()
	if state != StateActive {
		return newStateError("increment_packets_received invoked while %s, not active", state)
	}
	if err := agg.Increment(stats.PacketsReceived, step); err != nil {
		return newResourceError(err, "increment aggregate packets_received")
	}
	return nil
}

// PacketsReceived returns the current aggregate packets_received value.
func (d *Descriptor) PacketsReceived() (uint64, error) {
	d.mu.RLock()
	agg := d.aggStats
	d.mu.RUnlock()
	if agg == nil {
		return 0, nil
	}
	v, err := agg.Get(stats.PacketsReceived)
	if err != nil {
		return 0, newResourceError(err, "read aggregate packets_received")
	}
	return v, nil
}

// Activate transitions Inactive -> Activating -> Active: constructing
// rings in index order, then measuring every ring's unreliable window only
// once all rings have joined the fanout group, then opening savefiles for
// the selected rings. On any failure the Descriptor is left Activating;
// the caller must call Close to return to Inactive.
func (d *Descriptor) Activate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state != StateInactive {
		return newStateError("activate invoked while %s, not inactive", d.state)
	}
	d.state = StateActivating

	if err := d.cfg.validate(); err != nil {
		return newConfigError("%v", err)
	}
	selection, err := d.cfg.effectiveSelection()
	if err != nil {
		return newConfigError("%v", err)
	}

	d.aggStats = stats.NewGuarded()
	d.rings = make([]*Ring, 0, d.cfg.RingCount)
	d.selection = selection
	d.initializedRingCount = 0

	for i := 0; i < d.cfg.RingCount; i++ {
		r, err := newRing(i, d.ringIOFactory, d.cfg.Ifindex, d.cfg.FanoutGroupID, d.cfg.FanoutMode)
		if err != nil {
			return err
		}
		d.rings = append(d.rings, r)
		d.initializedRingCount++
	}

	// The unreliable-prefix measurement runs only after every ring has
	// joined the fanout group, not per-ring during construction above:
	// otherwise ring 0's window would miss frames that queue while rings
	// 1..N are still being attached.
	for _, r := range d.rings {
		if err := r.measureUnreliableWindow(); err != nil {
			return err
		}
	}

	if d.cfg.Promiscuous && d.cfg.Ifindex != 0 {
		if err := d.promiscSetter.SetPromiscuous(d.cfg.Ifindex); err != nil {
			return newResourceError(err, "enable promiscuous mode on ifindex %d", d.cfg.Ifindex)
		}
	}

	if d.cfg.SavefileTemplate != "" {
		var sharedStdout *pcapfile.Shared
		var openErr error
		ringset.ForEachSetInSize(selection, d.cfg.RingCount, func(i int) {
			if openErr != nil {
				return
			}
			if d.cfg.SavefileTemplate == "-" {
				if sharedStdout == nil {
					w, err := d.savefileOpener("-")
					if err != nil {
						openErr = err
						return
					}
					writer, ok := w.(*pcapfile.Writer)
					if !ok {
						openErr = newResourceError(nil, "savefile opener returned a non-shareable sink for \"-\"")
						return
					}
					sharedStdout = pcapfile.NewShared(writer)
					d.rings[i].savefile = sharedStdout
				} else {
					d.rings[i].savefile = sharedStdout.Acquire()
				}
				return
			}
			path := pcapfile.Resolve(d.cfg.SavefileTemplate, i)
			w, err := d.savefileOpener(path)
			if err != nil {
				openErr = err
				return
			}
			d.rings[i].savefile = w
		})
		if openErr != nil {
			return newResourceError(openErr, "open savefile")
		}
	}

	d.state = StateActive
	return nil
}

// Close deactivates, frees rings in reverse index order (so a lowest-index
// ring that owns a shared savefile outlives the peers aliasing it), and
// returns the Descriptor to Inactive. Safe to call from Inactive (no-op).
func (d *Descriptor) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateInactive {
		return nil
	}

	var firstErr error
	for i := len(d.rings) - 1; i >= 0; i-- {
		if err := d.rings[i].destroy(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.rings = nil
	d.selection = ringset.Set{}
	d.aggStats = nil
	d.initializedRingCount = 0
	d.state = StateInactive
	d.breakloop.Store(false)
	return firstErr
}
