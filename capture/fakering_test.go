package capture

import (
	"fmt"
	"sync"
	"time"
)

// fakeFrame is one frame a fakeRingIO will hand back from recv, in order.
type fakeFrame struct {
	data     []byte
	outgoing bool
}

// fakeRingIO is an in-process stand-in for a kernel packet socket, letting
// tests drive Ring/Descriptor/worker behavior deterministically without an
// AF_PACKET socket or root privilege.
type fakeRingIO struct {
	mu sync.Mutex

	frames []fakeFrame

	tpPackets, tpDrops uint64

	// calls records the setup methods in the order they were invoked.
	calls []string

	ringOptionsSet bool
	recvTimeout    time.Duration
	boundIfindex   int
	fanoutJoined   bool
	fanoutGroupID  uint16
	fanoutMode     int32
	fanoutDataFD   int
	closed         bool
}

func (f *fakeRingIO) setRingOptions() error {
	f.calls = append(f.calls, "setRingOptions")
	f.ringOptionsSet = true
	return nil
}

func (f *fakeRingIO) setRecvTimeout(d time.Duration) error {
	f.calls = append(f.calls, "setRecvTimeout")
	f.recvTimeout = d
	return nil
}

func (f *fakeRingIO) bind(ifindex int) error {
	f.calls = append(f.calls, "bind")
	f.boundIfindex = ifindex
	return nil
}

func (f *fakeRingIO) joinFanout(groupID uint16, mode int32, dataFD int, needsData bool) error {
	f.calls = append(f.calls, "joinFanout")
	f.fanoutJoined = true
	f.fanoutGroupID = groupID
	f.fanoutMode = mode
	if needsData {
		f.fanoutDataFD = dataFD
	}
	return nil
}

func (f *fakeRingIO) queryStats() (uint64, uint64, error) {
	return f.tpPackets, f.tpDrops, nil
}

func (f *fakeRingIO) recv(buf []byte) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		return 0, false, errTimeout
	}
	fr := f.frames[0]
	f.frames = f.frames[1:]
	n := copy(buf, fr.data)
	return n, fr.outgoing, nil
}

func (f *fakeRingIO) close() error {
	f.closed = true
	return nil
}

func (f *fakeRingIO) push(frames ...fakeFrame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frames...)
}

// sequentialFactory returns a ringIOFactory that hands out ios in order,
// matching Activate's sequential index-ordered ring construction.
func sequentialFactory(ios ...*fakeRingIO) ringIOFactory {
	i := 0
	return func(ifindex int) (ringIO, error) {
		if i >= len(ios) {
			return nil, fmt.Errorf("fakering: factory exhausted after %d calls", i)
		}
		io := ios[i]
		i++
		return io, nil
	}
}
