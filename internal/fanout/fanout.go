// File: internal/fanout/fanout.go
// Author: momentics <momentics@gmail.com>
//
// Tagged variant for the kernel PACKET_FANOUT mode selector, replacing a
// bare (mode int, dataFD int) pair so that modes requiring auxiliary data
// can be rejected at config-validation time rather than at setsockopt time.

package fanout

import "fmt"

// Mode selects how the kernel distributes frames across the fanout group's
// member sockets.
type Mode interface {
	// kernelArg returns the PACKET_FANOUT mode nibble and, when needsData
	// is true, the auxiliary fd the mode requires (e.g. the eBPF program
	// fd PACKET_FANOUT_EBPF uses for NUMA placement).
	kernelArg() (mode int32, dataFD int, needsData bool)
	// Validate reports whether the mode is internally consistent.
	Validate() error
	fmt.Stringer
}

// KernelArg exposes Mode's internal representation to the capture package.
func KernelArg(m Mode) (mode int32, dataFD int, needsData bool) {
	return m.kernelArg()
}

// CPUModulo sends each frame to the member socket selected by the CPU that
// received it, modulo the group size, matching PACKET_FANOUT_CPU.
type CPUModulo struct{}

func (CPUModulo) kernelArg() (int32, int, bool) { return cpuModuloMode, 0, false }
func (CPUModulo) Validate() error               { return nil }
func (CPUModulo) String() string                { return "cpu-modulo" }

// NUMAViaProgram distributes frames using an eBPF socket-filter program
// (loaded by the orchestrator via bpf(2)/BPF_PROG_LOAD, identified by FD)
// whose return value is the destination ring index — the NUMA variant
// loads a two-instruction program that calls bpf_get_numa_node_id().
type NUMAViaProgram struct {
	FD int
}

func (m NUMAViaProgram) kernelArg() (int32, int, bool) { return ebpfMode, m.FD, true }

func (m NUMAViaProgram) Validate() error {
	if m.FD <= 0 {
		return fmt.Errorf("fanout: NUMAViaProgram requires a positive data fd, got %d", m.FD)
	}
	return nil
}

func (m NUMAViaProgram) String() string { return fmt.Sprintf("numa-via-program(fd=%d)", m.FD) }

// Kernel mode nibbles, matching linux/if_packet.h's PACKET_FANOUT_* values.
const (
	cpuModuloMode int32 = 2 // PACKET_FANOUT_CPU
	ebpfMode      int32 = 7 // PACKET_FANOUT_EBPF
)
