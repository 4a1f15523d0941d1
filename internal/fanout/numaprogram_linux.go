//go:build linux
// +build linux

// File: internal/fanout/numaprogram_linux.go
// Author: momentics <momentics@gmail.com>
//
// Loads the tiny eBPF socket-filter program the rxtxnuma variant attaches
// via PACKET_FANOUT_EBPF, ported 1:1 from original_source/rxtxnuma.c's
// inline `struct bpf_insn prog[]` and its raw bpf(2)/BPF_PROG_LOAD call —
// the program is two instructions: call the bpf_get_numa_node_id helper,
// then return its result as the fanout target.

package fanout

import (
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	bpfProgTypeSocketFilter = 1
	bpfProgLoadCmd          = 5
	bpfCallNumaNodeID       = 42 // BPF_FUNC_get_numa_node_id
)

// bpfInsn mirrors struct bpf_insn from linux/bpf.h: 8 bytes, naturally
// aligned, no explicit padding required.
type bpfInsn struct {
	code   uint8
	regs   uint8 // dst_reg in the low nibble, src_reg in the high nibble
	off    int16
	imm    int32
}

// bpfAttrProgLoad mirrors the BPF_PROG_LOAD arm of union bpf_attr, to the
// extent this loader needs; the kernel zero-fills any trailing fields of
// the real union this struct's size falls short of.
type bpfAttrProgLoad struct {
	progType    uint32
	insnCnt     uint32
	insns       uint64
	license     uint64
	logLevel    uint32
	logSize     uint32
	logBuf      uint64
	kernVersion uint32
	_           uint32
}

// LoadNUMAProgram loads the NUMA-fanout eBPF program and returns its
// kernel-held program fd, suitable for fanout.NUMAViaProgram.FD.
func LoadNUMAProgram() (int, error) {
	prog := []bpfInsn{
		{code: 0x85, regs: 0x00, off: 0, imm: bpfCallNumaNodeID}, // call 42
		{code: 0x95, regs: 0x00, off: 0, imm: 0},                 // exit
	}
	license := []byte("Dual MIT/GPL\x00")
	logBuf := make([]byte, 65536)

	attr := bpfAttrProgLoad{
		progType:    bpfProgTypeSocketFilter,
		insnCnt:     uint32(len(prog)),
		insns:       uint64(uintptr(unsafe.Pointer(&prog[0]))),
		license:     uint64(uintptr(unsafe.Pointer(&license[0]))),
		logLevel:    1,
		logSize:     uint32(len(logBuf)),
		logBuf:      uint64(uintptr(unsafe.Pointer(&logBuf[0]))),
		kernVersion: 0,
	}

	fd, _, errno := unix.Syscall(unix.SYS_BPF, uintptr(bpfProgLoadCmd), uintptr(unsafe.Pointer(&attr)), unsafe.Sizeof(attr))
	runtime.KeepAlive(prog)
	runtime.KeepAlive(license)
	runtime.KeepAlive(logBuf)
	if errno != 0 {
		return -1, fmt.Errorf("fanout: BPF_PROG_LOAD failed: %w (verifier log: %s)", errno, trimNulTail(logBuf))
	}
	return int(fd), nil
}

func trimNulTail(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
