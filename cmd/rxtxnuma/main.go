// File: cmd/rxtxnuma/main.go
// Author: momentics <momentics@gmail.com>
//
// The rxtxnuma binary: fans AF_PACKET traffic across one ring per NUMA
// node via an eBPF PACKET_FANOUT_EBPF program that returns
// bpf_get_numa_node_id(), pinning each worker to the whole CPU set of the
// node it drains. Orchestration shape shared with cmd/rxtxcpu, itself
// ported from coordinator/cmd/coordinator/main.go.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/rxtxcap/capture"
	"github.com/momentics/rxtxcap/control"
	"github.com/momentics/rxtxcap/ifresolve"
	"github.com/momentics/rxtxcap/internal/cliutil"
	"github.com/momentics/rxtxcap/internal/fanout"
	"github.com/momentics/rxtxcap/numaset"
)

// Cmd is the command line arguments.
type Cmd struct {
	Interface        string
	SavefileTemplate string
	Direction        string
	RingSelection    string
	PacketCount      uint64
	Promiscuous      bool
	PacketBuffered   bool
	Verbose          bool
	FanoutGroup      uint16
}

var cmd Cmd

var rootCmd = &cobra.Command{
	Use:   "rxtxnuma",
	Short: "Capture packets fanned out across one worker ring per NUMA node",
	Run: func(rawCmd *cobra.Command, _ []string) {
		code := run(cmd)
		if code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&cmd.Interface, "interface", "i", "", "capture interface (empty = any)")
	f.StringVarP(&cmd.SavefileTemplate, "write", "w", "", `pcap output template, "-" for standard output`)
	f.StringVarP(&cmd.Direction, "direction", "d", "both", "direction filter: in, out, or both")
	f.StringVarP(&cmd.RingSelection, "rings", "r", "", `NUMA node indices to run, e.g. "0,2-3" (empty = all)`)
	f.Uint64VarP(&cmd.PacketCount, "count", "c", 0, "stop after this many packets total (0 = unlimited)")
	f.BoolVarP(&cmd.Promiscuous, "promiscuous", "p", false, "enable promiscuous mode on the interface")
	f.BoolVarP(&cmd.PacketBuffered, "buffered", "b", false, "flush the savefile after every record")
	f.BoolVarP(&cmd.Verbose, "verbose", "v", false, "log informational messages to stderr")
	f.Uint16Var(&cmd.FanoutGroup, "fanout-group", uint16(os.Getpid()&0xffff), "PACKET_FANOUT group id")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rxtxnuma: %v\n", err)
		os.Exit(2)
	}
}

// resolveTopology prefers the sysfs-backed resolver and falls back to the
// single-node default when /sys/devices/system/node is unreadable, e.g.
// inside a container without it mounted.
func resolveTopology(logger interface{ Warnw(string, ...interface{}) }) numaset.Resolver {
	sysfs := numaset.SysfsResolver{}
	if _, err := sysfs.NodeCount(); err == nil {
		return sysfs
	}
	logger.Warnw("numa sysfs unavailable, falling back to a single node")
	return numaset.DefaultResolver{}
}

func run(cmd Cmd) int {
	logger, err := cliutil.NewLogger(cmd.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rxtxnuma: failed to build logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	dir, err := cliutil.ParseDirection(cmd.Direction)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rxtxnuma:", err)
		return 2
	}

	selection, err := cliutil.ParseIndexList(cmd.RingSelection)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rxtxnuma:", err)
		return 2
	}

	ifindex, err := (ifresolve.NetResolver{}).Resolve(cmd.Interface)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rxtxnuma:", err)
		return 2
	}

	topo := resolveTopology(logger)
	nodeCount, err := topo.NodeCount()
	if err != nil || nodeCount < 1 {
		fmt.Fprintf(os.Stderr, "rxtxnuma: failed to determine NUMA node count: %v\n", err)
		return 2
	}

	nodeCPU := make([][]int, nodeCount)
	for node := 0; node < nodeCount; node++ {
		cpus, err := topo.CPUSet(node)
		if err != nil || len(cpus) == 0 {
			fmt.Fprintf(os.Stderr, "rxtxnuma: failed to resolve cpu set for node %d: %v\n", node, err)
			return 2
		}
		nodeCPU[node] = cpus
	}

	progFD, err := fanout.LoadNUMAProgram()
	if err != nil {
		fmt.Fprintln(os.Stderr, "rxtxnuma:", err)
		return 1
	}

	cfg := capture.Config{
		Interface:        cmd.Interface,
		Ifindex:          ifindex,
		SavefileTemplate: cmd.SavefileTemplate,
		Direction:        dir,
		FanoutGroupID:    cmd.FanoutGroup,
		FanoutMode:       fanout.NUMAViaProgram{FD: progFD},
		RingCount:        nodeCount,
		RingSelection:    selection,
		PacketCount:      cmd.PacketCount,
		PacketBuffered:   cmd.PacketBuffered,
		Promiscuous:      cmd.Promiscuous,
		Verbose:          cmd.Verbose,
	}

	d := capture.NewDescriptor(cfg, capture.WithPromiscSetter(ifresolve.DefaultPromiscSetter{}))
	if err := d.Activate(); err != nil {
		fmt.Fprintln(os.Stderr, "rxtxnuma:", err)
		d.Close()
		if ce, ok := err.(*capture.CaptureError); ok && ce.Kind == capture.ErrKindConfig {
			return 2
		}
		return 1
	}
	defer d.Close()

	debug := control.NewDebugProbes()
	control.RegisterPlatformProbes(debug, topo)
	for _, idx := range d.Selected() {
		idx := idx
		debug.RegisterProbe(fmt.Sprintf("ring.%d", idx), func() any {
			received, unreliable := d.Ring(idx).Snapshot()
			return map[string]uint64{"packets_received": received, "packets_unreliable": unreliable}
		})
	}

	if cmd.Verbose {
		logger.Infow("capture activated", "interface", cmd.Interface, "nodes", nodeCount, "selected", d.Selected())
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := cliutil.WaitInterrupted(watchCtx); err != nil {
			if _, ok := err.(cliutil.Interrupted); ok {
				logger.Infow("received interrupt, stopping workers")
				capture.SetGlobalBreakloop()
			}
		}
	}()

	var wg errgroup.Group
	for _, idx := range d.Selected() {
		idx, cpus := idx, nodeCPU[idx]
		wg.Go(func() error {
			return capture.RunWorker(d, d.Ring(idx), cpus, logger)
		})
	}
	workerErr := wg.Wait()
	stopWatch()

	metrics := control.NewMetricsRegistry()
	total, _ := d.PacketsReceived()
	metrics.Set("packets_received_total", total)
	if cmd.Verbose {
		logger.Infow("capture finished", "metrics", metrics.GetSnapshot(), "rings", debug.DumpState())
	}

	if workerErr != nil {
		fmt.Fprintln(os.Stderr, "rxtxnuma:", workerErr)
		return 1
	}
	return 0
}
