// File: cmd/rxtxcpu/main.go
// Author: momentics <momentics@gmail.com>
//
// The rxtxcpu binary: fans AF_PACKET traffic across one ring per logical
// CPU via PACKET_FANOUT_CPU, pinning each worker to the CPU it drains.
// Orchestration shape (cobra root command, zap logger, errgroup-joined
// worker goroutines racing a signal watcher) ported from
// coordinator/cmd/coordinator/main.go.

package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/rxtxcap/capture"
	"github.com/momentics/rxtxcap/control"
	"github.com/momentics/rxtxcap/ifresolve"
	"github.com/momentics/rxtxcap/internal/cliutil"
	"github.com/momentics/rxtxcap/internal/fanout"
)

// Cmd is the command line arguments.
type Cmd struct {
	Interface        string
	SavefileTemplate string
	Direction        string
	RingSelection    string
	RingCount        int
	PacketCount      uint64
	Promiscuous      bool
	PacketBuffered   bool
	Verbose          bool
	FanoutGroup      uint16
}

var cmd Cmd

var rootCmd = &cobra.Command{
	Use:   "rxtxcpu",
	Short: "Capture packets fanned out across one worker ring per CPU",
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
	f.StringVarP(&cmd.RingSelection, "rings", "r", "", `ring indices to run, e.g. "0,2-3" (empty = all)`)
	f.IntVarP(&cmd.RingCount, "ring-count", "n", runtime.NumCPU(), "number of rings (defaults to the CPU count)")
	f.Uint64VarP(&cmd.PacketCount, "count", "c", 0, "stop after this many packets total (0 = unlimited)")
	f.BoolVarP(&cmd.Promiscuous, "promiscuous", "p", false, "enable promiscuous mode on the interface")
	f.BoolVarP(&cmd.PacketBuffered, "buffered", "b", false, "flush the savefile after every record")
	f.BoolVarP(&cmd.Verbose, "verbose", "v", false, "log informational messages to stderr")
	f.Uint16Var(&cmd.FanoutGroup, "fanout-group", uint16(os.Getpid()&0xffff), "PACKET_FANOUT group id")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rxtxcpu: %v\n", err)
		os.Exit(2)
	}
}

// run returns the process exit code: 0 on a clean capture (including one
// ended by SIGINT/SIGTERM), 1 on a fatal runtime failure, 2 on a
// configuration or usage failure.
func run(cmd Cmd) int {
	logger, err := cliutil.NewLogger(cmd.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rxtxcpu: failed to build logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	dir, err := cliutil.ParseDirection(cmd.Direction)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rxtxcpu:", err)
		return 2
	}

	selection, err := cliutil.ParseIndexList(cmd.RingSelection)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rxtxcpu:", err)
		return 2
	}

	ifindex, err := (ifresolve.NetResolver{}).Resolve(cmd.Interface)
	if err != nil {
		fmt.Fprintln(os.Stderr, "rxtxcpu:", err)
		return 2
	}

	cfg := capture.Config{
		Interface:        cmd.Interface,
		Ifindex:          ifindex,
		SavefileTemplate: cmd.SavefileTemplate,
		Direction:        dir,
		FanoutGroupID:    cmd.FanoutGroup,
		FanoutMode:       fanout.CPUModulo{},
		RingCount:        cmd.RingCount,
		RingSelection:    selection,
		PacketCount:      cmd.PacketCount,
		PacketBuffered:   cmd.PacketBuffered,
		Promiscuous:      cmd.Promiscuous,
		Verbose:          cmd.Verbose,
	}

	d := capture.NewDescriptor(cfg, capture.WithPromiscSetter(ifresolve.DefaultPromiscSetter{}))
	if err := d.Activate(); err != nil {
		fmt.Fprintln(os.Stderr, "rxtxcpu:", err)
		d.Close()
		if ce, ok := err.(*capture.CaptureError); ok && ce.Kind == capture.ErrKindConfig {
			return 2
		}
		return 1
	}
	defer d.Close()

	debug := control.NewDebugProbes()
	control.RegisterPlatformProbes(debug, nil)
	for _, idx := range d.Selected() {
		idx := idx
		debug.RegisterProbe(fmt.Sprintf("ring.%d", idx), func() any {
			received, unreliable := d.Ring(idx).Snapshot()
			return map[string]uint64{"packets_received": received, "packets_unreliable": unreliable}
		})
	}

	if cmd.Verbose {
		logger.Infow("capture activated", "interface", cmd.Interface, "rings", d.RingCount(), "selected", d.Selected())
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
		idx := idx
		wg.Go(func() error {
			return capture.RunWorker(d, d.Ring(idx), []int{idx}, logger)
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
		fmt.Fprintln(os.Stderr, "rxtxcpu:", workerErr)
		return 1
	}
	return 0
}
