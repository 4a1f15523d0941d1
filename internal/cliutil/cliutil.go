// File: internal/cliutil/cliutil.go
// Author: momentics <momentics@gmail.com>
//
// Shared orchestrator plumbing for cmd/rxtxcpu and cmd/rxtxnuma, ported
// from the coordinator/cmd/coordinator pattern: a signal-aware
// Interrupted error and a zap SugaredLogger builder.

package cliutil

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/momentics/rxtxcap/capture"
	"github.com/momentics/rxtxcap/ringset"
	"go.uber.org/zap"
)

// Interrupted wraps the os.Signal that ended a WaitInterrupted call.
type Interrupted struct {
	os.Signal
}

func (m Interrupted) Error() string {
	return m.String()
}

// WaitInterrupted blocks until SIGINT or SIGTERM arrives or ctx is
// canceled, whichever comes first.
func WaitInterrupted(ctx context.Context) error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case v := <-ch:
		return Interrupted{Signal: v}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewLogger builds the SugaredLogger every cmd/ binary logs through.
func NewLogger(verbose bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Development = false
	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	} else {
		cfg.Level.SetLevel(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// ParseDirection maps a flag value to capture.Direction.
func ParseDirection(s string) (capture.Direction, error) {
	switch strings.ToLower(s) {
	case "", "both":
		return capture.DirectionBoth, nil
	case "in", "rx", "inbound":
		return capture.DirectionIn, nil
	case "out", "tx", "outbound":
		return capture.DirectionOut, nil
	default:
		return 0, fmt.Errorf("cliutil: unknown direction %q (want in, out, or both)", s)
	}
}

// ParseIndexList parses a comma-separated list of indices and inclusive
// ranges ("0,2-4") into a ringset.Set. An empty string yields an empty Set,
// meaning "unset" to callers such as capture.Config.RingSelection.
func ParseIndexList(s string) (ringset.Set, error) {
	sel := ringset.New()
	s = strings.TrimSpace(s)
	if s == "" {
		return sel, nil
	}
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(field, "-")
		loN, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return ringset.Set{}, fmt.Errorf("cliutil: invalid index %q: %w", field, err)
		}
		hiN := loN
		if isRange {
			hiN, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return ringset.Set{}, fmt.Errorf("cliutil: invalid range %q: %w", field, err)
			}
		}
		if hiN < loN {
			return ringset.Set{}, fmt.Errorf("cliutil: invalid range %q: end before start", field)
		}
		for i := loN; i <= hiN; i++ {
			sel.Set(i)
		}
	}
	return sel, nil
}
