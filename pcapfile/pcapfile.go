// File: pcapfile/pcapfile.go
// Author: momentics <momentics@gmail.com>
//
// Pcap savefile writer: wraps a pcapgo.Writer with the exclusive-access
// discipline a ring's worker needs when dumping one record at a time, and
// a template-based naming scheme for per-ring output files.

package pcapfile

import (
	"fmt"
	"os"
	"sync"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/gopacket/gopacket/pcapgo"
)

// Snaplen is the fixed snapshot length the engine always declares; frames
// are never truncated, so this only bounds what a reader should expect.
const Snaplen = 65535

// Writer is a single-owner pcap savefile sink.
type Writer struct {
	mu     sync.Mutex
	name   string
	sink   *os.File
	isStd  bool
	pcapgo *pcapgo.Writer
}

// Open resolves path (treating "-" as standard output; otherwise creating
// or truncating the target file), writes the pcap global header, and
// returns a ready-to-use Writer.
func Open(path string) (*Writer, error) {
	w := &Writer{name: path}

	if path == "-" {
		w.sink = os.Stdout
		w.isStd = true
	} else {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("pcapfile: open %q: %w", path, err)
		}
		w.sink = f
	}

	w.pcapgo = pcapgo.NewWriter(w.sink)
	if err := w.pcapgo.WriteFileHeader(Snaplen, layers.LinkTypeEthernet); err != nil {
		if !w.isStd {
			w.sink.Close()
		}
		return nil, fmt.Errorf("pcapfile: write header for %q: %w", path, err)
	}

	return w, nil
}

// Name returns the resolved savefile path ("-" for standard output).
func (w *Writer) Name() string {
	return w.name
}

// Dump writes one record (caplen == len == len(data) always) and optionally
// flushes it to the underlying sink immediately.
func (w *Writer) Dump(tsSec int64, data []byte, flush bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ci := gopacket.CaptureInfo{
		Timestamp:     timeFromUnixSeconds(tsSec),
		CaptureLength: len(data),
		Length:        len(data),
	}
	if err := w.pcapgo.WritePacket(ci, data); err != nil {
		return fmt.Errorf("pcapfile: write record to %q: %w", w.name, err)
	}
	if flush {
		if err := w.sink.Sync(); err != nil && !w.isStd {
			return fmt.Errorf("pcapfile: flush %q: %w", w.name, err)
		}
	}
	return nil
}

// Release closes the Writer. It exists alongside Close so a *Writer and a
// *Shared can both satisfy an end-of-life interface that doesn't care
// whether the sink is exclusively or jointly owned.
func (w *Writer) Release() error {
	return w.Close()
}

// Close flushes any pending data and closes the underlying sink (unless it
// is standard output, which is left open for the process).
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isStd {
		return nil
	}
	if w.sink == nil {
		return nil
	}
	err := w.sink.Close()
	w.sink = nil
	if err != nil {
		return fmt.Errorf("pcapfile: close %q: %w", w.name, err)
	}
	return nil
}
