package pcapfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSharedClosesOnceAllReferencesReleased(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pcap")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	s := NewShared(w)
	s.Acquire()
	s.Acquire()

	for i := 0; i < 2; i++ {
		if err := s.Release(); err != nil {
			t.Fatalf("Release %d: %v", i, err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("file disappeared early: %v", err)
		}
	}

	if err := s.Release(); err != nil {
		t.Fatalf("final Release: %v", err)
	}
	if err := s.Dump(0, []byte{1}, false); err == nil {
		t.Fatal("expected error dumping through a released Shared")
	}
}

func TestSharedReleaseWithoutReferenceErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pcap")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s := NewShared(w)
	if err := s.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := s.Release(); err == nil {
		t.Fatal("expected error releasing past zero")
	}
}

func TestSharedDumpAcrossReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pcap")
	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s := NewShared(w)
	s.Acquire()

	if err := s.Dump(1, []byte{0xaa}, true); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}
