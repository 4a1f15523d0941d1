//go:build linux
// +build linux

package numaset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCPUList(t *testing.T) {
	cases := []struct {
		in   string
		want []int
	}{
		{"", nil},
		{"0", []int{0}},
		{"0-3", []int{0, 1, 2, 3}},
		{"0-1,4,8-9", []int{0, 1, 4, 8, 9}},
	}
	for _, tc := range cases {
		got, err := parseCPUList(tc.in)
		if err != nil {
			t.Fatalf("parseCPUList(%q): %v", tc.in, err)
		}
		if len(got) != len(tc.want) {
			t.Fatalf("parseCPUList(%q) = %v, want %v", tc.in, got, tc.want)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("parseCPUList(%q) = %v, want %v", tc.in, got, tc.want)
			}
		}
	}
}

func TestParseCPUListInvalid(t *testing.T) {
	if _, err := parseCPUList("a-b"); err == nil {
		t.Fatal("expected error for non-numeric range")
	}
}

func TestSysfsResolverReadsFixture(t *testing.T) {
	root := t.TempDir()
	for _, node := range []string{"node0", "node1"} {
		dir := filepath.Join(root, node)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "node0", "cpulist"), []byte("0-1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "node1", "cpulist"), []byte("2-3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := SysfsResolver{Root: root}
	n, err := r.NodeCount()
	if err != nil {
		t.Fatalf("NodeCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("NodeCount() = %d, want 2", n)
	}

	cpus, err := r.CPUSet(1)
	if err != nil {
		t.Fatalf("CPUSet(1): %v", err)
	}
	if len(cpus) != 2 || cpus[0] != 2 || cpus[1] != 3 {
		t.Fatalf("CPUSet(1) = %v, want [2 3]", cpus)
	}
}
