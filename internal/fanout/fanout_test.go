package fanout

import "testing"

func TestCPUModuloValidate(t *testing.T) {
	if err := (CPUModulo{}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mode, fd, needsData := KernelArg(CPUModulo{})
	if mode != cpuModuloMode || fd != 0 || needsData {
		t.Fatalf("kernelArg = (%d, %d, %v)", mode, fd, needsData)
	}
}

func TestNUMAViaProgramValidation(t *testing.T) {
	if err := (NUMAViaProgram{FD: 0}).Validate(); err == nil {
		t.Fatal("expected error for FD<=0")
	}
	if err := (NUMAViaProgram{FD: -1}).Validate(); err == nil {
		t.Fatal("expected error for negative FD")
	}
	valid := NUMAViaProgram{FD: 7}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mode, fd, needsData := KernelArg(valid)
	if mode != ebpfMode || fd != 7 || !needsData {
		t.Fatalf("kernelArg = (%d, %d, %v)", mode, fd, needsData)
	}
}

func TestStringers(t *testing.T) {
	if (CPUModulo{}).String() == "" {
		t.Fatal("expected non-empty string")
	}
	if (NUMAViaProgram{FD: 3}).String() == "" {
		t.Fatal("expected non-empty string")
	}
}
