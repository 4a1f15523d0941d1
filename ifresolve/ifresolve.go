// File: ifresolve/ifresolve.go
// Author: momentics <momentics@gmail.com>
//
// Interface-name <-> index resolution, one of the out-of-scope external
// collaborators the capture engine consumes only through an interface
// (capture.PromiscSetter). This package supplies default, non-exhaustive
// implementations; a full sysfs-backed resolver is explicitly out of
// scope per spec.md §1.

package ifresolve

import (
	"fmt"
	"net"
)

// Resolver translates an interface name to its kernel index. An empty name
// resolves to ifindex 0, meaning "any interface".
type Resolver interface {
	Resolve(name string) (ifindex int, err error)
}

// NetResolver is the default Resolver, backed by net.InterfaceByName. It
// does not attempt the fuller sysfs walk (CPU/NUMA topology, multi-queue
// enumeration) the original tool's interface layer performs; that 35% of
// the original source is out of scope per spec.md §1.
type NetResolver struct{}

func (NetResolver) Resolve(name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return 0, fmt.Errorf("ifresolve: lookup %q: %w", name, err)
	}
	return iface.Index, nil
}
