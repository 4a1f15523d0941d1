// Package control holds the orchestrator-side introspection layer for the
// capture engine: a generic metrics registry the cmd/ binaries snapshot
// into on exit, and a debug probe registry the rings and runtime topology
// register themselves into. Nothing under capture/ imports this package —
// it observes a Descriptor from outside, the way a cmd/ binary does.
package control
