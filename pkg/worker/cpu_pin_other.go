//go:build !linux

package worker

// pinToCPU is a no-op outside Linux: affinity support isn't portable,
// and spec.md §5 only requires pinning "when core enumeration
// succeeds" — on other platforms it never does.
func pinToCPU(cpu int) error { return nil }
