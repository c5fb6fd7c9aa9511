//go:build linux

package worker

import "golang.org/x/sys/unix"

// pinToCPU binds the calling OS thread to a single CPU core (spec.md §5
// "each bound to its own CPU core when core enumeration succeeds").
// Callers must runtime.LockOSThread() first so the binding survives for
// the goroutine's lifetime. cpu is reduced modulo the online CPU count
// so a worker count larger than NumCPU still gets a valid target.
func pinToCPU(cpu int) error {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err != nil {
		return err
	}
	total := set.Count()
	if total == 0 {
		return nil
	}
	target := cpu % total
	var pinned unix.CPUSet
	pinned.Zero()
	pinned.Set(target)
	return unix.SchedSetaffinity(0, &pinned)
}
