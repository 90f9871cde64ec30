package logging

import (
	"runtime"
	"sync"
)

// guard is the process-wide critical section protecting engine state, the
// module filter table, the backend registry and synchronous dispatch.
//
// Acquisition consults the host's interrupt-context predicate. When it
// reports true the guard must not block the caller, so acquisition
// degrades to a spin on TryLock of the same mutex. Both paths contend on
// one primitive, keeping them mutually exclusive. The guard holds no
// mutable state of its own; the predicate is passed in per acquisition.
type guard struct {
	mu sync.Mutex
}

func (g *guard) Enter(inInterrupt func() bool) {
	if inInterrupt != nil && inInterrupt() {
		for !g.mu.TryLock() {
			runtime.Gosched()
		}
		return
	}
	g.mu.Lock()
}

func (g *guard) Exit() {
	g.mu.Unlock()
}
