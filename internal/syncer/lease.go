package syncer

import (
	"sync"
	"sync/atomic"
)

// Lease is a process-wide single-flight guard. A trigger that finds it
// held does nothing; the durable queue is re-evaluated on the next one.
type Lease struct {
	busy atomic.Bool
}

// TryAcquire takes the lease if it is free. The returned release is
// idempotent.
func (l *Lease) TryAcquire() (release func(), ok bool) {
	if !l.busy.CompareAndSwap(false, true) {
		return nil, false
	}
	var once sync.Once
	return func() {
		once.Do(func() { l.busy.Store(false) })
	}, true
}

// Busy reports whether a pass currently holds the lease.
func (l *Lease) Busy() bool {
	return l.busy.Load()
}
