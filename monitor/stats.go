package monitor

import "sync/atomic"

// Stats is a point-in-time snapshot of a monitor's activity.
type Stats struct {
	// Acquisitions counts successful acquisitions, reentrant ones included.
	Acquisitions uint64

	// Contended counts acquisitions that had to block.
	Contended uint64

	// Waits counts calls that entered the wait-set.
	Waits uint64

	// Notified counts waiters removed from the wait-set by NotifyOne or
	// NotifyAll.
	Notified uint64

	// Timeouts counts waits that ended because their timeout elapsed.
	Timeouts uint64

	// Interruptions counts waits and acquires that failed with
	// ErrInterrupted.
	Interruptions uint64

	// IllegalStates counts operations rejected with ErrIllegalMonitorState.
	IllegalStates uint64

	// Waiting is the current size of the wait-set.
	Waiting int

	// Blocked is the number of goroutines currently blocked in acquire.
	Blocked int

	// Held reports whether the monitor was owned when the snapshot was taken.
	Held bool
}

// counters are the cumulative fields of Stats. Updated with atomics so that
// Stats never needs to wait for the state lock longer than a snapshot of the
// gauges.
type counters struct {
	acquisitions  atomic.Uint64
	contended     atomic.Uint64
	waits         atomic.Uint64
	notified      atomic.Uint64
	timeouts      atomic.Uint64
	interruptions atomic.Uint64
	illegalStates atomic.Uint64
}

// Stats returns a snapshot of the monitor's counters and gauges.
//
// Thread Safety: Safe for concurrent calls; counters read while other
// goroutines operate on the monitor may be mutually inconsistent by a few
// events.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	waiting := len(m.waitSet)
	blocked := len(m.entry)
	held := m.depth > 0
	m.mu.Unlock()

	return Stats{
		Acquisitions:  m.stats.acquisitions.Load(),
		Contended:     m.stats.contended.Load(),
		Waits:         m.stats.waits.Load(),
		Notified:      m.stats.notified.Load(),
		Timeouts:      m.stats.timeouts.Load(),
		Interruptions: m.stats.interruptions.Load(),
		IllegalStates: m.stats.illegalStates.Load(),
		Waiting:       waiting,
		Blocked:       blocked,
		Held:          held,
	}
}
