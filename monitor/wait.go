package monitor

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/kolkov/objmonitor/internal/thread"
)

// maxNanos is the largest sub-millisecond remainder accepted by WaitNanos.
const maxNanos = 999999

// Wait suspends the calling goroutine until it is notified or interrupted.
// It is WaitNanos(0, 0).
func (m *Monitor) Wait() error {
	return m.WaitNanos(0, 0)
}

// WaitMillis waits for at most timeoutMillis milliseconds. A zero timeout
// waits indefinitely. It is WaitNanos(timeoutMillis, 0).
func (m *Monitor) WaitMillis(timeoutMillis int64) error {
	return m.WaitNanos(timeoutMillis, 0)
}

// WaitNanos suspends the calling goroutine on the monitor's wait-set.
//
// The arguments are checked first:
//   - timeoutMillis < 0 fails with ErrIllegalArgument
//   - nanos outside [0, 999999] fails with ErrIllegalArgument
//
// A positive nanos rounds the timeout up by one millisecond, so
// WaitNanos(0, 1) waits for one millisecond rather than indefinitely.
//
// The caller must own the monitor. The lock is released completely (all
// reentrant levels) while the goroutine is in the wait-set. The wait ends
// when:
//   - another goroutine selects it with NotifyOne or NotifyAll
//   - the timeout elapses (0 means never)
//   - the goroutine is interrupted with Interrupt
//
// The goroutine then re-acquires the lock, competing with other acquirers,
// and its depth is restored before WaitNanos returns. A timeout returns nil.
// An interruption returns *InterruptedError after the lock is re-acquired
// and clears the interrupt flag. A goroutine that is both notified and
// interrupted returns nil and keeps its interrupt pending.
//
// Spurious wakeups are possible; wait in a loop.
func (m *Monitor) WaitNanos(timeoutMillis int64, nanos int) error {
	if timeoutMillis < 0 {
		return &ArgumentError{
			Param:  "timeoutMillis",
			Value:  timeoutMillis,
			Reason: "timeout value is negative",
		}
	}
	if nanos < 0 || nanos > maxNanos {
		return &ArgumentError{
			Param:  "nanos",
			Value:  int64(nanos),
			Reason: "nanosecond timeout value out of range",
		}
	}

	if nanos > 0 && timeoutMillis < math.MaxInt64 {
		timeoutMillis++
	}

	return m.wait(context.Background(), millis(timeoutMillis), "wait")
}

// WaitContext waits like WaitNanos with a time.Duration timeout and a
// context. A cancelled ctx interrupts the wait exactly like Interrupt does:
// the lock is re-acquired and *InterruptedError wrapping ctx.Err() is
// returned. A zero timeout waits until notified or interrupted; a negative
// timeout fails with ErrIllegalArgument.
func (m *Monitor) WaitContext(ctx context.Context, timeout time.Duration) error {
	if timeout < 0 {
		return &ArgumentError{
			Param:  "timeout",
			Value:  int64(timeout),
			Reason: "timeout value is negative",
		}
	}
	return m.wait(ctx, timeout, "wait")
}

// millis converts a millisecond count to a Duration, saturating instead of
// overflowing.
func millis(ms int64) time.Duration {
	if ms > math.MaxInt64/int64(time.Millisecond) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ms) * time.Millisecond
}

func (m *Monitor) wait(ctx context.Context, timeout time.Duration, op string) error {
	me := thread.Current()

	m.mu.Lock()
	if m.owner != me {
		err := m.stateErrorLocked(op, me)
		m.mu.Unlock()
		return m.illegal(err)
	}

	// A pending interruption fails the wait before the lock is given up.
	if thread.Consume(me) {
		m.mu.Unlock()
		return m.interrupted(op, me, nil)
	}
	if err := ctx.Err(); err != nil {
		m.mu.Unlock()
		return m.interrupted(op, me, err)
	}

	// Joining the wait-set and releasing the lock happen under one critical
	// section, and notify signals a buffered channel, so a notify between
	// here and the select below is never lost.
	saved := m.depth
	w := newWaiter(me)
	if m.waitSet == nil {
		m.waitSet = make(map[*waiter]struct{})
	}
	m.waitSet[w] = struct{}{}
	m.clearLocked()
	m.mu.Unlock()

	m.stats.waits.Add(1)

	unpark := thread.Park(me, w.signal)

	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	timedOut := false
	select {
	case <-w.ch:
	case <-expired:
		timedOut = true
	case <-ctx.Done():
	}
	unpark()

	m.mu.Lock()
	notified := w.notified
	delete(m.waitSet, w)
	m.mu.Unlock()

	// Re-acquisition ignores ctx: the caller must get the lock back before
	// it can see any outcome, interruption included.
	_ = m.acquire(context.Background(), me, saved)

	if notified {
		return nil
	}
	if thread.Consume(me) {
		return m.interrupted(op, me, nil)
	}
	if err := ctx.Err(); err != nil {
		return m.interrupted(op, me, err)
	}
	if timedOut {
		m.stats.timeouts.Add(1)
		m.log().Debug("monitor wait timed out",
			zap.String("monitor", m.name),
			zap.Stringer("goroutine", me),
			zap.Duration("timeout", timeout))
	}
	return nil
}

func (m *Monitor) interrupted(op string, me thread.ID, cause error) error {
	m.stats.interruptions.Add(1)
	m.log().Debug("monitor wait interrupted",
		zap.String("monitor", m.name),
		zap.Stringer("goroutine", me),
		zap.Error(cause))
	return &InterruptedError{Op: op, Cause: cause}
}

// NotifyOne wakes one goroutine from the wait-set. Which one is
// unspecified. It is a no-op when nobody is waiting.
//
// The woken goroutine cannot proceed until it re-acquires the monitor,
// which at the earliest happens after the caller releases it.
//
// Returns a *StateError (ErrIllegalMonitorState) if the calling goroutine
// does not own the monitor.
func (m *Monitor) NotifyOne() error {
	return m.notify("notify", 1)
}

// NotifyAll wakes every goroutine in the wait-set. Same precondition as
// NotifyOne.
func (m *Monitor) NotifyAll() error {
	return m.notify("notifyAll", -1)
}

// notify removes up to n waiters from the wait-set, all of them if n < 0.
func (m *Monitor) notify(op string, n int) error {
	me := thread.Current()

	m.mu.Lock()
	if m.owner != me {
		err := m.stateErrorLocked(op, me)
		m.mu.Unlock()
		return m.illegal(err)
	}

	woken := 0
	for w := range m.waitSet {
		if n >= 0 && woken == n {
			break
		}
		delete(m.waitSet, w)
		w.notified = true
		w.signal()
		woken++
	}
	m.mu.Unlock()

	m.stats.notified.Add(uint64(woken))
	return nil
}
