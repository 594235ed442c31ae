// Package monitor provides reentrant monitors: a mutual-exclusion lock and a
// condition wait-set unified into one object.
//
// A Monitor is composed into the value it guards rather than hidden inside
// every allocation. The zero Monitor is unlocked and ready to use.
//
// # Locking
//
// A goroutine takes the monitor with [Monitor.Acquire] and gives it back with
// [Monitor.Release]. The owner may acquire again without blocking; each
// acquisition must be matched by a release before other goroutines can get
// in. [Monitor.Do] runs a function as a critical section and releases on
// every exit path, including panics:
//
//	var m monitor.Monitor
//	err := m.Do(func() error {
//		balance += amount
//		return nil
//	})
//
// # Waiting
//
// The owner may suspend itself on the monitor's wait-set with [Monitor.Wait]
// and its timed variants. Waiting releases the lock completely, whatever the
// reentrant depth, and restores that depth after the waiter has re-acquired
// the lock. Another owner wakes waiters with [Monitor.NotifyOne] or
// [Monitor.NotifyAll]. Waiters compete with fresh acquirers for the lock and
// have no priority over them.
//
// Spurious wakeups are legal, so waits belong in a loop that re-tests the
// condition:
//
//	m.Acquire()
//	for len(queue) == 0 {
//		if err := m.Wait(); err != nil {
//			m.Release()
//			return err
//		}
//	}
//	item := queue[0]
//	queue = queue[1:]
//	m.Release()
//
// # Interruption
//
// A waiting goroutine is interrupted either through its context
// ([Monitor.WaitContext]) or by another goroutine calling [Interrupt] with its
// [ThreadID]. The interruption is reported as [ErrInterrupted] only after the
// lock has been re-acquired, and it consumes the goroutine's interrupt flag.
//
// # Errors
//
// Every operation that requires ownership fails with [ErrIllegalMonitorState]
// when called by a goroutine that does not own the monitor. Out-of-range
// timeouts fail with [ErrIllegalArgument]. The monitor never retries or
// swallows these errors.
//
// # Fairness
//
// Neither the order in which blocked goroutines acquire the lock nor the
// choice of waiter woken by NotifyOne is specified. Callers must not assume
// FIFO behaviour.
package monitor
