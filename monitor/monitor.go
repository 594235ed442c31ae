package monitor

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/kolkov/objmonitor/internal/stackdepot"
	"github.com/kolkov/objmonitor/internal/thread"
)

// Monitor is a reentrant mutual-exclusion lock with a condition wait-set.
//
// State:
//   - owner: goroutine holding the lock, thread.None when unlocked
//   - depth: number of nested acquisitions by owner (> 0 iff owner is set)
//   - entry: goroutines blocked in acquire
//   - waitSet: goroutines suspended in a wait, unordered
//
// All of it is guarded by mu, a plain sync.Mutex that is only ever held for
// a few instructions and never across a blocking operation.
//
// A Monitor must not be copied after first use.
type Monitor struct {
	mu sync.Mutex

	owner      thread.ID
	depth      int
	ownerStack uint64

	entry   []*waiter
	waitSet map[*waiter]struct{}

	name        string
	logger      *zap.Logger
	trackStacks bool

	stats counters
}

// waiter is one blocked goroutine, either in the entry queue or in the
// wait-set.
//
// ch is buffered with capacity one and every send is non-blocking, so a
// signal delivered before the goroutine starts receiving is kept rather
// than lost.
type waiter struct {
	id thread.ID
	ch chan struct{}

	// queued is set while the waiter sits in the entry queue.
	queued bool

	// notified is set when NotifyOne/NotifyAll removed the waiter from the
	// wait-set.
	notified bool
}

func newWaiter(id thread.ID) *waiter {
	return &waiter{id: id, ch: make(chan struct{}, 1)}
}

func (w *waiter) signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

// New creates a Monitor configured by opts. The zero Monitor is equivalent
// to New().
func New(opts ...Option) *Monitor {
	m := &Monitor{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the name given with WithName.
func (m *Monitor) Name() string {
	return m.name
}

// nopLogger serves monitors without a logger, including the zero Monitor.
var nopLogger = zap.NewNop()

func (m *Monitor) log() *zap.Logger {
	if m.logger == nil {
		return nopLogger
	}
	return m.logger
}

// Acquire takes the monitor, blocking until it is available. A goroutine
// that already owns the monitor acquires it again and increases its depth.
func (m *Monitor) Acquire() {
	// Background is never cancelled, so acquire cannot fail.
	_ = m.acquire(context.Background(), thread.Current(), 1)
}

// AcquireContext is Acquire with cancellation. If ctx is done before the
// monitor becomes available, AcquireContext gives up and returns an
// *InterruptedError wrapping ctx.Err(); the monitor's state is unaffected.
// If the monitor is free, AcquireContext may succeed even when ctx is
// already done.
func (m *Monitor) AcquireContext(ctx context.Context) error {
	return m.acquire(ctx, thread.Current(), 1)
}

// TryAcquire takes the monitor if that is possible without blocking and
// reports whether it did.
func (m *Monitor) TryAcquire() bool {
	me := thread.Current()

	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.owner {
	case me:
		m.depth++
	case thread.None:
		m.takeLocked(me, 1, 1)
	default:
		return false
	}
	m.stats.acquisitions.Add(1)
	return true
}

// acquire takes the monitor for me and sets its depth. depth is 1 for a
// fresh acquisition and the saved depth when a waiter re-enters.
func (m *Monitor) acquire(ctx context.Context, me thread.ID, depth int) error {
	m.mu.Lock()

	if m.owner == me {
		m.depth++
		m.mu.Unlock()
		m.stats.acquisitions.Add(1)
		return nil
	}

	if m.owner == thread.None {
		m.takeLocked(me, depth, 2)
		m.mu.Unlock()
		m.stats.acquisitions.Add(1)
		return nil
	}

	m.stats.contended.Add(1)
	w := newWaiter(me)

	for {
		if !w.queued {
			m.entry = append(m.entry, w)
			w.queued = true
		}
		m.mu.Unlock()

		select {
		case <-w.ch:
		case <-ctx.Done():
			m.abandon(w)
			m.stats.interruptions.Add(1)
			m.log().Debug("monitor acquire abandoned",
				zap.String("monitor", m.name),
				zap.Stringer("goroutine", me),
				zap.Error(ctx.Err()))
			return &InterruptedError{Op: "acquire", Cause: ctx.Err()}
		}

		m.mu.Lock()
		if m.owner == thread.None {
			m.takeLocked(me, depth, 2)
			m.mu.Unlock()
			m.stats.acquisitions.Add(1)
			return nil
		}
		// A fresh acquirer got in first. Queue again.
	}
}

// abandon removes a cancelled acquirer. If the acquirer had already been
// chosen to take a free lock, the wakeup is passed on so that no other
// blocked goroutine is stranded.
func (m *Monitor) abandon(w *waiter) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w.queued {
		m.entry = slices.DeleteFunc(m.entry, func(e *waiter) bool { return e == w })
		w.queued = false
		return
	}
	if m.owner == thread.None {
		m.wakeEntryLocked()
	}
}

// takeLocked makes me the owner at depth. Caller holds mu and has checked
// that the monitor is free. skip is the number of monitor frames between
// takeLocked and the code that asked for the lock, so that a recorded owner
// stack starts at that code.
func (m *Monitor) takeLocked(me thread.ID, depth, skip int) {
	m.owner = me
	m.depth = depth
	if m.trackStacks {
		m.ownerStack = stackdepot.Capture(1 + skip)
	}
}

// clearLocked returns the monitor to the unlocked state and wakes one
// blocked acquirer. Caller holds mu.
func (m *Monitor) clearLocked() {
	m.owner = thread.None
	m.depth = 0
	m.ownerStack = 0
	m.wakeEntryLocked()
}

// wakeEntryLocked lets one blocked acquirer compete for the lock. The woken
// goroutine is removed from the queue and re-queues itself if a fresh
// acquirer beats it. Caller holds mu.
func (m *Monitor) wakeEntryLocked() {
	if len(m.entry) == 0 {
		return
	}
	w := m.entry[0]
	m.entry[0] = nil
	m.entry = m.entry[1:]
	w.queued = false
	w.signal()
}

// Release gives up one level of ownership. When the depth reaches zero the
// monitor is unlocked and one blocked acquirer is woken.
//
// Returns a *StateError (ErrIllegalMonitorState) if the calling goroutine
// does not own the monitor.
func (m *Monitor) Release() error {
	me := thread.Current()

	m.mu.Lock()
	if m.owner != me {
		err := m.stateErrorLocked("release", me)
		m.mu.Unlock()
		return m.illegal(err)
	}

	m.depth--
	if m.depth == 0 {
		m.clearLocked()
	}
	m.mu.Unlock()
	return nil
}

// Do runs fn while holding the monitor. The monitor is released when fn
// returns, fails or panics.
func (m *Monitor) Do(fn func() error) (err error) {
	m.Acquire()
	defer func() {
		if rerr := m.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn()
}

// DoContext is Do with a cancellable acquisition. fn is not run if the
// acquisition is cancelled.
func (m *Monitor) DoContext(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if err := m.AcquireContext(ctx); err != nil {
		return err
	}
	defer func() {
		if rerr := m.Release(); rerr != nil {
			err = errors.Join(err, rerr)
		}
	}()
	return fn(ctx)
}

// HoldsLock reports whether the calling goroutine owns the monitor.
func (m *Monitor) HoldsLock() bool {
	me := thread.Current()

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner == me
}

// Depth returns the calling goroutine's reentrant depth, 0 if it does not
// own the monitor.
func (m *Monitor) Depth() int {
	me := thread.Current()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner != me {
		return 0
	}
	return m.depth
}

// Owner returns the goroutine that owns the monitor, thread.None if it is
// unlocked.
func (m *Monitor) Owner() ThreadID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner
}

// stateErrorLocked builds the ownership violation for op. Caller holds mu.
func (m *Monitor) stateErrorLocked(op string, caller thread.ID) *StateError {
	err := &StateError{
		Monitor: m.name,
		Op:      op,
		Caller:  caller,
		Owner:   m.owner,
		Depth:   m.depth,
	}
	if st := stackdepot.Lookup(m.ownerStack); st != nil {
		err.OwnerStack = st.Format()
	}
	return err
}

// illegal records and logs an ownership violation.
func (m *Monitor) illegal(err *StateError) error {
	m.stats.illegalStates.Add(1)
	m.log().Warn("illegal monitor state",
		zap.String("monitor", m.name),
		zap.String("op", err.Op),
		zap.Stringer("caller", err.Caller),
		zap.Stringer("owner", err.Owner))
	return err
}
