package thread

import (
	"sync"
)

// state is the interrupt bookkeeping for one goroutine.
//
// Layout:
//   - interrupted: sticky flag set by Interrupt, cleared by Consume
//   - wake: callback registered by a goroutine blocked in Park, nil otherwise
//   - dead: set when the entry has been pruned from the table; an Interrupt
//     that raced with pruning must retry with a fresh entry
type state struct {
	mu          sync.Mutex
	interrupted bool
	wake        func()
	dead        bool
}

// states maps goroutine IDs to their interrupt state.
// Key: ID, Value: *state.
var states sync.Map

// lookup returns the live state for id, creating it when create is set.
// The returned state is locked.
func lookup(id ID, create bool) *state {
	for {
		var st *state
		if val, ok := states.Load(id); ok {
			st = val.(*state)
		} else if !create {
			return nil
		} else {
			val, _ := states.LoadOrStore(id, &state{})
			st = val.(*state)
		}

		st.mu.Lock()
		if !st.dead {
			return st
		}
		st.mu.Unlock()
	}
}

// pruneLocked drops st from the table when it carries no information.
// Caller holds st.mu.
func pruneLocked(id ID, st *state) {
	if st.interrupted || st.wake != nil {
		return
	}
	st.dead = true
	states.CompareAndDelete(id, st)
}

// Interrupt sets the interrupt flag of goroutine id and wakes it if it is
// parked. The flag stays set until the goroutine consumes it.
//
// Thread Safety: Safe for concurrent calls.
func Interrupt(id ID) {
	if id == None {
		return
	}

	st := lookup(id, true)
	st.interrupted = true
	wake := st.wake
	st.mu.Unlock()

	if wake != nil {
		wake()
	}
}

// IsInterrupted reports whether goroutine id has a pending interrupt
// without clearing it.
func IsInterrupted(id ID) bool {
	st := lookup(id, false)
	if st == nil {
		return false
	}
	defer st.mu.Unlock()
	return st.interrupted
}

// Consume reports whether goroutine id has a pending interrupt and clears it.
func Consume(id ID) bool {
	st := lookup(id, false)
	if st == nil {
		return false
	}
	defer st.mu.Unlock()

	was := st.interrupted
	st.interrupted = false
	pruneLocked(id, st)
	return was
}

// Park registers wake to be called when goroutine id is interrupted.
//
// If an interrupt is already pending, wake is called before Park returns.
// wake must not block; monitors pass a non-blocking send on a buffered
// channel. At most one callback is registered per goroutine, which holds
// because a goroutine blocks in at most one place at a time.
//
// Returns:
//   - unpark: Removes the registration. Must be called once the caller has
//     stopped blocking.
func Park(id ID, wake func()) (unpark func()) {
	st := lookup(id, true)
	st.wake = wake
	pending := st.interrupted
	st.mu.Unlock()

	if pending {
		wake()
	}

	return func() {
		st := lookup(id, false)
		if st == nil {
			return
		}
		st.wake = nil
		pruneLocked(id, st)
		st.mu.Unlock()
	}
}
