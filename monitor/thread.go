package monitor

import "github.com/kolkov/objmonitor/internal/thread"

// ThreadID identifies a goroutine for ownership and interruption.
type ThreadID = thread.ID

// CurrentThread returns the calling goroutine's ID.
func CurrentThread() ThreadID {
	return thread.Current()
}

// Interrupt sets the interrupt flag of goroutine id. If the goroutine is
// waiting on a monitor it wakes, re-acquires the lock and returns
// ErrInterrupted. Otherwise the flag stays pending and the goroutine's next
// wait fails immediately.
func Interrupt(id ThreadID) {
	thread.Interrupt(id)
}

// Interrupted reports whether the calling goroutine has a pending interrupt
// and clears it.
func Interrupted() bool {
	return thread.Consume(thread.Current())
}

// IsInterrupted reports whether goroutine id has a pending interrupt. The
// flag is left unchanged.
func IsInterrupted(id ThreadID) bool {
	return thread.IsInterrupted(id)
}
