package monitor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kolkov/objmonitor/internal/thread"
)

var (
	// ErrIllegalMonitorState is returned when a goroutine that does not own
	// a monitor releases, waits on or notifies it.
	ErrIllegalMonitorState = errors.New("illegal monitor state")

	// ErrIllegalArgument is returned by the wait family for out-of-range
	// timeouts.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrInterrupted is returned when a wait or a cancellable acquire is
	// interrupted.
	ErrInterrupted = errors.New("interrupted")
)

// StateError describes an ownership violation.
//
// Fields:
//   - Monitor: Name of the monitor (empty if unnamed)
//   - Op: Operation that was attempted ("release", "wait", "notify", "notifyAll")
//   - Caller: Goroutine that attempted the operation
//   - Owner: Goroutine that owned the monitor at the time (thread.None if unlocked)
//   - Depth: Owner's reentrant depth at the time
//   - OwnerStack: Owner's acquisition site, if the monitor tracks owner stacks
//
// Example output:
//
//	monitor "accounts": release: illegal monitor state: goroutine 7 does not own the monitor (owner goroutine 3, depth 2)
//
// errors.Is(err, ErrIllegalMonitorState) reports true for every StateError.
type StateError struct {
	Monitor    string
	Op         string
	Caller     ThreadID
	Owner      ThreadID
	Depth      int
	OwnerStack string
}

// Error implements the error interface.
func (e *StateError) Error() string {
	var b strings.Builder
	if e.Monitor != "" {
		fmt.Fprintf(&b, "monitor %q: ", e.Monitor)
	}
	fmt.Fprintf(&b, "%s: %v: %s does not own the monitor", e.Op, ErrIllegalMonitorState, e.Caller)
	if e.Owner == thread.None {
		b.WriteString(" (unlocked)")
	} else {
		fmt.Fprintf(&b, " (owner %s, depth %d)", e.Owner, e.Depth)
	}
	if e.OwnerStack != "" {
		b.WriteString("\n\nOwner acquired at:\n")
		b.WriteString(e.OwnerStack)
	}
	return b.String()
}

// Unwrap returns ErrIllegalMonitorState.
func (e *StateError) Unwrap() error {
	return ErrIllegalMonitorState
}

// ArgumentError describes an out-of-range wait argument.
type ArgumentError struct {
	Param  string // Parameter name
	Value  int64  // Rejected value
	Reason string // Human-readable description
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%v: %s: %s (got %d)", ErrIllegalArgument, e.Param, e.Reason, e.Value)
}

// Unwrap returns ErrIllegalArgument.
func (e *ArgumentError) Unwrap() error {
	return ErrIllegalArgument
}

// InterruptedError reports an interrupted wait or acquire.
//
// Cause is the context error when the interruption came from a cancelled
// context, and nil when it came from [Interrupt]. Both ErrInterrupted and
// Cause match with errors.Is:
//
//	if errors.Is(err, monitor.ErrInterrupted) { ... }
//	if errors.Is(err, context.DeadlineExceeded) { ... }
type InterruptedError struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *InterruptedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %v", e.Op, ErrInterrupted)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrInterrupted, e.Cause)
}

// Unwrap returns ErrInterrupted and, when set, the cause.
func (e *InterruptedError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInterrupted}
	}
	return []error{ErrInterrupted, e.Cause}
}
