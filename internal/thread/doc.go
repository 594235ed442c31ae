// Package thread identifies goroutines and carries their interrupt status.
//
// Monitors need two pieces of per-goroutine state that the Go runtime does
// not expose directly:
//   - ID: a stable identifier for the calling goroutine, used as the monitor
//     owner so that reentrant acquisition can be recognised
//   - Interrupt flag: a sticky, consumable signal that lets one goroutine
//     break another out of a monitor wait
//
// Interrupt state is kept in a sync.Map keyed by goroutine ID. Entries are
// created on first Interrupt or Park and pruned once the flag has been
// consumed and nothing is parked, so goroutines that never interact with
// interruption cost nothing.
//
// Example:
//
//	id := thread.Current()
//	go func() { thread.Interrupt(id) }()
//	unpark := thread.Park(id, func() { close(wake) })
//	<-wake
//	unpark()
//	if thread.Consume(id) {
//	    // handle interruption
//	}
package thread
