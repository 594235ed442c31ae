// Package stackdepot stores deduplicated stack traces for monitor diagnostics.
//
// When a monitor is created with owner stack tracking, every successful
// acquisition records where the owner took the lock. A later misuse (for
// example a Release from a goroutine that does not own the monitor) can then
// report the owner's acquisition site alongside the error.
//
// Design:
//   - Fixed-size stack traces (MaxFrames frames)
//   - Hash-based deduplication (FNV-1a over program counters)
//   - Global sync.Map storage (thread-safe)
//
// Usage:
//
//	hash := stackdepot.Capture(1)
//	if st := stackdepot.Lookup(hash); st != nil {
//	    fmt.Print(st.Format())
//	}
package stackdepot

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"runtime"
	"strings"
	"sync"
)

// MaxFrames is the maximum number of stack frames to capture.
// Acquisition sites are almost always visible within the top 8 frames.
const MaxFrames = 8

// StackTrace is a captured stack trace with fixed size.
type StackTrace struct {
	PC [MaxFrames]uintptr
}

// depot is the global deduplication store.
// Key: uint64 (FNV-1a of program counters), Value: *StackTrace.
var depot sync.Map

// Capture records the caller's stack and returns its hash.
//
// Parameters:
//   - skip: Number of additional frames to drop above Capture's caller.
//     0 starts the trace at the function that called Capture.
//
// Returns:
//   - uint64: Identifier for the stack (0 if no stack was available)
//
// Performance: ~500ns (runtime.Callers + hashing). Identical stacks are
// stored once.
//
// Thread Safety: Safe for concurrent calls.
func Capture(skip int) uint64 {
	var pcs [MaxFrames]uintptr
	// Skip runtime.Callers and Capture itself.
	n := runtime.Callers(2+skip, pcs[:])
	if n == 0 {
		return 0
	}

	hash := hashStack(pcs[:n])
	if _, exists := depot.Load(hash); exists {
		return hash
	}

	depot.Store(hash, &StackTrace{PC: pcs})
	return hash
}

// Lookup returns the trace stored under hash, or nil if none is.
func Lookup(hash uint64) *StackTrace {
	if hash == 0 {
		return nil
	}

	val, ok := depot.Load(hash)
	if !ok {
		return nil
	}
	return val.(*StackTrace)
}

func hashStack(pcs []uintptr) uint64 {
	h := fnv.New64a()

	var b [8]byte
	for _, pc := range pcs {
		binary.LittleEndian.PutUint64(b[:], uint64(pc))
		_, _ = h.Write(b[:]) // Write never returns an error for hash.Hash.
	}

	// Never hand out the "no stack" sentinel.
	if sum := h.Sum64(); sum != 0 {
		return sum
	}
	return 1
}

// Format renders the trace one frame per entry:
//
//	  main.worker()
//	      /path/to/file.go:45
//
// Runtime frames are dropped.
//
// Returns "  <unknown>\n" for a nil trace.
func (st *StackTrace) Format() string {
	if st == nil {
		return "  <unknown>\n"
	}

	frames := runtime.CallersFrames(st.PC[:])

	var buf strings.Builder
	for {
		frame, more := frames.Next()
		if frame.PC == 0 {
			break
		}

		if !strings.HasPrefix(frame.Function, "runtime.") {
			fmt.Fprintf(&buf, "  %s()\n", frame.Function)
			fmt.Fprintf(&buf, "      %s:%d\n", frame.File, frame.Line)
		}

		if !more {
			break
		}
	}

	if buf.Len() == 0 {
		return "  <runtime internal>\n"
	}
	return buf.String()
}

// Reset clears the depot. Intended for tests only.
//
// Thread Safety: NOT safe for concurrent calls.
func Reset() {
	depot = sync.Map{}
}

// Len returns the number of unique stacks stored.
//
// Performance: O(N), do not call on a hot path.
func Len() int {
	n := 0
	depot.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
