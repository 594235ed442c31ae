// Copyright 2025 The objmonitor Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thread

import (
	"sync"
	"testing"
)

// TestCurrent_Basic tests basic goroutine ID extraction.
func TestCurrent_Basic(t *testing.T) {
	id := Current()

	if id <= None {
		t.Errorf("Current() returned non-positive ID: %d", id)
	}

	// Call again - should return same ID in same goroutine.
	if again := Current(); again != id {
		t.Errorf("Current() not stable: first=%d, second=%d", id, again)
	}
}

// TestCurrent_MultipleGoroutines tests ID extraction across many goroutines.
func TestCurrent_MultipleGoroutines(t *testing.T) {
	const numGoroutines = 100

	ids := make(chan ID, numGoroutines)

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- Current()
		}()
	}

	wg.Wait()
	close(ids)

	// All IDs should be unique (no duplicates).
	seen := make(map[ID]bool)
	for id := range ids {
		if id <= None {
			t.Errorf("Goroutine got non-positive ID: %d", id)
		}
		if seen[id] {
			t.Errorf("Duplicate ID detected: %d", id)
		}
		seen[id] = true
	}

	if len(seen) != numGoroutines {
		t.Fatalf("Expected %d IDs, got %d", numGoroutines, len(seen))
	}
}

// TestCurrent_Concurrent checks that IDs stay fixed for a goroutine's lifetime.
func TestCurrent_Concurrent(t *testing.T) {
	const numGoroutines = 20
	const numIterations = 200

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			expected := Current()
			for j := 0; j < numIterations; j++ {
				if got := Current(); got != expected {
					t.Errorf("ID changed during execution! expected=%d, got=%d", expected, got)
					return
				}
			}
		}()
	}

	wg.Wait()
}

// TestParseGID tests the stack header parser.
func TestParseGID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{"running", "goroutine 123 [running]:\nmain.main()", 123},
		{"single digit", "goroutine 1 [running]:", 1},
		{"large", "goroutine 9876543210 [chan receive]:", 9876543210},
		{"wrong prefix", "thread 12 [running]:", 0},
		{"too short", "gorout", 0},
		{"empty", "", 0},
		{"no digits", "goroutine [running]:", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseGID([]byte(tt.in)); got != tt.want {
				t.Errorf("parseGID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

// TestID_String tests the diagnostic rendering.
func TestID_String(t *testing.T) {
	if got := ID(42).String(); got != "goroutine 42" {
		t.Errorf("ID(42).String() = %q", got)
	}
	if got := None.String(); got != "goroutine <none>" {
		t.Errorf("None.String() = %q", got)
	}
}
