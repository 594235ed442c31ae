package stackdepot

import (
	"strings"
	"sync"
	"testing"
)

// TestCapture tests basic stack capture and retrieval.
func TestCapture(t *testing.T) {
	Reset()

	hash := Capture(0)
	if hash == 0 {
		t.Fatal("Capture returned zero hash")
	}

	st := Lookup(hash)
	if st == nil {
		t.Fatal("Lookup returned nil for valid hash")
	}

	if st.PC[0] == 0 {
		t.Error("Stack has no program counters")
	}
}

// TestCapture_Deduplication tests that identical stacks produce the same hash.
func TestCapture_Deduplication(t *testing.T) {
	Reset()

	var hashes [2]uint64
	for i := range hashes {
		hashes[i] = Capture(0)
	}

	if hashes[0] != hashes[1] {
		t.Errorf("Same call site produced different hashes: %x vs %x", hashes[0], hashes[1])
	}
	if n := Len(); n != 1 {
		t.Errorf("Expected 1 unique stack, got %d", n)
	}
}

func captureFromHelper() uint64 {
	return Capture(0)
}

// TestCapture_DifferentSites tests that different call sites are kept apart.
func TestCapture_DifferentSites(t *testing.T) {
	Reset()

	h1 := Capture(0)
	h2 := captureFromHelper()

	if h1 == h2 {
		t.Error("Different call sites produced the same hash")
	}
}

// TestFormat tests that the capturing function appears in the rendering.
func TestFormat(t *testing.T) {
	Reset()

	out := Lookup(Capture(0)).Format()
	if !strings.Contains(out, "TestFormat") {
		t.Errorf("Formatted stack does not mention the caller:\n%s", out)
	}
	if !strings.Contains(out, "stackdepot_test.go:") {
		t.Errorf("Formatted stack does not include file:line:\n%s", out)
	}
}

// TestFormat_Skip tests that skip drops frames above the caller.
func TestFormat_Skip(t *testing.T) {
	Reset()

	out := Lookup(skipOne()).Format()
	if strings.Contains(out, "skipOne") {
		t.Errorf("skip=1 should drop the helper frame:\n%s", out)
	}
	if !strings.Contains(out, "TestFormat_Skip") {
		t.Errorf("skip=1 should start at the helper's caller:\n%s", out)
	}
}

func skipOne() uint64 {
	return Capture(1)
}

// TestLookup_Unknown tests retrieval of hashes that were never stored.
func TestLookup_Unknown(t *testing.T) {
	Reset()

	if Lookup(0) != nil {
		t.Error("Lookup(0) should return nil")
	}
	if Lookup(0xdeadbeef) != nil {
		t.Error("Lookup of unknown hash should return nil")
	}

	var st *StackTrace
	if got := st.Format(); got != "  <unknown>\n" {
		t.Errorf("nil Format() = %q", got)
	}
}

// TestCapture_Concurrent tests thread-safe concurrent capture.
func TestCapture_Concurrent(t *testing.T) {
	Reset()

	const numGoroutines = 50

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if Lookup(Capture(0)) == nil {
				t.Error("concurrent capture was not stored")
			}
		}()
	}
	wg.Wait()
}
