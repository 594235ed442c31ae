package object

import (
	"sync/atomic"

	"github.com/kolkov/objmonitor/internal/identity"
	"github.com/kolkov/objmonitor/monitor"
)

// Identity gives the embedding type reference-identity equality and an
// identity hash. Embed it by value; methods are on the pointer, so the
// embedding type must also be used by pointer.
//
// An Identity must not be copied after first use: the copy would share the
// identity hash (allowed) but would not be equal to the value it was copied from.
type Identity struct {
	slot atomic.Uint32
}

// identified is implemented by every type that embeds Identity.
type identified interface {
	identity() *Identity
}

func (id *Identity) identity() *Identity {
	return id
}

// token returns the instance's arena slot, assigning one on first use.
func (id *Identity) token() identity.Slot {
	if s := id.slot.Load(); s != 0 {
		return identity.Slot(s)
	}

	s := identity.Default.Alloc()
	if !id.slot.CompareAndSwap(0, uint32(s)) {
		// Another goroutine assigned the token first.
		identity.Default.Free(s)
		return identity.Slot(id.slot.Load())
	}
	identity.Track(identity.Default, id, s)
	return s
}

// IdentityHash returns the identity hash of the instance. It is stable for
// the instance's lifetime and independent of any HashCode override.
func (id *Identity) IdentityHash() int32 {
	return id.token().Hash()
}

// HashCode returns IdentityHash. Types that override Equals must override
// HashCode too.
func (id *Identity) HashCode() int32 {
	return id.IdentityHash()
}

// Equals reports whether other is this very instance.
func (id *Identity) Equals(other any) bool {
	if isNil(other) {
		return false
	}
	o, ok := other.(identified)
	return ok && o.identity() == id
}

// Base is Identity plus a monitor attached on first use. Exactly one
// monitor is ever attached to a Base and it is never shared.
type Base struct {
	Identity
	mon atomic.Pointer[monitor.Monitor]
}

// Monitor returns the instance's monitor, creating it on first call.
func (b *Base) Monitor() *monitor.Monitor {
	if m := b.mon.Load(); m != nil {
		return m
	}
	b.mon.CompareAndSwap(nil, monitor.New())
	return b.mon.Load()
}

// HasMonitor reports whether a monitor has been attached yet.
func (b *Base) HasMonitor() bool {
	return b.mon.Load() != nil
}

// Synchronized runs fn as a critical section on the instance's monitor.
func (b *Base) Synchronized(fn func() error) error {
	return b.Monitor().Do(fn)
}
