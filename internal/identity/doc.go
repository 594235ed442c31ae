// Package identity allocates identity tokens for object instances.
//
// Every instance that takes part in the identity contract is assigned a Slot
// from an Arena. The slot index is the instance's identity token: it is
// stable for as long as the instance is reachable and is returned to the
// arena's free list by a runtime cleanup once the instance is collected.
// Recycling is safe because no live reference can observe the old owner of
// a reused slot.
//
// Identity hashes are derived from slots with a fixed avalanche mix, so
// they are deterministic for a given slot and well spread across int32.
// Two instances can share a hash only if one of them is already gone.
//
// Example:
//
//	type node struct{ v int }
//	n := &node{}
//	slot := identity.Bind(identity.Default, n)
//	h := slot.Hash()
package identity
