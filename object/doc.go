// Package object defines the identity, equality and hashing contract shared
// by values that live in containers, and the composition of a value with its
// monitor.
//
// # The contract
//
// Equals must be reflexive, symmetric, transitive and consistent, and must
// return false for nil. Overriding Equals obliges a matching HashCode:
// values that are equal must hash alike. Unequal values may share a hash.
// The contract is not checked at run time; [Verify] and the objecttest
// package check it in tests.
//
// # Defaults
//
// A type that embeds [Identity] gets reference-identity Equals and an
// identity HashCode. The identity token is a slot in a process-wide arena,
// assigned on first use and returned to the arena once the value is
// collected. The package functions [Equals], [HashCode] and [ToString]
// dispatch to a value's own methods and fall back to these defaults, so
// they work on any Go value:
//
//	type Account struct {
//		object.Base
//		Balance int
//	}
//
//	a, b := &Account{}, &Account{}
//	object.Equals(a, a)  // true
//	object.Equals(a, b)  // false
//	object.ToString(a)   // "object_test.Account@6d2e3f1a"
//
// # Monitors
//
// [Base] adds a lazily attached [monitor.Monitor] to Identity. Values that
// never synchronise never allocate one:
//
//	a.Monitor().Acquire()
//	a.Balance += 10
//	_ = a.Monitor().Release()
package object
