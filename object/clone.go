package object

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrCloneNotSupported is returned by Clone for values that do not
// implement Cloner.
var ErrCloneNotSupported = errors.New("clone not supported")

// Cloner is implemented by types that can copy themselves. The copy must be
// a distinct instance: for identity-based types, x.Clone() must not equal x.
type Cloner interface {
	Clone() any
}

// Clone copies x through its Cloner implementation.
func Clone(x any) (any, error) {
	c, ok := x.(Cloner)
	if !ok || isNil(x) {
		return nil, fmt.Errorf("%s: %w", TypeName(x), ErrCloneNotSupported)
	}
	return c.Clone(), nil
}

// CloneAs is Clone for callers that know the result type.
func CloneAs[T any](x T) (T, error) {
	var zero T
	c, err := Clone(x)
	if err != nil {
		return zero, err
	}
	out, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("%s: clone returned %s", TypeName(x), TypeName(c))
	}
	return out, nil
}

// OnFinalize registers fn to run some time after the instance has become
// unreachable, and returns a function that cancels the registration.
//
// fn must not reference the instance, or the instance never becomes
// unreachable. Finalization order between instances is unspecified, and fn
// may never run if the program exits first.
func (id *Identity) OnFinalize(fn func()) (cancel func()) {
	c := runtime.AddCleanup(id, func(f func()) { f() }, fn)
	return c.Stop
}
