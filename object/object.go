package object

import (
	"fmt"
	"hash/maphash"
	"reflect"
	"strconv"
)

// Equaler is implemented by types that define their own equality.
type Equaler interface {
	Equals(other any) bool
}

// Hasher is implemented by types that define their own hash. It must agree
// with the type's Equaler.
type Hasher interface {
	HashCode() int32
}

// Object is the full contract. Types embedding Identity satisfy Equaler and
// Hasher; String is left to the embedding type (see ToString).
type Object interface {
	Equaler
	Hasher
	fmt.Stringer
}

// seed keys the hash of plain comparable values for the process lifetime.
var seed = maphash.MakeSeed()

// Equals reports whether x equals y.
//
// nil never equals anything, nil included. Otherwise x's own Equals is used
// when it has one. Values without one compare by reference for pointer,
// map, channel, function and slice kinds (a slice is the same if it has the
// same backing array start and length). Other values compare with ==,
// except that NaN equals NaN so that every value equals itself; slices and
// maps nested inside them compare element by element.
func Equals(x, y any) bool {
	if isNil(x) || isNil(y) {
		return false
	}
	if e, ok := x.(Equaler); ok {
		return e.Equals(y)
	}
	return defaultEquals(x, y)
}

func defaultEquals(x, y any) bool {
	vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
	if vx.Type() != vy.Type() {
		return false
	}

	switch vx.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return vx.Pointer() == vy.Pointer()
	case reflect.Slice:
		return vx.Pointer() == vy.Pointer() && vx.Len() == vy.Len()
	}

	if vx.Comparable() && x == y {
		return true
	}
	return sameValue(vx, vy, make(map[visit]bool))
}

// HashCode returns the hash of x: its own HashCode if it has one, otherwise
// its identity hash. nil hashes to 0.
func HashCode(x any) int32 {
	if isNil(x) {
		return 0
	}
	if h, ok := x.(Hasher); ok {
		return h.HashCode()
	}
	return IdentityHash(x)
}

// IdentityHash returns the default hash of x, ignoring any HashCode
// override. For values embedding Identity this is the arena hash; for other
// reference kinds it is derived from the address; for comparable values it
// is consistent with Equals, NaN included. Values that are neither hash
// to 0.
func IdentityHash(x any) int32 {
	if isNil(x) {
		return 0
	}
	if id, ok := x.(identified); ok {
		return id.identity().IdentityHash()
	}

	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return mix64(uint64(v.Pointer()))
	case reflect.Slice:
		return mix64(uint64(v.Pointer()) ^ uint64(v.Len())<<48)
	}

	if v.Comparable() {
		var h maphash.Hash
		h.SetSeed(seed)
		hashValue(&h, v)
		return int32(h.Sum64())
	}
	return 0
}

// mix64 folds a 64-bit value into a well spread int32 (murmur3 fmix64).
func mix64(k uint64) int32 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return int32(k ^ k>>32)
}

// ToString renders x: its own String method if it has one, otherwise
// DefaultString. nil renders as "<nil>".
func ToString(x any) string {
	if isNil(x) {
		return "<nil>"
	}
	if s, ok := x.(fmt.Stringer); ok {
		return s.String()
	}
	return DefaultString(x)
}

// DefaultString renders x as <type-name>@<hex hash>, where the hash is
// HashCode(x) printed as an unsigned 32-bit lowercase hex number.
func DefaultString(x any) string {
	return TypeName(x) + "@" + strconv.FormatUint(uint64(uint32(HashCode(x))), 16)
}

// TypeName returns the runtime type name of x. Pointers are named after the
// type they point to, so &Account{} and Account{} are both
// "pkg.Account".
func TypeName(x any) string {
	if x == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(x)
	for t.Kind() == reflect.Pointer && t.Elem().Name() != "" {
		t = t.Elem()
	}
	return t.String()
}

// isNil reports whether x is nil or a nil pointer, map, channel, function
// or slice held in an interface.
func isNil(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
