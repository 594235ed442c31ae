package object

import (
	"encoding/binary"
	"hash/maphash"
	"math"
	"reflect"
	"unsafe"
)

// canonicalNaN is the bit pattern every NaN hashes as.
const canonicalNaN = 0x7ff8000000000001

// floatBits returns the hash bits of f. Values that sameValue treats as
// equal map to the same bits: every NaN to canonicalNaN and -0 to +0.
func floatBits(f float64) uint64 {
	switch {
	case f != f:
		return canonicalNaN
	case f == 0:
		return 0
	}
	return math.Float64bits(f)
}

func sameFloat(a, b float64) bool {
	return a == b || (a != a && b != b)
}

// visit is a pair of slices or maps already under comparison. Revisiting
// one means a cycle, which is taken as equal.
type visit struct {
	x, y unsafe.Pointer
	typ  reflect.Type
}

// sameValue is == with one change: NaN equals NaN, at any depth. Slices
// and maps nested in a value, which == cannot compare, compare element by
// element. Pointers and channels compare by address, as with ==.
func sameValue(x, y reflect.Value, seen map[visit]bool) bool {
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}
	if x.Type() != y.Type() {
		return false
	}

	switch x.Kind() {
	case reflect.Float32, reflect.Float64:
		return sameFloat(x.Float(), y.Float())

	case reflect.Complex64, reflect.Complex128:
		cx, cy := x.Complex(), y.Complex()
		return sameFloat(real(cx), real(cy)) && sameFloat(imag(cx), imag(cy))

	case reflect.Array:
		for i := 0; i < x.Len(); i++ {
			if !sameValue(x.Index(i), y.Index(i), seen) {
				return false
			}
		}
		return true

	case reflect.Struct:
		for i := 0; i < x.NumField(); i++ {
			if !sameValue(x.Field(i), y.Field(i), seen) {
				return false
			}
		}
		return true

	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() == y.IsNil()
		}
		return sameValue(x.Elem(), y.Elem(), seen)

	case reflect.Slice:
		if x.IsNil() != y.IsNil() || x.Len() != y.Len() {
			return false
		}
		if x.UnsafePointer() == y.UnsafePointer() || enter(x, y, seen) {
			return true
		}
		for i := 0; i < x.Len(); i++ {
			if !sameValue(x.Index(i), y.Index(i), seen) {
				return false
			}
		}
		return true

	case reflect.Map:
		if x.IsNil() != y.IsNil() || x.Len() != y.Len() {
			return false
		}
		if x.UnsafePointer() == y.UnsafePointer() || enter(x, y, seen) {
			return true
		}
		iter := x.MapRange()
		for iter.Next() {
			vy := y.MapIndex(iter.Key())
			if !vy.IsValid() || !sameValue(iter.Value(), vy, seen) {
				return false
			}
		}
		return true

	case reflect.Func:
		return x.IsNil() && y.IsNil()
	}

	return x.Equal(y)
}

// enter records the pair (x, y) and reports whether it was already being
// compared.
func enter(x, y reflect.Value, seen map[visit]bool) bool {
	v := visit{x.UnsafePointer(), y.UnsafePointer(), x.Type()}
	if seen[v] {
		return true
	}
	seen[v] = true
	return false
}

// hashValue feeds a comparable value into h consistently with sameValue.
func hashValue(h *maphash.Hash, v reflect.Value) {
	var buf [8]byte
	word := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		_, _ = h.Write(buf[:])
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			word(1)
		} else {
			word(0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		word(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		word(v.Uint())
	case reflect.Float32, reflect.Float64:
		word(floatBits(v.Float()))
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		word(floatBits(real(c)))
		word(floatBits(imag(c)))
	case reflect.String:
		_, _ = h.WriteString(v.String())
		_ = h.WriteByte(0)
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		word(uint64(uintptr(v.UnsafePointer())))
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			hashValue(h, v.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			hashValue(h, v.Field(i))
		}
	case reflect.Interface:
		if v.IsNil() {
			word(0)
			return
		}
		_, _ = h.WriteString(v.Elem().Type().String())
		hashValue(h, v.Elem())
	}
}
