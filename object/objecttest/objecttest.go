// Package objecttest provides testify assertions for the equality contract.
//
//	func TestMoneyContract(t *testing.T) {
//		objecttest.AssertContract(t, Money{1, "EUR"}, Money{1, "EUR"}, Money{2, "EUR"})
//	}
package objecttest

import (
	"github.com/stretchr/testify/assert"

	"github.com/kolkov/objmonitor/object"
)

// AssertContract asserts that values satisfy the equality and hash
// contract. See object.Verify.
func AssertContract(t assert.TestingT, values ...any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return assert.NoError(t, object.Verify(values...), "equality contract")
}

// AssertEqual asserts that x and y are equal in both directions and hash
// alike.
func AssertEqual(t assert.TestingT, x, y any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	ok := assert.True(t, object.Equals(x, y), "%s should equal %s", object.ToString(x), object.ToString(y))
	ok = assert.True(t, object.Equals(y, x), "%s should equal %s", object.ToString(y), object.ToString(x)) && ok
	return assert.Equal(t, object.HashCode(x), object.HashCode(y), "equal values must hash alike") && ok
}

// AssertNotEqual asserts that x and y are unequal in both directions.
func AssertNotEqual(t assert.TestingT, x, y any) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	ok := assert.False(t, object.Equals(x, y), "%s should not equal %s", object.ToString(x), object.ToString(y))
	return assert.False(t, object.Equals(y, x), "%s should not equal %s", object.ToString(y), object.ToString(x)) && ok
}
