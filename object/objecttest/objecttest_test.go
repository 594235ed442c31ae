package objecttest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kolkov/objmonitor/object"
)

// recorder captures assertion failures instead of failing the test.
type recorder struct {
	failures []string
}

func (r *recorder) Errorf(format string, args ...any) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

type node struct {
	object.Base
}

// sameLength equals any sameLength of equal length but never overrides the
// identity hash.
type sameLength struct {
	object.Identity
	s string
}

func (l *sameLength) Equals(other any) bool {
	o, ok := other.(*sameLength)
	return ok && o != nil && len(o.s) == len(l.s)
}

func TestAssertContract_Passes(t *testing.T) {
	AssertContract(t, &node{}, &node{}, 1, 1, "x")
}

func TestAssertContract_ReportsViolation(t *testing.T) {
	r := &recorder{}
	ok := AssertContract(r, &sameLength{s: "ab"}, &sameLength{s: "cd"})

	assert.False(t, ok)
	assert.Len(t, r.failures, 1)
	assert.Contains(t, r.failures[0], "not hash")
}

func TestAssertEqual(t *testing.T) {
	n := &node{}
	AssertEqual(t, n, n)
	AssertEqual(t, "a", "a")

	r := &recorder{}
	assert.False(t, AssertEqual(r, &node{}, &node{}))
	assert.NotEmpty(t, r.failures)
}

func TestAssertNotEqual(t *testing.T) {
	AssertNotEqual(t, &node{}, &node{})
	AssertNotEqual(t, 1, 2)

	r := &recorder{}
	assert.False(t, AssertNotEqual(r, 7, 7))
	assert.Len(t, r.failures, 2)
}
