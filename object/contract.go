package object

import (
	"errors"
	"fmt"
	"strings"
)

// ErrContractViolation is matched by every error Verify reports.
var ErrContractViolation = errors.New("equality contract violation")

// ContractError names a property of the equality contract that a set of
// values breaks.
type ContractError struct {
	// Property is one of "reflexive", "symmetric", "transitive", "nil",
	// "consistent" or "hash".
	Property string

	// Values are the offending values rendered with ToString.
	Values []string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("%v: not %s: %s", ErrContractViolation, e.Property, strings.Join(e.Values, ", "))
}

// Unwrap returns ErrContractViolation.
func (e *ContractError) Unwrap() error {
	return ErrContractViolation
}

func violation(property string, values ...any) error {
	rendered := make([]string, len(values))
	for i, v := range values {
		rendered[i] = ToString(v)
	}
	return &ContractError{Property: property, Values: rendered}
}

// Verify checks the equality and hash contract across values: every value,
// every ordered pair and every ordered triple. nil entries are skipped. It
// returns all violations joined, or nil.
//
// Cost is cubic in len(values); keep sets small.
func Verify(values ...any) error {
	var live []any
	for _, v := range values {
		if !isNil(v) {
			live = append(live, v)
		}
	}

	var errs []error
	for _, x := range live {
		if !Equals(x, x) {
			errs = append(errs, violation("reflexive", x))
		}
		if e, ok := x.(Equaler); ok && e.Equals(nil) {
			errs = append(errs, violation("nil", x))
		}
		if HashCode(x) != HashCode(x) {
			errs = append(errs, violation("consistent", x))
		}
	}

	for i, x := range live {
		for j, y := range live {
			if i == j {
				continue
			}
			xy := Equals(x, y)
			if xy != Equals(x, y) {
				errs = append(errs, violation("consistent", x, y))
			}
			if i < j && xy != Equals(y, x) {
				errs = append(errs, violation("symmetric", x, y))
			}
			if i < j && xy && HashCode(x) != HashCode(y) {
				errs = append(errs, violation("hash", x, y))
			}
		}
	}

	for i, x := range live {
		for j, y := range live {
			if i == j || !Equals(x, y) {
				continue
			}
			for k, z := range live {
				if k == i || k == j {
					continue
				}
				if Equals(y, z) && !Equals(x, z) {
					errs = append(errs, violation("transitive", x, y, z))
				}
			}
		}
	}

	return errors.Join(errs...)
}
