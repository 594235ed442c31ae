package object_test

import (
	"fmt"

	"github.com/kolkov/objmonitor/object"
)

type Account struct {
	object.Base
	Balance int
}

// Example shows the identity defaults.
func Example() {
	a, b := &Account{}, &Account{}

	fmt.Println(object.Equals(a, a))
	fmt.Println(object.Equals(a, b))
	fmt.Println(object.Equals(a, nil))
	fmt.Println(object.HashCode(a) == a.IdentityHash())

	// Output:
	// true
	// false
	// false
	// true
}

// Example_synchronized guards a field with the instance's own monitor.
func Example_synchronized() {
	a := &Account{}

	_ = a.Synchronized(func() error {
		a.Balance += 10
		return nil
	})

	fmt.Println(a.Balance, a.HasMonitor())

	// Output:
	// 10 true
}
