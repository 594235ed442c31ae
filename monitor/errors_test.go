package monitor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StateError
		want string
	}{
		{
			name: "unlocked",
			err:  &StateError{Op: "release", Caller: 7},
			want: "release: illegal monitor state: goroutine 7 does not own the monitor (unlocked)",
		},
		{
			name: "owned",
			err:  &StateError{Monitor: "accounts", Op: "notify", Caller: 7, Owner: 3, Depth: 2},
			want: `monitor "accounts": notify: illegal monitor state: goroutine 7 does not own the monitor (owner goroutine 3, depth 2)`,
		},
		{
			name: "with stack",
			err:  &StateError{Op: "wait", Caller: 7, Owner: 3, Depth: 1, OwnerStack: "  main.main()\n"},
			want: "wait: illegal monitor state: goroutine 7 does not own the monitor (owner goroutine 3, depth 1)" +
				"\n\nOwner acquired at:\n  main.main()\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrIllegalMonitorState)
			assert.NotErrorIs(t, tt.err, ErrInterrupted)
		})
	}
}

func TestArgumentError_Error(t *testing.T) {
	err := &ArgumentError{Param: "nanos", Value: 1000000, Reason: "nanosecond timeout value out of range"}

	assert.Equal(t, "illegal argument: nanos: nanosecond timeout value out of range (got 1000000)", err.Error())
	assert.ErrorIs(t, err, ErrIllegalArgument)
}

func TestInterruptedError(t *testing.T) {
	plain := &InterruptedError{Op: "wait"}
	assert.Equal(t, "wait: interrupted", plain.Error())
	assert.ErrorIs(t, plain, ErrInterrupted)
	assert.NotErrorIs(t, plain, context.Canceled)

	cancelled := &InterruptedError{Op: "acquire", Cause: context.Canceled}
	assert.Equal(t, "acquire: interrupted: context canceled", cancelled.Error())
	assert.ErrorIs(t, cancelled, ErrInterrupted)
	assert.ErrorIs(t, cancelled, context.Canceled)

	var ie *InterruptedError
	assert.True(t, errors.As(error(cancelled), &ie))
}
