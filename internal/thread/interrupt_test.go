package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterrupt_ConsumeClearsFlag(t *testing.T) {
	id := Current()
	Interrupt(id)

	assert.True(t, IsInterrupted(id))
	assert.True(t, Consume(id))
	assert.False(t, IsInterrupted(id))
	assert.False(t, Consume(id))
}

func TestInterrupt_NoneIsIgnored(t *testing.T) {
	Interrupt(None)
	assert.False(t, IsInterrupted(None))
}

func TestConsume_UnknownGoroutine(t *testing.T) {
	assert.False(t, Consume(ID(1<<62)))
}

func TestConsume_PrunesEntry(t *testing.T) {
	id := ID(1<<62 + 7)
	Interrupt(id)
	require.True(t, Consume(id))

	_, ok := states.Load(id)
	assert.False(t, ok, "consumed entry should be pruned")
}

func TestPark_WakesOnInterrupt(t *testing.T) {
	done := make(chan ID)
	wake := make(chan struct{}, 1)
	parked := make(chan struct{})

	go func() {
		id := Current()
		unpark := Park(id, func() {
			select {
			case wake <- struct{}{}:
			default:
			}
		})
		done <- id
		close(parked)
		<-wake
		unpark()
	}()

	id := <-done
	<-parked
	Interrupt(id)

	require.Eventually(t, func() bool {
		val, ok := states.Load(id)
		if !ok {
			return false
		}
		st := val.(*state)
		st.mu.Lock()
		defer st.mu.Unlock()
		return st.wake == nil
	}, time.Second, time.Millisecond)

	assert.True(t, Consume(id))
}

func TestPark_PendingInterruptWakesImmediately(t *testing.T) {
	id := Current()
	Interrupt(id)

	woken := false
	unpark := Park(id, func() { woken = true })
	unpark()

	assert.True(t, woken)
	assert.True(t, Consume(id))
}

func TestPark_UnparkPrunesQuietEntry(t *testing.T) {
	id := ID(1<<62 + 11)
	unpark := Park(id, func() {})
	unpark()

	_, ok := states.Load(id)
	assert.False(t, ok)
}
