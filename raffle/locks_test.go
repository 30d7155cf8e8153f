package raffle

import (
	"testing"
	"time"
)

func TestNameLocksIndependentNames(t *testing.T) {
	locks := NewNameLocks()

	release := locks.Lock("SpaceA")
	defer release()

	// a different name must not block
	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("SpaceB")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock for a different raffle name blocked")
	}
}

func TestNameLocksSameNameSerializes(t *testing.T) {
	locks := NewNameLocks()

	release := locks.Lock("SpaceA")
	acquired := make(chan struct{})
	go func() {
		unlock := locks.Lock("SpaceA")
		unlock()
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired the lock while it was held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was never handed over")
	}
}
