package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_Fires(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	fired := make(chan struct{})
	s.Arm("g1", time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestScheduler_CancelPreventsFiring(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var fired atomic.Bool
	s.Arm("g1", 10*time.Millisecond, func() { fired.Store(true) })
	assert.True(t, s.Cancel("g1"))

	time.Sleep(50 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestScheduler_ArmReplacesOldTimer(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var old atomic.Bool
	replaced := make(chan struct{})
	s.Arm("g1", 10*time.Millisecond, func() { old.Store(true) })
	s.Arm("g1", 30*time.Millisecond, func() { close(replaced) })

	select {
	case <-replaced:
	case <-time.After(time.Second):
		t.Fatal("replacement timer did not fire")
	}
	assert.False(t, old.Load(), "replaced timer must never fire")
}

func TestScheduler_CancelMissingIsNoOp(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	assert.False(t, s.Cancel("never-armed"))
}

func TestScheduler_CancelAfterFireIsNoOp(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	fired := make(chan struct{})
	s.Arm("g1", time.Millisecond, func() { close(fired) })
	<-fired

	assert.False(t, s.Cancel("g1"))
}

func TestScheduler_IndependentIDs(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var g2 atomic.Bool
	fired := make(chan struct{})
	s.Arm("g1", time.Millisecond, func() { close(fired) })
	s.Arm("g2", 5*time.Second, func() { g2.Store(true) })

	<-fired
	assert.True(t, s.Cancel("g2"))
	assert.False(t, g2.Load())
}
