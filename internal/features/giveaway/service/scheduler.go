package service

import (
	"sync"
	"time"
)

// Scheduler arms the expiry countdown backing each active giveaway. At most
// one timer exists per giveaway id: Arm replaces any previous timer such that
// the old one can never fire afterwards, and Cancel of an absent or
// already-fired timer is a no-op.
type Scheduler interface {
	Arm(id string, d time.Duration, fn func())
	Cancel(id string) bool
	Stop()
}

type timerScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewScheduler returns the time.Timer-backed Scheduler used in production.
func NewScheduler() Scheduler {
	return &timerScheduler{timers: make(map[string]*time.Timer)}
}

func (s *timerScheduler) Arm(id string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.timers[id]; ok {
		old.Stop()
	}
	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		s.mu.Lock()
		// A replaced timer may still get here if it was mid-fire during Arm;
		// it is no longer the registered one and must not run.
		cur, ok := s.timers[id]
		if !ok || cur != tm {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
		s.mu.Unlock()
		fn()
	})
	s.timers[id] = tm
}

func (s *timerScheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	tm, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	tm.Stop()
	return true
}

func (s *timerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, tm := range s.timers {
		tm.Stop()
		delete(s.timers, id)
	}
}
