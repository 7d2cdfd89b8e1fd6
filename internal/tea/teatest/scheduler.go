// Package teatest provides a deterministic scheduler for driving tea programs
// in tests.
package teatest

import "sync"

// Scheduler posts synchronously. Tasks run immediately when AutoExecute is
// set and otherwise wait for Proceed.
type Scheduler struct {
	AutoExecute bool

	mu      sync.Mutex
	pending []func()
}

func New() *Scheduler {
	return &Scheduler{AutoExecute: true}
}

// Manual returns a scheduler that queues every task.
func Manual() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) Execute(f func()) {
	if s.AutoExecute {
		f()
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, f)
	s.mu.Unlock()
}

func (s *Scheduler) Post(f func()) {
	f()
}

// Proceed runs the oldest queued task and reports whether there was one.
func (s *Scheduler) Proceed() bool {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return false
	}
	f := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()
	f()
	return true
}

// Drain runs queued tasks, including ones queued along the way, until none
// remain. It returns how many ran.
func (s *Scheduler) Drain() int {
	n := 0
	for s.Proceed() {
		n++
	}
	return n
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
