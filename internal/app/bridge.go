package app

import (
	"sync"

	tea "charm.land/bubbletea/v2"

	engine "watchlater/internal/tea"
)

// postedMsg carries a func posted to the engine's main context. The screen
// runs it from Update, so the bubbletea event loop is the main context.
type postedMsg struct {
	run func()
}

// programScheduler forwards posted funcs to a bubbletea program in order.
// Posting never blocks, so view models may be built before the program runs.
type programScheduler struct {
	pool *engine.WorkerPool

	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

func newProgramScheduler(workers int) *programScheduler {
	return &programScheduler{
		pool: engine.NewWorkerPool(workers),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (s *programScheduler) Execute(f func()) {
	s.pool.Execute(f)
}

func (s *programScheduler) Post(f func()) {
	if f == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, f)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// forward delivers queued funcs through send until Close.
func (s *programScheduler) forward(send func(tea.Msg)) {
	for {
		for {
			f, ok := s.next()
			if !ok {
				break
			}
			send(postedMsg{run: f})
		}
		select {
		case <-s.done:
			return
		case <-s.wake:
		}
	}
}

func (s *programScheduler) next() (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.queue) == 0 {
		return nil, false
	}
	f := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return f, true
}

func (s *programScheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.queue = nil
	close(s.done)
	s.mu.Unlock()
	return s.pool.Close()
}
