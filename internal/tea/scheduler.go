package tea

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Scheduler separates where task bodies run from the main context where
// messages are processed.
type Scheduler interface {
	// Execute runs f off the main context.
	Execute(f func())
	// Post runs f on the main context.
	Post(f func())
}

const defaultPoolBuffer = 64

// WorkerPool runs funcs on a fixed set of worker goroutines.
type WorkerPool struct {
	mu     sync.RWMutex
	closed bool
	tasks  chan func()
	stopCh chan struct{}
	group  errgroup.Group
}

func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	p := &WorkerPool{
		tasks:  make(chan func(), defaultPoolBuffer),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.group.Go(p.loop)
	}
	return p
}

// Execute queues f. It blocks while the buffer is full and drops f once the
// pool is closed.
func (p *WorkerPool) Execute(f func()) {
	if p == nil || f == nil {
		return
	}
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return
	}
	tasks, stopCh := p.tasks, p.stopCh
	p.mu.RUnlock()

	select {
	case tasks <- f:
	case <-stopCh:
	}
}

func (p *WorkerPool) loop() error {
	for {
		select {
		case <-p.stopCh:
			return nil
		case f := <-p.tasks:
			f()
		}
	}
}

// Close stops the workers and waits for running funcs to return. Queued funcs
// that have not started are dropped.
func (p *WorkerPool) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.stopCh)
	p.mu.Unlock()
	return p.group.Wait()
}

// Looper is a Scheduler whose main context is the goroutine calling Run.
// Posted funcs run in order, one at a time.
type Looper struct {
	pool *WorkerPool

	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

func NewLooper(workers int) *Looper {
	return &Looper{
		pool: NewWorkerPool(workers),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (l *Looper) Execute(f func()) {
	l.pool.Execute(f)
}

// Post never blocks.
func (l *Looper) Post(f func()) {
	if f == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do posts f and waits until it has run. It must not be called from the
// main context.
func (l *Looper) Do(f func()) {
	ran := make(chan struct{})
	l.Post(func() {
		defer close(ran)
		f()
	})
	select {
	case <-ran:
	case <-l.done:
	}
}

// Run drains posted funcs until ctx is done or the looper is closed. A panic
// in a posted func propagates out of Run.
func (l *Looper) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		for {
			f, ok := l.next()
			if !ok {
				break
			}
			f()
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
		}
	}
}

func (l *Looper) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || len(l.queue) == 0 {
		return nil, false
	}
	f := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return f, true
}

func (l *Looper) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.queue = nil
	close(l.done)
	l.mu.Unlock()
	return l.pool.Close()
}
