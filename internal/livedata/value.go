// Package livedata holds observable values shared between repositories and
// the view models subscribed to them.
package livedata

import "sync"

// Value is an observable value. Observers receive the current value when
// they register and every value set afterwards, in order. An observer never
// sees a value older than one it has already been given.
type Value[T any] struct {
	mu        sync.Mutex
	value     T
	version   uint64
	nextID    int
	observers map[int]*observer[T]
	order     []int
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, version: 1, observers: map[int]*observer[T]{}}
}

func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set stores value and notifies observers outside the lock.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.value = value
	v.version++
	version := v.version
	observers := v.snapshot()
	v.mu.Unlock()
	for _, o := range observers {
		o.deliver(version, value)
	}
}

// Observe registers fn and calls it with the current value. The replay is
// skipped when a newer Set has already reached fn.
func (v *Value[T]) Observe(fn func(T)) (cancel func()) {
	o := &observer[T]{fn: fn}
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.observers[id] = o
	v.order = append(v.order, id)
	current, version := v.value, v.version
	v.mu.Unlock()

	o.deliver(version, current)

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.observers, id)
			for i, candidate := range v.order {
				if candidate == id {
					v.order = append(v.order[:i], v.order[i+1:]...)
					break
				}
			}
			v.mu.Unlock()
			o.stop()
		})
	}
}

func (v *Value[T]) snapshot() []*observer[T] {
	out := make([]*observer[T], 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.observers[id])
	}
	return out
}

type delivery[T any] struct {
	version uint64
	value   T
}

// observer serializes calls to fn. The goroutine that finds the queue idle
// drains it; others enqueue and return. A Set made from inside fn is
// delivered after fn returns instead of nesting.
type observer[T any] struct {
	fn func(T)

	mu       sync.Mutex
	pending  []delivery[T]
	draining bool
	stopped  bool
	last     uint64
}

func (o *observer[T]) deliver(version uint64, value T) {
	o.mu.Lock()
	o.pending = append(o.pending, delivery[T]{version: version, value: value})
	if o.draining {
		o.mu.Unlock()
		return
	}
	o.draining = true
	for len(o.pending) > 0 && !o.stopped {
		d := o.pending[0]
		o.pending = o.pending[1:]
		if d.version <= o.last {
			continue
		}
		o.last = d.version
		o.mu.Unlock()
		o.fn(d.value)
		o.mu.Lock()
	}
	o.pending = nil
	o.draining = false
	o.mu.Unlock()
}

func (o *observer[T]) stop() {
	o.mu.Lock()
	o.stopped = true
	o.pending = nil
	o.mu.Unlock()
}
