package events

import "sync"

// State is the host lifecycle state. States are ordered.
type State int

const (
	Destroyed State = iota
	Initialized
	Created
	Started
	Resumed
)

func (s State) String() string {
	switch s {
	case Destroyed:
		return "destroyed"
	case Initialized:
		return "initialized"
	case Created:
		return "created"
	case Started:
		return "started"
	case Resumed:
		return "resumed"
	default:
		return "unknown"
	}
}

func (s State) AtLeast(other State) bool {
	return s >= other
}

// Lifecycle is implemented by anything that hosts observers, usually a screen.
type Lifecycle interface {
	State() State
	AddObserver(fn func(State)) (remove func())
}

// LifecycleRegistry is a Lifecycle driven by its owner through SetState.
type LifecycleRegistry struct {
	mu        sync.Mutex
	state     State
	nextID    int
	observers map[int]func(State)
}

func NewLifecycleRegistry() *LifecycleRegistry {
	return &LifecycleRegistry{state: Initialized, observers: map[int]func(State){}}
}

func (r *LifecycleRegistry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *LifecycleRegistry) AddObserver(fn func(State)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

// SetState moves to state and notifies observers when it changed. A
// destroyed registry stays destroyed.
func (r *LifecycleRegistry) SetState(state State) {
	r.mu.Lock()
	if r.state == state || r.state == Destroyed {
		r.mu.Unlock()
		return
	}
	r.state = state
	observers := make([]func(State), 0, len(r.observers))
	for _, fn := range r.observers {
		observers = append(observers, fn)
	}
	if state == Destroyed {
		r.observers = map[int]func(State){}
	}
	r.mu.Unlock()
	for _, fn := range observers {
		fn(state)
	}
}
