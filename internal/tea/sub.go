package tea

import "sync"

// Sub describes external sources the program stays bound to while the
// subscription is present in the current tree. The variants are NoSub,
// *Source and BatchSub.
type Sub[Msg any] interface {
	bind(cb func(Msg))
	unbind()
}

type noneSub[Msg any] struct{}

func (noneSub[Msg]) bind(func(Msg)) {}
func (noneSub[Msg]) unbind()        {}

// NoSub returns the empty subscription. All instances are equal.
func NoSub[Msg any]() Sub[Msg] {
	return noneSub[Msg]{}
}

// Source is a named external signal producing values of type T.
type Source[T, Msg any] struct {
	onBind   func()
	onUnbind func()

	mu sync.Mutex
	f  func(T) Msg
	cb func(Msg)
}

// NewSource returns a source whose bind and unbind hooks run when the
// subscription enters and leaves the program's active tree. Either may be nil.
func NewSource[T, Msg any](bind, unbind func()) *Source[T, Msg] {
	return &Source[T, Msg]{onBind: bind, onUnbind: unbind}
}

// Map attaches f and returns the source as a subscription. Every call returns
// the same value, so consecutive renders compare equal.
func (s *Source[T, Msg]) Map(f func(T) Msg) Sub[Msg] {
	s.mu.Lock()
	s.f = f
	s.mu.Unlock()
	return s
}

// Submit delivers t to the bound program. Values submitted while unbound are
// dropped. Safe for concurrent use.
func (s *Source[T, Msg]) Submit(t T) {
	s.mu.Lock()
	f, cb := s.f, s.cb
	s.mu.Unlock()
	if f == nil || cb == nil {
		return
	}
	cb(f(t))
}

func (s *Source[T, Msg]) bind(cb func(Msg)) {
	s.mu.Lock()
	s.cb = cb
	s.mu.Unlock()
	if s.onBind != nil {
		s.onBind()
	}
}

func (s *Source[T, Msg]) unbind() {
	if s.onUnbind != nil {
		s.onUnbind()
	}
	s.mu.Lock()
	s.cb = nil
	s.mu.Unlock()
}

type batchSub[Msg any] struct {
	subs []Sub[Msg]
}

// BatchSub groups subscriptions as a set: duplicates collapse and member
// order does not affect equality.
func BatchSub[Msg any](subs ...Sub[Msg]) Sub[Msg] {
	b := &batchSub[Msg]{subs: make([]Sub[Msg], 0, len(subs))}
	for _, sub := range subs {
		if sub == nil || b.contains(sub) {
			continue
		}
		b.subs = append(b.subs, sub)
	}
	return b
}

func (b *batchSub[Msg]) contains(sub Sub[Msg]) bool {
	for _, member := range b.subs {
		if SubEqual(member, sub) {
			return true
		}
	}
	return false
}

func (b *batchSub[Msg]) bind(cb func(Msg)) {
	for _, sub := range b.subs {
		sub.bind(cb)
	}
}

func (b *batchSub[Msg]) unbind() {
	for _, sub := range b.subs {
		sub.unbind()
	}
}

// SubEqual reports whether a and b describe the same subscriptions. Sources
// compare by identity, batches by set membership.
func SubEqual[Msg any](a, b Sub[Msg]) bool {
	if a == nil {
		a = noneSub[Msg]{}
	}
	if b == nil {
		b = noneSub[Msg]{}
	}
	ba, aIsBatch := a.(*batchSub[Msg])
	bb, bIsBatch := b.(*batchSub[Msg])
	if aIsBatch || bIsBatch {
		if !aIsBatch || !bIsBatch {
			return false
		}
		if len(ba.subs) != len(bb.subs) {
			return false
		}
		for _, member := range ba.subs {
			if !bb.contains(member) {
				return false
			}
		}
		return true
	}
	return a == b
}
