// Package tea is a small model-update-view runtime. A Program folds messages
// into a model with a pure update function and interprets the commands and
// subscriptions that update describes.
package tea

// Cmd describes a side effect without performing it. The variants are
// NoneCmd, EventCmd, TaskCmd, BatchCmd and MsgCmd.
type Cmd[Msg any] interface {
	isCmd(Msg)
}

// NoneCmd does nothing. All NoneCmd values are equal.
type NoneCmd[Msg any] struct{}

// EventCmd runs Run inline on the main context. It produces no message.
type EventCmd[Msg any] struct {
	Run func()
}

// TaskCmd runs Run through the scheduler's worker surface. The returned
// message is posted back to the main context.
type TaskCmd[Msg any] struct {
	Run func() Msg
}

// BatchCmd processes each member independently, in no particular order.
type BatchCmd[Msg any] struct {
	Cmds []Cmd[Msg]
}

// MsgCmd feeds Msg straight back into update.
type MsgCmd[Msg any] struct {
	Msg Msg
}

func (NoneCmd[Msg]) isCmd(Msg)  {}
func (EventCmd[Msg]) isCmd(Msg) {}
func (TaskCmd[Msg]) isCmd(Msg)  {}
func (BatchCmd[Msg]) isCmd(Msg) {}
func (MsgCmd[Msg]) isCmd(Msg)   {}

func None[Msg any]() Cmd[Msg] {
	return NoneCmd[Msg]{}
}

func IsNone[Msg any](cmd Cmd[Msg]) bool {
	if cmd == nil {
		return true
	}
	_, ok := cmd.(NoneCmd[Msg])
	return ok
}

func Event[Msg any](f func()) Cmd[Msg] {
	return EventCmd[Msg]{Run: f}
}

// EventFn curries f into a command constructor, so call sites read
// persist(account) instead of wrapping a closure each time.
func EventFn[Msg, T any](f func(T)) func(T) Cmd[Msg] {
	return func(t T) Cmd[Msg] {
		return EventCmd[Msg]{Run: func() { f(t) }}
	}
}

// Task runs f off the main context and maps its result with g.
func Task[Msg, T any](f func() T, g func(T) Msg) Cmd[Msg] {
	return TaskCmd[Msg]{Run: func() Msg { return g(f()) }}
}

func Task0[Msg, T any](f func() T) func(func(T) Msg) Cmd[Msg] {
	return func(g func(T) Msg) Cmd[Msg] {
		return Task(f, g)
	}
}

func Task1[Msg, A, T any](f func(A) T) func(A, func(T) Msg) Cmd[Msg] {
	return func(a A, g func(T) Msg) Cmd[Msg] {
		return Task(func() T { return f(a) }, g)
	}
}

func Task2[Msg, A, B, T any](f func(A, B) T) func(A, B, func(T) Msg) Cmd[Msg] {
	return func(a A, b B, g func(T) Msg) Cmd[Msg] {
		return Task(func() T { return f(a, b) }, g)
	}
}

func Task3[Msg, A, B, C, T any](f func(A, B, C) T) func(A, B, C, func(T) Msg) Cmd[Msg] {
	return func(a A, b B, c C, g func(T) Msg) Cmd[Msg] {
		return Task(func() T { return f(a, b, c) }, g)
	}
}

// Batch drops None members. A batch of one is that command.
func Batch[Msg any](cmds ...Cmd[Msg]) Cmd[Msg] {
	kept := make([]Cmd[Msg], 0, len(cmds))
	for _, cmd := range cmds {
		if IsNone(cmd) {
			continue
		}
		kept = append(kept, cmd)
	}
	switch len(kept) {
	case 0:
		return NoneCmd[Msg]{}
	case 1:
		return kept[0]
	}
	return BatchCmd[Msg]{Cmds: kept}
}

func Msg[M any](msg M) Cmd[M] {
	return MsgCmd[M]{Msg: msg}
}
