package livedata

import (
	"reflect"
	"testing"
)

func TestValueNotifiesCurrentAndLaterValues(t *testing.T) {
	v := New("a")
	var got []string
	cancel := v.Observe(func(s string) { got = append(got, s) })
	v.Set("b")
	cancel()
	cancel()
	v.Set("c")

	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("got %v", got)
	}
	if v.Get() != "c" {
		t.Fatalf("Get = %q", v.Get())
	}
}

func TestValueNotifiesObserversInRegistrationOrder(t *testing.T) {
	v := New(0)
	var got []string
	v.Observe(func(int) { got = append(got, "first") })
	v.Observe(func(int) { got = append(got, "second") })
	got = nil
	v.Set(1)
	if !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Fatalf("got %v", got)
	}
}

func TestValueDeliversReentrantSetAfterCallback(t *testing.T) {
	v := New("a")
	var got []string
	depth, maxDepth := 0, 0
	v.Observe(func(s string) {
		depth++
		if depth > maxDepth {
			maxDepth = depth
		}
		got = append(got, s)
		if s == "a" {
			v.Set("b")
		}
		depth--
	})
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("got %v", got)
	}
	if maxDepth != 1 {
		t.Fatalf("re-entrant Set must not nest the callback, depth=%d", maxDepth)
	}
}

func TestValueSetDuringReplayIsDeliveredAfterIt(t *testing.T) {
	v := New("old")
	var got []string
	setDone := make(chan struct{})
	v.Observe(func(s string) {
		got = append(got, s)
		if s == "old" {
			go func() {
				v.Set("new")
				close(setDone)
			}()
			<-setDone
		}
	})
	if !reflect.DeepEqual(got, []string{"old", "new"}) {
		t.Fatalf("got %v", got)
	}
}

func TestObserverDropsValuesOlderThanDelivered(t *testing.T) {
	var got []string
	o := &observer[string]{fn: func(s string) { got = append(got, s) }}
	o.deliver(3, "new")
	o.deliver(2, "stale replay")
	o.deliver(4, "newer")
	if !reflect.DeepEqual(got, []string{"new", "newer"}) {
		t.Fatalf("got %v", got)
	}
}

func TestValueCancelInsideCallbackStopsQueuedValues(t *testing.T) {
	v := New(0)
	var got []int
	var cancel func()
	cancel = v.Observe(func(n int) {
		got = append(got, n)
		if n == 1 {
			v.Set(2)
			cancel()
		}
	})
	v.Set(1)
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("got %v", got)
	}
}
