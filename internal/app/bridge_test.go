package app

import (
	"reflect"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
)

func TestProgramSchedulerForwardsInPostOrder(t *testing.T) {
	s := newProgramScheduler(1)
	var got []int
	// Posts made before the program starts are kept until forward runs.
	s.Post(func() { got = append(got, 1) })
	s.Post(func() { got = append(got, 2) })

	msgs := make(chan tea.Msg, 8)
	stopped := make(chan struct{})
	go func() {
		s.forward(func(msg tea.Msg) { msgs <- msg })
		close(stopped)
	}()
	s.Post(func() { got = append(got, 3) })

	for i := 0; i < 3; i++ {
		select {
		case msg := <-msgs:
			posted, ok := msg.(postedMsg)
			if !ok {
				t.Fatalf("expected postedMsg, got %T", msg)
			}
			posted.run()
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for posted func %d", i+1)
		}
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("unexpected order %v", got)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("forward did not stop after close")
	}
	s.Post(func() { got = append(got, 4) })
	if len(msgs) != 0 {
		t.Fatalf("posts after close must be dropped")
	}
}

func TestProgramSchedulerExecutesOffMainContext(t *testing.T) {
	s := newProgramScheduler(2)
	defer s.Close()
	done := make(chan struct{})
	s.Execute(func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("task did not run")
	}
}
