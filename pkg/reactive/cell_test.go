package reactive

import (
	"testing"

	"pgregory.net/rapid"
)

func TestCellReadSubscribesActive(t *testing.T) {
	tr := NewTracker()
	c := NewCell(tr, 1)
	s := newTestSubscriber(nil)

	tr.Collect(s, func() {
		if got := c.Read(); got != 1 {
			t.Errorf("Read() = %v, want 1", got)
		}
	})

	if c.Dep().Len() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", c.Dep().Len())
	}
	if tr.Collecting() {
		t.Error("slot must be empty after Collect")
	}

	c.Write(2)
	if s.count != 1 {
		t.Errorf("expected 1 notification, got %d", s.count)
	}
}

func TestCellReadOutsideCollection(t *testing.T) {
	tr := NewTracker()
	c := NewCell(tr, "a")
	_ = c.Read()
	if c.Dep().Len() != 0 {
		t.Errorf("untracked read subscribed %d", c.Dep().Len())
	}
}

func TestCellPeekDoesNotSubscribe(t *testing.T) {
	tr := NewTracker()
	c := NewCell(tr, "a")
	tr.Collect(newTestSubscriber(nil), func() {
		_ = c.Peek()
	})
	if c.Dep().Len() != 0 {
		t.Errorf("Peek subscribed %d", c.Dep().Len())
	}
}

func TestCellWriteSameValue(t *testing.T) {
	tr := NewTracker()
	m := map[string]any{}
	c := NewCell(tr, m)
	s := newTestSubscriber(nil)
	tr.Collect(s, func() { _ = c.Read() })

	c.Write(m)
	if s.count != 0 {
		t.Errorf("writing the same map notified %d times", s.count)
	}
	c.Write(map[string]any{})
	if s.count != 1 {
		t.Errorf("writing a distinct map notified %d times, want 1", s.count)
	}
}

// Writing a different value notifies every subscriber exactly once, in
// subscription order.
func TestCellWriteNotifiesInOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := NewTracker()
		initial := rapid.Int().Draw(t, "initial")
		next := rapid.Int().Filter(func(v int) bool { return v != initial }).Draw(t, "next")
		n := rapid.IntRange(1, 8).Draw(t, "subscribers")

		c := NewCell(tr, initial)
		var log []uint64
		subs := make([]*testSubscriber, n)
		for i := range subs {
			subs[i] = newTestSubscriber(&log)
			tr.Collect(subs[i], func() { _ = c.Read() })
		}

		c.Write(next)

		if len(log) != n {
			t.Fatalf("expected %d notifications, got %d", n, len(log))
		}
		for i, s := range subs {
			if log[i] != s.id {
				t.Fatalf("notification %d went to %d, want %d", i, log[i], s.id)
			}
			if s.count != 1 {
				t.Fatalf("subscriber %d notified %d times", i, s.count)
			}
		}
	})
}

// Writing the stored value again notifies nobody.
func TestCellWriteSameValueProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tr := NewTracker()
		v := rapid.OneOf(
			rapid.Just[any](nil),
			rapid.Map(rapid.Int(), func(i int) any { return i }),
			rapid.Map(rapid.String(), func(s string) any { return s }),
			rapid.Map(rapid.Bool(), func(b bool) any { return b }),
		).Draw(t, "value")

		c := NewCell(tr, v)
		s := newTestSubscriber(nil)
		tr.Collect(s, func() { _ = c.Read() })

		c.Write(v)
		if s.count != 0 {
			t.Fatalf("same value %v notified %d times", v, s.count)
		}
	})
}
