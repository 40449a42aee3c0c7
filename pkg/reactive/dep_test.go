package reactive

import "testing"

func TestDepDeduplicates(t *testing.T) {
	tr := NewTracker()
	c := NewCell(tr, 0)
	s := newTestSubscriber(nil)

	tr.Collect(s, func() {
		_ = c.Read()
		_ = c.Read()
	})

	if c.Dep().Len() != 1 {
		t.Fatalf("double read produced %d subscriptions, want 1", c.Dep().Len())
	}
	c.Write(1)
	if s.count != 1 {
		t.Errorf("expected a single notification, got %d", s.count)
	}
}

func TestDepRemoveKeepsOrder(t *testing.T) {
	d := NewDep(nil)
	var log []uint64
	a, b, c := newTestSubscriber(&log), newTestSubscriber(&log), newTestSubscriber(&log)
	d.Add(a)
	d.Add(b)
	d.Add(c)

	d.Remove(b)
	d.Remove(b)
	d.Notify()

	if len(log) != 2 || log[0] != a.id || log[1] != c.id {
		t.Errorf("unexpected notification order %v", log)
	}
	if d.Add(a) {
		t.Error("re-adding an existing subscriber should report false")
	}
}

func TestDepNilSubscriber(t *testing.T) {
	d := NewDep(nil)
	if d.Add(nil) {
		t.Error("nil subscriber added")
	}
	d.Remove(nil)
	d.Depend()
	if d.Len() != 0 {
		t.Errorf("Len() = %d", d.Len())
	}
}

func TestDepSubscribersAddedDuringNotify(t *testing.T) {
	d := NewDep(NewTracker())
	late := newTestSubscriber(nil)
	first := NewSubscriberFunc(func() { d.Add(late) })
	d.Add(first)

	d.Notify()
	if late.count != 0 {
		t.Error("subscriber added during a pass must wait for the next pass")
	}
	d.Notify()
	if late.count != 1 {
		t.Errorf("late subscriber notified %d times, want 1", late.count)
	}
	if len(d.Subscribers()) != 2 {
		t.Errorf("Subscribers() = %d entries", len(d.Subscribers()))
	}
}
