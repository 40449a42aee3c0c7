package reactive

// Dep is the subscriber registry of one Cell. Subscribers are kept in the
// order they first subscribed and deduplicated by ID, so a Watcher that reads
// the same Cell several times during one evaluation is notified once.
type Dep struct {
	tracker *Tracker

	subs []Subscriber
	ids  map[uint64]struct{}
}

// NewDep creates an empty registry bound to t.
func NewDep(t *Tracker) *Dep {
	return &Dep{
		tracker: t,
		ids:     make(map[uint64]struct{}),
	}
}

// Depend subscribes the Tracker's active subscriber, if any.
func (d *Dep) Depend() {
	if d.tracker == nil {
		return
	}
	s := d.tracker.Active()
	if s == nil {
		return
	}
	if d.Add(s) {
		if r, ok := s.(sourceRecorder); ok {
			r.addSource(d)
		}
	}
}

// Add subscribes s. It returns false when s was already subscribed.
func (d *Dep) Add(s Subscriber) bool {
	if s == nil {
		return false
	}
	id := s.ID()
	if _, ok := d.ids[id]; ok {
		return false
	}
	d.ids[id] = struct{}{}
	d.subs = append(d.subs, s)
	return true
}

// Remove unsubscribes s, keeping the order of the remaining subscribers.
func (d *Dep) Remove(s Subscriber) {
	if s == nil {
		return
	}
	id := s.ID()
	if _, ok := d.ids[id]; !ok {
		return
	}
	delete(d.ids, id)
	for i, existing := range d.subs {
		if existing.ID() == id {
			d.subs = append(d.subs[:i:i], d.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of subscribers.
func (d *Dep) Len() int {
	return len(d.subs)
}

// Subscribers returns a copy of the subscriber list in notification order.
func (d *Dep) Subscribers() []Subscriber {
	out := make([]Subscriber, len(d.subs))
	copy(out, d.subs)
	return out
}

// Notify calls Update on every subscriber, in subscription order. The list
// is copied first, so subscribers added or removed during the pass take
// effect on the next one.
func (d *Dep) Notify() {
	if d.tracker != nil {
		if !d.tracker.enter() {
			return
		}
		defer d.tracker.leave()
	}

	subs := make([]Subscriber, len(d.subs))
	copy(subs, d.subs)
	for _, s := range subs {
		s.Update()
	}
}
