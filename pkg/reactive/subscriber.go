package reactive

// Subscriber is anything that can be notified when a Cell it read changes.
// Watchers are the only subscribers created by the compiler, but tests and
// embedders may provide their own.
type Subscriber interface {
	// Update is called synchronously after a Cell the subscriber depends on
	// has been written with a different value.
	Update()

	// ID returns a unique identifier used to deduplicate subscriptions.
	ID() uint64
}

// sourceRecorder is implemented by subscribers that remember which Deps
// they joined so they can leave them on Dispose.
type sourceRecorder interface {
	addSource(d *Dep)
}

// SubscriberFunc adapts a function to the Subscriber interface.
type SubscriberFunc struct {
	id uint64
	fn func()
}

// NewSubscriberFunc wraps fn with a fresh ID.
func NewSubscriberFunc(fn func()) *SubscriberFunc {
	return &SubscriberFunc{id: nextID(), fn: fn}
}

// Update calls the wrapped function.
func (s *SubscriberFunc) Update() {
	if s.fn != nil {
		s.fn()
	}
}

// ID returns the subscriber's unique identifier.
func (s *SubscriberFunc) ID() uint64 {
	return s.id
}
