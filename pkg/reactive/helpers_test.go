package reactive

// testSubscriber records every notification it receives.
type testSubscriber struct {
	id    uint64
	log   *[]uint64
	count int
}

func newTestSubscriber(log *[]uint64) *testSubscriber {
	return &testSubscriber{id: nextID(), log: log}
}

func (s *testSubscriber) Update() {
	s.count++
	if s.log != nil {
		*s.log = append(*s.log, s.id)
	}
}

func (s *testSubscriber) ID() uint64 { return s.id }

func newStore(data map[string]any, opts ...TrackerOption) *Object {
	return Observe(NewTracker(opts...), data).(*Object)
}
