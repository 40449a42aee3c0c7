package reactive

import "github.com/vango-dev/vbind/internal/util"

// Scope is what a Watcher evaluates against: a view-model or a store
// exposing single-level property reads and the Tracker those reads report to.
type Scope interface {
	Get(key string) any
	Tracker() *Tracker
}

// WatchFunc is called with the fresh and the previous value of a watched
// expression.
type WatchFunc func(value, old any)

// State is the lifecycle state of a Watcher.
type State uint8

const (
	StateIdle       State = iota // holding a cached value
	StateCollecting              // reading its expression with the slot held
	StateDisposed                // unsubscribed from everything
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Watcher caches the value of one property expression and calls its
// callback whenever a notification leaves it with a different value.
type Watcher struct {
	id    uint64
	scope Scope
	exp   string
	cb    WatchFunc

	value   any
	state   State
	sources []*Dep
}

// NewWatcher evaluates exp against scope while collecting, so the Cell it
// reads records the Watcher as a subscriber, and caches the result.
func NewWatcher(scope Scope, exp string, cb WatchFunc) *Watcher {
	w := &Watcher{
		id:    nextID(),
		scope: scope,
		exp:   exp,
		cb:    cb,
	}
	w.value = w.get()
	return w
}

func (w *Watcher) get() any {
	var v any
	w.state = StateCollecting
	w.scope.Tracker().Collect(w, func() {
		v = w.scope.Get(w.exp)
	})
	w.state = StateIdle
	return v
}

// Update re-reads the expression without collecting. When the fresh value
// is not strictly the cached one, the cache is refreshed and the callback
// runs; later updates compare against the latest value.
func (w *Watcher) Update() {
	if w.state == StateDisposed {
		return
	}
	var fresh any
	w.scope.Tracker().Untracked(func() {
		fresh = w.scope.Get(w.exp)
	})
	old := w.value
	if util.Same(old, fresh) {
		return
	}
	w.value = fresh
	if w.cb != nil {
		w.cb(fresh, old)
	}
}

// ID returns the unique identifier for this watcher.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Expression returns the watched property name.
func (w *Watcher) Expression() string {
	return w.exp
}

// Value returns the cached value.
func (w *Watcher) Value() any {
	return w.value
}

// State returns the lifecycle state.
func (w *Watcher) State() State {
	return w.state
}

// Sources returns the number of Deps the watcher is subscribed to.
func (w *Watcher) Sources() int {
	return len(w.sources)
}

func (w *Watcher) addSource(d *Dep) {
	w.sources = append(w.sources, d)
}

// Dispose unsubscribes the watcher from every Dep it joined. A disposed
// watcher ignores further notifications.
func (w *Watcher) Dispose() {
	if w.state == StateDisposed {
		return
	}
	for _, d := range w.sources {
		d.Remove(w)
	}
	w.sources = nil
	w.state = StateDisposed
}
