package reactive

import (
	"fmt"
	"log/slog"

	"github.com/vango-dev/vbind/internal/errors"
)

// DefaultMaxUpdateDepth bounds how deeply notification passes may nest when
// callbacks write the cells they react to.
const DefaultMaxUpdateDepth = 100

// Tracker is the collection context shared by every Cell of one store. It
// holds the single slot naming the subscriber currently collecting
// dependencies, and the nesting depth of notification passes.
//
// The slot is occupied only for the synchronous duration of Collect; it is
// empty before and after.
type Tracker struct {
	// active is the subscriber collecting dependencies, or nil.
	active Subscriber

	// depth counts nested Dep.Notify calls.
	depth int

	// maxDepth is the nesting bound; passes deeper than this are dropped.
	maxDepth int

	logger  *slog.Logger
	onError func(error)
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithMaxUpdateDepth sets the notification nesting bound. Values below 1
// keep the default.
func WithMaxUpdateDepth(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.maxDepth = n
		}
	}
}

// WithLogger sets the logger used to report dropped notification passes.
func WithLogger(l *slog.Logger) TrackerOption {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithErrorHandler registers fn to receive runtime faults such as an
// exceeded update depth, in addition to logging.
func WithErrorHandler(fn func(error)) TrackerOption {
	return func(t *Tracker) {
		t.onError = fn
	}
}

// NewTracker creates an empty collection context.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		maxDepth: DefaultMaxUpdateDepth,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Active returns the subscriber currently collecting dependencies, or nil.
func (t *Tracker) Active() Subscriber {
	return t.active
}

// Collecting reports whether the slot is occupied.
func (t *Tracker) Collecting() bool {
	return t.active != nil
}

// Collect runs fn with s in the collection slot, so every Cell read by fn
// subscribes s. Collection is not reentrant: calling Collect while the slot
// is occupied panics.
func (t *Tracker) Collect(s Subscriber, fn func()) {
	if s == nil {
		fn()
		return
	}
	if t.active != nil {
		panic(fmt.Sprintf("reactive: subscriber %d started collecting while %d holds the slot", s.ID(), t.active.ID()))
	}
	t.active = s
	defer func() { t.active = nil }()
	fn()
}

// Untracked runs fn with the slot empty, so reads inside fn subscribe
// nothing. The previous occupant, if any, is restored afterwards.
func (t *Tracker) Untracked(fn func()) {
	old := t.active
	t.active = nil
	defer func() { t.active = old }()
	fn()
}

// Depth returns the current notification nesting depth.
func (t *Tracker) Depth() int {
	return t.depth
}

// enter records the start of a notification pass. It returns false when
// the pass would exceed the nesting bound; the fault is reported and the
// caller must skip the pass.
func (t *Tracker) enter() bool {
	if t.depth >= t.maxDepth {
		err := errors.New(errors.CodeUpdateDepth).
			WithSuggestion(fmt.Sprintf("A watcher callback writes a value it watches; nesting stopped at %d", t.maxDepth))
		t.logger.Error("notification dropped", "code", err.Code, "depth", t.depth)
		if t.onError != nil {
			t.onError(err)
		}
		return false
	}
	t.depth++
	return true
}

func (t *Tracker) leave() {
	t.depth--
}
