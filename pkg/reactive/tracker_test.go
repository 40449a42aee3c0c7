package reactive

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vbind/internal/errors"
)

func TestCollectIsNotReentrant(t *testing.T) {
	tr := NewTracker()
	outer := newTestSubscriber(nil)
	inner := newTestSubscriber(nil)

	defer func() {
		if recover() == nil {
			t.Error("nested Collect should panic")
		}
		if tr.Collecting() {
			t.Error("slot must be released after the panic unwinds")
		}
	}()
	tr.Collect(outer, func() {
		tr.Collect(inner, func() {})
	})
}

func TestUntrackedRestoresSlot(t *testing.T) {
	tr := NewTracker()
	s := newTestSubscriber(nil)
	c := NewCell(tr, 0)

	tr.Collect(s, func() {
		tr.Untracked(func() {
			if tr.Active() != nil {
				t.Error("slot should be empty inside Untracked")
			}
			_ = c.Read()
		})
		if tr.Active() != s {
			t.Error("slot should be restored after Untracked")
		}
	})
	if c.Dep().Len() != 0 {
		t.Error("untracked read subscribed")
	}
}

func TestCollectNilSubscriberRunsFn(t *testing.T) {
	tr := NewTracker()
	ran := false
	tr.Collect(nil, func() { ran = true })
	if !ran {
		t.Error("fn not run")
	}
}

func TestUpdateDepthBound(t *testing.T) {
	var buf bytes.Buffer
	var faults []error
	tr := NewTracker(
		WithMaxUpdateDepth(5),
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithErrorHandler(func(err error) { faults = append(faults, err) }),
	)
	store := Observe(tr, map[string]any{"n": 0}).(*Object)

	// Each callback increments the value it watches.
	NewWatcher(store, "n", func(value, _ any) {
		store.Set("n", value.(int)+1)
	})
	store.Set("n", 1)

	// Five passes run; the write made by the fifth callback is stored but
	// its notification is dropped.
	if got := store.Peek("n").(int); got != 6 {
		t.Errorf("n = %d, want 6", got)
	}
	if len(faults) != 1 || !errors.HasCode(faults[0], errors.CodeUpdateDepth) {
		t.Errorf("expected one update-depth fault, got %v", faults)
	}
	if !strings.Contains(buf.String(), "notification dropped") {
		t.Errorf("expected log output, got %q", buf.String())
	}
	if tr.Depth() != 0 {
		t.Errorf("depth should unwind to 0, got %d", tr.Depth())
	}
}
