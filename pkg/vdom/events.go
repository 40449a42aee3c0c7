package vdom

import "github.com/vango-dev/vbind/internal/util"

// Common event types.
const (
	// Mouse events
	EventClick       = "click"
	EventDblClick    = "dblclick"
	EventMouseDown   = "mousedown"
	EventMouseUp     = "mouseup"
	EventMouseEnter  = "mouseenter"
	EventMouseLeave  = "mouseleave"
	EventContextMenu = "contextmenu"

	// Keyboard events
	EventKeyDown = "keydown"
	EventKeyUp   = "keyup"

	// Form events
	EventInput  = "input"
	EventChange = "change"
	EventSubmit = "submit"
	EventFocus  = "focus"
	EventBlur   = "blur"
	EventReset  = "reset"
)

// nonBubbling lists event types that are delivered to their target only.
var nonBubbling = util.MakeMap("focus,blur,mouseenter,mouseleave,load,unload,scroll,invalid", true)

// Listener handles a dispatched event.
type Listener func(ev *Event)

type listener struct {
	fn      Listener
	removed bool
}

// Event is a synthetic UI event.
type Event struct {
	// Type is the event name without an "on" prefix, e.g. "click".
	Type string

	// Target is the element the event was dispatched on.
	Target *Element

	// CurrentTarget is the element whose listeners are running.
	CurrentTarget *Element

	// Bubbles controls propagation to ancestors.
	Bubbles bool

	// Detail carries optional caller data, e.g. a key name.
	Detail any

	stopped          bool
	defaultPrevented bool
}

// NewEvent creates an event of the given type; it bubbles unless the type
// is one that browsers deliver to the target only.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: !nonBubbling(typ)}
}

// StopPropagation prevents delivery to further ancestors.
func (ev *Event) StopPropagation() { ev.stopped = true }

// PreventDefault marks the event's default action as cancelled.
func (ev *Event) PreventDefault() { ev.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (ev *Event) DefaultPrevented() bool { return ev.defaultPrevented }

// TargetValue returns the target's form value, the equivalent of
// event.target.value.
func (ev *Event) TargetValue() string {
	if ev.Target == nil {
		return ""
	}
	return ev.Target.Value()
}

// AddEventListener registers fn for events of type typ. The returned
// function removes the listener.
func (e *Element) AddEventListener(typ string, fn Listener) (remove func()) {
	if fn == nil {
		return func() {}
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	e.listeners[typ] = append(e.listeners[typ], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		list := e.listeners[typ]
		for i, existing := range list {
			if existing == l {
				e.listeners[typ] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(e.listeners[typ]) == 0 {
			delete(e.listeners, typ)
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (e *Element) ListenerCount(typ string) int {
	return len(e.listeners[typ])
}

// HasListeners reports whether any listener is registered on e.
func (e *Element) HasListeners() bool {
	return len(e.listeners) > 0
}

// ListenerTypes returns the event types that have listeners on e.
func (e *Element) ListenerTypes() []string {
	out := make([]string, 0, len(e.listeners))
	for typ := range e.listeners {
		out = append(out, typ)
	}
	return out
}

// DispatchEvent delivers ev to e and, if it bubbles, to e's ancestors.
// Listeners run synchronously in registration order. It returns false when
// a listener called PreventDefault.
func (e *Element) DispatchEvent(ev *Event) bool {
	if ev.Target == nil {
		ev.Target = e
	}
	for cur := e; cur != nil; cur = cur.parent {
		ev.CurrentTarget = cur
		list := make([]*listener, len(cur.listeners[ev.Type]))
		copy(list, cur.listeners[ev.Type])
		for _, l := range list {
			if !l.removed {
				l.fn(ev)
			}
		}
		if ev.stopped || !ev.Bubbles {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}
