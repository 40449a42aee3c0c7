package reactive

import (
	"encoding/json"
	"sort"

	"github.com/vango-dev/vbind/internal/util"
)

// Object is an observed map: every property is a Cell. Nested maps are
// themselves Objects, so reads and writes at any depth are tracked.
type Object struct {
	tracker *Tracker
	keys    []string
	cells   map[string]*Cell

	// pending holds cells for keys read during collection before they
	// exist. They are not properties until Set promotes them.
	pending map[string]*Cell
}

// Observe converts v into its reactive form. A map[string]any becomes an
// *Object; a []any is copied with its map elements observed, the slice
// itself staying a plain value; everything else, including nil, is returned
// unchanged. The input is never modified.
func Observe(t *Tracker, v any) any {
	switch x := v.(type) {
	case *Object:
		return x
	case map[string]any:
		if x == nil {
			return v
		}
		o := &Object{
			tracker: t,
			cells:   make(map[string]*Cell, len(x)),
		}
		o.walk(x)
		return o
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Observe(t, item)
		}
		return out
	}
	return v
}

// walk installs a Cell for every property of m in sorted key order. Each
// property value is observed before the Cell wrapping it is created.
func (o *Object) walk(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		o.define(k, m[k])
	}
}

func (o *Object) define(key string, v any) *Cell {
	c := NewCell(o.tracker, Observe(o.tracker, v))
	o.cells[key] = c
	o.keys = append(o.keys, key)
	return c
}

// Tracker returns the collection context shared by the Object's cells.
func (o *Object) Tracker() *Tracker {
	return o.tracker
}

// Get reads key, subscribing the active subscriber. Missing keys read as
// nil; during collection the subscriber is still recorded so a later Set
// of that key notifies it.
func (o *Object) Get(key string) any {
	c, ok := o.cells[key]
	if !ok {
		if !o.tracker.Collecting() {
			return nil
		}
		c = o.placeholder(key)
	}
	return c.Read()
}

func (o *Object) placeholder(key string) *Cell {
	if c, ok := o.pending[key]; ok {
		return c
	}
	if o.pending == nil {
		o.pending = make(map[string]*Cell)
	}
	c := NewCell(o.tracker, nil)
	o.pending[key] = c
	return c
}

// Peek reads key without subscribing.
func (o *Object) Peek(key string) any {
	c, ok := o.cells[key]
	if !ok {
		return nil
	}
	return c.Peek()
}

// Set writes key. Map values are observed first. Setting a key the Object
// does not have installs a new Cell for it.
func (o *Object) Set(key string, v any) {
	v = Observe(o.tracker, v)
	c, ok := o.cells[key]
	if ok {
		c.Write(v)
		return
	}
	if c, ok := o.pending[key]; ok {
		delete(o.pending, key)
		o.cells[key] = c
		o.keys = append(o.keys, key)
		c.Write(v)
		return
	}
	o.define(key, v)
}

// Cell returns the Cell backing key.
func (o *Object) Cell(key string) (*Cell, bool) {
	c, ok := o.cells[key]
	return c, ok
}

// Has reports whether key is a property of the Object.
func (o *Object) Has(key string) bool {
	_, ok := o.cells[key]
	return ok
}

// Keys returns the property names in definition order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of properties.
func (o *Object) Len() int {
	return len(o.keys)
}

// Raw returns a plain, untracked deep copy of the Object.
func (o *Object) Raw() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = raw(o.cells[k].Peek())
	}
	return out
}

func raw(v any) any {
	switch x := v.(type) {
	case *Object:
		return x.Raw()
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = raw(item)
		}
		return out
	}
	return v
}

// MarshalJSON encodes the Object's current values without tracking.
func (o *Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Raw())
}

// IsReactive reports whether v has been converted by Observe.
func IsReactive(v any) bool {
	_, ok := v.(*Object)
	return ok
}

// IsObservable reports whether Observe would convert v into an Object.
func IsObservable(v any) bool {
	return util.IsPlainObject(v)
}
