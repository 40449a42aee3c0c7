// Package reactive implements the fine-grained dependency tracking that
// keeps a view in sync with its data.
//
// A plain data tree (map[string]any, as decoded from JSON or YAML) is
// converted by Observe into an Object whose properties are Cells. Each Cell
// owns a Dep, the ordered set of Subscribers interested in it.
//
// A Watcher subscribes itself by reading an expression while it occupies the
// Tracker's collection slot:
//
//	tr := reactive.NewTracker()
//	store := reactive.Observe(tr, map[string]any{"count": 0.0}).(*reactive.Object)
//
//	w := reactive.NewWatcher(store, "count", func(value, old any) {
//	    fmt.Println(old, "->", value)
//	})
//	store.Set("count", 1.0) // prints "0 -> 1"
//
// Everything here is synchronous. A write drains its Dep before returning,
// nothing is batched, and a Tracker together with the cells it created must
// be confined to a single goroutine.
package reactive
