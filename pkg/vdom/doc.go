// Package vdom provides the live UI tree that vbind binds data to.
//
// The tree is a tagged variant of two node kinds: *Element, which carries a
// tag, ordered attributes, children, a form value and event listeners, and
// *Text, which carries character data. A fragment is an *Element of kind
// KindFragment with no tag, used to hold nodes offscreen.
//
// # Building trees
//
// Trees come from markup or from the H builder:
//
//	doc, err := vdom.ParseString(`<div id="app"><p>{{ msg }}</p></div>`)
//	app, err := doc.QuerySelector("#app")
//
//	btn := vdom.H("button", vdom.A("@click", "save"), "Save")
//
// # Events
//
// Listeners are attached with AddEventListener and fired with
// DispatchEvent. Events bubble from the target through its ancestors unless
// the event type does not bubble or a listener stops propagation.
//
//	input.SetValue("hello")
//	input.DispatchEvent(vdom.NewEvent(vdom.EventInput))
//
// A tree is not safe for concurrent use; confine it to one goroutine.
package vdom
