// Package compile walks a vdom subtree, recognizes directive attributes and
// {{ }} interpolation, and wires each binding to a reactive.Watcher so that
// writes to the view-model are reflected in the tree.
//
// Recognized markup:
//
//	v-text="exp"            text content
//	v-html="exp"            inner markup, unescaped
//	v-model="exp"           form value, two-way through input events
//	v-bind:attr="exp"       attribute value
//	v-show="exp"            display toggle
//	v-on:click="m(a, 'b')"  event listener, also written @click
//	{{ exp }}               text node interpolation, first match only
//
// Expressions are single-level property names on the view-model. Handler
// arguments accept literals, property and method names, and $event; they
// are parsed, never evaluated as code.
//
// Problems local to one binding are reported as diagnostics and never
// abort the compile pass. Unknown v-* directives are ignored.
package compile
