// Package vtest provides testing helpers for vbind templates.
//
// The vtest package reduces boilerplate when testing templates by mounting
// markup against a data store and offering fluent event helpers and
// render assertions.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    v := vtest.Mount(t, `<button @click="inc('n')">{{n}}</button>`,
//	        map[string]any{"n": 0})
//	    v.Click("button").Click("button")
//	    v.ExpectText("button", "2")
//	}
//
// # Options
//
// Methods, directives and the root selector are set with options:
//
//	v := vtest.Mount(t, markup, data,
//	    vtest.WithMethods(map[string]vbind.Method{"save": save}),
//	    vtest.WithEl("#app"),
//	)
//
// Without WithMethods the built-in vbind.StdMethods are available.
//
// # Diagnostics
//
// Binding problems do not fail Mount. Assert on them explicitly:
//
//	v.ExpectDiagnostics("VB010")
//	v.ExpectNoDiagnostics()
package vtest
