package vbind

import (
	"log/slog"

	"github.com/vango-dev/vbind/pkg/compile"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// Options configures a view-model.
type Options struct {
	// El is the root element to compile: a *vdom.Element, a selector
	// string resolved against Document, or nil for the document body.
	// A selector that matches nothing leaves the view uncompiled.
	El any

	// Document is the UI tree the view lives in.
	// If nil, an empty document is created.
	Document *vdom.Document

	// Data becomes the reactive store. Required; must be a
	// map[string]any.
	Data any

	// Methods are the targets of event directives.
	Methods map[string]Method

	// Directives registers additional v-* directives by name.
	Directives map[string]compile.Directive

	// Logger receives diagnostics.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// MaxUpdateDepth bounds nested notification passes caused by callbacks
	// that write the values they watch.
	// Default: 100.
	MaxUpdateDepth int
}

// Method is a view-model method. It runs with the view-model it was
// registered on and the arguments given in the template.
type Method func(vm *VM, args ...any)
