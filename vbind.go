// Package vbind binds a plain data tree to a vdom tree. Writes to the data
// are reflected in the tree immediately, without a diffing pass.
//
// Usage:
//
//	doc, _ := vdom.ParseString(`<div id="app"><p>{{ msg }}</p><input v-model="msg"></div>`)
//	vm, err := vbind.New(vbind.Options{
//	    El:       "#app",
//	    Document: doc,
//	    Data:     map[string]any{"msg": "hello"},
//	})
//	vm.Set("msg", "world") // the paragraph now reads "world"
//
// Every top-level data key is available through Get and Set. Nested maps
// are reactive too but are only reachable through their parent's value.
package vbind

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/compile"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// VM is a view-model: the reactive store, its methods and the compiled
// view bound to them. A VM is not safe for concurrent use.
type VM struct {
	data     *reactive.Object
	methods  map[string]Method
	doc      *vdom.Document
	el       *vdom.Element
	compiler *compile.Compiler
	logger   *slog.Logger

	faults []*errors.Error
}

// New observes opts.Data, resolves the root element and compiles it.
// Only configuration faults are returned; problems with single bindings
// are reported through Diagnostics.
func New(opts Options) (*VM, error) {
	if opts.Data == nil {
		return nil, errors.New(errors.CodeDataMissing)
	}
	data, ok := opts.Data.(map[string]any)
	if !ok || data == nil {
		return nil, errors.New(errors.CodeDataNotObject).
			WithDetailf("Options.Data must be a map[string]any, got %T", opts.Data)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	doc := opts.Document
	if doc == nil {
		doc = vdom.NewDocument()
	}

	vm := &VM{
		methods: make(map[string]Method, len(opts.Methods)),
		doc:     doc,
		logger:  logger,
	}
	for name, m := range opts.Methods {
		if m != nil {
			vm.methods[name] = m
		}
	}

	el, err := resolveRoot(doc, opts.El)
	if err != nil {
		return nil, err
	}
	vm.el = el

	tracker := reactive.NewTracker(
		reactive.WithMaxUpdateDepth(opts.MaxUpdateDepth),
		reactive.WithLogger(logger),
		reactive.WithErrorHandler(vm.recordFault),
	)
	vm.data = reactive.Observe(tracker, data).(*reactive.Object)

	vm.compiler = compile.New(vm,
		compile.WithLogger(logger),
		compile.WithDirectives(opts.Directives),
	)
	vm.compiler.Compile(el)
	return vm, nil
}

func resolveRoot(doc *vdom.Document, el any) (*vdom.Element, error) {
	switch v := el.(type) {
	case nil:
		return doc.Body(), nil
	case *vdom.Element:
		return v, nil
	case string:
		found, err := doc.QuerySelector(v)
		if err != nil {
			return nil, errors.New(errors.CodeBadRoot).
				WithDetailf("invalid selector %q", v).
				Wrap(err)
		}
		return found, nil
	default:
		return nil, errors.New(errors.CodeBadRoot).
			WithDetailf("Options.El has unsupported type %T", el)
	}
}

// Get returns the value of a top-level data key; nil when absent.
// Inside a watcher's collection, the read subscribes the watcher.
func (vm *VM) Get(key string) any {
	return vm.data.Get(key)
}

// Set writes a top-level data key, creating it when absent, and
// synchronously updates everything bound to it, including bindings
// compiled before the key existed.
func (vm *VM) Set(key string, value any) {
	vm.data.Set(key, value)
}

// Has reports whether key is a data key.
func (vm *VM) Has(key string) bool {
	return vm.data.Has(key)
}

// Keys returns the data keys in sorted order.
func (vm *VM) Keys() []string {
	keys := vm.data.Keys()
	sort.Strings(keys)
	return keys
}

// Data returns a plain deep copy of the store.
func (vm *VM) Data() map[string]any {
	return vm.data.Raw()
}

// Store returns the reactive store.
func (vm *VM) Store() *reactive.Object {
	return vm.data
}

// Tracker returns the collection context of the store.
func (vm *VM) Tracker() *reactive.Tracker {
	return vm.data.Tracker()
}

// El returns the compiled root element, or nil when it was not found.
func (vm *VM) El() *vdom.Element {
	return vm.el
}

// Document returns the document the view lives in.
func (vm *VM) Document() *vdom.Document {
	return vm.doc
}

// Method returns the named method bound to vm.
func (vm *VM) Method(name string) (compile.Handler, bool) {
	m, ok := vm.methods[name]
	if !ok {
		return nil, false
	}
	return func(args ...any) { m(vm, args...) }, true
}

// Call invokes the named method with args.
func (vm *VM) Call(name string, args ...any) error {
	fn, ok := vm.Method(name)
	if !ok {
		return errors.New(errors.CodeUnresolvedHandler).
			WithDetailf("method %q is not defined", name)
	}
	fn(args...)
	return nil
}

// Watch calls cb whenever key changes. The returned watcher is disposed
// by Destroy or by calling its Dispose method.
func (vm *VM) Watch(key string, cb reactive.WatchFunc) *reactive.Watcher {
	return vm.compiler.Watch(key, cb)
}

// Destroy tears down every binding and listener. The tree keeps its last
// rendered state and the store stays usable.
func (vm *VM) Destroy() {
	vm.compiler.Destroy()
}

// Diagnostics returns the binding problems reported by the compiler,
// followed by runtime faults such as an exceeded update depth.
func (vm *VM) Diagnostics() []*errors.Error {
	out := vm.compiler.Diagnostics()
	return append(out, vm.faults...)
}

func (vm *VM) recordFault(err error) {
	vm.faults = append(vm.faults, errors.FromError(err, errors.CodeUpdateDepth))
}

// String describes vm for logs.
func (vm *VM) String() string {
	where := "<none>"
	if vm.el != nil {
		where = vdom.Path(vm.el)
	}
	return fmt.Sprintf("vbind.VM{el: %s, keys: %v}", where, vm.Keys())
}
