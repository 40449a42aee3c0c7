package compile

import (
	"io"
	"log/slog"
	"testing"

	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// testVM is a minimal ViewModel over an observed store.
type testVM struct {
	data    *reactive.Object
	methods map[string]Handler
	sets    int
}

func newTestVM(data map[string]any) *testVM {
	tr := reactive.NewTracker()
	return &testVM{
		data:    reactive.Observe(tr, data).(*reactive.Object),
		methods: make(map[string]Handler),
	}
}

func (v *testVM) Get(key string) any         { return v.data.Get(key) }
func (v *testVM) Tracker() *reactive.Tracker { return v.data.Tracker() }
func (v *testVM) Has(key string) bool        { return v.data.Has(key) }
func (v *testVM) Set(key string, value any)  { v.sets++; v.data.Set(key, value) }
func (v *testVM) Method(name string) (Handler, bool) {
	h, ok := v.methods[name]
	return h, ok
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mount parses markup into a detached div and compiles it.
func mount(t *testing.T, vm ViewModel, markup string, opts ...Option) (*vdom.Element, *Compiler) {
	t.Helper()
	nodes, err := vdom.ParseFragment(markup, nil)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	root := vdom.NewElement("div")
	for _, n := range nodes {
		root.AppendChild(n)
	}
	c := New(vm, append([]Option{WithLogger(quietLogger())}, opts...)...)
	c.Compile(root)
	return root, c
}

func query(t *testing.T, root *vdom.Element, sel string) *vdom.Element {
	t.Helper()
	el, err := root.QuerySelector(sel)
	if err != nil {
		t.Fatalf("QuerySelector(%q): %v", sel, err)
	}
	if el == nil {
		t.Fatalf("QuerySelector(%q): no match", sel)
	}
	return el
}

func click(el *vdom.Element) {
	el.DispatchEvent(vdom.NewEvent(vdom.EventClick))
}

func input(el *vdom.Element, value string) {
	el.SetValue(value)
	el.DispatchEvent(vdom.NewEvent(vdom.EventInput))
}

func codes(c *Compiler) []string {
	var out []string
	for _, d := range c.Diagnostics() {
		out = append(out, d.Code)
	}
	return out
}
