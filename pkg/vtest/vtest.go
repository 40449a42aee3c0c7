package vtest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/compile"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// View is a mounted template under test.
type View struct {
	t   testing.TB
	vm  *vbind.VM
	doc *vdom.Document
}

type mountConfig struct {
	el         string
	methods    map[string]vbind.Method
	directives map[string]compile.Directive
	depth      int
}

// Option configures Mount.
type Option func(*mountConfig)

// WithMethods sets the event handler methods, replacing the built-ins.
func WithMethods(m map[string]vbind.Method) Option {
	return func(c *mountConfig) {
		c.methods = m
	}
}

// WithDirectives registers additional directives.
func WithDirectives(d map[string]compile.Directive) Option {
	return func(c *mountConfig) {
		c.directives = d
	}
}

// WithEl mounts on the element matching sel instead of the body.
func WithEl(sel string) Option {
	return func(c *mountConfig) {
		c.el = sel
	}
}

// WithMaxUpdateDepth bounds nested notification passes.
func WithMaxUpdateDepth(n int) Option {
	return func(c *mountConfig) {
		c.depth = n
	}
}

// Mount parses markup, compiles it against data and destroys the view
// when the test ends. Configuration faults fail the test immediately.
//
// Example:
//
//	v := vtest.Mount(t, `<p>{{msg}}</p>`, map[string]any{"msg": "hi"})
//	v.ExpectText("p", "hi")
func Mount(t testing.TB, markup string, data map[string]any, opts ...Option) *View {
	t.Helper()

	cfg := mountConfig{methods: vbind.StdMethods()}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := vdom.ParseString(markup)
	if err != nil {
		t.Fatalf("vtest: parse markup: %v", err)
	}
	var el any
	if cfg.el != "" {
		el = cfg.el
	}
	if data == nil {
		data = map[string]any{}
	}

	vm, err := vbind.New(vbind.Options{
		El:             el,
		Document:       doc,
		Data:           data,
		Methods:        cfg.methods,
		Directives:     cfg.directives,
		MaxUpdateDepth: cfg.depth,
	})
	if err != nil {
		t.Fatalf("vtest: mount: %v", err)
	}
	if vm.El() == nil {
		t.Fatalf("vtest: no element matches %q", cfg.el)
	}
	t.Cleanup(vm.Destroy)

	return &View{t: t, vm: vm, doc: doc}
}

// VM returns the mounted view-model.
func (v *View) VM() *vbind.VM { return v.vm }

// Document returns the mounted document.
func (v *View) Document() *vdom.Document { return v.doc }

// Find returns the first element matching sel or fails the test.
func (v *View) Find(sel string) *vdom.Element {
	v.t.Helper()
	el, err := v.doc.QuerySelector(sel)
	if err != nil {
		v.t.Fatalf("vtest: selector %q: %v", sel, err)
	}
	if el == nil {
		v.t.Fatalf("vtest: no element matches %q", sel)
	}
	return el
}

// Dispatch delivers an event of type typ to the element matching sel.
func (v *View) Dispatch(sel, typ string) *View {
	v.t.Helper()
	v.Find(sel).DispatchEvent(vdom.NewEvent(typ))
	return v
}

// Click dispatches a click on the element matching sel.
func (v *View) Click(sel string) *View {
	v.t.Helper()
	return v.Dispatch(sel, "click")
}

// Input sets the form value of the element matching sel and dispatches
// an input event, the way typing would.
func (v *View) Input(sel, value string) *View {
	v.t.Helper()
	el := v.Find(sel)
	el.SetValue(value)
	el.DispatchEvent(vdom.NewEvent("input"))
	return v
}

// Set writes a top-level store key.
func (v *View) Set(key string, value any) *View {
	v.vm.Set(key, value)
	return v
}

// Text returns the text content of the element matching sel.
func (v *View) Text(sel string) string {
	v.t.Helper()
	return v.Find(sel).TextContent()
}

// HTML renders the root element's content with current form values.
func (v *View) HTML() string {
	v.t.Helper()
	r := render.NewRenderer(render.RendererConfig{ReflectValues: true})
	var b strings.Builder
	for _, n := range v.vm.El().ChildNodes() {
		if err := r.RenderToWriter(&b, n); err != nil {
			v.t.Fatalf("vtest: render: %v", err)
		}
	}
	return b.String()
}

// ExpectText asserts the text content of the element matching sel.
func (v *View) ExpectText(sel, want string) *View {
	v.t.Helper()
	if got := v.Text(sel); got != want {
		v.t.Errorf("text of %s = %q, want %q", sel, got, want)
	}
	return v
}

// ExpectAttribute asserts an attribute value of the element matching sel.
func (v *View) ExpectAttribute(sel, attr, want string) *View {
	v.t.Helper()
	got, ok := v.Find(sel).Attr(attr)
	if !ok {
		v.t.Errorf("%s has no %s attribute", sel, attr)
	} else if got != want {
		v.t.Errorf("%s[%s] = %q, want %q", sel, attr, got, want)
	}
	return v
}

// ExpectNoAttribute asserts that the element matching sel lacks attr.
func (v *View) ExpectNoAttribute(sel, attr string) *View {
	v.t.Helper()
	if v.Find(sel).HasAttr(attr) {
		v.t.Errorf("%s unexpectedly has a %s attribute", sel, attr)
	}
	return v
}

// ExpectContains asserts that the rendered content contains s.
func (v *View) ExpectContains(s string) *View {
	v.t.Helper()
	if html := v.HTML(); !strings.Contains(html, s) {
		v.t.Errorf("expected rendered output to contain %q, got:\n%s", s, truncate(html, 500))
	}
	return v
}

// ExpectNotContains asserts that the rendered content lacks s.
func (v *View) ExpectNotContains(s string) *View {
	v.t.Helper()
	if html := v.HTML(); strings.Contains(html, s) {
		v.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", s, truncate(html, 500))
	}
	return v
}

// ExpectDiagnostics asserts the codes of all diagnostics so far, in order.
func (v *View) ExpectDiagnostics(codes ...string) *View {
	v.t.Helper()
	got := []string{}
	for _, d := range v.vm.Diagnostics() {
		got = append(got, d.Code)
	}
	if codes == nil {
		codes = []string{}
	}
	if diff := cmp.Diff(codes, got); diff != "" {
		v.t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	return v
}

// ExpectNoDiagnostics asserts that nothing was reported.
func (v *View) ExpectNoDiagnostics() *View {
	v.t.Helper()
	return v.ExpectDiagnostics()
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
