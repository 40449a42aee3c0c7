package compile

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/util"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// Handler is a method bound to its view-model.
type Handler func(args ...any)

// ViewModel is what templates compile against: a reactive scope that can
// also be written to, plus a method table for event directives.
type ViewModel interface {
	reactive.Scope

	// Has reports whether key is a store property.
	Has(key string) bool

	// Set writes key, notifying its watchers.
	Set(key string, value any)

	// Method returns the named method bound to the view-model.
	Method(name string) (Handler, bool)
}

var (
	// onRE matches event directives: v-on:click or @click.
	onRE = regexp.MustCompile(`^(?:v-on:|@)(.+)$`)

	// dirRE matches plain directives with an optional argument.
	dirRE = regexp.MustCompile(`^v-([^:]+)(?::(.+))?$`)

	// interpolationRE matches the first {{ exp }} of a text node.
	interpolationRE = regexp.MustCompile(`\{\{(.*?)\}\}`)

	// ownsContent lists directives that replace an element's children, so
	// the compiler does not descend into them.
	ownsContent = util.MakeMap("text,html", false)
)

// Compiler compiles templates against one view-model and keeps track of
// everything it installed so it can be torn down again.
type Compiler struct {
	vm         ViewModel
	logger     *slog.Logger
	directives map[string]Directive

	watchers    []*reactive.Watcher
	removers    []func()
	diagnostics []*errors.Error
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDirectives registers additional directives. Entries replace built-in
// directives of the same name.
func WithDirectives(dirs map[string]Directive) Option {
	return func(c *Compiler) {
		for name, d := range dirs {
			if d != nil {
				c.directives[name] = d
			}
		}
	}
}

// New creates a Compiler for vm with the built-in directive table.
func New(vm ViewModel, opts ...Option) *Compiler {
	c := &Compiler{
		vm:         vm,
		logger:     slog.Default(),
		directives: Builtins(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ViewModel returns the view-model the compiler binds against.
func (c *Compiler) ViewModel() ViewModel {
	return c.vm
}

// Compile processes the children of root in document order. The children
// are moved to an offscreen fragment while compiling and put back after.
// A nil root is not an error: nothing is compiled.
func (c *Compiler) Compile(root *vdom.Element) {
	if root == nil {
		c.logger.Debug("root not found, nothing compiled", "code", errors.CodeMissingRoot)
		return
	}
	frag := vdom.NewFragment()
	for _, child := range root.ChildNodes() {
		frag.AppendChild(child)
	}
	c.compileChildren(frag)
	root.AppendChild(frag)
}

func (c *Compiler) compileChildren(parent *vdom.Element) {
	for _, node := range parent.ChildNodes() {
		switch n := node.(type) {
		case *vdom.Element:
			if c.compileElement(n) {
				continue
			}
			c.compileChildren(n)
		case *vdom.Text:
			c.compileText(n)
		}
	}
}

// compileElement applies every directive attribute of el. It returns true
// when a directive took over the element's content.
func (c *Compiler) compileElement(el *vdom.Element) (owned bool) {
	for _, attr := range el.Attributes() {
		if m := onRE.FindStringSubmatch(attr.Name); m != nil {
			c.bindEvent(el, m[1], attr.Value)
			continue
		}
		m := dirRE.FindStringSubmatch(attr.Name)
		if m == nil {
			continue
		}
		name, arg := m[1], m[2]
		dir, ok := c.directives[name]
		if !ok {
			c.logger.Debug("unknown directive ignored", "code", errors.CodeUnknownDirective, "directive", attr.Name)
			continue
		}
		dir(c, Binding{
			Name:       name,
			Arg:        arg,
			Expression: strings.TrimSpace(attr.Value),
			Node:       el,
		})
		if ownsContent(name) {
			owned = true
		}
	}
	return owned
}

func (c *Compiler) compileText(t *vdom.Text) {
	m := interpolationRE.FindStringSubmatch(t.Data())
	if m == nil {
		return
	}
	if dir, ok := c.directives["text"]; ok {
		dir(c, Binding{Name: "text", Expression: strings.TrimSpace(m[1]), Node: t})
	}
}

// Watch creates a watcher over exp owned by the compiler, so Destroy
// disposes it.
func (c *Compiler) Watch(exp string, cb reactive.WatchFunc) *reactive.Watcher {
	w := reactive.NewWatcher(c.vm, exp, cb)
	c.watchers = append(c.watchers, w)
	return w
}

// Listen adds an event listener owned by the compiler.
func (c *Compiler) Listen(el *vdom.Element, typ string, fn vdom.Listener) {
	c.removers = append(c.removers, el.AddEventListener(typ, fn))
}

// Watchers returns the number of live watchers.
func (c *Compiler) Watchers() int {
	return len(c.watchers)
}

// Destroy disposes every watcher and removes every listener installed by
// the compiler. The tree keeps its last rendered state.
func (c *Compiler) Destroy() {
	for _, w := range c.watchers {
		w.Dispose()
	}
	for _, remove := range c.removers {
		remove()
	}
	c.watchers = nil
	c.removers = nil
}

// Report records a diagnostic for a binding that was skipped.
func (c *Compiler) Report(err *errors.Error, node vdom.Node) {
	if node != nil && err.Where == "" {
		err.WithWhere(where(node))
	}
	c.diagnostics = append(c.diagnostics, err)
	c.logger.Warn(err.Message, "code", err.Code, "detail", err.Detail, "where", err.Where)
}

// Diagnostics returns the diagnostics reported so far.
func (c *Compiler) Diagnostics() []*errors.Error {
	out := make([]*errors.Error, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

func where(n vdom.Node) string {
	if el, ok := n.(*vdom.Element); ok && !el.IsFragment() {
		return el.OpenTag()
	}
	return vdom.Path(n)
}
