package compile

import (
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// bindEvent attaches the handler named by exp to el for event, e.g.
// "click" or "submit.prevent". An unknown method or malformed
// argument list skips this attribute only.
func (c *Compiler) bindEvent(el *vdom.Element, event, exp string) {
	typ, modifiers, _ := strings.Cut(event, ".")

	h := cachedParseHandler(exp)
	if h.problem != "" {
		c.Report(errors.New(errors.CodeBadArguments).WithDetail(h.problem), el)
		return
	}
	fn, ok := c.vm.Method(h.method)
	if !ok {
		c.Report(errors.New(errors.CodeUnresolvedHandler).
			WithDetailf("method %q is not defined", h.method).
			WithSuggestion("Add it to Options.Methods or fix the name in the template"), el)
		return
	}

	prevent := hasModifier(modifiers, "prevent")
	stop := hasModifier(modifiers, "stop")

	c.Listen(el, typ, func(ev *vdom.Event) {
		if prevent {
			ev.PreventDefault()
		}
		if stop {
			ev.StopPropagation()
		}
		args, ok := c.resolveArgs(el, h, ev)
		if !ok {
			return
		}
		fn(args...)
	})
}

// resolveArgs turns parsed arguments into values at fire time. Identifiers
// name a store property first, then a method.
func (c *Compiler) resolveArgs(el *vdom.Element, h handlerExpr, ev *vdom.Event) ([]any, bool) {
	if len(h.args) == 0 {
		return nil, true
	}
	out := make([]any, len(h.args))
	ok := true
	c.vm.Tracker().Untracked(func() {
		for i, a := range h.args {
			switch a.kind {
			case argLiteral:
				out[i] = a.value
			case argEvent:
				out[i] = ev
			case argIdent:
				if c.vm.Has(a.name) {
					out[i] = c.vm.Get(a.name)
					continue
				}
				if m, found := c.vm.Method(a.name); found {
					out[i] = m
					continue
				}
				c.Report(errors.New(errors.CodeUnresolvedArg).
					WithDetailf("%q in %s(...) is neither a property nor a method", a.name, h.method), el)
				ok = false
				return
			}
		}
	})
	return out, ok
}

func hasModifier(modifiers, name string) bool {
	for _, m := range strings.Split(modifiers, ".") {
		if m == name {
			return true
		}
	}
	return false
}
