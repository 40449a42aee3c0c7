package compile

import (
	"strings"

	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/util"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// Binding is one directive occurrence found in a template.
type Binding struct {
	// Name is the directive name without the v- prefix.
	Name string

	// Arg is the part after the colon, e.g. "href" in v-bind:href.
	Arg string

	// Expression is the trimmed attribute value or interpolation.
	Expression string

	// Node is the element carrying the attribute, or the text node holding
	// the interpolation.
	Node vdom.Node
}

// Directive installs one binding.
type Directive func(c *Compiler, b Binding)

// Updater writes a bound value into a node.
type Updater func(node vdom.Node, value any)

// Builtins returns a fresh copy of the built-in directive table.
func Builtins() map[string]Directive {
	return map[string]Directive{
		"text":  textDirective,
		"html":  htmlDirective,
		"model": modelDirective,
		"bind":  bindDirective,
		"show":  showDirective,
	}
}

// Bind runs update once with the current value of exp, then again every
// time a change notification leaves exp with a different value.
func (c *Compiler) Bind(node vdom.Node, exp string, update Updater) {
	update(node, c.vm.Get(exp))
	c.Watch(exp, func(value, _ any) {
		update(node, value)
	})
}

func textDirective(c *Compiler, b Binding) {
	c.Bind(b.Node, b.Expression, updateText)
}

func htmlDirective(c *Compiler, b Binding) {
	if !c.requireElement(b) {
		return
	}
	c.Bind(b.Node, b.Expression, func(node vdom.Node, value any) {
		el := node.(*vdom.Element)
		if err := el.SetInnerHTML(util.ToString(value)); err != nil {
			c.Report(errors.New(errors.CodeBadArguments).
				WithDetailf("v-html=%q produced unparsable markup", b.Expression).
				Wrap(err), el)
		}
	})
}

// modelDirective binds the form value and writes user input back. The
// last seen value is cached locally so repeated input events with an
// unchanged value do not write. Only input events refresh the cache:
// after a programmatic Set, typing the value held before it is skipped.
func modelDirective(c *Compiler, b Binding) {
	if !c.requireElement(b) {
		return
	}
	el := b.Node.(*vdom.Element)
	c.Bind(el, b.Expression, updateValue)

	last := c.vm.Get(b.Expression)
	c.Listen(el, vdom.EventInput, func(ev *vdom.Event) {
		value := ev.TargetValue()
		if util.Same(last, value) {
			return
		}
		c.vm.Set(b.Expression, value)
		last = value
	})
}

func bindDirective(c *Compiler, b Binding) {
	if !c.requireElement(b) {
		return
	}
	if b.Arg == "" {
		c.Report(errors.New(errors.CodeBadArguments).
			WithDetail("v-bind needs an attribute name, e.g. v-bind:href"), b.Node)
		return
	}
	name := strings.ToLower(b.Arg)
	c.Bind(b.Node, b.Expression, func(node vdom.Node, value any) {
		el := node.(*vdom.Element)
		switch {
		case util.IsUndef(value) || util.IsFalse(value):
			el.RemoveAttr(name)
		case util.IsTrue(value):
			el.SetAttr(name, "")
		default:
			el.SetAttr(name, util.ToString(value))
		}
	})
}

// showDirective hides the element with display:none while the expression
// is falsy. The element's own style is restored when it is shown again.
func showDirective(c *Compiler, b Binding) {
	if !c.requireElement(b) {
		return
	}
	el := b.Node.(*vdom.Element)
	style, hadStyle := el.Attr("style")
	c.Bind(el, b.Expression, func(node vdom.Node, value any) {
		el := node.(*vdom.Element)
		switch {
		case util.IsTruthy(value) && hadStyle:
			el.SetAttr("style", style)
		case util.IsTruthy(value):
			el.RemoveAttr("style")
		case hadStyle && strings.TrimSpace(style) != "":
			el.SetAttr("style", strings.TrimSuffix(strings.TrimSpace(style), ";")+"; display:none")
		default:
			el.SetAttr("style", "display:none")
		}
	})
}

func updateText(node vdom.Node, value any) {
	node.SetTextContent(util.ToString(value))
}

func updateValue(node vdom.Node, value any) {
	node.(*vdom.Element).SetValue(util.ToString(value))
}

func (c *Compiler) requireElement(b Binding) bool {
	if _, ok := b.Node.(*vdom.Element); ok {
		return true
	}
	c.Report(errors.New(errors.CodeBadArguments).
		WithDetailf("v-%s can only be used on elements", b.Name), b.Node)
	return false
}
