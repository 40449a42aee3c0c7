package vdom

import (
	"strings"
)

// Element is an element or fragment node.
type Element struct {
	kind     Kind
	tag      string
	attrs    []Attr
	children []Node
	parent   *Element

	// value is the form-control value property; valueSet distinguishes an
	// explicit empty value from one that still mirrors the attribute.
	value    string
	valueSet bool

	listeners map[string][]*listener
	hid       string
}

// NewElement creates a detached element. The tag is lowercased.
func NewElement(tag string) *Element {
	return &Element{kind: KindElement, tag: strings.ToLower(tag)}
}

// NewFragment creates an empty offscreen fragment.
func NewFragment() *Element {
	return &Element{kind: KindFragment}
}

// Kind implements Node.
func (e *Element) Kind() Kind { return e.kind }

// Parent implements Node.
func (e *Element) Parent() *Element { return e.parent }

func (e *Element) setParent(p *Element) { e.parent = p }

// Tag returns the lowercase tag name; fragments have none.
func (e *Element) Tag() string { return e.tag }

// IsFragment reports whether e is a fragment.
func (e *Element) IsFragment() bool { return e.kind == KindFragment }

// Attributes returns a copy of the attributes in document order.
func (e *Element) Attributes() []Attr {
	out := make([]Attr, len(e.attrs))
	copy(out, e.attrs)
	return out
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets the named attribute, keeping its position if it exists.
func (e *Element) SetAttr(name, value string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
}

// RemoveAttr removes the named attribute.
func (e *Element) RemoveAttr(name string) {
	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs = append(e.attrs[:i:i], e.attrs[i+1:]...)
			return
		}
	}
}

// ChildNodes returns a snapshot of the children.
func (e *Element) ChildNodes() []Node {
	out := make([]Node, len(e.children))
	copy(out, e.children)
	return out
}

// Children returns the element children only.
func (e *Element) Children() []*Element {
	var out []*Element
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// FirstChild returns the first child or nil.
func (e *Element) FirstChild() Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

// AppendChild moves n to the end of e's children. Appending a fragment
// moves the fragment's children instead, leaving the fragment empty.
func (e *Element) AppendChild(n Node) Node {
	if n == nil {
		return nil
	}
	if frag, ok := n.(*Element); ok && frag.kind == KindFragment {
		for _, c := range frag.ChildNodes() {
			e.AppendChild(c)
		}
		return frag
	}
	detach(n)
	n.setParent(e)
	e.children = append(e.children, n)
	return n
}

// RemoveChild detaches n from e. It reports whether n was a child.
func (e *Element) RemoveChild(n Node) bool {
	for i, c := range e.children {
		if c == n {
			e.children = append(e.children[:i:i], e.children[i+1:]...)
			n.setParent(nil)
			return true
		}
	}
	return false
}

// ReplaceChildren removes all children and appends nodes.
func (e *Element) ReplaceChildren(nodes ...Node) {
	for _, c := range e.children {
		c.setParent(nil)
	}
	e.children = nil
	for _, n := range nodes {
		e.AppendChild(n)
	}
}

func detach(n Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}

// TextContent implements Node.
func (e *Element) TextContent() string {
	var b strings.Builder
	Walk(e, func(n Node) bool {
		if t, ok := n.(*Text); ok {
			b.WriteString(t.data)
		}
		return true
	})
	return b.String()
}

// SetTextContent implements Node. The children are replaced by a single
// text node, or by nothing when s is empty.
func (e *Element) SetTextContent(s string) {
	if s == "" {
		e.ReplaceChildren()
		return
	}
	e.ReplaceChildren(NewText(s))
}

// InnerHTML serializes e's children as markup.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for _, c := range e.children {
		writeMarkup(&b, c)
	}
	return b.String()
}

// SetInnerHTML parses s as markup in the context of e and replaces e's
// children with the result. The markup is not escaped.
func (e *Element) SetInnerHTML(s string) error {
	nodes, err := ParseFragment(s, e)
	if err != nil {
		return err
	}
	e.ReplaceChildren(nodes...)
	return nil
}

// OuterHTML serializes e including its own tag.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	writeMarkup(&b, e)
	return b.String()
}

// Value returns the form-control value: the last value set, otherwise the
// value attribute, or the text content for a textarea.
func (e *Element) Value() string {
	if e.valueSet {
		return e.value
	}
	if e.tag == "textarea" {
		return e.TextContent()
	}
	v, _ := e.Attr("value")
	return v
}

// SetValue sets the form-control value property. The value attribute is
// not touched.
func (e *Element) SetValue(v string) {
	e.value = v
	e.valueSet = true
}

// HID returns the hydration ID assigned by the renderer.
func (e *Element) HID() string { return e.hid }

// SetHID sets the hydration ID.
func (e *Element) SetHID(hid string) { e.hid = hid }

// OpenTag renders the element's opening tag, used to point at template
// locations in diagnostics.
func (e *Element) OpenTag() string {
	if e.kind == KindFragment {
		return "#fragment"
	}
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(e.tag)
	for _, a := range e.attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		if a.Value != "" {
			b.WriteString(`="`)
			b.WriteString(escapeAttr(a.Value))
			b.WriteByte('"')
		}
	}
	b.WriteByte('>')
	return b.String()
}

// String returns the element's opening tag.
func (e *Element) String() string {
	return e.OpenTag()
}
