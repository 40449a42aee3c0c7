package vdom

import (
	"strings"

	"github.com/vango-dev/vbind/internal/util"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
	KindFragment             // Offscreen grouping without a tag
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Node is either an *Element or a *Text.
type Node interface {
	// Kind reports which variant the node is.
	Kind() Kind

	// Parent returns the containing element, or nil when detached.
	Parent() *Element

	// TextContent returns the concatenated character data of the node and
	// its descendants.
	TextContent() string

	// SetTextContent replaces the node's content with plain text.
	SetTextContent(s string)

	setParent(p *Element)
}

// Attr is a single attribute. Attribute order is preserved.
type Attr struct {
	Name  string
	Value string
}

// A creates an Attr.
func A(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// IsVoidElement returns true if the tag is a void element.
var IsVoidElement = util.MakeMap("area,base,br,col,embed,hr,img,input,link,meta,param,source,track,wbr", true)

// H builds an element. Arguments can be: nil, Attr, []Attr, Node, []Node
// or string (appended as a text child).
func H(tag string, args ...any) *Element {
	el := NewElement(tag)
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Attr:
			el.SetAttr(v.Name, v.Value)
		case []Attr:
			for _, a := range v {
				el.SetAttr(a.Name, a.Value)
			}
		case Node:
			el.AppendChild(v)
		case []Node:
			for _, n := range v {
				el.AppendChild(n)
			}
		case string:
			el.AppendChild(NewText(v))
		}
	}
	return el
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the node just visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if el, ok := n.(*Element); ok {
		for _, child := range el.ChildNodes() {
			Walk(child, fn)
		}
	}
}

// Path returns a short description of where n sits, e.g.
// "html > body > div#app > p".
func Path(n Node) string {
	var parts []string
	for cur := n; cur != nil; {
		switch x := cur.(type) {
		case *Element:
			if x.kind == KindFragment {
				parts = append(parts, "#fragment")
			} else {
				part := x.tag
				if id, ok := x.Attr("id"); ok && id != "" {
					part += "#" + id
				}
				parts = append(parts, part)
			}
		case *Text:
			parts = append(parts, "#text")
		}
		p := cur.Parent()
		if p == nil {
			break
		}
		cur = p
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > ")
}
