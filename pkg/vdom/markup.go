package vdom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// toHTML mirrors n as an x/net/html tree. When index is non-nil every
// mirrored element is recorded so matches can be mapped back.
func toHTML(n Node, index map[*html.Node]*Element) *html.Node {
	switch x := n.(type) {
	case *Text:
		return &html.Node{Type: html.TextNode, Data: x.data}
	case *Element:
		var hn *html.Node
		if x.kind == KindFragment {
			hn = &html.Node{Type: html.DocumentNode}
		} else {
			hn = &html.Node{
				Type:     html.ElementNode,
				Data:     x.tag,
				DataAtom: atom.Lookup([]byte(x.tag)),
			}
			for _, a := range x.attrs {
				hn.Attr = append(hn.Attr, html.Attribute{Key: a.Name, Val: a.Value})
			}
			if index != nil {
				index[hn] = x
			}
		}
		for _, c := range x.children {
			hn.AppendChild(toHTML(c, index))
		}
		return hn
	}
	return nil
}

// fromHTML converts parsed markup into detached vdom nodes. Comments,
// doctypes and processing instructions have no counterpart and are dropped.
func fromHTML(hn *html.Node) Node {
	switch hn.Type {
	case html.TextNode:
		return NewText(hn.Data)
	case html.ElementNode:
		el := NewElement(hn.Data)
		for _, a := range hn.Attr {
			name := a.Key
			if a.Namespace != "" {
				name = a.Namespace + ":" + a.Key
			}
			el.attrs = append(el.attrs, Attr{Name: name, Value: a.Val})
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if child := fromHTML(c); child != nil {
				el.AppendChild(child)
			}
		}
		return el
	}
	return nil
}

// writeMarkup serializes n with the x/net/html renderer.
func writeMarkup(w io.Writer, n Node) {
	hn := toHTML(n, nil)
	if hn == nil {
		return
	}
	if hn.Type == html.DocumentNode {
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			_ = html.Render(w, c)
		}
		return
	}
	_ = html.Render(w, hn)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
