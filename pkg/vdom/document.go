package vdom

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Document owns a tree rooted at an <html> element.
type Document struct {
	root *Element
}

// NewDocument creates an empty document with head and body.
func NewDocument() *Document {
	return &Document{root: H("html", H("head"), H("body"))}
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element {
	return d.root
}

// Head returns the <head> element, or nil.
func (d *Document) Head() *Element {
	return d.child("head")
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Element {
	return d.child("body")
}

func (d *Document) child(tag string) *Element {
	if d == nil || d.root == nil {
		return nil
	}
	for _, c := range d.root.Children() {
		if c.tag == tag {
			return c
		}
	}
	return nil
}

// QuerySelector returns the first element matching the CSS selector, or
// nil when nothing matches.
func (d *Document) QuerySelector(sel string) (*Element, error) {
	if d == nil || d.root == nil {
		return nil, nil
	}
	doc := &html.Node{Type: html.DocumentNode}
	index := make(map[*html.Node]*Element)
	doc.AppendChild(toHTML(d.root, index))
	return queryFirst(doc, sel, index, nil)
}

// QuerySelectorAll returns every element matching the CSS selector in
// document order.
func (d *Document) QuerySelectorAll(sel string) ([]*Element, error) {
	if d == nil || d.root == nil {
		return nil, nil
	}
	doc := &html.Node{Type: html.DocumentNode}
	index := make(map[*html.Node]*Element)
	doc.AppendChild(toHTML(d.root, index))
	return queryAll(doc, sel, index, nil)
}

// QuerySelector returns the first descendant of e matching sel.
func (e *Element) QuerySelector(sel string) (*Element, error) {
	index := make(map[*html.Node]*Element)
	hn := toHTML(e, index)
	return queryFirst(hn, sel, index, e)
}

// QuerySelectorAll returns every descendant of e matching sel.
func (e *Element) QuerySelectorAll(sel string) ([]*Element, error) {
	index := make(map[*html.Node]*Element)
	hn := toHTML(e, index)
	return queryAll(hn, sel, index, e)
}

func queryFirst(root *html.Node, sel string, index map[*html.Node]*Element, self *Element) (*Element, error) {
	matches, err := queryAll(root, sel, index, self)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

func queryAll(root *html.Node, sel string, index map[*html.Node]*Element, self *Element) ([]*Element, error) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("vdom: invalid selector %q: %w", sel, err)
	}
	var out []*Element
	for _, hn := range s.MatchAll(root) {
		el, ok := index[hn]
		if !ok || el == self {
			continue
		}
		out = append(out, el)
	}
	return out, nil
}

// ElementByHID finds the element carrying the given hydration ID.
func (d *Document) ElementByHID(hid string) *Element {
	if d == nil || d.root == nil || hid == "" {
		return nil
	}
	var found *Element
	Walk(d.root, func(n Node) bool {
		if found != nil {
			return false
		}
		if el, ok := n.(*Element); ok && el.hid == hid {
			found = el
			return false
		}
		return true
	})
	return found
}

// String serializes the whole document as markup.
func (d *Document) String() string {
	if d == nil || d.root == nil {
		return ""
	}
	return "<!DOCTYPE html>" + d.root.OuterHTML()
}
