package vdom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads a complete HTML document. Missing html, head and body
// elements are synthesized the way a browser would.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("vdom: parse document: %w", err)
	}
	doc := &Document{}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if el, ok := fromHTML(c).(*Element); ok {
			doc.root = el
			break
		}
	}
	if doc.root == nil {
		return NewDocument(), nil
	}
	return doc, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFragment parses markup as the content of context. A nil context
// parses in the context of a <div>.
func ParseFragment(s string, context *Element) ([]Node, error) {
	tag := "div"
	if context != nil && context.kind == KindElement {
		tag = context.tag
	}
	ctx := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	parsed, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return nil, fmt.Errorf("vdom: parse fragment: %w", err)
	}
	nodes := make([]Node, 0, len(parsed))
	for _, hn := range parsed {
		if n := fromHTML(hn); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}
