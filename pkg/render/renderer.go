package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vango-dev/vbind/internal/util"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used for display as it changes whitespace.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// HydrationIDs assigns data-hid attributes to elements with listeners.
	HydrationIDs bool

	// ReflectValues renders the current form value of input, textarea and
	// select elements instead of their value attribute.
	ReflectValues bool

	// OmitAttrPrefixes drops attributes whose names start with any of these
	// prefixes, e.g. template directives after compilation.
	OmitAttrPrefixes []string
}

// Renderer handles rendering of vdom trees to HTML.
type Renderer struct {
	config     RendererConfig
	hidCounter uint32
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a node to an HTML string.
func (r *Renderer) RenderToString(node vdom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a node to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node vdom.Node) error {
	return r.renderNode(w, node, 0)
}

// RenderDocument renders a complete document including the doctype.
func (r *Renderer) RenderDocument(w io.Writer, doc *vdom.Document) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
	return r.renderNode(w, doc.DocumentElement(), 0)
}

// Reset restarts hydration ID numbering. IDs already stored on elements
// are kept.
func (r *Renderer) Reset() {
	r.hidCounter = 0
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node vdom.Node, depth int) error {
	switch n := node.(type) {
	case nil:
		return nil
	case *vdom.Text:
		return r.renderText(w, n)
	case *vdom.Element:
		if n.IsFragment() {
			return r.renderChildren(w, n, depth)
		}
		return r.renderElement(w, n, depth)
	default:
		return fmt.Errorf("render: unknown node kind %s", node.Kind())
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, el *vdom.Element, depth int) error {
	tag := el.Tag()

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, el); err != nil {
		return err
	}
	if r.config.HydrationIDs && el.HasListeners() {
		if err := r.renderHydration(w, el); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if vdom.IsVoidElement(tag) {
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	if tag == "textarea" && r.config.ReflectValues {
		if _, err := io.WriteString(w, escapeHTML(el.Value())); err != nil {
			return err
		}
	} else {
		hasBlockChildren := len(el.Children()) > 0 && !isInlineElement(tag) && !isRawTextElement(tag)
		if r.config.Pretty && hasBlockChildren {
			io.WriteString(w, "\n")
		}

		if isRawTextElement(tag) {
			if _, err := io.WriteString(w, el.TextContent()); err != nil {
				return err
			}
		} else if err := r.renderChildren(w, el, depth+1); err != nil {
			return err
		}

		if r.config.Pretty && hasBlockChildren {
			r.writeIndent(w, depth)
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
	return nil
}

func (r *Renderer) renderChildren(w io.Writer, el *vdom.Element, depth int) error {
	for _, child := range el.ChildNodes() {
		if err := r.renderNode(w, child, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderText renders a text node with HTML escaping. In pretty mode
// whitespace-only text is dropped and the rest is trimmed onto its own line.
func (r *Renderer) renderText(w io.Writer, t *vdom.Text) error {
	data := t.Data()
	if r.config.Pretty {
		data = strings.TrimSpace(data)
		if data == "" {
			return nil
		}
	}
	_, err := io.WriteString(w, escapeHTML(data))
	return err
}

// renderAttributes renders all attributes for an element in document order.
func (r *Renderer) renderAttributes(w io.Writer, el *vdom.Element) error {
	reflectValue := r.config.ReflectValues && (el.Tag() == "input" || el.Tag() == "select")
	wroteValue := false

	for _, a := range el.Attributes() {
		if r.omitted(a.Name) || a.Name == "data-hid" || strings.HasPrefix(a.Name, "data-on-") {
			continue
		}
		value := a.Value
		if a.Name == "value" && reflectValue {
			value = el.Value()
			wroteValue = true
		}

		if isBooleanAttr(a.Name) && (value == "" || strings.EqualFold(value, a.Name)) {
			if _, err := fmt.Fprintf(w, " %s", a.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(value)); err != nil {
			return err
		}
	}

	if reflectValue && !wroteValue && el.Value() != "" {
		if _, err := fmt.Fprintf(w, ` value="%s"`, escapeAttr(el.Value())); err != nil {
			return err
		}
	}
	return nil
}

// renderHydration writes the hydration ID and event markers.
func (r *Renderer) renderHydration(w io.Writer, el *vdom.Element) error {
	if el.HID() == "" {
		el.SetHID(r.nextHID())
	}
	if _, err := fmt.Fprintf(w, ` data-hid="%s"`, el.HID()); err != nil {
		return err
	}
	types := el.ListenerTypes()
	sort.Strings(types)
	for _, typ := range types {
		if _, err := fmt.Fprintf(w, ` data-on-%s`, typ); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) omitted(name string) bool {
	for _, p := range r.config.OmitAttrPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// nextHID generates the next sequential hydration ID.
func (r *Renderer) nextHID() string {
	r.hidCounter++
	return fmt.Sprintf("h%d", r.hidCounter)
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat(r.config.Indent, depth))
}

var (
	isInlineElement = util.MakeMap("a,abbr,b,bdi,bdo,br,cite,code,data,dfn,em,i,kbd,mark,q,s,samp,small,span,strong,sub,sup,time,u,var,label,button", false)

	isBooleanAttr = util.MakeMap("allowfullscreen,async,autofocus,autoplay,checked,controls,default,defer,disabled,formnovalidate,hidden,inert,ismap,loop,multiple,muted,nomodule,novalidate,open,readonly,required,reversed,selected", false)

	isRawTextElement = util.MakeMap("script,style", false)

	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#39;",
		"\n", "&#10;", "\r", "&#13;", "\t", "&#9;")
)

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string { return textEscaper.Replace(s) }

// escapeAttr escapes text for inclusion in a double-quoted attribute value.
func escapeAttr(s string) string { return attrEscaper.Replace(s) }
