package render

import (
	"io"
	"strings"

	"github.com/vango-dev/vbind/pkg/vdom"
)

// PageData contains everything needed to render a complete page.
type PageData struct {
	// Document is the compiled document to render.
	Document *vdom.Document

	// Title replaces the document title when non-empty.
	Title string

	// Scripts are inline scripts injected at the end of the body.
	Scripts []string
}

// RenderPage renders page.Document with the extra scripts injected before
// the closing body tag. The document tree itself is not modified.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	doc := page.Document
	if doc == nil {
		doc = vdom.NewDocument()
	}
	if _, err := io.WriteString(w, "<!DOCTYPE html><html"); err != nil {
		return err
	}
	root := doc.DocumentElement()
	if err := r.renderAttributes(w, root); err != nil {
		return err
	}
	io.WriteString(w, ">")

	for _, child := range root.ChildNodes() {
		el, ok := child.(*vdom.Element)
		if !ok {
			if err := r.renderNode(w, child, 1); err != nil {
				return err
			}
			continue
		}
		switch el.Tag() {
		case "head":
			if err := r.renderHead(w, el, page.Title); err != nil {
				return err
			}
		case "body":
			if err := r.renderBody(w, el, page.Scripts); err != nil {
				return err
			}
		default:
			if err := r.renderNode(w, el, 1); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "</html>")
	return err
}

func (r *Renderer) renderHead(w io.Writer, head *vdom.Element, title string) error {
	io.WriteString(w, "<head")
	if err := r.renderAttributes(w, head); err != nil {
		return err
	}
	io.WriteString(w, ">")
	wroteTitle := false
	for _, child := range head.ChildNodes() {
		if el, ok := child.(*vdom.Element); ok && el.Tag() == "title" && title != "" {
			io.WriteString(w, "<title>"+escapeHTML(title)+"</title>")
			wroteTitle = true
			continue
		}
		if err := r.renderNode(w, child, 2); err != nil {
			return err
		}
	}
	if title != "" && !wroteTitle {
		io.WriteString(w, "<title>"+escapeHTML(title)+"</title>")
	}
	_, err := io.WriteString(w, "</head>")
	return err
}

func (r *Renderer) renderBody(w io.Writer, body *vdom.Element, scripts []string) error {
	io.WriteString(w, "<body")
	if err := r.renderAttributes(w, body); err != nil {
		return err
	}
	if r.config.HydrationIDs && body.HasListeners() {
		if err := r.renderHydration(w, body); err != nil {
			return err
		}
	}
	io.WriteString(w, ">")
	if err := r.renderChildren(w, body, 2); err != nil {
		return err
	}
	for _, s := range scripts {
		// A literal "</script" would end the element early.
		s = strings.ReplaceAll(s, "</script", `<\/script`)
		if _, err := io.WriteString(w, "<script>"+s+"</script>"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</body>")
	return err
}
