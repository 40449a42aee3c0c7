package vdom

// Text is a character-data node.
type Text struct {
	data   string
	parent *Element
}

// NewText creates a detached text node.
func NewText(data string) *Text {
	return &Text{data: data}
}

// Kind implements Node.
func (t *Text) Kind() Kind { return KindText }

// Parent implements Node.
func (t *Text) Parent() *Element { return t.parent }

func (t *Text) setParent(p *Element) { t.parent = p }

// Data returns the node's character data.
func (t *Text) Data() string { return t.data }

// SetData replaces the node's character data in place.
func (t *Text) SetData(s string) { t.data = s }

// TextContent implements Node.
func (t *Text) TextContent() string { return t.data }

// SetTextContent implements Node; it is SetData.
func (t *Text) SetTextContent(s string) { t.data = s }

// String returns the character data.
func (t *Text) String() string { return t.data }
