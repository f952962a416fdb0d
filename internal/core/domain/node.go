package domain

// Annotations are the inline styles applied to a span
type Annotations struct {
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Underline     bool   `json:"underline,omitempty"`
	Code          bool   `json:"code,omitempty"`
	Color         string `json:"color,omitempty"` // "default" or empty means uncolored
}

// Mention is an inline reference to another document in place of literal text
type Mention struct {
	DocumentID string `json:"document_id"`
}

// RichTextSpan is one run of inline text
type RichTextSpan struct {
	Text        string      `json:"text"`
	Annotations Annotations `json:"annotations"`
	Href        string      `json:"href,omitempty"` // External URL or internal hex document id
	Mention     *Mention    `json:"mention,omitempty"`
}

// PlainText concatenates the raw text of spans without styling.
func PlainText(spans []RichTextSpan) string {
	n := 0
	for _, s := range spans {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// Node is one typed content block. The variant set is closed: only types in
// this package implement it.
type Node interface {
	NodeID() string
	HasChildren() bool
	node()
}

// NodeBase carries the fields shared by every variant. The ID doubles as the
// handle for the paginated child listing.
type NodeBase struct {
	ID       string `json:"id"`
	Children bool   `json:"has_children"`
}

func (b NodeBase) NodeID() string    { return b.ID }
func (b NodeBase) HasChildren() bool { return b.Children }
func (NodeBase) node()               {}

type Paragraph struct {
	NodeBase
	Text []RichTextSpan
}

// Heading levels are 1..3.
type Heading struct {
	NodeBase
	Level int
	Text  []RichTextSpan
}

type BulletedItem struct {
	NodeBase
	Text []RichTextSpan
}

type NumberedItem struct {
	NodeBase
	Text []RichTextSpan
}

type ToDo struct {
	NodeBase
	Checked bool
	Text    []RichTextSpan
}

type Quote struct {
	NodeBase
	Text []RichTextSpan
}

type Callout struct {
	NodeBase
	Icon    string // Emoji glyph, may be empty
	IconURL string // Image icon; not rendered
	Text    []RichTextSpan
}

type Code struct {
	NodeBase
	Language string
	Text     []RichTextSpan
}

type Divider struct {
	NodeBase
}

type Bookmark struct {
	NodeBase
	URL     string
	Caption []RichTextSpan
}

type Image struct {
	NodeBase
	URL     string
	Caption []RichTextSpan
}

type LinkToDocument struct {
	NodeBase
	DocumentID string
}

// Table rows are its children and are only rendered through the table.
type Table struct {
	NodeBase
	Width           int
	HasColumnHeader bool
}

type TableRow struct {
	NodeBase
	Cells [][]RichTextSpan
}

type Toggle struct {
	NodeBase
	Text []RichTextSpan
}

// Unsupported keeps the remote type name for diagnostics.
type Unsupported struct {
	NodeBase
	Type string
}

// NodePage is one page of a child listing
type NodePage struct {
	Nodes      []Node
	NextCursor string
	HasMore    bool
}
