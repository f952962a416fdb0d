package markdown

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// render produces the markup for n and, unless the variant handles its own
// children, its subtree at indent+1.
func (s *session) render(ctx context.Context, n domain.Node, indent int) (string, error) {
	var own string

	switch b := n.(type) {
	case domain.Paragraph:
		own = s.formatter.FormatSequence(ctx, b.Text) + "\n\n"

	case domain.Heading:
		level := min(max(b.Level, 1), 3)
		own = strings.Repeat("#", level+1) + " " + s.formatter.FormatSequence(ctx, b.Text) + "\n\n"

	case domain.BulletedItem:
		own = pad(indent) + "- " + s.formatter.FormatSequence(ctx, b.Text) + "\n\n"

	case domain.NumberedItem:
		own = pad(indent) + "1. " + s.formatter.FormatSequence(ctx, b.Text) + "\n\n"

	case domain.ToDo:
		box := "- [ ] "
		if b.Checked {
			box = "- [x] "
		}
		own = pad(indent) + box + s.formatter.FormatSequence(ctx, b.Text) + "\n\n"

	case domain.Quote:
		return s.quote(ctx, b, indent)

	case domain.Callout:
		return s.callout(ctx, b, indent)

	case domain.Code:
		own = codeBlock(b, indent)

	case domain.Divider:
		own = "---\n\n"

	case domain.Bookmark:
		own = s.bookmark(ctx, b)

	case domain.Image:
		own = s.image(ctx, b)

	case domain.LinkToDocument:
		own = s.linkToDocument(ctx, b)

	case domain.Table:
		return s.table(ctx, b)

	case domain.TableRow:
		s.logger.Warn("table row outside a table skipped", "block_id", b.ID)
		return "", nil

	case domain.Toggle:
		return s.toggle(ctx, b, indent)

	case domain.Unsupported:
		s.logger.Warn("unsupported block type skipped", "block_id", b.ID, "type", b.Type)
		return "", nil

	default:
		s.logger.Warn("unknown block skipped", "type", fmt.Sprintf("%T", n))
		return "", nil
	}

	children, err := s.renderChildren(ctx, n, indent+1)
	if err != nil {
		return "", err
	}
	return own + children, nil
}

// quote prefixes the text and the children rendered beneath it, so nested
// blocks stay inside the blockquote.
func (s *session) quote(ctx context.Context, b domain.Quote, indent int) (string, error) {
	children, err := s.renderChildren(ctx, b, indent)
	if err != nil {
		return "", err
	}

	content := s.formatter.FormatSequence(ctx, b.Text)
	if children != "" {
		content += "\n\n" + strings.TrimRight(children, "\n")
	}
	return quoteLines(content) + "\n\n", nil
}

func quoteLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// callout keeps its children inside the aside element.
func (s *session) callout(ctx context.Context, b domain.Callout, indent int) (string, error) {
	children, err := s.renderChildren(ctx, b, indent)
	if err != nil {
		return "", err
	}

	text := s.formatter.FormatSequence(ctx, b.Text)
	if b.Icon != "" {
		text = b.Icon + " " + text
	} else if b.IconURL != "" {
		s.logger.Debug("callout image icon omitted", "block_id", b.ID, "icon_url", b.IconURL)
	}
	if children == "" {
		return "<aside>\n" + text + "\n</aside>\n\n", nil
	}
	return "<aside>\n" + text + "\n\n" + children + "</aside>\n\n", nil
}

func codeBlock(b domain.Code, indent int) string {
	lang := b.Language
	if lang == "plain text" {
		lang = ""
	}
	prefix := pad(indent)

	var sb strings.Builder
	sb.WriteString(prefix + "```" + lang + "\n")
	for _, line := range strings.Split(domain.PlainText(b.Text), "\n") {
		sb.WriteString(prefix + line + "\n")
	}
	sb.WriteString(prefix + "```\n\n")
	return sb.String()
}

func (s *session) bookmark(ctx context.Context, b domain.Bookmark) string {
	text := b.URL
	if len(b.Caption) > 0 {
		text = s.formatter.FormatSequence(ctx, b.Caption)
	}
	return "[" + text + "](" + b.URL + ")\n\n"
}

func (s *session) linkToDocument(ctx context.Context, b domain.LinkToDocument) string {
	ref, err := s.formatter.resolve(ctx, b.DocumentID)
	if err != nil {
		s.logger.Warn("link target unresolved", "block_id", b.ID, "target_id", b.DocumentID, "error", err)
		return ""
	}
	return s.formatter.refLink(ref, false) + "\n\n"
}

// toggle wraps the summary and its children, rendered at the same indent, in
// a disclosure element.
func (s *session) toggle(ctx context.Context, b domain.Toggle, indent int) (string, error) {
	body, err := s.renderChildren(ctx, b, indent)
	if err != nil {
		return "", err
	}
	summary := s.formatter.FormatSequence(ctx, b.Text)
	return "<details>\n<summary>" + summary + "</summary>\n\n" + body + "</details>\n\n", nil
}
