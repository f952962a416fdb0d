package notion

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"github.com/Sharknia/nolog/internal/core/domain"
)

func pageToDocument(page *notionapi.Page, statusProperty string, logger *slog.Logger) *domain.Document {
	doc := domain.NewDocument(string(page.ID))

	names := make([]string, 0, len(page.Properties))
	for name := range page.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop := page.Properties[name]

		if title, ok := prop.(*notionapi.TitleProperty); ok {
			doc.Title = plainText(title.Title)
		}

		if name == statusProperty {
			doc.Status = domain.WorkflowStatus(statusName(prop))
			continue
		}

		value, ok := convertProperty(prop)
		if !ok {
			logger.Debug("property kind omitted", "document_id", doc.ID, "property", name, "type", prop.GetType())
			continue
		}
		doc.Properties.Set(name, value)
	}

	return doc
}

func statusName(prop notionapi.Property) string {
	switch p := prop.(type) {
	case *notionapi.SelectProperty:
		return p.Select.Name
	case *notionapi.StatusProperty:
		return p.Status.Name
	default:
		return ""
	}
}

// convertProperty interprets a property by its declared kind. Unknown kinds
// report false and are omitted by the caller.
func convertProperty(prop notionapi.Property) (domain.PropertyValue, bool) {
	switch p := prop.(type) {
	case *notionapi.TitleProperty:
		return stringOrNull(plainText(p.Title)), true
	case *notionapi.RichTextProperty:
		return stringOrNull(plainText(p.RichText)), true
	case *notionapi.SelectProperty:
		return stringOrNull(p.Select.Name), true
	case *notionapi.StatusProperty:
		return stringOrNull(p.Status.Name), true
	case *notionapi.MultiSelectProperty:
		names := make([]string, 0, len(p.MultiSelect))
		for _, o := range p.MultiSelect {
			names = append(names, o.Name)
		}
		return domain.StringsValue(names), true
	case *notionapi.DateProperty:
		if p.Date == nil || p.Date.Start == nil {
			return domain.NullValue(), true
		}
		return domain.StringValue(formatDate(time.Time(*p.Date.Start))), true
	case *notionapi.NumberProperty:
		return domain.NumberValue(p.Number), true
	case *notionapi.CheckboxProperty:
		return domain.BoolValue(p.Checkbox), true
	case *notionapi.URLProperty:
		return stringOrNull(p.URL), true
	case *notionapi.EmailProperty:
		return stringOrNull(p.Email), true
	case *notionapi.PhoneNumberProperty:
		return stringOrNull(p.PhoneNumber), true
	case *notionapi.PeopleProperty:
		names := make([]string, 0, len(p.People))
		for _, u := range p.People {
			names = append(names, u.Name)
		}
		return domain.StringsValue(names), true
	case *notionapi.FilesProperty:
		names := make([]string, 0, len(p.Files))
		for _, f := range p.Files {
			names = append(names, f.Name)
		}
		return domain.StringsValue(names), true
	case *notionapi.UniqueIDProperty:
		id := p.UniqueID
		n := strconv.Itoa(id.Number)
		if id.Prefix != nil && *id.Prefix != "" {
			return domain.StringValue(*id.Prefix + "-" + n), true
		}
		return domain.StringValue(n), true
	case *notionapi.CreatedTimeProperty:
		return domain.StringValue(p.CreatedTime.UTC().Format(time.DateOnly)), true
	case *notionapi.LastEditedTimeProperty:
		return domain.StringValue(p.LastEditedTime.UTC().Format(time.DateOnly)), true
	default:
		return domain.PropertyValue{}, false
	}
}

func stringOrNull(s string) domain.PropertyValue {
	if s == "" {
		return domain.NullValue()
	}
	return domain.StringValue(s)
}

// formatDate keeps date-only values short; anything with a clock part is RFC 3339.
func formatDate(t time.Time) string {
	if h, m, s := t.Clock(); h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

func plainText(rt []notionapi.RichText) string {
	var b strings.Builder
	for _, t := range rt {
		b.WriteString(t.PlainText)
	}
	return b.String()
}

func convertRichText(rt []notionapi.RichText) []domain.RichTextSpan {
	if len(rt) == 0 {
		return nil
	}

	spans := make([]domain.RichTextSpan, 0, len(rt))
	for _, t := range rt {
		span := domain.RichTextSpan{
			Text: t.PlainText,
			Href: t.Href,
		}
		if a := t.Annotations; a != nil {
			span.Annotations = domain.Annotations{
				Bold:          a.Bold,
				Italic:        a.Italic,
				Strikethrough: a.Strikethrough,
				Underline:     a.Underline,
				Code:          a.Code,
				Color:         string(a.Color),
			}
		}
		if m := t.Mention; m != nil && m.Type == notionapi.MentionTypePage && m.Page != nil {
			span.Mention = &domain.Mention{DocumentID: string(m.Page.ID)}
			span.Href = ""
		}
		spans = append(spans, span)
	}
	return spans
}

func convertCells(cells [][]notionapi.RichText) [][]domain.RichTextSpan {
	out := make([][]domain.RichTextSpan, len(cells))
	for i, c := range cells {
		out[i] = convertRichText(c)
	}
	return out
}

func fileURL(file, external *notionapi.FileObject) string {
	if file != nil && file.URL != "" {
		return file.URL
	}
	if external != nil {
		return external.URL
	}
	return ""
}

// convertBlock maps a decoded API block onto a domain node. Block types
// without a domain variant become Unsupported.
func convertBlock(block notionapi.Block) domain.Node {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return domain.Paragraph{NodeBase: base(b.BasicBlock), Text: convertRichText(b.Paragraph.RichText)}
	case *notionapi.Heading1Block:
		return domain.Heading{NodeBase: base(b.BasicBlock), Level: 1, Text: convertRichText(b.Heading1.RichText)}
	case *notionapi.Heading2Block:
		return domain.Heading{NodeBase: base(b.BasicBlock), Level: 2, Text: convertRichText(b.Heading2.RichText)}
	case *notionapi.Heading3Block:
		return domain.Heading{NodeBase: base(b.BasicBlock), Level: 3, Text: convertRichText(b.Heading3.RichText)}
	case *notionapi.BulletedListItemBlock:
		return domain.BulletedItem{NodeBase: base(b.BasicBlock), Text: convertRichText(b.BulletedListItem.RichText)}
	case *notionapi.NumberedListItemBlock:
		return domain.NumberedItem{NodeBase: base(b.BasicBlock), Text: convertRichText(b.NumberedListItem.RichText)}
	case *notionapi.ToDoBlock:
		return domain.ToDo{NodeBase: base(b.BasicBlock), Checked: b.ToDo.Checked, Text: convertRichText(b.ToDo.RichText)}
	case *notionapi.ToggleBlock:
		return domain.Toggle{NodeBase: base(b.BasicBlock), Text: convertRichText(b.Toggle.RichText)}
	case *notionapi.QuoteBlock:
		return domain.Quote{NodeBase: base(b.BasicBlock), Text: convertRichText(b.Quote.RichText)}
	case *notionapi.CalloutBlock:
		c := domain.Callout{NodeBase: base(b.BasicBlock), Text: convertRichText(b.Callout.RichText)}
		if icon := b.Callout.Icon; icon != nil {
			if icon.Emoji != nil {
				c.Icon = string(*icon.Emoji)
			} else {
				c.IconURL = fileURL(icon.File, icon.External)
			}
		}
		return c
	case *notionapi.CodeBlock:
		return domain.Code{NodeBase: base(b.BasicBlock), Language: b.Code.Language, Text: convertRichText(b.Code.RichText)}
	case *notionapi.DividerBlock:
		return domain.Divider{NodeBase: base(b.BasicBlock)}
	case *notionapi.BookmarkBlock:
		return domain.Bookmark{NodeBase: base(b.BasicBlock), URL: b.Bookmark.URL, Caption: convertRichText(b.Bookmark.Caption)}
	case *notionapi.ImageBlock:
		return domain.Image{
			NodeBase: base(b.BasicBlock),
			URL:      fileURL(b.Image.File, b.Image.External),
			Caption:  convertRichText(b.Image.Caption),
		}
	case *notionapi.LinkToPageBlock:
		return domain.LinkToDocument{NodeBase: base(b.BasicBlock), DocumentID: string(b.LinkToPage.PageID)}
	case *notionapi.TableBlock:
		return domain.Table{NodeBase: base(b.BasicBlock), Width: b.Table.TableWidth, HasColumnHeader: b.Table.HasColumnHeader}
	case *notionapi.TableRowBlock:
		return domain.TableRow{NodeBase: base(b.BasicBlock), Cells: convertCells(b.TableRow.Cells)}
	default:
		return domain.Unsupported{
			NodeBase: domain.NodeBase{ID: string(block.GetID()), Children: block.GetHasChildren()},
			Type:     string(block.GetType()),
		}
	}
}

func base(b notionapi.BasicBlock) domain.NodeBase {
	return domain.NodeBase{ID: string(b.ID), Children: b.HasChildren}
}
