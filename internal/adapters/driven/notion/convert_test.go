package notion

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jomei/notionapi"

	"github.com/Sharknia/nolog/internal/core/domain"
)

func richText(text string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: text, Annotations: &notionapi.Annotations{Color: notionapi.ColorDefault}}}
}

func TestPageToDocument(t *testing.T) {
	day := notionapi.Date(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC))
	page := &notionapi.Page{
		ID: notionapi.ObjectID("0b1c2d3e4f5061728394a5b6c7d8e9f0"),
		Properties: notionapi.Properties{
			"title":    &notionapi.TitleProperty{Title: richText("Hello World")},
			"status":   &notionapi.SelectProperty{Select: notionapi.Option{Name: "Ready"}},
			"category": &notionapi.SelectProperty{Select: notionapi.Option{Name: "dev"}},
			"tags": &notionapi.MultiSelectProperty{MultiSelect: []notionapi.Option{
				{Name: "go"}, {Name: "notion"},
			}},
			"date":    &notionapi.DateProperty{Date: &notionapi.DateObject{Start: &day}},
			"summary": &notionapi.RichTextProperty{RichText: nil},
			"views":   &notionapi.NumberProperty{Number: 42},
			"draft":   &notionapi.CheckboxProperty{Checkbox: true},
			"related": &notionapi.RelationProperty{},
		},
	}

	doc := pageToDocument(page, "status", slog.Default())

	if doc.ID != "0b1c2d3e4f5061728394a5b6c7d8e9f0" {
		t.Errorf("ID = %q", doc.ID)
	}
	if doc.Title != "Hello World" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Status != domain.StatusReady {
		t.Errorf("Status = %q, want Ready", doc.Status)
	}

	wantKeys := []string{"category", "date", "draft", "summary", "tags", "title", "views"}
	if diff := cmp.Diff(wantKeys, doc.Properties.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	date, _ := doc.Properties.Get("date")
	if s, _ := date.AsString(); s != "2024-03-09" {
		t.Errorf("date = %q, want 2024-03-09", s)
	}

	summary, _ := doc.Properties.Get("summary")
	if !summary.IsNull() {
		t.Errorf("empty rich text should be null, got kind %v", summary.Kind())
	}

	tags, _ := doc.Properties.Get("tags")
	got, _ := tags.AsStrings()
	if diff := cmp.Diff([]string{"go", "notion"}, got); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestPageToDocument_StatusKind(t *testing.T) {
	page := &notionapi.Page{
		ID: "abc",
		Properties: notionapi.Properties{
			"Stage": &notionapi.StatusProperty{Status: notionapi.Status{Name: "ToBeDeleted"}},
		},
	}

	doc := pageToDocument(page, "Stage", slog.Default())
	if doc.Status != domain.StatusToBeDeleted {
		t.Errorf("Status = %q", doc.Status)
	}
	if doc.Properties.Len() != 0 {
		t.Errorf("status property should not be kept, got %v", doc.Properties.Keys())
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), "2023-12-01"},
		{time.Date(2023, 12, 1, 9, 30, 0, 0, time.UTC), "2023-12-01T09:30:00Z"},
	}
	for _, tt := range tests {
		if got := formatDate(tt.in); got != tt.want {
			t.Errorf("formatDate(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConvertRichText(t *testing.T) {
	in := []notionapi.RichText{
		{
			PlainText: "bold",
			Annotations: &notionapi.Annotations{
				Bold:  true,
				Color: notionapi.ColorRed,
			},
		},
		{
			PlainText: "site",
			Href:      "https://example.com",
		},
		{
			PlainText: "Other page",
			Href:      "https://www.notion.so/abc",
			Mention: &notionapi.Mention{
				Type: notionapi.MentionTypePage,
				Page: &notionapi.PageMention{ID: "abc"},
			},
		},
		{
			PlainText: "@Someone",
			Mention:   &notionapi.Mention{Type: notionapi.MentionTypeUser},
		},
	}

	want := []domain.RichTextSpan{
		{Text: "bold", Annotations: domain.Annotations{Bold: true, Color: "red"}},
		{Text: "site", Href: "https://example.com"},
		{Text: "Other page", Mention: &domain.Mention{DocumentID: "abc"}},
		{Text: "@Someone"},
	}

	if diff := cmp.Diff(want, convertRichText(in)); diff != "" {
		t.Errorf("convertRichText mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertBlock(t *testing.T) {
	emoji := notionapi.Emoji("💡")

	tests := []struct {
		name  string
		block notionapi.Block
		want  domain.Node
	}{
		{
			name: "paragraph",
			block: &notionapi.ParagraphBlock{
				BasicBlock: notionapi.BasicBlock{ID: "p1", Type: notionapi.BlockTypeParagraph},
				Paragraph:  notionapi.Paragraph{RichText: []notionapi.RichText{{PlainText: "hi"}}},
			},
			want: domain.Paragraph{NodeBase: domain.NodeBase{ID: "p1"}, Text: []domain.RichTextSpan{{Text: "hi"}}},
		},
		{
			name: "heading with children",
			block: &notionapi.Heading2Block{
				BasicBlock: notionapi.BasicBlock{ID: "h2", HasChildren: true},
				Heading2:   notionapi.Heading{RichText: []notionapi.RichText{{PlainText: "Sub"}}},
			},
			want: domain.Heading{NodeBase: domain.NodeBase{ID: "h2", Children: true}, Level: 2, Text: []domain.RichTextSpan{{Text: "Sub"}}},
		},
		{
			name: "checked todo",
			block: &notionapi.ToDoBlock{
				BasicBlock: notionapi.BasicBlock{ID: "t"},
				ToDo:       notionapi.ToDo{RichText: []notionapi.RichText{{PlainText: "done"}}, Checked: true},
			},
			want: domain.ToDo{NodeBase: domain.NodeBase{ID: "t"}, Checked: true, Text: []domain.RichTextSpan{{Text: "done"}}},
		},
		{
			name: "callout",
			block: &notionapi.CalloutBlock{
				BasicBlock: notionapi.BasicBlock{ID: "c"},
				Callout: notionapi.Callout{
					RichText: []notionapi.RichText{{PlainText: "note"}},
					Icon:     &notionapi.Icon{Type: "emoji", Emoji: &emoji},
				},
			},
			want: domain.Callout{NodeBase: domain.NodeBase{ID: "c"}, Icon: "💡", Text: []domain.RichTextSpan{{Text: "note"}}},
		},
		{
			name: "callout with external icon",
			block: &notionapi.CalloutBlock{
				BasicBlock: notionapi.BasicBlock{ID: "c2"},
				Callout: notionapi.Callout{
					RichText: []notionapi.RichText{{PlainText: "note"}},
					Icon: &notionapi.Icon{
						Type:     notionapi.FileTypeExternal,
						External: &notionapi.FileObject{URL: "https://cdn.example.com/icon.svg"},
					},
				},
			},
			want: domain.Callout{
				NodeBase: domain.NodeBase{ID: "c2"},
				IconURL:  "https://cdn.example.com/icon.svg",
				Text:     []domain.RichTextSpan{{Text: "note"}},
			},
		},
		{
			name: "code",
			block: &notionapi.CodeBlock{
				BasicBlock: notionapi.BasicBlock{ID: "code"},
				Code:       notionapi.Code{RichText: []notionapi.RichText{{PlainText: "x := 1"}}, Language: "go"},
			},
			want: domain.Code{NodeBase: domain.NodeBase{ID: "code"}, Language: "go", Text: []domain.RichTextSpan{{Text: "x := 1"}}},
		},
		{
			name: "external image",
			block: &notionapi.ImageBlock{
				BasicBlock: notionapi.BasicBlock{ID: "img"},
				Image: notionapi.Image{
					Type:     notionapi.FileTypeExternal,
					External: &notionapi.FileObject{URL: "https://cdn.example.com/a.jpg"},
				},
			},
			want: domain.Image{NodeBase: domain.NodeBase{ID: "img"}, URL: "https://cdn.example.com/a.jpg"},
		},
		{
			name: "link to page",
			block: &notionapi.LinkToPageBlock{
				BasicBlock: notionapi.BasicBlock{ID: "l"},
				LinkToPage: notionapi.LinkToPage{PageID: "target"},
			},
			want: domain.LinkToDocument{NodeBase: domain.NodeBase{ID: "l"}, DocumentID: "target"},
		},
		{
			name: "table row",
			block: &notionapi.TableRowBlock{
				BasicBlock: notionapi.BasicBlock{ID: "r"},
				TableRow: notionapi.TableRow{Cells: [][]notionapi.RichText{
					{{PlainText: "a"}}, {},
				}},
			},
			want: domain.TableRow{NodeBase: domain.NodeBase{ID: "r"}, Cells: [][]domain.RichTextSpan{{{Text: "a"}}, nil}},
		},
		{
			name: "child page is unsupported",
			block: &notionapi.ChildPageBlock{
				BasicBlock: notionapi.BasicBlock{ID: "cp", Type: notionapi.BlockTypeChildPage, HasChildren: true},
			},
			want: domain.Unsupported{NodeBase: domain.NodeBase{ID: "cp", Children: true}, Type: "child_page"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, convertBlock(tt.block)); diff != "" {
				t.Errorf("convertBlock mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
