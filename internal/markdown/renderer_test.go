package markdown

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven/mocks"
)

const docID = "doc-1"

type fixture struct {
	source   *mocks.MockContentSource
	assets   *mocks.MockAssetFetcher
	output   *mocks.MockOutputStore
	resolver *mocks.MockReferenceResolver
	renderer *Renderer
	doc      *domain.Document
}

func newFixture(blocks ...domain.Node) *fixture {
	f := &fixture{
		source:   mocks.NewMockContentSource(),
		assets:   mocks.NewMockAssetFetcher(),
		output:   mocks.NewMockOutputStore(),
		resolver: mocks.NewMockReferenceResolver(),
	}
	f.doc = domain.NewDocument(docID)
	f.doc.Title = "Hello World"
	f.doc.Path = "Hello-World"
	f.source.AddDocument(f.doc, blocks...)
	f.resolver.References[otherID] = domain.Reference{Title: "Other Post", Path: "dev/Other-Post"}

	f.renderer = NewRenderer(Config{
		Source:   f.source,
		Assets:   f.assets,
		Output:   f.output,
		Resolver: f.resolver,
		BaseURL:  "https://blog.example.com",
	})
	return f
}

func (f *fixture) render(t *testing.T) string {
	t.Helper()
	out, err := f.renderer.RenderDocument(context.Background(), f.doc)
	require.NoError(t, err)
	return out
}

func spans(s string) []domain.RichTextSpan {
	return []domain.RichTextSpan{{Text: s}}
}

func base(id string) domain.NodeBase {
	return domain.NodeBase{ID: id}
}

func parent(id string) domain.NodeBase {
	return domain.NodeBase{ID: id, Children: true}
}

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name  string
		block domain.Node
		want  string
	}{
		{"paragraph", domain.Paragraph{NodeBase: base("b"), Text: []domain.RichTextSpan{{Text: "Hi", Annotations: domain.Annotations{Bold: true}}}}, "**Hi**\n\n"},
		{"empty paragraph", domain.Paragraph{NodeBase: base("b")}, "\n\n"},
		{"heading 1", domain.Heading{NodeBase: base("b"), Level: 1, Text: spans("Title")}, "## Title\n\n"},
		{"heading 3", domain.Heading{NodeBase: base("b"), Level: 3, Text: spans("Deep")}, "#### Deep\n\n"},
		{"bulleted", domain.BulletedItem{NodeBase: base("b"), Text: spans("item")}, "- item\n\n"},
		{"numbered", domain.NumberedItem{NodeBase: base("b"), Text: spans("step")}, "1. step\n\n"},
		{"todo unchecked", domain.ToDo{NodeBase: base("b"), Text: spans("task")}, "- [ ] task\n\n"},
		{"todo checked", domain.ToDo{NodeBase: base("b"), Checked: true, Text: spans("done")}, "- [x] done\n\n"},
		{"quote", domain.Quote{NodeBase: base("b"), Text: spans("line one\nline two")}, "> line one\n> line two\n\n"},
		{"callout", domain.Callout{NodeBase: base("b"), Icon: "💡", Text: spans("note")}, "<aside>\n💡 note\n</aside>\n\n"},
		{"callout without icon", domain.Callout{NodeBase: base("b"), Text: spans("note")}, "<aside>\nnote\n</aside>\n\n"},
		{"code", domain.Code{NodeBase: base("b"), Language: "go", Text: spans("a := 1\nb := 2")}, "```go\na := 1\nb := 2\n```\n\n"},
		{"plain text code", domain.Code{NodeBase: base("b"), Language: "plain text", Text: spans("x")}, "```\nx\n```\n\n"},
		{"divider", domain.Divider{NodeBase: base("b")}, "---\n\n"},
		{"bookmark", domain.Bookmark{NodeBase: base("b"), URL: "https://go.dev"}, "[https://go.dev](https://go.dev)\n\n"},
		{"bookmark with caption", domain.Bookmark{NodeBase: base("b"), URL: "https://go.dev", Caption: spans("Go")}, "[Go](https://go.dev)\n\n"},
		{"link to document", domain.LinkToDocument{NodeBase: base("b"), DocumentID: otherID}, "[Other Post](https://blog.example.com/dev/Other-Post)\n\n"},
		{"link to missing document", domain.LinkToDocument{NodeBase: base("b"), DocumentID: "missing"}, ""},
		{"unsupported", domain.Unsupported{NodeBase: base("b"), Type: "child_database"}, ""},
		{"orphan table row", domain.TableRow{NodeBase: base("b"), Cells: [][]domain.RichTextSpan{spans("x")}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.block)
			assert.Equal(t, tt.want, f.render(t))
		})
	}
}

func TestRenderNestedLists(t *testing.T) {
	f := newFixture(domain.BulletedItem{NodeBase: parent("outer"), Text: spans("outer")})
	f.source.SetChildren("outer",
		domain.NumberedItem{NodeBase: parent("inner"), Text: spans("inner")},
	)
	f.source.SetChildren("inner",
		domain.Code{NodeBase: base("code"), Language: "sh", Text: spans("ls\npwd")},
	)

	want := "- outer\n\n" +
		"    1. inner\n\n" +
		"        ```sh\n        ls\n        pwd\n        ```\n\n"
	assert.Equal(t, want, f.render(t))
}

func TestRenderUnsupportedDoesNotRecurse(t *testing.T) {
	f := newFixture(domain.Unsupported{NodeBase: parent("page"), Type: "child_page"})
	f.source.SetChildren("page", domain.Paragraph{NodeBase: base("p"), Text: spans("hidden")})

	assert.Equal(t, "", f.render(t))
}

func TestRenderToggle(t *testing.T) {
	f := newFixture(domain.BulletedItem{NodeBase: parent("item"), Text: spans("item")})
	f.source.SetChildren("item", domain.Toggle{NodeBase: parent("toggle"), Text: spans("More")})
	f.source.SetChildren("toggle",
		domain.BulletedItem{NodeBase: base("hidden"), Text: spans("hidden")},
	)

	want := "- item\n\n" +
		"<details>\n<summary>More</summary>\n\n" +
		"    - hidden\n\n" +
		"</details>\n\n"
	assert.Equal(t, want, f.render(t))
}

func TestRenderQuoteChildrenStayQuoted(t *testing.T) {
	f := newFixture(domain.Quote{NodeBase: parent("q"), Text: spans("quoted")})
	f.source.SetChildren("q",
		domain.Paragraph{NodeBase: base("p"), Text: spans("more")},
		domain.BulletedItem{NodeBase: base("li"), Text: spans("point")},
	)

	want := "> quoted\n" +
		">\n" +
		"> more\n" +
		">\n" +
		"> - point\n\n"
	assert.Equal(t, want, f.render(t))
}

func TestRenderCalloutChildrenInsideAside(t *testing.T) {
	f := newFixture(domain.Callout{NodeBase: parent("c"), Icon: "💡", Text: spans("note")})
	f.source.SetChildren("c", domain.Paragraph{NodeBase: base("p"), Text: spans("detail")})

	want := "<aside>\n💡 note\n\n" +
		"detail\n\n" +
		"</aside>\n\n"
	assert.Equal(t, want, f.render(t))
}

func TestRenderCalloutImageIconLogged(t *testing.T) {
	f := newFixture(domain.Callout{NodeBase: base("c"), IconURL: "https://cdn.example.com/icon.png", Text: spans("note")})

	var logs bytes.Buffer
	f.renderer = NewRenderer(Config{
		Source:   f.source,
		Assets:   f.assets,
		Output:   f.output,
		Resolver: f.resolver,
		Logger:   slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	assert.Equal(t, "<aside>\nnote\n</aside>\n\n", f.render(t))
	assert.Contains(t, logs.String(), "callout image icon omitted")
	assert.Contains(t, logs.String(), "icon_url=https://cdn.example.com/icon.png")
	assert.Empty(t, f.assets.Requests(), "image icons are not downloaded")
}

func TestRenderTable(t *testing.T) {
	f := newFixture(domain.Table{NodeBase: parent("table"), Width: 2, HasColumnHeader: true})
	f.source.SetChildren("table",
		domain.TableRow{NodeBase: base("r1"), Cells: [][]domain.RichTextSpan{spans("Name"), spans("Value")}},
		domain.TableRow{NodeBase: base("r2"), Cells: [][]domain.RichTextSpan{
			{{Text: "a", Annotations: domain.Annotations{Bold: true, Color: "red"}}},
			spans("x|y"),
		}},
		domain.TableRow{NodeBase: base("r3"), Cells: [][]domain.RichTextSpan{spans("b"), spans("2")}},
	)

	out := f.render(t)
	want := "| Name | Value |\n" +
		"| --- | --- |\n" +
		"| **a** | x\\|y |\n" +
		"| b | 2 |\n" +
		"\n"
	assert.Equal(t, want, out)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Count(lines[0], "|"), strings.Count(lines[1], "|"))

	table := findTable(t, out)
	require.NotNil(t, table, "rendered output should parse as a GFM table")
	assert.Len(t, table.Alignments, 2)
	// header plus two body rows
	assert.Equal(t, 3, table.ChildCount())
}

func TestRenderTableCellLineBreaks(t *testing.T) {
	f := newFixture(domain.Table{NodeBase: parent("table"), Width: 2})
	f.source.SetChildren("table",
		domain.TableRow{NodeBase: base("r1"), Cells: [][]domain.RichTextSpan{spans("Name"), spans("Value")}},
		domain.TableRow{NodeBase: base("r2"), Cells: [][]domain.RichTextSpan{
			spans("line one\nline two"),
			{{Text: "a\r\n"}, {Text: "b", Annotations: domain.Annotations{Bold: true}}},
		}},
	)

	out := f.render(t)
	want := "| Name | Value |\n" +
		"| --- | --- |\n" +
		"| line one<br>line two | a<br>**b** |\n" +
		"\n"
	assert.Equal(t, want, out)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 3)
}

func TestRenderTablePaginated(t *testing.T) {
	f := newFixture(domain.Table{NodeBase: parent("table"), Width: 1})
	f.source.PageSize = 1
	f.source.SetChildren("table",
		domain.TableRow{NodeBase: base("r1"), Cells: [][]domain.RichTextSpan{spans("h")}},
		domain.TableRow{NodeBase: base("r2"), Cells: [][]domain.RichTextSpan{spans("1")}},
		domain.TableRow{NodeBase: base("r3"), Cells: [][]domain.RichTextSpan{spans("2")}},
	)

	assert.Equal(t, "| h |\n| --- |\n| 1 |\n| 2 |\n\n", f.render(t))
}

func TestRenderTopLevelPagination(t *testing.T) {
	var blocks []domain.Node
	for _, s := range []string{"one", "two", "three", "four", "five"} {
		blocks = append(blocks, domain.Paragraph{NodeBase: base(s), Text: spans(s)})
	}
	f := newFixture(blocks...)
	f.source.PageSize = 2

	assert.Equal(t, "one\n\ntwo\n\nthree\n\nfour\n\nfive\n\n", f.render(t))
}

func TestRenderImages(t *testing.T) {
	f := newFixture(
		domain.Image{NodeBase: base("i1"), URL: "https://cdn.example.com/a.JPG?sig=1"},
		domain.Image{NodeBase: base("i2"), URL: "https://cdn.example.com/broken"},
		domain.Image{NodeBase: base("i3"), URL: "https://cdn.example.com/c", Caption: spans("caption")},
	)
	f.assets.AddAsset("https://cdn.example.com/a.JPG?sig=1", []byte("jpg"), "image/jpeg")
	f.assets.AddAsset("https://cdn.example.com/c", []byte("gif"), "image/gif")

	out := f.render(t)
	assert.Equal(t, "![](image1.jpg)\n\n![](image3.gif)\ncaption\n\n", out)

	data, ok := f.output.File("Hello-World/image1.jpg")
	require.True(t, ok)
	assert.Equal(t, "jpg", data)
	_, ok = f.output.File("Hello-World/image3.gif")
	assert.True(t, ok)
	assert.Len(t, f.assets.Requests(), 3)
}

func TestRenderImageCounterResetsPerDocument(t *testing.T) {
	f := newFixture(domain.Image{NodeBase: base("i1"), URL: "https://cdn.example.com/a.png"})
	f.assets.AddAsset("https://cdn.example.com/a.png", []byte("png"), "")

	first := f.render(t)
	second := f.render(t)
	assert.Equal(t, "![](image1.png)\n\n", first)
	assert.Equal(t, first, second)
}

func TestRenderIdempotent(t *testing.T) {
	f := newFixture(
		domain.Heading{NodeBase: base("h"), Level: 2, Text: spans("Intro")},
		domain.BulletedItem{NodeBase: parent("l"), Text: spans("list")},
		domain.Table{NodeBase: parent("t"), Width: 1},
	)
	f.source.SetChildren("l", domain.ToDo{NodeBase: base("td"), Text: spans("todo")})
	f.source.SetChildren("t", domain.TableRow{NodeBase: base("r"), Cells: [][]domain.RichTextSpan{spans("x")}})

	assert.Equal(t, f.render(t), f.render(t))
}

func TestRenderListChildrenError(t *testing.T) {
	f := newFixture(domain.Paragraph{NodeBase: parent("p"), Text: spans("p")})
	remote := errors.New("remote unavailable")
	f.source.ListChildrenFn = func(blockID, cursor string) (*domain.NodePage, error) {
		if blockID == "p" {
			return nil, remote
		}
		return &domain.NodePage{Nodes: []domain.Node{
			domain.Paragraph{NodeBase: parent("p"), Text: spans("p")},
		}}, nil
	}

	_, err := f.renderer.RenderDocument(context.Background(), f.doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, remote)
}

func TestRenderCancelledContext(t *testing.T) {
	f := newFixture(domain.Paragraph{NodeBase: base("p"), Text: spans("p")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.renderer.RenderDocument(ctx, f.doc)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderedListParses(t *testing.T) {
	f := newFixture(domain.BulletedItem{NodeBase: parent("a"), Text: spans("a")})
	f.source.SetChildren("a", domain.BulletedItem{NodeBase: base("b"), Text: spans("b")})

	src := []byte(f.render(t))
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	list, ok := doc.FirstChild().(*ast.List)
	require.True(t, ok, "expected a list, got %T", doc.FirstChild())
	item := list.FirstChild()
	require.NotNil(t, item)
	_, nested := item.LastChild().(*ast.List)
	assert.True(t, nested, "expected nested list inside first item")
}

func findTable(t *testing.T, src string) *east.Table {
	t.Helper()
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	doc := md.Parser().Parse(text.NewReader([]byte(src)))

	var found *east.Table
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if tbl, ok := n.(*east.Table); ok && entering {
			found = tbl
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return found
}
