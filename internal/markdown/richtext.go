package markdown

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Formatter converts rich text spans into Markdown with inline HTML for
// styles Markdown lacks.
type Formatter struct {
	resolver driven.ReferenceResolver
	baseURL  string
	logger   *slog.Logger
}

// FormatterConfig holds dependencies for Formatter.
type FormatterConfig struct {
	Resolver driven.ReferenceResolver
	BaseURL  string // Prefix for links to other documents
	Logger   *slog.Logger
}

// NewFormatter creates a rich text formatter.
func NewFormatter(cfg FormatterConfig) *Formatter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Formatter{
		resolver: cfg.Resolver,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		logger:   logger,
	}
}

// Format renders a single span.
func (f *Formatter) Format(ctx context.Context, span domain.RichTextSpan) string {
	return f.format(ctx, span, false)
}

// FormatSequence renders spans back to back.
func (f *Formatter) FormatSequence(ctx context.Context, spans []domain.RichTextSpan) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(f.format(ctx, s, false))
	}
	return b.String()
}

// FormatCell renders spans for a table cell: no color markup, pipes escaped
// and line breaks written as <br> so the row stays on one line.
func (f *Formatter) FormatCell(ctx context.Context, spans []domain.RichTextSpan) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(f.format(ctx, s, true))
	}
	return cellBreaks.Replace(b.String())
}

var cellBreaks = strings.NewReplacer("\r\n", "<br>", "\n", "<br>", "\r", "<br>")

func (f *Formatter) format(ctx context.Context, span domain.RichTextSpan, cell bool) string {
	if span.Mention != nil {
		return f.mention(ctx, span.Mention.DocumentID, cell)
	}

	raw := span.Text
	text := strings.TrimSpace(raw)
	if text == "" {
		return raw
	}
	start := strings.Index(raw, text)
	leading, trailing := raw[:start], raw[start+len(text):]

	if cell {
		text = escapePipes(text)
	}

	a := span.Annotations
	if a.Code {
		text = "`" + text + "`"
	} else {
		if a.Italic {
			text = trimEmphasisMarkers(text)
		}
		text = escapeUnderscores(text)
		if a.Bold {
			text = "**" + text + "**"
		}
		if a.Italic {
			text = "*" + text + "*"
		}
		if a.Strikethrough {
			text = "~~" + text + "~~"
		}
		if a.Underline {
			text = "<u>" + text + "</u>"
		}
		if !cell {
			text = colorize(text, a.Color)
		}
	}

	if span.Href != "" {
		text = f.link(ctx, text, span.Href, cell)
	}
	return leading + text + trailing
}

func (f *Formatter) link(ctx context.Context, text, href string, cell bool) string {
	id, internal := domain.InternalDocumentID(href)
	if !internal {
		return "[" + text + "](" + href + ")"
	}

	ref, err := f.resolve(ctx, id)
	if err != nil {
		f.logger.Warn("cross-reference unresolved, keeping text", "target_id", id, "error", err)
		return text
	}
	return f.refLink(ref, cell)
}

func (f *Formatter) mention(ctx context.Context, id string, cell bool) string {
	ref, err := f.resolve(ctx, id)
	if err != nil {
		f.logger.Warn("mention unresolved", "target_id", id, "error", err)
		return ""
	}
	return f.refLink(ref, cell)
}

func (f *Formatter) resolve(ctx context.Context, id string) (domain.Reference, error) {
	if f.resolver == nil {
		return domain.Reference{}, domain.ErrNotFound
	}
	ref, err := f.resolver.Resolve(ctx, id)
	if err != nil {
		return domain.Reference{}, err
	}
	if ref.IsZero() {
		return domain.Reference{}, domain.ErrNotFound
	}
	return ref, nil
}

func (f *Formatter) refLink(ref domain.Reference, cell bool) string {
	title := ref.Title
	if cell {
		title = escapePipes(title)
	}
	return "[" + title + "](" + f.URL(ref.Path) + ")"
}

// URL returns the absolute link for an output path.
func (f *Formatter) URL(path string) string {
	return f.baseURL + "/" + strings.TrimLeft(path, "/")
}

// escapeUnderscores backslash-escapes every underscore that sits between two
// word characters.
func escapeUnderscores(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)
	var prev rune
	for i, r := range s {
		if r == '_' && i > 0 && isWordRune(prev) {
			next, _ := utf8.DecodeRuneInString(s[i+1:])
			if isWordRune(next) {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// trimEmphasisMarkers drops a literal _..._ wrapper from text that is already
// italic, so the emphasis is not doubled.
func trimEmphasisMarkers(s string) string {
	if len(s) > 2 && s[0] == '_' && s[len(s)-1] == '_' {
		inner := s[1 : len(s)-1]
		if strings.TrimSpace(inner) == inner && !strings.HasPrefix(inner, "_") && !strings.HasSuffix(inner, "_") {
			return inner
		}
	}
	return s
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func colorize(text, color string) string {
	if color == "" || color == "default" {
		return text
	}
	if bg, ok := strings.CutSuffix(color, "_background"); ok {
		return `<span style="background-color: ` + bg + `;">` + text + "</span>"
	}
	return `<span style="color: ` + color + `;">` + text + "</span>"
}
