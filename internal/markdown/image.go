package markdown

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/Sharknia/nolog/internal/core/domain"
)

var imageExtensions = map[string]string{
	".png":  ".png",
	".jpg":  ".jpg",
	".jpeg": ".jpeg",
	".gif":  ".gif",
	".webp": ".webp",
	".svg":  ".svg",
	".bmp":  ".bmp",
	".avif": ".avif",
}

var contentTypeExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/bmp":     ".bmp",
	"image/avif":    ".avif",
}

// image downloads the image into the document directory as image{N}.<ext>
// and references it by that local name. N counts every image block of the
// document, including ones whose download fails.
func (s *session) image(ctx context.Context, b domain.Image) string {
	s.images++
	n := s.images

	if b.URL == "" || s.assets == nil || s.output == nil {
		s.logger.Warn("image skipped", "block_id", b.ID, "url", b.URL)
		return ""
	}

	asset, err := s.assets.Fetch(ctx, b.URL)
	if err != nil {
		s.logger.Warn("image download failed", "block_id", b.ID, "url", b.URL, "error", err)
		return ""
	}

	name := fmt.Sprintf("image%d%s", n, imageExtension(b.URL, asset.ContentType))
	if err := s.output.WriteFile(ctx, path.Join(s.doc.Path, name), asset.Data); err != nil {
		s.logger.Warn("image write failed", "block_id", b.ID, "file", name, "error", err)
		return ""
	}

	out := "![](" + name + ")\n"
	if len(b.Caption) > 0 {
		out += s.formatter.FormatSequence(ctx, b.Caption) + "\n"
	}
	return out + "\n"
}

// imageExtension picks the extension from the URL path, then the content
// type, falling back to .png.
func imageExtension(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext, ok := imageExtensions[strings.ToLower(path.Ext(u.Path))]; ok {
			return ext
		}
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if ext, ok := contentTypeExtensions[mt]; ok {
			return ext
		}
	}
	return ".png"
}
