package domain

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Slugify trims the title, drops every rune that is not a letter, digit,
// whitespace or one of "-_~", and joins whitespace runs (any Unicode space)
// with "-".
func Slugify(title string) string {
	trimmed := strings.TrimSpace(title)
	kept := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsSpace(r):
			return r
		case r == '-', r == '_', r == '~':
			return r
		default:
			return -1
		}
	}, trimmed)
	return joinSpaceRuns(kept)
}

// joinSpaceRuns replaces each run of Unicode whitespace with a single "-".
func joinSpaceRuns(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inRun {
				b.WriteByte('-')
			}
			inRun = true
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

var internalRef = regexp.MustCompile(`^/?([0-9a-fA-F]{32})(?:[?#].*)?$`)

// InternalDocumentID extracts a canonical dashed document id from an internal
// href such as "/0123...cdef" or "0123...cdef?pvs=21".
func InternalDocumentID(href string) (string, bool) {
	m := internalRef.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	id, err := CanonicalID(m[1])
	if err != nil {
		return "", false
	}
	return id, true
}

// CanonicalID formats a 32-hex or dashed identifier in lowercase dashed form.
func CanonicalID(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
