package services

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// TagsProperty is rendered as a nested list in the front matter.
const TagsProperty = "tags"

// FrontMatter renders the metadata header: one "key: <json>" line per
// non-null property in key order, between "---" fences.
func FrontMatter(props *domain.Properties) (string, error) {
	keys := props.Keys()
	sort.Strings(keys)

	lines := []string{"---"}
	for _, key := range keys {
		value, _ := props.Get(key)
		if value.IsNull() {
			continue
		}

		if tags, ok := value.AsStrings(); ok && key == TagsProperty {
			if len(tags) == 0 {
				lines = append(lines, TagsProperty+": []")
				continue
			}
			lines = append(lines, TagsProperty+":\n  - "+strings.Join(tags, "\n  - "))
			continue
		}

		encoded, err := encodeValue(value)
		if err != nil {
			return "", err
		}
		lines = append(lines, key+": "+encoded)
	}
	lines = append(lines, "---", "")

	return strings.Join(lines, "\n"), nil
}

func encodeValue(v domain.PropertyValue) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
