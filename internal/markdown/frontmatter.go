package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// SplitFrontMatter separates YAML/TOML front matter from the markdown body.
// Sources without front matter come back unchanged with nil fields.
func SplitFrontMatter(source []byte) (map[string]any, []byte, error) {
	var fields map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(source), &fields)
	if err != nil {
		return nil, source, fmt.Errorf("parse front matter: %w", err)
	}
	return fields, body, nil
}

// StringField returns fields[key] when it is a non-empty string.
func StringField(fields map[string]any, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}
