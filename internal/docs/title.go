package docs

import (
	"path/filepath"
	"regexp"
	"strings"
)

// headingRe matches a top-level ATX heading: one hash, blanks, then text.
var headingRe = regexp.MustCompile(`(?m)^#[ \t]+(.+?)[ \t]*\r?$`)

var filenameSeparators = strings.NewReplacer("-", " ", "_", " ")

// HeadingTitle returns the text of the first non-blank top-level heading in text.
func HeadingTitle(text string) (string, bool) {
	for _, m := range headingRe.FindAllStringSubmatch(text, -1) {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title, true
		}
	}
	return "", false
}

// FilenameTitle derives a title from a file name: the extension is dropped and
// dashes and underscores become spaces.
func FilenameTitle(path string) string {
	base := filepath.Base(path)
	return strings.TrimSpace(filenameSeparators.Replace(strings.TrimSuffix(base, filepath.Ext(base))))
}

// ExtractTitle picks the first non-empty of: explicit (usually a front matter
// title), the first top-level heading, the file name.
func ExtractTitle(explicit, text, path string) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	if t, ok := HeadingTitle(text); ok {
		return t
	}
	return FilenameTitle(path)
}
