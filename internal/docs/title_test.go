package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadingTitle(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"first line", "# Hello World\n\nBody", "Hello World", true},
		{"trailing blanks", "#   Hello World  \n", "Hello World", true},
		{"crlf", "# Hello World\r\nBody", "Hello World", true},
		{"after preamble", "intro\n\n# Later Title\n", "Later Title", true},
		{"second level only", "## Not top level\n", "", false},
		{"hash without blank", "#hashtag\n", "", false},
		{"first of several", "# One\n# Two\n", "One", true},
		{"empty heading does not span lines", "#\nplain text\n", "", false},
		{"blank heading skipped", "#  \n\n# Real Title\n", "Real Title", true},
		{"only blank headings", "#  \n#\t \n", "", false},
		{"none", "plain text", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := HeadingTitle(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFilenameTitle(t *testing.T) {
	assert.Equal(t, "team playbook", FilenameTitle("docs/team-playbook.md"))
	assert.Equal(t, "release notes v2", FilenameTitle("release_notes-v2.md"))
	assert.Equal(t, "notes", FilenameTitle("notes.md"))
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "From Front Matter", ExtractTitle(" From Front Matter ", "# Heading", "a.md"))
	assert.Equal(t, "Heading", ExtractTitle("", "# Heading", "a.md"))
	assert.Equal(t, "coding standards", ExtractTitle("", "no heading", "coding-standards.md"))
	assert.Equal(t, "Real Title", ExtractTitle("", "#  \n\n# Real Title\n", "docs/my-notes.md"))
}
