package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitFrontMatter(t *testing.T) {
	src := []byte("---\ntitle: Onboarding Guide\nowner: platform\n---\n# Heading\n\nBody\n")

	fields, body, err := SplitFrontMatter(src)
	require.NoError(t, err)
	require.Equal(t, "Onboarding Guide", StringField(fields, "title"))
	require.Equal(t, "platform", StringField(fields, "owner"))
	require.Contains(t, string(body), "# Heading")
	require.NotContains(t, string(body), "title:")
}

func TestSplitFrontMatterAbsent(t *testing.T) {
	src := []byte("# Just Markdown\n")

	fields, body, err := SplitFrontMatter(src)
	require.NoError(t, err)
	require.Nil(t, fields)
	require.Equal(t, src, body)
	require.Empty(t, StringField(fields, "title"))
}

func TestStringFieldIgnoresNonStrings(t *testing.T) {
	require.Empty(t, StringField(map[string]any{"title": 42}, "title"))
}
