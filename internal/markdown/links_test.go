package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteDestination(t *testing.T) {
	cases := map[string]string{
		"api.md":                    "api.html",
		"../rules/naming.md#casing": "../rules/naming.html#casing",
		"guide.MD?plain=1":          "guide.html?plain=1",
		"notes.markdown":            "notes.html",
		"#local-anchor":             "#local-anchor",
		"diagram.png":               "diagram.png",
		"https://example.com/a.md":  "https://example.com/a.md",
		"mailto:team@example.com":   "mailto:team@example.com",
		"//cdn.example.com/x.md":    "//cdn.example.com/x.md",
		"":                          "",
	}
	for in, want := range cases {
		require.Equal(t, want, RewriteDestination(in), "input %q", in)
	}
}

func TestConvertRewritesDocumentLinks(t *testing.T) {
	c, err := NewConverter(DefaultOptions())
	require.NoError(t, err)

	out, err := c.Convert([]byte("See [API](api.md#auth) and [site](https://example.com/readme.md)."))
	require.NoError(t, err)
	require.Contains(t, out, `href="api.html#auth"`)
	require.Contains(t, out, `href="https://example.com/readme.md"`)
}

func TestConvertKeepsLinksWhenRewriteDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.RewriteLinks = false
	c, err := NewConverter(opts)
	require.NoError(t, err)

	out, err := c.Convert([]byte("[API](api.md)"))
	require.NoError(t, err)
	require.Contains(t, out, `href="api.md"`)
}
