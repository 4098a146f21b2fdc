package markdown

import (
	"net/url"
	"path"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// linkRewriter points relative links at converted pages instead of sources.
type linkRewriter struct{}

func (linkRewriter) Transform(doc *gmast.Document, _ text.Reader, _ parser.Context) {
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if link, ok := n.(*gmast.Link); ok {
			link.Destination = []byte(RewriteDestination(string(link.Destination)))
		}
		return gmast.WalkContinue, nil
	})
}

// RewriteDestination maps "guide.md#setup" to "guide.html#setup". Absolute URLs,
// other schemes and non-markdown targets are returned unchanged.
func RewriteDestination(dest string) string {
	if dest == "" || strings.HasPrefix(dest, "#") {
		return dest
	}
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return dest
	}
	cut := len(dest)
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		cut = i
	}
	target, rest := dest[:cut], dest[cut:]
	ext := path.Ext(target)
	if !strings.EqualFold(ext, ".md") && !strings.EqualFold(ext, ".markdown") {
		return dest
	}
	return strings.TrimSuffix(target, ext) + ".html" + rest
}
