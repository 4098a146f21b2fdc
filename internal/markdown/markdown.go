// Package markdown turns document bodies into HTML fragments.
//
// It wraps goldmark with the settings the pages expect: GitHub-flavoured
// extensions, preserved line breaks, heading anchors and raw HTML passthrough.
// Relative links to other markdown documents are rewritten to their .html
// counterparts so cross-document links survive conversion.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Options controls the conversion engine.
type Options struct {
	HardWraps    bool     // newline in a paragraph becomes <br>
	Unsafe       bool     // pass raw HTML through
	Extensions   []string // goldmark extensions by name; empty selects DefaultExtensions
	RewriteLinks bool     // rewrite relative *.md link targets to *.html
}

// DefaultOptions mirrors what the page templates were designed for.
func DefaultOptions() Options {
	return Options{HardWraps: true, Unsafe: true, RewriteLinks: true}
}

// DefaultExtensions is the extension set used when Options.Extensions is empty.
var DefaultExtensions = []string{"gfm"}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// Converter renders markdown to HTML. A Converter is built once per run and is
// safe to reuse across documents.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds a converter. Unknown extension names are an error.
func NewConverter(opts Options) (*Converter, error) {
	exts, err := collectExtensions(opts.Extensions)
	if err != nil {
		return nil, err
	}

	parserOptions := []parser.Option{parser.WithAutoHeadingID()}
	if opts.RewriteLinks {
		parserOptions = append(parserOptions,
			parser.WithASTTransformers(util.Prioritized(linkRewriter{}, 500)))
	}

	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return &Converter{md: goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	)}, nil
}

// Convert renders body to an HTML fragment.
func (c *Converter) Convert(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}

func collectExtensions(names []string) ([]goldmark.Extender, error) {
	if len(names) == 0 {
		names = DefaultExtensions
	}
	seen := make(map[string]struct{}, len(names))
	exts := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, fmt.Errorf("unknown markdown extension %q", name)
		}
		seen[key] = struct{}{}
		exts = append(exts, ext)
	}
	return exts, nil
}
