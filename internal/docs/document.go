package docs

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/docpages/internal/classify"
	derrors "git.home.luguber.info/inful/docpages/internal/docs/errors"
)

// OutputExtension replaces the source extension on every emitted page.
const OutputExtension = ".html"

// Document is one source file moving through the pipeline. It is created by
// Load and filled in by the renderer; once rendered it is not modified.
type Document struct {
	SourcePath   string         // path as discovered by the scanner
	RelPath      string         // slash-separated path relative to the source root
	Raw          []byte         // file content as read
	Body         []byte         // markdown after front matter is removed
	Title        string         // extracted title
	Tag          classify.Tag   // assigned category
	HTML         string         // rendered body fragment
	LastModified time.Time      // source modification time
	Meta         map[string]any // front matter fields, if any
	OutputPath   string         // written page, set by the renderer
}

// NavigationEntry is the projection of a Document used to assemble the index.
type NavigationEntry struct {
	Title      string
	URL        string // slash-separated, relative to the output root
	Tag        classify.Tag
	SourcePath string
}

// Load reads path and records its position under root.
func Load(root, path string) (*Document, error) {
	rel, err := RelativePath(root, path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrFileReadFailed, path, err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrFileReadFailed, path, err)
	}
	return &Document{
		SourcePath:   path,
		RelPath:      rel,
		Raw:          raw,
		Body:         raw,
		LastModified: info.ModTime(),
	}, nil
}

// RelativePath returns path relative to root using forward slashes.
func RelativePath(root, p string) (string, error) {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", derrors.ErrInvalidRelativePath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside %s", derrors.ErrInvalidRelativePath, p, root)
	}
	return filepath.ToSlash(rel), nil
}

// OutputRel is the mirrored output location relative to the output root.
func (d *Document) OutputRel() string {
	return OutputRelPath(d.RelPath)
}

// OutputRelPath swaps the extension of a slash-separated relative path for .html.
func OutputRelPath(rel string) string {
	return strings.TrimSuffix(rel, path.Ext(rel)) + OutputExtension
}

// RootPrefix is the relative path from the document's output directory back to
// the output root: "." at top level, "..", "../.." and so on below it.
func (d *Document) RootPrefix() string {
	depth := strings.Count(d.RelPath, "/")
	if depth == 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", depth), "/")
}

// Entry projects the document for the index.
func (d *Document) Entry() NavigationEntry {
	return NavigationEntry{
		Title:      d.Title,
		URL:        d.OutputRel(),
		Tag:        d.Tag,
		SourcePath: d.SourcePath,
	}
}
