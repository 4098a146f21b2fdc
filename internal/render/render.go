// Package render turns one markdown document into one HTML page.
//
// A Renderer classifies the document, converts its body, fills the matching
// template and writes the result under the output root at the mirrored path.
// Failures come back as classified errors so the caller can record them and
// move on to the next document.
package render

import (
	"context"
	"html"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docpages/internal/classify"
	"git.home.luguber.info/inful/docpages/internal/docs"
	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
	"git.home.luguber.info/inful/docpages/internal/logfields"
	"git.home.luguber.info/inful/docpages/internal/markdown"
	"git.home.luguber.info/inful/docpages/internal/templates"
)

// DateLayout formats LAST_MODIFIED.
const DateLayout = "2006-01-02"

// Renderer holds the collaborators shared by every document in a run.
type Renderer struct {
	sourceRoot string
	outputRoot string
	classifier classify.Classifier
	registry   *templates.Registry
	converter  *markdown.Converter
}

// New builds a Renderer. All collaborators are required.
func New(sourceRoot, outputRoot string, c classify.Classifier, reg *templates.Registry, conv *markdown.Converter) *Renderer {
	return &Renderer{
		sourceRoot: sourceRoot,
		outputRoot: outputRoot,
		classifier: c,
		registry:   reg,
		converter:  conv,
	}
}

// OutputPath is where doc's page is written.
func (r *Renderer) OutputPath(doc *docs.Document) string {
	return filepath.Join(r.outputRoot, filepath.FromSlash(doc.OutputRel()))
}

// Prepare strips front matter, extracts the title and assigns the tag.
// Malformed front matter is logged and the whole file is treated as body.
func (r *Renderer) Prepare(doc *docs.Document) {
	fields, body, err := markdown.SplitFrontMatter(doc.Raw)
	if err != nil {
		slog.Warn("Ignoring malformed front matter", logfields.Path(doc.SourcePath), logfields.Error(err))
	}
	doc.Meta = fields
	doc.Body = body
	doc.Title = docs.ExtractTitle(markdown.StringField(fields, "title"), string(body), doc.SourcePath)
	doc.Tag = r.classifier.Classify(classify.NewInput(doc.SourcePath, string(doc.Raw)))
}

// Render converts doc's body and substitutes it into tmpl.
func (r *Renderer) Render(doc *docs.Document, tmpl string) (string, error) {
	body, err := r.converter.Convert(doc.Body)
	if err != nil {
		return "", ferrors.RenderError("markdown conversion failed").
			WithContext("path", doc.SourcePath).
			WithCause(err).
			Build()
	}
	doc.HTML = body
	return templates.Substitute(tmpl, PageValues(doc)), nil
}

// PageValues are the page placeholders for doc. Title and source path are
// escaped; the body is inserted as rendered.
func PageValues(doc *docs.Document) templates.Values {
	return templates.Values{
		templates.Title:        html.EscapeString(doc.Title),
		templates.Content:      doc.HTML,
		templates.DocType:      doc.Tag.String(),
		templates.LastModified: doc.LastModified.UTC().Format(DateLayout),
		templates.SourcePath:   html.EscapeString(doc.RelPath),
		templates.RootPath:     doc.RootPrefix(),
	}
}

// Convert runs one document end to end: load, prepare, render, write.
func (r *Renderer) Convert(ctx context.Context, path string) (*docs.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := docs.Load(r.sourceRoot, path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot read document").
			WithContext("path", path).
			Build()
	}

	r.Prepare(doc)
	page, err := r.Render(doc, r.registry.Template(doc.Tag))
	if err != nil {
		return nil, err
	}

	out := r.OutputPath(doc)
	if err := writePage(out, page); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot write page").
			WithContext("path", path).
			WithContext("output", out).
			Build()
	}
	doc.OutputPath = out

	slog.Debug("Converted document",
		logfields.Path(doc.RelPath),
		logfields.Output(out),
		logfields.DocType(doc.Tag.String()))
	return doc, nil
}

// Remove deletes the page previously written for the source at path. A page
// that is already gone is not an error.
func (r *Renderer) Remove(path string) (string, error) {
	rel, err := docs.RelativePath(r.sourceRoot, path)
	if err != nil {
		return "", err
	}
	out := filepath.Join(r.outputRoot, filepath.FromSlash(docs.OutputRelPath(rel)))
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return out, ferrors.FileSystemError("cannot remove stale page").
			WithContext("output", out).
			WithCause(err).
			Build()
	}
	return out, nil
}

func writePage(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	// #nosec G306 -- generated pages are meant to be world-readable.
	return os.WriteFile(path, []byte(content), 0o644)
}
