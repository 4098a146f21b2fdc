package templates

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docpages/internal/classify"
	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
	"git.home.luguber.info/inful/docpages/internal/logfields"
)

// FileExtension is the extension of template files in the template directory.
const FileExtension = ".html"

// Registry holds one template body per tag plus the index template. It is
// read-only once built.
type Registry struct {
	pages       map[classify.Tag]string
	index       string
	synthesized []string
}

// New builds a registry from explicit bodies. A missing standard body is
// filled from the built-in so lookups always resolve.
func New(pages map[classify.Tag]string, index string) *Registry {
	r := &Registry{pages: make(map[classify.Tag]string, len(pages)), index: index}
	for tag, body := range pages {
		r.pages[tag] = body
	}
	if _, ok := r.pages[classify.TagStandard]; !ok {
		body, _ := synthesize(string(classify.TagStandard), BuiltinCSS())
		r.pages[classify.TagStandard] = body
	}
	if r.index == "" {
		r.index, _ = synthesize(IndexName, BuiltinCSS())
	}
	return r
}

// Template returns the body for tag, or the standard body when tag has none.
func (r *Registry) Template(tag classify.Tag) string {
	if body, ok := r.pages[tag]; ok {
		return body
	}
	return r.pages[classify.TagStandard]
}

// Index returns the index template body.
func (r *Registry) Index() string { return r.index }

// Synthesized lists the template files written by Load, in tag order.
func (r *Registry) Synthesized() []string { return r.synthesized }

// LoadOptions controls where templates are read from.
type LoadOptions struct {
	// Dir holds <name>.html files. Empty keeps everything in memory.
	Dir string
	// StyleSource is an optional HTML page whose first <style> block becomes
	// the base CSS of synthesized templates.
	StyleSource string
}

// Load reads each template from opts.Dir. Missing templates are synthesized
// from the built-ins and written to opts.Dir; existing files are never
// overwritten.
func Load(opts LoadOptions) (*Registry, error) {
	css := resolveBaseCSS(opts.StyleSource)

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
			return nil, ferrors.FileSystemError("cannot create template directory").
				Fatal().
				WithContext("path", opts.Dir).
				WithCause(err).
				Build()
		}
	}

	r := &Registry{pages: make(map[classify.Tag]string, len(classify.Tags))}
	for _, tag := range classify.Tags {
		body, err := r.load(opts.Dir, string(tag), css, PagePlaceholders)
		if err != nil {
			return nil, err
		}
		r.pages[tag] = body
	}
	index, err := r.load(opts.Dir, IndexName, css, IndexPlaceholders)
	if err != nil {
		return nil, err
	}
	r.index = index
	return r, nil
}

func (r *Registry) load(dir, name, css string, allowed []string) (string, error) {
	fileName := name + FileExtension
	if dir != "" {
		path := filepath.Join(dir, fileName)
		// #nosec G304 -- path is a fixed template name under the template directory.
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			body := string(data)
			if unknown := Unknown(body, allowed); len(unknown) > 0 {
				slog.Warn("Template references unknown placeholders",
					logfields.Template(name), logfields.Path(path), slog.Any("placeholders", unknown))
			}
			slog.Debug("Loaded template", logfields.Template(name), logfields.Path(path))
			return body, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", ferrors.TemplateError("cannot read template").
				Fatal().
				WithContext("path", path).
				WithCause(err).
				Build()
		}
	}

	body, err := synthesize(name, css)
	if err != nil {
		return "", ferrors.InternalError("missing built-in template").
			WithContext("template", name).
			WithCause(err).
			Build()
	}
	if dir == "" {
		return body, nil
	}

	written, err := writeIfAbsent(dir, fileName, body)
	if err != nil {
		slog.Warn("Could not write synthesized template", logfields.Template(name), logfields.Error(err))
		return body, nil
	}
	r.synthesized = append(r.synthesized, written)
	slog.Info("Created template", logfields.Template(name), logfields.Path(written))
	return body, nil
}

func resolveBaseCSS(styleSource string) string {
	if styleSource == "" {
		return BuiltinCSS()
	}
	css, err := ExtractBaseCSS(styleSource)
	if err != nil {
		slog.Warn("Using built-in CSS", logfields.Path(styleSource), logfields.Error(fmt.Errorf("style source: %w", err)))
		return BuiltinCSS()
	}
	return css
}
