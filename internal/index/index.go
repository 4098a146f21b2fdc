// Package index assembles the navigation page linking every converted
// document, grouped by tag.
package index

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docpages/internal/classify"
	"git.home.luguber.info/inful/docpages/internal/docs"
	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
	"git.home.luguber.info/inful/docpages/internal/templates"
)

// FileName is the index page written at the output root.
const FileName = "index.html"

// DefaultTitle is used when no site title is configured.
const DefaultTitle = "Documentation"

// DateLayout formats LAST_UPDATED, in UTC.
const DateLayout = "2006-01-02"

// Group is one non-empty tag section of the navigation.
type Group struct {
	Tag     classify.Tag
	Label   string
	Entries []docs.NavigationEntry
}

// Page is a rendered index together with the counts that went into it.
type Page struct {
	HTML          string
	Groups        []Group
	TotalDocs     int
	CategoryCount int
}

// Options carries the inputs that are not derived from the entries.
type Options struct {
	Template string
	Title    string
	Now      time.Time
}

// groupNames are the section names before casing.
var groupNames = map[classify.Tag]string{
	classify.TagFramework: "framework",
	classify.TagPlaybook:  "playbooks",
	classify.TagTemplate:  "templates",
	classify.TagRules:     "rules",
	classify.TagStandard:  "other",
}

// Label is the section heading for tag.
func Label(tag classify.Tag) string {
	name, ok := groupNames[tag]
	if !ok {
		name = string(tag)
	}
	return cases.Title(language.English).String(name)
}

// Groups partitions entries by tag in classify.Tags order. Entry order within a
// group is preserved and empty groups are dropped.
func Groups(entries []docs.NavigationEntry) []Group {
	byTag := make(map[classify.Tag][]docs.NavigationEntry, len(classify.Tags))
	for _, e := range entries {
		tag := e.Tag
		if !tag.Valid() {
			tag = classify.TagStandard
		}
		byTag[tag] = append(byTag[tag], e)
	}

	groups := make([]Group, 0, len(byTag))
	for _, tag := range classify.Tags {
		if len(byTag[tag]) == 0 {
			continue
		}
		groups = append(groups, Group{Tag: tag, Label: Label(tag), Entries: byTag[tag]})
	}
	return groups
}

// Navigation renders the grouped link list.
func Navigation(groups []Group) string {
	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "<div class=\"nav-section\">\n<h3>%s</h3>\n<ul>\n", html.EscapeString(g.Label))
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "<li><a href=\"%s\" class=\"nav-link\" data-type=\"%s\">%s</a></li>\n",
				html.EscapeString(e.URL), html.EscapeString(string(g.Tag)), html.EscapeString(e.Title))
		}
		b.WriteString("</ul>\n</div>\n")
	}
	return b.String()
}

// Build renders the index page for entries.
func Build(entries []docs.NavigationEntry, opts Options) Page {
	groups := Groups(entries)
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	values := templates.Values{
		templates.Title:         html.EscapeString(title),
		templates.Navigation:    Navigation(groups),
		templates.TotalDocs:     strconv.Itoa(len(entries)),
		templates.CategoryCount: strconv.Itoa(len(groups)),
		templates.LastUpdated:   now.UTC().Format(DateLayout),
		templates.RootPath:      ".",
	}
	return Page{
		HTML:          templates.Substitute(opts.Template, values),
		Groups:        groups,
		TotalDocs:     len(entries),
		CategoryCount: len(groups),
	}
}

// Write stores page as FileName under outDir and returns the written path.
func Write(outDir string, page Page) (string, error) {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return "", ferrors.FileSystemError("cannot create output directory").
			Fatal().
			WithContext("path", outDir).
			WithCause(err).
			Build()
	}
	path := filepath.Join(outDir, FileName)
	// #nosec G306 -- generated pages are meant to be world-readable.
	if err := os.WriteFile(path, []byte(page.HTML), 0o644); err != nil {
		return "", ferrors.FileSystemError("cannot write index").
			Fatal().
			WithContext("output", path).
			WithCause(err).
			Build()
	}
	return path, nil
}
