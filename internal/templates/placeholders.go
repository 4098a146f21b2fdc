// Package templates holds the page skeletons, one per document tag plus the
// index, and performs placeholder substitution.
//
// Placeholders are upper-case names wrapped in double braces, for example
// {{TITLE}}. Substitution is exact, case-sensitive and replaces every
// occurrence in a single pass, so text inserted for one placeholder is never
// rescanned for others.
package templates

import (
	"regexp"
	"slices"
	"strings"
)

// Page placeholders.
const (
	Title        = "TITLE"
	Content      = "CONTENT"
	DocType      = "DOC_TYPE"
	LastModified = "LAST_MODIFIED"
	SourcePath   = "SOURCE_PATH"
	RootPath     = "ROOT_PATH"
)

// Index placeholders. The index also uses Title and RootPath.
const (
	Navigation    = "NAVIGATION"
	TotalDocs     = "TOTAL_DOCS"
	CategoryCount = "CATEGORY_COUNT"
	LastUpdated   = "LAST_UPDATED"
)

// BaseCSS is filled once when a built-in template is synthesized.
const BaseCSS = "BASE_CSS"

// PagePlaceholders and IndexPlaceholders are the names a template of each kind
// may reference.
var (
	PagePlaceholders  = []string{Title, Content, DocType, LastModified, SourcePath, RootPath}
	IndexPlaceholders = []string{Title, Navigation, TotalDocs, CategoryCount, LastUpdated, RootPath}
)

var tokenRe = regexp.MustCompile(`\{\{[A-Z][A-Z0-9_]*\}\}`)

// Token renders a placeholder name in its delimited form.
func Token(name string) string { return "{{" + name + "}}" }

// Values maps placeholder names (without braces) to replacement text.
type Values map[string]string

// Substitute replaces every occurrence of every placeholder in values.
// Tokens not present in values are left as they are.
func Substitute(body string, values Values) string {
	if len(values) == 0 {
		return body
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, Token(name), values[name])
	}
	return strings.NewReplacer(pairs...).Replace(body)
}

// Placeholders lists the distinct placeholder names referenced by body, in
// order of first appearance.
func Placeholders(body string) []string {
	var names []string
	for _, tok := range tokenRe.FindAllString(body, -1) {
		name := strings.TrimSuffix(strings.TrimPrefix(tok, "{{"), "}}")
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// Unknown returns placeholder names in body that are not in allowed.
func Unknown(body string, allowed []string) []string {
	var out []string
	for _, name := range Placeholders(body) {
		if !slices.Contains(allowed, name) {
			out = append(out, name)
		}
	}
	return out
}
