package templates

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed builtin/*.html builtin/base.css
var builtinFS embed.FS

// IndexName is the registry name of the index template.
const IndexName = "index"

// Builtin returns the embedded template body for name (a tag or IndexName).
func Builtin(name string) (string, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("no built-in template %q: %w", name, err)
	}
	return string(data), nil
}

// BuiltinCSS returns the stylesheet used when no styled page supplies one.
func BuiltinCSS() string {
	data, err := builtinFS.ReadFile("builtin/base.css")
	if err != nil {
		return ""
	}
	return string(data)
}

// synthesize fills the built-in for name with css. Only BASE_CSS is replaced;
// every other placeholder is left for render time.
func synthesize(name, css string) (string, error) {
	body, err := Builtin(name)
	if err != nil {
		return "", err
	}
	return Substitute(body, Values{BaseCSS: strings.TrimRight(css, "\n")}), nil
}
