package templates

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// ErrNoStyleBlock is returned when a page has no non-empty <style> element.
var ErrNoStyleBlock = errors.New("no style block found")

// ExtractBaseCSS reads an HTML page and returns the text of its first non-empty
// <style> element.
func ExtractBaseCSS(path string) (string, error) {
	// #nosec G304 -- path is an operator-supplied style source.
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read style source: %w", err)
	}
	return parseBaseCSS(data)
}

func parseBaseCSS(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse style source: %w", err)
	}

	var css string
	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "style" {
			if text := strings.TrimSpace(extractText(n)); text != "" {
				css = text
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if !walk(doc) {
		return "", ErrNoStyleBlock
	}
	return css, nil
}

func extractText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
