// Package integration runs docpages end to end against fixture trees and
// compares the generated site with golden files.
package integration

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docpages/internal/classify"
	"git.home.luguber.info/inful/docpages/internal/console"
	"git.home.luguber.info/inful/docpages/internal/markdown"
	"git.home.luguber.info/inful/docpages/internal/pipeline"
)

// SiteStructure is the part of a generated site that golden files pin down.
// Page bodies and dates are left out so the files stay stable.
type SiteStructure struct {
	Pages     map[string]PageInfo `json:"pages"`
	Index     []IndexGroup        `json:"index"`
	TotalDocs int                 `json:"totalDocs"`
}

// PageInfo describes one converted page.
type PageInfo struct {
	DocType string `json:"docType"`
	Title   string `json:"title"`
}

// IndexGroup is one navigation section of index.html.
type IndexGroup struct {
	Label string   `json:"label"`
	Links []string `json:"links"`
}

// runGoldenTest converts sourceDir with the given policy and compares the
// resulting site against goldenPath.
func runGoldenTest(t *testing.T, sourceDir string, policy classify.Policy, goldenPath string, updateGolden bool) {
	t.Helper()

	work := t.TempDir()
	outputDir := filepath.Join(work, "site")
	driver := pipeline.New(pipeline.Options{
		Source:    sourceDir,
		Output:    outputDir,
		Templates: filepath.Join(work, "templates"),
		Styles:    filepath.Join(work, "styles"),
		Policy:    policy,
		Markdown:  markdown.DefaultOptions(),
		Printer:   console.Discard(),
	})

	report, err := driver.Build(context.Background())
	require.NoError(t, err, "build failed")
	require.Empty(t, report.Failures, "unexpected per-document failures")

	verifySiteStructure(t, outputDir, goldenPath, updateGolden)
}

func verifySiteStructure(t *testing.T, outputDir, goldenPath string, updateGolden bool) {
	t.Helper()

	actual := collectSiteStructure(t, outputDir)
	actualJSON, err := json.MarshalIndent(actual, "", "  ")
	require.NoError(t, err)

	if updateGolden {
		require.NoError(t, os.MkdirAll(filepath.Dir(goldenPath), 0o750), "failed to create golden directory")
		require.NoError(t, os.WriteFile(goldenPath, append(actualJSON, '\n'), 0o600), "failed to write golden file")
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	// #nosec G304 -- test utility reading golden file from testdata
	goldenData, err := os.ReadFile(goldenPath)
	require.NoError(t, err, "failed to read golden file: %s", goldenPath)

	var expected SiteStructure
	require.NoError(t, json.Unmarshal(goldenData, &expected), "failed to parse golden site structure")
	expectedJSON, err := json.MarshalIndent(expected, "", "  ")
	require.NoError(t, err)

	require.JSONEq(t, string(expectedJSON), string(actualJSON), "site structure mismatch (run with -update-golden to refresh)")
}

func collectSiteStructure(t *testing.T, outputDir string) SiteStructure {
	t.Helper()

	site := SiteStructure{Pages: map[string]PageInfo{}}
	err := filepath.WalkDir(outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "assets" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".html" {
			return nil
		}
		rel, err := filepath.Rel(outputDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		doc := parseHTMLFile(t, path)
		if rel == "index.html" {
			site.Index, site.TotalDocs = indexStructure(t, doc)
			return nil
		}
		body := findElement(doc, func(n *html.Node) bool { return n.Data == "body" })
		require.NotNil(t, body, "page %s has no body", rel)
		site.Pages[rel] = PageInfo{
			DocType: attr(body, "data-doc-type"),
			Title:   textOf(findElement(doc, func(n *html.Node) bool { return n.Data == "title" })),
		}
		return nil
	})
	require.NoError(t, err)
	return site
}

func indexStructure(t *testing.T, doc *html.Node) ([]IndexGroup, int) {
	t.Helper()

	var groups []IndexGroup
	for _, section := range findAll(doc, func(n *html.Node) bool { return n.Data == "div" && hasClass(n, "nav-section") }) {
		group := IndexGroup{Label: textOf(findElement(section, func(n *html.Node) bool { return n.Data == "h3" }))}
		for _, a := range findAll(section, func(n *html.Node) bool { return n.Data == "a" }) {
			group.Links = append(group.Links, attr(a, "href"))
		}
		groups = append(groups, group)
	}

	stat := findElement(doc, func(n *html.Node) bool { return n.Data == "div" && hasClass(n, "stat-number") })
	require.NotNil(t, stat, "index has no document count")
	total, err := strconv.Atoi(textOf(stat))
	require.NoError(t, err, "document count is not a number")
	return groups, total
}

func parseHTMLFile(t *testing.T, path string) *html.Node {
	t.Helper()
	// #nosec G304 -- test utility reading generated output
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	doc, err := html.Parse(f)
	require.NoError(t, err, "failed to parse %s", path)
	return doc
}

func findElement(root *html.Node, match func(*html.Node) bool) *html.Node {
	if found := findAll(root, match); len(found) > 0 {
		return found[0]
	}
	return nil
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	return strings.Contains(" "+attr(n, "class")+" ", " "+class+" ")
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
