package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docpages/internal/classify"
	"git.home.luguber.info/inful/docpages/internal/docs"
	ferrors "git.home.luguber.info/inful/docpages/internal/foundation/errors"
)

const testTemplate = "<h1>{{TITLE}}</h1><p>{{TOTAL_DOCS}}/{{CATEGORY_COUNT}}/{{LAST_UPDATED}}</p><nav>{{NAVIGATION}}</nav>"

func entry(title, url string, tag classify.Tag) docs.NavigationEntry {
	return docs.NavigationEntry{Title: title, URL: url, Tag: tag}
}

func TestLabel(t *testing.T) {
	tests := map[classify.Tag]string{
		classify.TagFramework: "Framework",
		classify.TagPlaybook:  "Playbooks",
		classify.TagTemplate:  "Templates",
		classify.TagRules:     "Rules",
		classify.TagStandard:  "Other",
	}
	for tag, want := range tests {
		assert.Equal(t, want, Label(tag), tag)
	}
}

func TestGroups_FixedOrderAndOmitsEmpty(t *testing.T) {
	groups := Groups([]docs.NavigationEntry{
		entry("A", "a.html", classify.TagStandard),
		entry("B", "b.html", classify.TagFramework),
		entry("C", "c.html", classify.TagStandard),
		entry("D", "d.html", classify.Tag("bogus")),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, classify.TagFramework, groups[0].Tag)
	assert.Equal(t, classify.TagStandard, groups[1].Tag)
	titles := make([]string, 0, len(groups[1].Entries))
	for _, e := range groups[1].Entries {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"A", "C", "D"}, titles)
}

func TestBuild_CountsAndNavigation(t *testing.T) {
	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	page := Build([]docs.NavigationEntry{
		entry("Ops <Guide>", "guides/ops.html", classify.TagPlaybook),
		entry("Readme", "readme.html", classify.TagStandard),
		entry("Daily", "daily.html", classify.TagPlaybook),
	}, Options{Template: testTemplate, Title: "My Docs", Now: now})

	assert.Equal(t, 3, page.TotalDocs)
	assert.Equal(t, 2, page.CategoryCount)
	assert.Contains(t, page.HTML, "<h1>My Docs</h1>")
	assert.Contains(t, page.HTML, "<p>3/2/2025-01-02</p>")
	assert.Contains(t, page.HTML,
		`<li><a href="guides/ops.html" class="nav-link" data-type="playbook">Ops &lt;Guide&gt;</a></li>`)
	assert.Contains(t, page.HTML, "<h3>Playbooks</h3>")
	assert.Contains(t, page.HTML, "<h3>Other</h3>")
	assert.NotContains(t, page.HTML, "<h3>Framework</h3>")
	assert.Less(t, strings.Index(page.HTML, "Playbooks"), strings.Index(page.HTML, "Other"))
	assert.Less(t, strings.Index(page.HTML, "Ops &lt;"), strings.Index(page.HTML, "Daily"))
}

func TestBuild_LastUpdatedIsUTC(t *testing.T) {
	// 23:30 on Jan 1 at UTC-5 is already Jan 2 in UTC.
	now := time.Date(2025, 1, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*60*60))
	page := Build(nil, Options{Template: testTemplate, Now: now})

	assert.Contains(t, page.HTML, "<p>0/0/2025-01-02</p>")
}

func TestBuild_Empty(t *testing.T) {
	page := Build(nil, Options{Template: testTemplate})

	assert.Equal(t, 0, page.TotalDocs)
	assert.Equal(t, 0, page.CategoryCount)
	assert.Contains(t, page.HTML, "<h1>Documentation</h1>")
	assert.Contains(t, page.HTML, "<nav></nav>")
}

func TestWrite(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site")

	path, err := Write(out, Page{HTML: "<html></html>"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestWrite_FailureIsFatal(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(out, FileName), 0o750))

	_, err := Write(out, Page{HTML: "x"})

	require.Error(t, err)
	assert.True(t, ferrors.HasSeverity(err, ferrors.SeverityFatal))
}
