package console

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPrinterLines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Start("docs", "docs-html")
	p.Found(3)
	p.Converted("guides/setup.md", "standard")
	p.Failed("bad.md", errors.New("boom"))
	p.Index("docs-html/index.html", 2, 1)
	p.Assets(false, "")
	p.Summary(3, 2, 1, 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "Converting documentation")
	assert.Contains(t, out, "3 markdown files")
	assert.Contains(t, out, "guides/setup.md")
	assert.Contains(t, out, "(standard)")
	assert.Contains(t, out, "bad.md: boom")
	assert.Contains(t, out, "(2 documents, 1 categories)")
	assert.Contains(t, out, "No styles to copy")
	assert.Contains(t, out, "Conversion complete")
	assert.Contains(t, out, "Found:")
	assert.Contains(t, out, "Converted:")
	assert.Contains(t, out, "PARTIAL")
	assert.Contains(t, out, "1.50s")
}

func TestPrinterWatchLines(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Watching("docs")
	p.Change("changed", "a.md")
	p.Removed("b.md")
	p.Updated(false)
	p.Updated(true)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[1], "a.md")
	assert.Contains(t, lines[3], "Conversion updated")
	assert.Contains(t, lines[4], "Documentation regenerated")
}

func TestPrinterTemplatesCreated(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.TemplatesCreated(nil)
	assert.Empty(t, buf.String())

	p.TemplatesCreated([]string{filepath.Join("tpl", "a.html"), filepath.Join("tpl", "b.html")})
	assert.Contains(t, buf.String(), "2 in ")
	assert.Contains(t, buf.String(), "tpl")
}

func TestNilPrinterIsSilent(t *testing.T) {
	var p *Printer
	assert.NotPanics(t, func() {
		p.Found(1)
		p.Summary(0, 0, 0, 0)
	})
	Discard().Found(1)
}
