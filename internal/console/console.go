// Package console prints user-facing progress lines for a conversion run.
//
// Diagnostics go through log/slog on stderr; this package owns the short
// human-readable status lines on stdout.
package console

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// warnStyle for degraded-but-finished results
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// tagStyle for document types
	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	// boxStyle for the run summary
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// Printer writes status lines to w. A nil *Printer discards everything.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to w.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Discard returns a Printer that writes nothing.
func Discard() *Printer {
	return &Printer{w: io.Discard}
}

func (p *Printer) println(s string) {
	if p == nil || p.w == nil {
		return
	}
	_, _ = fmt.Fprintln(p.w, s)
}

// Start announces a run.
func (p *Printer) Start(source, output string) {
	p.println(fmt.Sprintf("%s %s %s %s",
		titleStyle.Render("Converting documentation"),
		dimStyle.Render(source), dimStyle.Render("->"), dimStyle.Render(output)))
}

// TemplatesCreated lists templates synthesized this run.
func (p *Printer) TemplatesCreated(paths []string) {
	if len(paths) == 0 {
		return
	}
	p.println(fmt.Sprintf("%s %d in %s", successStyle.Render("Created templates:"), len(paths), dimStyle.Render(filepath.Dir(paths[0]))))
}

// Found reports the scan result.
func (p *Printer) Found(n int) {
	p.println(fmt.Sprintf("%s %d markdown files", dimStyle.Render("Found"), n))
}

// Converted reports one successful document.
func (p *Printer) Converted(rel, docType string) {
	p.println(fmt.Sprintf("  %s %s %s", successStyle.Render("ok"), rel, tagStyle.Render("("+docType+")")))
}

// Failed reports one document that could not be converted.
func (p *Printer) Failed(rel string, err error) {
	p.println(fmt.Sprintf("  %s %s: %v", errorStyle.Render("error"), rel, err))
}

// Removed reports a stale page deleted after its source went away.
func (p *Printer) Removed(rel string) {
	p.println(fmt.Sprintf("  %s %s", warnStyle.Render("removed"), rel))
}

// Index reports the written index page.
func (p *Printer) Index(path string, total, categories int) {
	p.println(fmt.Sprintf("%s %s %s", successStyle.Render("Generated index"), path,
		dimStyle.Render(fmt.Sprintf("(%d documents, %d categories)", total, categories))))
}

// Assets reports the asset copy outcome.
func (p *Printer) Assets(copied bool, dst string) {
	if !copied {
		p.println(dimStyle.Render("No styles to copy"))
		return
	}
	p.println(fmt.Sprintf("%s %s", successStyle.Render("Copied assets to"), dst))
}

// Summary renders the run summary box: documents found against documents
// converted.
func (p *Printer) Summary(found, converted, failed int, elapsed time.Duration) {
	status := successStyle.Render("OK")
	if failed > 0 {
		status = warnStyle.Render("PARTIAL")
	}
	line := fmt.Sprintf("%s %d  %s %d  %s %d  %s %.2fs  %s",
		dimStyle.Render("Found:"), found,
		dimStyle.Render("Converted:"), converted,
		dimStyle.Render("Failed:"), failed,
		dimStyle.Render("Took:"), elapsed.Seconds(),
		status)
	p.println(boxStyle.Render(titleStyle.Render("Conversion complete") + "\n" + line))
}

// Watching announces watch mode.
func (p *Printer) Watching(dir string) {
	p.println(fmt.Sprintf("%s %s %s", titleStyle.Render("Watching for changes in"), dir, dimStyle.Render("(Ctrl+C to stop)")))
}

// Change reports a filesystem event picked up in watch mode.
func (p *Printer) Change(op, rel string) {
	p.println(fmt.Sprintf("%s %s", tagStyle.Render(op+":"), rel))
}

// Updated reports a finished watch-mode rebuild.
func (p *Printer) Updated(full bool) {
	if full {
		p.println(successStyle.Render("Documentation regenerated"))
		return
	}
	p.println(successStyle.Render("Conversion updated"))
}
