package core

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Notes come from the model or the client, so raw HTML, images and links to
// untrusted protocols are dropped.
const (
	notesHTMLFlags  = html.CommonFlags | html.HrefTargetBlank | html.NoopenerLinks | html.SkipHTML | html.SkipImages | html.Safelink
	notesExtensions = parser.CommonExtensions | parser.HardLineBreak
)

// renderNotes converts Markdown grammar notes to HTML. A parser cannot be
// reused between documents, so each call builds its own.
func renderNotes(notes string) string {
	if strings.TrimSpace(notes) == "" {
		return ""
	}
	renderer := html.NewRenderer(html.RendererOptions{Flags: notesHTMLFlags})
	p := parser.NewWithExtensions(notesExtensions)
	return strings.TrimSpace(string(markdown.ToHTML([]byte(notes), p, renderer)))
}
