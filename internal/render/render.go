// Package render turns raw completion text into something safe to show.
//
// Completion output is untrusted: it may echo markup from the user's input or
// contain markup of its own. The HTML path renders it as Markdown with hard
// line breaks, then passes the result through a bluemonday UGC policy.
package render

import (
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// ToHTML renders md as HTML. Single newlines become <br>, matching how the
// response was originally displayed. The output is not sanitized.
func ToHTML(md string) string {
	opts := html.RendererOptions{
		Flags: html.FlagsNone,
	}
	renderer := html.NewRenderer(opts)
	ext := parser.CommonExtensions | parser.HardLineBreak
	p := parser.NewWithExtensions(ext)
	doc := p.Parse([]byte(normalizeNewlines(md)))
	return string(markdown.Render(doc, renderer))
}

// ToSafeHTML renders md and sanitizes it for direct insertion into a page.
func ToSafeHTML(md string) template.HTML {
	return template.HTML(policy.Sanitize(ToHTML(md)))
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
