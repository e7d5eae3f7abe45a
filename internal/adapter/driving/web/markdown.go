package web

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	bodyMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithUnsafe()),
	)
	bodyPolicy = newBodyPolicy()
)

// newBodyPolicy allows user-generated markup. Outbound links are marked
// nofollow and open in a new tab.
func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// RenderMarkdown converts an event body to sanitized HTML. Bodies arrive
// truncated, so unterminated constructs may render as plain text.
// Returns empty string for blank input.
func RenderMarkdown(src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := bodyMarkdown.Convert([]byte(src), &buf); err != nil {
		return html.EscapeString(src)
	}

	return bodyPolicy.Sanitize(buf.String())
}
