// Package markup renders the markdown stored in content records.
package markup

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Raw HTML in the source is dropped; goldmark escapes it by default.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(highlighting.WithStyle("monokai")),
	),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// HTML converts markdown to sanitized HTML safe to embed in templates.
func HTML(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// MustHTML is HTML for content compiled into the binary, where a render
// failure is a programming error.
func MustHTML(src string) template.HTML {
	out, err := HTML(src)
	if err != nil {
		panic(err)
	}
	return out
}
