// Package markdown converts author Markdown into the HTML stored next to it.
package markdown

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var (
	// Content comes from the single trusted admin, so raw HTML is kept.
	engine = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM, // tables, strikethrough, task lists, autolinks
			extension.Footnote,
			extension.DefinitionList,
			extension.Typographer,
		),
		goldmark.WithParserOptions(parser.WithHeadingAttribute()),
		goldmark.WithRendererOptions(htmlrenderer.WithUnsafe()),
	)
	textOnly = bluemonday.StrictPolicy()
)

// Render converts Markdown to HTML. It is deterministic and has no side effects.
func Render(source string) string {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(source), &buf); err != nil {
		log.Error().Err(err).Msg("markdown conversion failed")
		return ""
	}
	return buf.String()
}

// Excerpt returns the first limit runes of the visible text of rendered HTML,
// whitespace collapsed, with an ellipsis when cut.
func Excerpt(renderedHTML string, limit int) string {
	plain := html.UnescapeString(textOnly.Sanitize(renderedHTML))
	plain = strings.Join(strings.Fields(plain), " ")
	if plain == "" || limit <= 0 {
		return ""
	}

	if utf8.RuneCountInString(plain) <= limit {
		return plain
	}

	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
