// Package excerpt derives plain-text post descriptions from Markdown
// content using goldmark. The content is rendered to HTML, stripped of
// markup, and truncated, so that headings, links, and emphasis don't leak
// their syntax into listing previews.
package excerpt

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // GitHub-Flavored Markdown: tables, strikethrough, autolinks
	),
)

// htmlTag matches any HTML tag left after rendering.
var htmlTag = regexp.MustCompile(`<[^>]*>`)

const (
	maxLines = 3
	maxChars = 80
)

// Derive produces a short plain-text description from Markdown content.
// Returns an empty string for empty content.
func Derive(content string) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		// Fall back to the raw content if the Markdown is unparseable.
		buf.Reset()
		buf.WriteString(content)
	}

	text := strings.ReplaceAll(buf.String(), "\n", " ")
	text = htmlTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = strings.TrimSpace(text)

	return firstNLinesOrChars(text, maxLines, maxChars) + "..."
}

// firstNLinesOrChars returns the first n lines or first numChars characters
// of the string, whichever comes first.
func firstNLinesOrChars(s string, n, numChars int) string {
	var lineCount, charCount int
	for i, r := range s {
		if r == '\n' {
			lineCount++
		}
		if lineCount >= n || charCount >= numChars {
			return s[:i]
		}
		charCount++
	}
	return s
}
