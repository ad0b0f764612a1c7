// Package render converts stored markdown into sanitized HTML for display.
// It is a pure-function collaborator: no state, no storage access.
package render

import (
	"bytes"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	// UGCPolicy allows the formatting users legitimately produce in
	// descriptions and reviews while stripping scripts and event handlers.
	policy = bluemonday.UGCPolicy()
)

// SafeHTML renders markdown to HTML and sanitizes the result.
// The output is safe to embed in a page without further escaping.
func SafeHTML(markdown string) (string, error) {
	if markdown == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}

	return strings.TrimSpace(policy.Sanitize(buf.String())), nil
}

// SanitizeText strips any HTML markup from user-submitted text, leaving plain
// markdown source suitable for storage. Applied to review text before insert.
func SanitizeText(text string) string {
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(text))
}

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// NormalizeDescription converts pasted HTML descriptions to markdown before
// storage. Plain text and existing markdown pass through unchanged.
func NormalizeDescription(s string) string {
	if s == "" || !htmlTagPattern.MatchString(strings.ToLower(s)) {
		return strings.TrimSpace(s)
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		// If conversion fails, keep the original text.
		return strings.TrimSpace(s)
	}

	return strings.TrimSpace(markdown)
}
