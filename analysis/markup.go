package analysis

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup turns editor HTML into plain text with collapsed whitespace.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	// keep words in adjacent blocks apart once the tags are gone
	spaced := strings.ReplaceAll(s, "<", " <")
	text := html.UnescapeString(strictPolicy.Sanitize(spaced))
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Preview is the plain-text, length-capped rendition of an entry body.
func Preview(content string, max int) string {
	return Truncate(StripMarkup(content), max)
}
