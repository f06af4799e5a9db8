package analysis

import "regexp"

type piiPattern struct {
	re          *regexp.Regexp
	placeholder string
}

// Order matters: URLs and emails go first so their digits are not eaten by
// the numeric patterns, and the specific numeric shapes run before the loose
// phone pattern.
var piiPatterns = []piiPattern{
	{regexp.MustCompile(`https?://[^\s<>"']+`), "[URL]"},
	{regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), "[EMAIL]"},
	{regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`), "[CARD]"},
	{regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[ID]"},
	{regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`), "[IP]"},
	{regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`), "[PHONE]"},
}

// Sanitize replaces PII-shaped substrings with fixed placeholders. Every
// string sent to an AI or memory vendor goes through here first.
func Sanitize(text string) string {
	for _, p := range piiPatterns {
		text = p.re.ReplaceAllString(text, p.placeholder)
	}
	return text
}
