package document

import "strings"

// SanitizeText drops NUL bytes and control characters other than
// newline, tab and carriage return, then trims surrounding whitespace.
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == 0 {
			continue
		}
		if r < 32 && r != '\n' && r != '\t' && r != '\r' {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}
