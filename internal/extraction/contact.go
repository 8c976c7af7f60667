package extraction

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	// Indian mobile numbers, optionally prefixed with +91 or a trunk zero.
	phonePattern = regexp.MustCompile(`(?:\+91[\s-]?|0)?[6-9]\d{9}`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// ExtractEmail returns the first email address in text or "".
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhones returns every mobile number in text normalized to +91XXXXXXXXXX,
// deduplicated in order of first appearance.
func ExtractPhones(text string) []string {
	var (
		phones []string
		seen   = map[string]struct{}{}
	)

	for _, raw := range phonePattern.FindAllString(text, -1) {
		normalized := NormalizePhone(raw)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		phones = append(phones, normalized)
	}

	return phones
}

// NormalizePhone keeps the last ten digits of raw behind a +91 prefix.
// It returns "" when raw holds fewer than ten digits.
func NormalizePhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) < 10 {
		return ""
	}
	return "+91" + digits[len(digits)-10:]
}

// ExtractPhone returns the first normalized mobile number or "".
func ExtractPhone(text string) string {
	phones := ExtractPhones(text)
	if len(phones) == 0 {
		return ""
	}
	return phones[0]
}

// Contact is the email and phone information of a resume.
type Contact struct {
	Email  string   `json:"email,omitempty"`
	Phone  string   `json:"phone,omitempty"`
	Phones []string `json:"phones,omitempty"`
}

// ExtractContact returns the first email, the first phone and every phone found.
func ExtractContact(text string) Contact {
	phones := ExtractPhones(text)

	c := Contact{Email: ExtractEmail(text), Phones: phones}
	if len(phones) > 0 {
		c.Phone = phones[0]
	}
	return c
}

var urlPattern = regexp.MustCompile(`(?i)(https?://[^\s]+|www\.[^\s]+|linkedin\.com/in/[\w\-]+)`)

// ExtractLinks picks LinkedIn and GitHub URLs. The last match of each kind wins.
func ExtractLinks(text string) Links {
	var links Links
	for _, url := range urlPattern.FindAllString(text, -1) {
		lower := strings.ToLower(url)
		switch {
		case strings.Contains(lower, "linkedin.com"):
			links.LinkedIn = withScheme(url)
		case strings.Contains(lower, "github.com"):
			links.GitHub = withScheme(url)
		}
	}
	return links
}

func withScheme(url string) string {
	if strings.HasPrefix(url, "http") {
		return url
	}
	return "https://" + url
}
