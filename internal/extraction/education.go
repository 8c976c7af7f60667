package extraction

import (
	"regexp"
	"strings"
)

const institutionWindow = 100

// degreeRule maps a degree pattern to its canonical name. An empty
// canonical keeps the matched text.
type degreeRule struct {
	pattern   *regexp.Regexp
	canonical string
}

// Abbreviations are anchored on word boundaries. M.E. and B.E. are case
// sensitive so the words "me" and "be" do not count as degrees. Free text
// degree names stop at the end of the line.
var degreeRules = []degreeRule{
	{pattern: regexp.MustCompile(`(?i)\bMBA\b`), canonical: "MBA"},
	{pattern: regexp.MustCompile(`(?i)\bMCA\b`), canonical: "MCA"},
	{pattern: regexp.MustCompile(`(?i)\bM\.?Tech\b\.?`), canonical: "M.Tech"},
	{pattern: regexp.MustCompile(`\bM\.?E\b\.?`), canonical: "M.E."},
	{pattern: regexp.MustCompile(`(?i)\bMaster[ \t]+of[ \t]+[\w \t]+`)},
	{pattern: regexp.MustCompile(`(?i)\bM\.?S\.?[ \t]+in[ \t]+[\w \t]+`)},
	{pattern: regexp.MustCompile(`(?i)\bB\.?Tech\b\.?`), canonical: "B.Tech"},
	{pattern: regexp.MustCompile(`\bB\.?E\b\.?`), canonical: "B.E."},
	{pattern: regexp.MustCompile(`(?i)\bBachelor[ \t]+of[ \t]+[\w \t]+`)},
	{pattern: regexp.MustCompile(`(?i)\bB\.?S\.?[ \t]+in[ \t]+[\w \t]+`)},
	{pattern: regexp.MustCompile(`(?i)\bB\.?A\.?[ \t]+in[ \t]+[\w \t]+`)},
	{pattern: regexp.MustCompile(`(?i)\bPh\.?D\b\.?`), canonical: "Ph.D."},
}

var (
	institutionPattern = regexp.MustCompile(`([A-Z][\w \t]+(?:University|College|Institute|School)[\w \t]*)`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
)

// ExtractEducation scans degree rules in order and keeps the first
// occurrence of each degree, case-insensitively. An institution is looked
// up around every kept match.
func ExtractEducation(text string) []Education {
	var (
		education []Education
		seen      = map[string]struct{}{}
	)

	for _, rule := range degreeRules {
		for _, loc := range rule.pattern.FindAllStringIndex(text, -1) {
			degree := rule.canonical
			if degree == "" {
				degree = text[loc[0]:loc[1]]
			}
			degree = strings.TrimSpace(whitespaceRun.ReplaceAllString(degree, " "))

			key := strings.ToLower(degree)
			if len(degree) < 2 {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}

			education = append(education, Education{
				Degree:      degree,
				Institution: findInstitution(text, loc[0], loc[1]),
			})
		}
	}

	return education
}

func findInstitution(text string, start, end int) string {
	from := max(0, start-institutionWindow)
	to := min(len(text), end+institutionWindow)

	match := institutionPattern.FindStringSubmatch(text[from:to])
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
