package extraction

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

const (
	nerWindow      = 1500
	nameScanLines  = 15
	minNameLineLen = 3
	maxNameLineLen = 60
)

// NameCandidate is one possible candidate name with its ranking.
type NameCandidate struct {
	Name       string `json:"name"`
	Confidence int    `json:"confidence"`
	Source     string `json:"source"`
}

type nameHit struct {
	text  string
	index int
}

// nameRule describes one source of name candidates. A hit found at index i
// scores confidence - decay*i.
type nameRule struct {
	source     string
	confidence int
	decay      int
	collect    func(e *Extractor, text, filename string, warn func(string, ...any)) []nameHit
	accept     func(string) bool
}

var nameRules = []nameRule{
	{source: "filename", confidence: 95, collect: filenameHits, accept: IsValidName},
	{source: "entities", confidence: 90, collect: entityHits, accept: IsValidName},
	{source: "line_scan", confidence: 85, decay: 5, collect: lineScanHits, accept: IsValidName},
}

var (
	fileExtensions   = []string{".pdf", ".docx", ".doc", ".txt"}
	fileDashPrefix   = regexp.MustCompile(`^\d+\s*-\s*`)
	fileSpacePrefix  = regexp.MustCompile(`^\d+\s+`)
	fileDocWords     = toSet([]string{"resume", "cv", "curriculum", "vitae"})
	fileNonNameParts = []string{"resume", "cv", "curriculum", "vitae", "jd", "gmail", "com"}

	lineSkipParts = []string{
		"@", "http", "www", "resume", "curriculum", "cv",
		"phone", "email", "contact", "address", "objective",
		"summary", "experience", "education", "skills",
		"professional", "personal", "references", "declaration",
	}

	nonNameParts = []string{
		"mumbai", "delhi", "bangalore", "india", "experience", "professional",
		"bachelor", "master", "mba", "skills", "curriculum", "resume",
		"vitae", "objective", "summary", "contact", "email", "phone",
		"address", "location", "education", "qualification", "extra",
		"curricular", "about", "profile", "color", "pharma", "sciences",
		"company", "ltd", "pvt", "inc", "corp", "technologies", "solutions",
		"generalist", "recruiter", "manager", "engineer", "developer",
		"analyst", "consultant", "specialist", "executive", "officer",
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december",
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	}
)

func stripExtensions(name string) string {
	for _, ext := range fileExtensions {
		name = strings.ReplaceAll(name, ext, "")
	}
	return name
}

func filenameHits(_ *Extractor, _, filename string, _ func(string, ...any)) []nameHit {
	if filename == "" {
		return nil
	}

	name := stripExtensions(filename)
	name = fileDashPrefix.ReplaceAllString(name, "")
	name = fileSpacePrefix.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, "_", " ")

	words := make([]string, 0, 4)
	for _, w := range strings.Fields(name) {
		if _, ok := fileDocWords[strings.ToLower(w)]; ok {
			continue
		}
		words = append(words, w)
	}

	if len(words) < 2 || len(words) > 4 {
		return nil
	}
	if !startsUpper(words[0]) || !startsUpper(words[1]) {
		return nil
	}

	name = strings.Join(words, " ")
	if containsAny(strings.ToLower(name), fileNonNameParts) {
		return nil
	}

	return []nameHit{{text: name}}
}

func entityHits(e *Extractor, text, _ string, warn func(string, ...any)) []nameHit {
	if e.entities == nil {
		return nil
	}

	people, err := e.entities.People(head(text, nerWindow))
	if err != nil {
		warn("entity recognition failed: %v", err)
		return nil
	}

	hits := make([]nameHit, 0, len(people))
	for _, p := range people {
		hits = append(hits, nameHit{text: strings.TrimSpace(p)})
	}
	return hits
}

func lineScanHits(_ *Extractor, text, _ string, _ func(string, ...any)) []nameHit {
	var hits []nameHit

	lines := strings.Split(text, "\n")
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}

	for i, line := range lines {
		line = strings.TrimSpace(line)
		n := len([]rune(line))
		if n < minNameLineLen || n > maxNameLineLen {
			continue
		}
		if containsAny(strings.ToLower(line), lineSkipParts) {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}

		capitalized := 0
		for _, w := range words {
			if startsUpper(w) {
				capitalized++
			}
		}
		if capitalized < 2 {
			continue
		}

		hits = append(hits, nameHit{text: line, index: i})
	}

	return hits
}

// NameCandidates runs every name rule and returns the accepted candidates
// ordered by confidence, ties kept in discovery order.
func (e *Extractor) NameCandidates(text, filename string, warn func(string, ...any)) []NameCandidate {
	if warn == nil {
		warn = func(string, ...any) {}
	}

	var candidates []NameCandidate
	for _, rule := range nameRules {
		for _, hit := range rule.collect(e, text, filename, warn) {
			if rule.accept != nil && !rule.accept(hit.text) {
				continue
			}
			candidates = append(candidates, NameCandidate{
				Name:       hit.text,
				Confidence: rule.confidence - rule.decay*hit.index,
				Source:     rule.source,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	return candidates
}

// ExtractName returns the best ranked name, the cleaned filename when no
// candidate survives, or UnknownName.
func (e *Extractor) ExtractName(text, filename string) string {
	name, _ := e.extractName(text, filename)
	return name
}

func (e *Extractor) extractName(text, filename string) (string, []string) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	if candidates := e.NameCandidates(text, filename, warn); len(candidates) > 0 {
		return candidates[0].Name, warnings
	}

	if clean := strings.TrimSpace(stripExtensions(filename)); len([]rune(clean)) > 2 {
		warn("no name found in text, using filename %q", clean)
		return clean, warnings
	}

	warn("no name found")
	return UnknownName, warnings
}

// IsValidName reports whether text is shaped like a person's name.
func IsValidName(text string) bool {
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) < 3 || len(runes) > 60 {
		return false
	}
	if isUpperText(text) && len(runes) > 15 {
		return false
	}
	if isLowerText(text) {
		return false
	}

	words := strings.Fields(text)
	if len(words) < 2 || len(words) > 5 {
		return false
	}
	for _, w := range words {
		if len([]rune(w)) > 20 {
			return false
		}
	}

	lower := strings.ToLower(text)
	if containsAny(lower, nonNameParts) {
		return false
	}

	for _, r := range runes[:max(0, len(runes)-3)] {
		if unicode.IsDigit(r) {
			return false
		}
	}

	for _, r := range runes {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '.', ',', '\'', '-', ' ':
			continue
		}
		return false
	}

	if strings.Contains(text, "@") || strings.Contains(words[0], ".") || strings.Contains(lower, "www") {
		return false
	}

	return true
}
