package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/extraction"
	"go.uber.org/zap"
)

const (
	semanticWindow  = 3000
	neutralSemantic = 50.0
)

// Matcher produces full match reports. The zero value is not usable; build
// one with New.
type Matcher struct {
	logger   *zap.Logger
	embedder ai.Embedder
}

type Option func(*Matcher)

// WithEmbedder enables the semantic component of the report.
func WithEmbedder(e ai.Embedder) Option {
	return func(m *Matcher) {
		m.embedder = e
	}
}

func New(logger *zap.Logger, opts ...Option) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Matcher{logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SemanticScore is the cosine similarity of the embeddings of the first 3000
// characters of both texts, scaled to 0-100. It returns 50 and a non-nil
// error when embeddings are not configured or fail.
func (m *Matcher) SemanticScore(ctx context.Context, resumeText, jobDescription string) (float64, error) {
	if m.embedder == nil {
		return neutralSemantic, ai.ErrUnavailable
	}
	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jobDescription) == "" {
		return neutralSemantic, nil
	}

	vectors, err := m.embedder.Embed(ctx, headRunes(resumeText, semanticWindow), headRunes(jobDescription, semanticWindow))
	if err != nil {
		return neutralSemantic, fmt.Errorf("embedding texts: %w", err)
	}
	if len(vectors) != 2 {
		return neutralSemantic, fmt.Errorf("embedding texts: expected 2 vectors, got %d", len(vectors))
	}

	similarity, err := cosine(vectors[0], vectors[1])
	if err != nil {
		return neutralSemantic, err
	}

	return round(math.Max(0, math.Min(100, similarity*100)), 2), nil
}

func cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("vector sizes differ: %d and %d", len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, errors.New("zero vector")
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// ExperienceResult scores candidate years against a requirement.
type ExperienceResult struct {
	Score       float64 `json:"score"`
	Years       float64 `json:"years"`
	Explanation string  `json:"explanation"`
}

// ExperienceMatch estimates years as two per experience entry, overridden
// by an explicit "N years of experience" phrase in resumeText, and buckets
// the ratio to the required years.
func ExperienceMatch(entries []extraction.Experience, required float64, resumeText string) ExperienceResult {
	estimated := float64(len(entries)) * 2

	if required <= 0 {
		return ExperienceResult{
			Score:       80,
			Years:       estimated,
			Explanation: fmt.Sprintf("Candidate has ~%s years (no minimum required)", years(estimated)),
		}
	}

	if resumeText != "" {
		if match := extraction.ExplicitYearsPatterns[0].FindStringSubmatch(resumeText); match != nil {
			if n, err := strconv.Atoi(match[1]); err == nil {
				estimated = float64(n)
			}
		}
	}

	if estimated == 0 {
		return ExperienceResult{Score: 0, Years: 0, Explanation: "No experience information found"}
	}

	tiers := []struct {
		ratio float64
		score float64
		text  string
	}{
		{1.5, 100, "Significantly exceeds requirement"},
		{1, 90, "Meets requirement"},
		{0.75, 70, "Slightly below requirement"},
		{0.5, 50, "Half the required experience"},
		{0, 30, "Significantly below requirement"},
	}

	for _, tier := range tiers {
		if estimated >= required*tier.ratio {
			return ExperienceResult{
				Score:       tier.score,
				Years:       estimated,
				Explanation: fmt.Sprintf("%s (%s vs %s years)", tier.text, years(estimated), years(required)),
			}
		}
	}

	// unreachable, the last tier accepts everything
	return ExperienceResult{Score: 30, Years: estimated}
}

func years(v float64) string {
	return fmt.Sprintf("%g", v)
}

// EducationResult scores the candidate's highest degree against a requirement.
type EducationResult struct {
	Score       float64 `json:"score"`
	Degree      string  `json:"degree,omitempty"`
	Explanation string  `json:"explanation"`
}

type educationLevel struct {
	key   string
	level int
}

// educationLevels is ordered: the required level is the first key found.
var educationLevels = []educationLevel{
	{"phd", 5}, {"ph.d", 5}, {"ph.d.", 5}, {"doctorate", 5},
	{"master", 4}, {"mba", 4}, {"m.tech", 4}, {"m.e.", 4}, {"m.s", 4},
	{"bachelor", 3}, {"b.tech", 3}, {"b.e.", 3}, {"b.s", 3},
	{"diploma", 2},
	{"high school", 1},
}

// EducationMatch compares the best degree level found by substring against
// the level named in required.
func EducationMatch(education []extraction.Education, required string) EducationResult {
	if strings.TrimSpace(required) == "" {
		return EducationResult{Score: 80, Explanation: "No specific education requirement"}
	}
	if len(education) == 0 {
		return EducationResult{Score: 40, Explanation: "No education information provided"}
	}

	candidateLevel, highest := 0, "Unknown"
	for _, e := range education {
		degree := strings.ToLower(e.Degree)
		for _, l := range educationLevels {
			if strings.Contains(degree, l.key) && l.level > candidateLevel {
				candidateLevel, highest = l.level, e.Degree
			}
		}
	}

	requiredLevel := 0
	req := strings.ToLower(required)
	for _, l := range educationLevels {
		if strings.Contains(req, l.key) {
			requiredLevel = l.level
			break
		}
	}

	switch {
	case candidateLevel >= requiredLevel:
		return EducationResult{Score: 100, Degree: highest, Explanation: fmt.Sprintf("Meets requirement (%s)", highest)}
	case candidateLevel == requiredLevel-1:
		return EducationResult{Score: 70, Degree: highest, Explanation: fmt.Sprintf("One level below requirement (%s)", highest)}
	default:
		return EducationResult{Score: 40, Degree: highest, Explanation: fmt.Sprintf("Below requirement (%s)", highest)}
	}
}

// headRunes returns at most n runes of s.
func headRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
