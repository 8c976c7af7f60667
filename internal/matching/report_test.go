package matching

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/extraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmbedder struct {
	vectors [][]float32
	err     error
	texts   []string
}

func (s *stubEmbedder) Embed(_ context.Context, texts ...string) ([][]float32, error) {
	s.texts = append(s.texts, texts...)
	return s.vectors, s.err
}

func TestFuzzySkillMatch(t *testing.T) {
	t.Parallel()

	near := FuzzySkillMatch([]string{"React"}, []string{"React.js"})
	assert.Empty(t, near.Matching)
	assert.Empty(t, near.Missing)
	require.Len(t, near.NearMatches, 1)
	assert.Equal(t, NearMatch{Required: "React.js", Candidate: "React", Similarity: 76.9}, near.NearMatches[0])
	assert.Equal(t, 70.0, near.Score)
	assert.Equal(t, "0 exact matches, 1 similar skill", near.Explanation)

	mixed := FuzzySkillMatch([]string{"python", "Docker"}, []string{"Python", "Kubernetes", "Go"})
	assert.Equal(t, []string{"Python"}, mixed.Matching)
	assert.Equal(t, []string{"Kubernetes", "Go"}, mixed.Missing)
	assert.Equal(t, 33.33, mixed.Score)
	assert.Equal(t, "1 exact match, missing 2 skills", mixed.Explanation)

	assert.Equal(t, "No specific skills required", FuzzySkillMatch([]string{"Go"}, nil).Explanation)
	assert.Equal(t, 70.0, FuzzySkillMatch([]string{"Go"}, nil).Score)

	empty := FuzzySkillMatch(nil, []string{"Go"})
	assert.Zero(t, empty.Score)
	assert.Equal(t, "Candidate has no listed skills", empty.Explanation)
	assert.Equal(t, []string{"Go"}, empty.Missing)
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, similarity("Python", "python"))
	assert.InDelta(t, 0.769, similarity("React.js", "React"), 0.001)
	assert.Zero(t, similarity("abc", "xyz"))
}

func TestExperienceMatch(t *testing.T) {
	t.Parallel()

	entries := func(n int) []extraction.Experience {
		return make([]extraction.Experience, n)
	}

	cases := []struct {
		name     string
		entries  []extraction.Experience
		required float64
		text     string
		want     ExperienceResult
	}{
		{
			name:    "no requirement",
			entries: entries(3),
			want:    ExperienceResult{Score: 80, Years: 6, Explanation: "Candidate has ~6 years (no minimum required)"},
		},
		{
			name:     "explicit phrase overrides the estimate",
			entries:  entries(1),
			required: 5,
			text:     "8 years of experience in payments",
			want:     ExperienceResult{Score: 100, Years: 8, Explanation: "Significantly exceeds requirement (8 vs 5 years)"},
		},
		{
			name:     "meets",
			entries:  entries(2),
			required: 4,
			want:     ExperienceResult{Score: 90, Years: 4, Explanation: "Meets requirement (4 vs 4 years)"},
		},
		{
			name:     "slightly below",
			required: 4,
			text:     "3 years of experience",
			want:     ExperienceResult{Score: 70, Years: 3, Explanation: "Slightly below requirement (3 vs 4 years)"},
		},
		{
			name:     "half",
			required: 4,
			text:     "2 years experience",
			want:     ExperienceResult{Score: 50, Years: 2, Explanation: "Half the required experience (2 vs 4 years)"},
		},
		{
			name:     "far below",
			required: 4,
			text:     "1 year experience",
			want:     ExperienceResult{Score: 30, Years: 1, Explanation: "Significantly below requirement (1 vs 4 years)"},
		},
		{
			name:     "nothing known",
			required: 3,
			want:     ExperienceResult{Score: 0, Years: 0, Explanation: "No experience information found"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExperienceMatch(tc.entries, tc.required, tc.text))
		})
	}
}

func TestEducationMatch(t *testing.T) {
	t.Parallel()

	degrees := func(names ...string) []extraction.Education {
		out := make([]extraction.Education, 0, len(names))
		for _, n := range names {
			out = append(out, extraction.Education{Degree: n})
		}
		return out
	}

	cases := []struct {
		name      string
		education []extraction.Education
		required  string
		score     float64
		text      string
	}{
		{name: "no requirement", education: degrees("B.Tech"), score: 80, text: "No specific education requirement"},
		{name: "no education", required: "Bachelor", score: 40, text: "No education information provided"},
		{name: "exceeds", education: degrees("B.Tech", "MBA"), required: "Bachelor", score: 100, text: "Meets requirement (MBA)"},
		{name: "one below", education: degrees("B.Tech"), required: "Master's degree", score: 70, text: "One level below requirement (B.Tech)"},
		{name: "far below", education: degrees("Diploma in Design"), required: "PhD", score: 40, text: "Below requirement (Diploma in Design)"},
		{name: "unknown degree", education: degrees("Certificate"), required: "Bachelor", score: 40, text: "Below requirement (Unknown)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := EducationMatch(tc.education, tc.required)
			assert.Equal(t, tc.score, got.Score)
			assert.Equal(t, tc.text, got.Explanation)
		})
	}
}

func TestRecommendationFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score float64
		tier  Tier
		text  string
	}{
		{score: 100, tier: TierStronglyRecommended, text: "Strongly Recommended - Excellent match for the role"},
		{score: 85, tier: TierStronglyRecommended, text: "Strongly Recommended - Excellent match for the role"},
		{score: 84.99, tier: TierRecommended, text: "Recommended - Good match with minor gaps that can be addressed"},
		{score: 70, tier: TierRecommended, text: "Recommended - Good match with minor gaps that can be addressed"},
		{score: 55, tier: TierConsider, text: "Consider with Reservations - Notable gaps exist"},
		{score: 54.99, tier: TierNotRecommended, text: "Not Recommended - Significant gaps in requirements"},
		{score: 0, tier: TierNotRecommended, text: "Not Recommended - Significant gaps in requirements"},
	}

	for _, tc := range cases {
		tier, text := RecommendationFor(tc.score)
		assert.Equal(t, tc.tier, tier, "score %v", tc.score)
		assert.Equal(t, tc.text, text, "score %v", tc.score)
	}
}

func TestOverallScoreTierUsesUnroundedValue(t *testing.T) {
	t.Parallel()

	// 99.99*0.40 + 100*0.25 + 25*0.20 = 69.996
	score, tier, text := overallScore(99.99, 100, 25, 0)
	assert.Equal(t, 70.0, score)
	assert.Equal(t, TierConsider, tier)
	assert.Equal(t, "Consider with Reservations - Notable gaps exist", text)

	score, tier, _ = overallScore(100, 100, 25, 0)
	assert.Equal(t, 70.0, score)
	assert.Equal(t, TierRecommended, tier)
}

func TestSemanticScore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	score, err := New(nil).SemanticScore(ctx, "resume", "job")
	assert.ErrorIs(t, err, ai.ErrUnavailable)
	assert.Equal(t, 50.0, score)

	emb := &stubEmbedder{vectors: [][]float32{{1, 0}, {1, 1}}}
	m := New(nil, WithEmbedder(emb))

	long := strings.Repeat("é", 5000)
	score, err = m.SemanticScore(ctx, long, "backend role")
	require.NoError(t, err)
	assert.Equal(t, 70.71, score)
	require.Len(t, emb.texts, 2)
	assert.Equal(t, semanticWindow, utf8.RuneCountInString(emb.texts[0]))
	assert.Equal(t, "backend role", emb.texts[1])

	score, err = m.SemanticScore(ctx, "", "backend role")
	require.NoError(t, err)
	assert.Equal(t, 50.0, score)

	opposite := New(nil, WithEmbedder(&stubEmbedder{vectors: [][]float32{{1, 0}, {-1, 0}}}))
	score, err = opposite.SemanticScore(ctx, "a", "b")
	require.NoError(t, err)
	assert.Zero(t, score)

	broken := New(nil, WithEmbedder(&stubEmbedder{err: errors.New("boom")}))
	score, err = broken.SemanticScore(ctx, "a", "b")
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, 50.0, score)
}

func TestGenerateMatchReport(t *testing.T) {
	t.Parallel()

	profile := &extraction.Profile{
		Name:       "Rahul Sharma",
		Skills:     []string{"Python", "React", "Docker"},
		Experience: []extraction.Experience{{Duration: "2018 - 2020"}, {Duration: "2020 - Present"}},
		Education:  []extraction.Education{{Degree: "B.Tech"}},
	}
	job := JobProfile{
		RequiredSkills:  []string{"Python", "React.js", "Kubernetes"},
		Description:     "We need a backend developer",
		ExperienceYears: 3,
		EducationLevel:  "Bachelor",
	}
	emb := &stubEmbedder{vectors: [][]float32{{0.6, 0.8}, {0.6, 0.8}}}

	report := New(nil, WithEmbedder(emb)).GenerateMatchReport(
		context.Background(), profile, job, "Backend developer with 5 years of experience",
	)
	require.NotNil(t, report)

	assert.Equal(t, 56.67, report.SkillMatchScore)
	assert.Equal(t, 100.0, report.SemanticScore)
	assert.Equal(t, 100.0, report.ExperienceMatchScore)
	assert.Equal(t, 100.0, report.EducationMatchScore)
	assert.Equal(t, 82.67, report.OverallScore)
	assert.Equal(t, TierRecommended, report.Tier)
	assert.Equal(t, "Recommended - Good match with minor gaps that can be addressed", report.Recommendation)

	assert.Equal(t, []string{"Python"}, report.MatchingSkills)
	assert.Equal(t, []string{"Kubernetes"}, report.MissingSkills)
	require.Len(t, report.NearMatchingSkills, 1)
	assert.Equal(t, "React", report.NearMatchingSkills[0].Candidate)
	assert.Equal(t, "1 exact match, 1 similar skill, missing 1 skill", report.SkillExplanation)
	assert.Equal(t, 5.0, report.ExperienceYears)

	assert.Equal(t, []string{
		"Has similar skills in 1 areas",
		"Highly relevant experience based on resume content",
		"Excellent experience (5 years)",
		"Meets or exceeds education requirements",
	}, report.Strengths)
	assert.Equal(t, []string{"No major concerns identified"}, report.Concerns)
	assert.Equal(t, []string{
		"How would you approach learning Kubernetes?",
		"Can you describe your experience with the key technologies listed in your resume?",
		"What projects have you worked on that are most similar to this role?",
		"How do you stay updated with industry trends and new technologies?",
	}, report.RecommendedQuestions)
	assert.Empty(t, report.Warnings)
}

func TestGenerateMatchReportDegrades(t *testing.T) {
	t.Parallel()

	report := New(nil).GenerateMatchReport(context.Background(), nil, JobProfile{}, "")

	assert.Equal(t, 50.0, report.SkillMatchScore)
	assert.Equal(t, 50.0, report.SemanticScore)
	assert.Equal(t, 80.0, report.ExperienceMatchScore)
	assert.Equal(t, 80.0, report.EducationMatchScore)
	assert.Equal(t, 60.5, report.OverallScore)
	assert.Equal(t, TierConsider, report.Tier)
	assert.Equal(t, []string{"No major concerns identified"}, report.Concerns)
	assert.Len(t, report.RecommendedQuestions, 3)
	assert.Equal(t, []string{
		"no candidate profile supplied",
		"semantic similarity unavailable, using neutral score",
	}, report.Warnings)
}

func TestGenerateMatchReportQuestions(t *testing.T) {
	t.Parallel()

	profile := &extraction.Profile{Skills: []string{"Cobol"}}
	job := JobProfile{RequiredSkills: []string{"Scala", "Haskell", "Erlang", "Elixir"}, ExperienceYears: 5}

	report := New(nil).GenerateMatchReport(context.Background(), profile, job, "")

	require.Len(t, report.RecommendedQuestions, maxQuestions)
	assert.Equal(t, "How would you approach learning Scala, Haskell, Erlang?", report.RecommendedQuestions[0])
	assert.Equal(t,
		"Can you describe a challenging project where you exceeded expectations despite limited experience?",
		report.RecommendedQuestions[1],
	)
	assert.Contains(t, report.Concerns, "Missing 4 key skills")
	assert.Contains(t, report.Concerns, "May lack sufficient experience for this role")
	assert.Equal(t, TierNotRecommended, report.Tier)
}
