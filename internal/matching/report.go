package matching

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/extraction"
	"go.uber.org/zap"
)

const maxQuestions = 5

// Tier is the short form of a hiring recommendation.
type Tier string

const (
	TierStronglyRecommended Tier = "Strongly Recommended"
	TierRecommended         Tier = "Recommended"
	TierConsider            Tier = "Consider with Reservations"
	TierNotRecommended      Tier = "Not Recommended"
)

var recommendations = []struct {
	min  float64
	tier Tier
	text string
}{
	{85, TierStronglyRecommended, "Excellent match for the role"},
	{70, TierRecommended, "Good match with minor gaps that can be addressed"},
	{55, TierConsider, "Notable gaps exist"},
	{0, TierNotRecommended, "Significant gaps in requirements"},
}

// RecommendationFor maps an overall score to its tier and the long
// recommendation text.
func RecommendationFor(score float64) (Tier, string) {
	for _, r := range recommendations {
		if score >= r.min {
			return r.tier, fmt.Sprintf("%s - %s", r.tier, r.text)
		}
	}
	last := recommendations[len(recommendations)-1]
	return last.tier, fmt.Sprintf("%s - %s", last.tier, last.text)
}

// overallScore weights the component scores. The tier is picked from the
// unrounded value, only the reported score is rounded to two places.
func overallScore(skills, semantic, experience, education float64) (float64, Tier, string) {
	overall := skills*0.40 + semantic*0.25 + experience*0.20 + education*0.15
	tier, recommendation := RecommendationFor(overall)
	return round(overall, 2), tier, recommendation
}

// Report is the full, explained comparison of one candidate with one job.
type Report struct {
	OverallScore         float64     `json:"overall_score"`
	SkillMatchScore      float64     `json:"skill_match_score"`
	SemanticScore        float64     `json:"semantic_score"`
	ExperienceMatchScore float64     `json:"experience_match_score"`
	EducationMatchScore  float64     `json:"education_match_score"`
	MatchingSkills       []string    `json:"matching_skills"`
	NearMatchingSkills   []NearMatch `json:"near_matching_skills"`
	MissingSkills        []string    `json:"missing_skills"`
	SkillExplanation     string      `json:"skill_explanation"`
	ExperienceYears      float64     `json:"experience_years"`
	ExperienceNote       string      `json:"experience_explanation"`
	EducationNote        string      `json:"education_explanation"`
	Strengths            []string    `json:"strengths"`
	Concerns             []string    `json:"concerns"`
	RecommendedQuestions []string    `json:"recommended_questions"`
	Tier                 Tier        `json:"tier"`
	Recommendation       string      `json:"recommendation"`
	Warnings             []string    `json:"warnings,omitempty"`
}

// GenerateMatchReport weighs fuzzy skill overlap (40%), semantic similarity
// (25%), experience (20%) and education (15%). It never fails: a missing
// profile or an unavailable embedder yields neutral component scores and a
// warning.
func (m *Matcher) GenerateMatchReport(ctx context.Context, p *extraction.Profile, job JobProfile, resumeText string) *Report {
	var warnings []string
	if p == nil {
		p = &extraction.Profile{}
		warnings = append(warnings, "no candidate profile supplied")
	}

	skills := FuzzySkillMatch(p.Skills, job.RequiredSkills)

	semantic, err := m.SemanticScore(ctx, resumeText, job.Description)
	switch {
	case errors.Is(err, ai.ErrUnavailable):
		warnings = append(warnings, "semantic similarity unavailable, using neutral score")
	case err != nil:
		m.logger.Warn("semantic similarity failed", zap.Error(err))
		warnings = append(warnings, fmt.Sprintf("semantic similarity failed: %v", err))
	}

	experience := ExperienceMatch(p.Experience, job.ExperienceYears, resumeText)
	education := EducationMatch(p.Education, job.EducationLevel)

	overall, tier, recommendation := overallScore(skills.Score, semantic, experience.Score, education.Score)

	report := &Report{
		OverallScore:         overall,
		SkillMatchScore:      skills.Score,
		SemanticScore:        semantic,
		ExperienceMatchScore: experience.Score,
		EducationMatchScore:  education.Score,
		MatchingSkills:       skills.Matching,
		NearMatchingSkills:   skills.NearMatches,
		MissingSkills:        skills.Missing,
		SkillExplanation:     skills.Explanation,
		ExperienceYears:      experience.Years,
		ExperienceNote:       experience.Explanation,
		EducationNote:        education.Explanation,
		Strengths:            strengths(skills, semantic, experience, education),
		Concerns:             concerns(skills, semantic, experience, education),
		RecommendedQuestions: questions(skills, experience, job),
		Tier:                 tier,
		Recommendation:       recommendation,
		Warnings:             warnings,
	}

	m.logger.Debug("match report generated",
		zap.String("candidate", p.Name),
		zap.Float64("overall_score", report.OverallScore),
		zap.String("tier", string(report.Tier)),
	)

	return report
}

func strengths(skills SkillResult, semantic float64, experience ExperienceResult, education EducationResult) []string {
	var out []string
	if skills.Score >= 70 {
		out = append(out, fmt.Sprintf("Strong skill match (%d matching skills)", len(skills.Matching)))
	}
	if len(skills.NearMatches) > 0 {
		out = append(out, fmt.Sprintf("Has similar skills in %d areas", len(skills.NearMatches)))
	}
	if semantic >= 75 {
		out = append(out, "Highly relevant experience based on resume content")
	}
	if experience.Score >= 80 {
		out = append(out, fmt.Sprintf("Excellent experience (%s years)", years(experience.Years)))
	}
	if education.Score >= 80 {
		out = append(out, "Meets or exceeds education requirements")
	}
	if len(out) == 0 {
		out = append(out, "Candidate shows potential with appropriate development")
	}
	return out
}

func concerns(skills SkillResult, semantic float64, experience ExperienceResult, education EducationResult) []string {
	var out []string
	if skills.Score < 50 {
		out = append(out, fmt.Sprintf("Missing %d key skills", len(skills.Missing)))
	}
	if semantic < 50 {
		out = append(out, "Resume content may not align well with job requirements")
	}
	if experience.Score < 60 {
		out = append(out, "May lack sufficient experience for this role")
	}
	if education.Score < 60 {
		out = append(out, "Education level below requirement")
	}
	if len(out) == 0 {
		out = append(out, "No major concerns identified")
	}
	return out
}

var generalQuestions = []string{
	"Can you describe your experience with the key technologies listed in your resume?",
	"What projects have you worked on that are most similar to this role?",
	"How do you stay updated with industry trends and new technologies?",
}

func questions(skills SkillResult, experience ExperienceResult, job JobProfile) []string {
	var out []string
	if len(skills.Missing) > 0 {
		top := skills.Missing[:min(3, len(skills.Missing))]
		out = append(out, fmt.Sprintf("How would you approach learning %s?", strings.Join(top, ", ")))
	}
	if experience.Years < job.ExperienceYears {
		out = append(out, "Can you describe a challenging project where you exceeded expectations despite limited experience?")
	}
	out = append(out, generalQuestions...)

	if len(out) > maxQuestions {
		out = out[:maxQuestions]
	}
	return out
}
