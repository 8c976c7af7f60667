package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	exactRatio = 0.9
	nearRatio  = 0.7
	nearWeight = 0.7
)

// NearMatch records a required skill that resembles a candidate skill
// without matching it outright. Similarity is a percentage.
type NearMatch struct {
	Required   string  `json:"required"`
	Candidate  string  `json:"candidate"`
	Similarity float64 `json:"similarity"`
}

// similarity is the difflib ratio of the lower-cased strings, compared
// rune by rune.
func similarity(a, b string) float64 {
	m := difflib.NewMatcher(
		strings.Split(strings.ToLower(a), ""),
		strings.Split(strings.ToLower(b), ""),
	)
	return m.Ratio()
}

// FuzzySkillMatch classifies every required skill by its best similarity
// against the candidate skills: at least 0.9 is a match, at least 0.7 a near
// match, anything else missing. Near matches count 0.7 towards the score.
func FuzzySkillMatch(candidate, required []string) SkillResult {
	if len(required) == 0 {
		score := 50.0
		if len(candidate) > 0 {
			score = 70
		}
		return SkillResult{
			Score:       score,
			Matching:    []string{},
			NearMatches: []NearMatch{},
			Missing:     []string{},
			Explanation: "No specific skills required",
		}
	}

	if len(candidate) == 0 {
		return SkillResult{
			Score:       0,
			Matching:    []string{},
			NearMatches: []NearMatch{},
			Missing:     append([]string{}, required...),
			Explanation: "Candidate has no listed skills",
		}
	}

	res := SkillResult{Matching: []string{}, NearMatches: []NearMatch{}, Missing: []string{}}
	for _, want := range required {
		best, bestSkill := 0.0, ""
		for _, have := range candidate {
			if ratio := similarity(want, have); ratio > best {
				best, bestSkill = ratio, have
			}
		}

		switch {
		case best >= exactRatio:
			res.Matching = append(res.Matching, want)
		case best >= nearRatio:
			res.NearMatches = append(res.NearMatches, NearMatch{
				Required:   want,
				Candidate:  bestSkill,
				Similarity: round(best*100, 1),
			})
		default:
			res.Missing = append(res.Missing, want)
		}
	}

	score := (float64(len(res.Matching)) + float64(len(res.NearMatches))*nearWeight) / float64(len(required)) * 100
	res.Score = round(math.Min(100, score), 2)
	res.Explanation = skillExplanation(len(res.Matching), len(res.NearMatches), len(res.Missing))

	return res
}

func skillExplanation(exact, near, missing int) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "%d exact %s", exact, plural(exact, "match", "matches"))
	if near > 0 {
		fmt.Fprintf(&b, ", %d similar %s", near, plural(near, "skill", "skills"))
	}
	if missing > 0 {
		fmt.Fprintf(&b, ", missing %d %s", missing, plural(missing, "skill", "skills"))
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
