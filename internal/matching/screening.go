package matching

import (
	"math"
	"strings"

	"github.com/spigell/resume-screener/internal/extraction"
)

// SkillResult is the outcome of comparing candidate skills with required ones.
type SkillResult struct {
	Score       float64     `json:"score"`
	Matching    []string    `json:"matching"`
	NearMatches []NearMatch `json:"near_matching"`
	Missing     []string    `json:"missing"`
	Explanation string      `json:"explanation,omitempty"`
}

// FiltersAccept is the screening gate. A candidate passes when it has at
// least one required skill, its experience is inside the configured bounds
// and its location overlaps one of the required locations.
func FiltersAccept(p *extraction.Profile, f MatchFilters) bool {
	if p == nil {
		return false
	}

	if len(f.Skills) > 0 {
		have := lowerSet(p.Skills)
		found := false
		for _, skill := range f.Skills {
			if _, ok := have[strings.ToLower(skill)]; ok {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.MinExperience != 0 && p.ExperienceYears < f.MinExperience {
		return false
	}
	if f.MaxExperience != nil && *f.MaxExperience != 0 && p.ExperienceYears > *f.MaxExperience {
		return false
	}

	if len(f.Locations) > 0 {
		location := strings.ToLower(p.Location)
		found := false
		for _, want := range f.Locations {
			want = strings.ToLower(want)
			if strings.Contains(location, want) || strings.Contains(want, location) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// SkillMatch compares skills case-insensitively and exactly.
func SkillMatch(candidate, required []string) SkillResult {
	if len(required) == 0 {
		score := 50.0
		if len(candidate) > 0 {
			score = 70
		}
		return SkillResult{Score: score, Matching: []string{}, Missing: []string{}}
	}

	if len(candidate) == 0 {
		return SkillResult{Score: 0, Matching: []string{}, Missing: append([]string{}, required...)}
	}

	have := lowerSet(candidate)
	res := SkillResult{Matching: []string{}, Missing: []string{}}
	for _, skill := range required {
		if _, ok := have[strings.ToLower(skill)]; ok {
			res.Matching = append(res.Matching, skill)
		} else {
			res.Missing = append(res.Missing, skill)
		}
	}
	res.Score = round(float64(len(res.Matching))/float64(len(required))*100, 2)

	return res
}

// ScreeningScore is the cheap batch score: 70% exact skill overlap and 30%
// experience against MinExperience, plus a small bonus for long skill lists.
func ScreeningScore(p *extraction.Profile, f MatchFilters) float64 {
	if p == nil {
		return 0
	}

	skill := SkillMatch(p.Skills, f.Skills).Score

	var experience float64
	years, required := p.ExperienceYears, f.MinExperience
	switch {
	case required > 0 && years >= required:
		experience = math.Min(100, 80+(years-required)*4)
	case required > 0:
		experience = years / required * 70
	case years > 0:
		experience = 70
	default:
		experience = 50
	}

	overall := skill*0.7 + experience*0.3
	switch {
	case len(p.Skills) > 10:
		overall = math.Min(100, overall+5)
	case len(p.Skills) > 5:
		overall = math.Min(100, overall+2)
	}

	return round(overall, 2)
}

func lowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
