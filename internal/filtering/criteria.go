package filtering

import (
	"context"
	"strconv"
	"strings"

	"github.com/spigell/resume-screener/internal/matching"
	"go.uber.org/zap"
)

type criteriaFilter struct {
	toggle
	criteria matching.MatchFilters
}

// NewCriteria creates a filter that removes candidates not accepted by the configured match filters.
func NewCriteria() Filter {
	return &criteriaFilter{}
}

func (f *criteriaFilter) Name() string { return "criteria" }

func (f *criteriaFilter) Validate(cfg *Config) error {
	f.criteria = matching.MatchFilters{}
	if cfg != nil {
		f.criteria = cfg.Criteria
	}
	return f.criteria.Validate()
}

func (f *criteriaFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()

	var rejected []string
	kept := make([]*Candidate, 0, initial)
	for _, candidate := range c.Items {
		if matching.FiltersAccept(candidate.Profile, f.criteria) {
			kept = append(kept, candidate)
			continue
		}
		rejected = append(rejected, candidate.File)
	}
	c.Items = kept

	if deps.Logger != nil && len(rejected) > 0 {
		deps.Logger.Debug("excluding candidates by match filters",
			zap.Strings("excluded_files", rejected),
			zap.Int("candidates_left", c.Len()),
		)
	}

	return c, Step{Initial: initial, Dropped: len(rejected), Left: c.Len()}, nil
}

func (f *criteriaFilter) Status() Status {
	details := map[string]string{}
	if len(f.criteria.Skills) > 0 {
		details["skills"] = strings.Join(f.criteria.Skills, ",")
	}
	if f.criteria.MinExperience > 0 {
		details["min_experience"] = strconv.FormatFloat(f.criteria.MinExperience, 'f', -1, 64)
	}
	if f.criteria.MaxExperience != nil && *f.criteria.MaxExperience > 0 {
		details["max_experience"] = strconv.FormatFloat(*f.criteria.MaxExperience, 'f', -1, 64)
	}
	if len(f.criteria.Locations) > 0 {
		details["locations"] = strings.Join(f.criteria.Locations, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
