package filtering

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spigell/resume-screener/internal/matching"
	"go.uber.org/zap"
)

type minimumScoreFilter struct {
	toggle
	criteria matching.MatchFilters
	minimum  float64
}

// NewMinimumScore creates a filter that assigns the screening score to every
// candidate and removes those scoring below the configured minimum.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	f.criteria, f.minimum = matching.MatchFilters{}, 0
	if cfg != nil {
		f.criteria, f.minimum = cfg.Criteria, cfg.MinimumScore
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum score must be within [0, 100], got %.2f", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()

	kept := make([]*Candidate, 0, initial)
	for _, candidate := range c.Items {
		candidate.Score = matching.ScreeningScore(candidate.Profile, f.criteria)
		if candidate.Score < f.minimum {
			if deps.Logger != nil {
				deps.Logger.Debug("candidate scored below minimum",
					zap.String("file", candidate.File),
					zap.Float64("score", candidate.Score),
					zap.Float64("minimum_score", f.minimum),
				)
			}
			continue
		}
		kept = append(kept, candidate)
	}
	c.Items = kept

	return c, Step{Initial: initial, Dropped: initial - c.Len(), Left: c.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	details := map[string]string{
		"minimum_score": strconv.FormatFloat(f.minimum, 'f', 2, 64),
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
