package filtering

import (
	"context"

	"go.uber.org/zap"
)

type duplicatesFilter struct {
	toggle
}

// NewDuplicates creates a filter that keeps only the first candidate of every unique hash.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Validate(*Config) error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, deps Deps, c *Candidates) (*Candidates, Step, error) {
	initial := c.Len()

	seen := make(map[string]string, initial)
	kept := make([]*Candidate, 0, initial)
	for _, candidate := range c.Items {
		if first, ok := seen[candidate.UniqueHash]; ok {
			if deps.Logger != nil {
				deps.Logger.Info("skipping duplicate candidate",
					zap.String("file", candidate.File),
					zap.String("duplicate_of", first),
				)
			}
			continue
		}
		seen[candidate.UniqueHash] = candidate.File
		kept = append(kept, candidate)
	}
	c.Items = kept

	return c, Step{Initial: initial, Dropped: initial - c.Len(), Left: c.Len()}, nil
}

func (f *duplicatesFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
