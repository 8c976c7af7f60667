package matching

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// MatchFilters are the batch screening criteria. Zero values mean "no constraint".
type MatchFilters struct {
	Skills        []string `mapstructure:"skills" json:"skills" validate:"dive,required"`
	MinExperience float64  `mapstructure:"min-experience" json:"min_experience" validate:"gte=0"`
	MaxExperience *float64 `mapstructure:"max-experience" json:"max_experience" validate:"omitempty,gte=0"`
	Locations     []string `mapstructure:"locations" json:"locations" validate:"dive,required"`
}

func (f MatchFilters) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("invalid filters: %w", err)
	}
	if f.MaxExperience != nil && *f.MaxExperience != 0 && *f.MaxExperience < f.MinExperience {
		return fmt.Errorf("invalid filters: max-experience %.1f is below min-experience %.1f", *f.MaxExperience, f.MinExperience)
	}
	return nil
}

// JobProfile describes the role a candidate is matched against.
type JobProfile struct {
	Title           string   `mapstructure:"title" json:"title,omitempty"`
	RequiredSkills  []string `mapstructure:"required-skills" json:"required_skills" validate:"dive,required"`
	Description     string   `mapstructure:"description" json:"description"`
	ExperienceYears float64  `mapstructure:"experience-years" json:"experience_years" validate:"gte=0"`
	EducationLevel  string   `mapstructure:"education-level" json:"education_level,omitempty"`
}

func (j JobProfile) Validate() error {
	if err := validate.Struct(j); err != nil {
		return fmt.Errorf("invalid job profile: %w", err)
	}
	return nil
}

// DecodeFilters builds MatchFilters out of a loosely typed map such as a
// parsed YAML or JSON document. Keys may use dashes or underscores.
func DecodeFilters(raw map[string]any) (MatchFilters, error) {
	var f MatchFilters
	if err := decode(raw, &f); err != nil {
		return MatchFilters{}, fmt.Errorf("decoding filters: %w", err)
	}
	return f, f.Validate()
}

// DecodeJob builds a JobProfile out of a loosely typed map.
func DecodeJob(raw map[string]any) (JobProfile, error) {
	var j JobProfile
	if err := decode(raw, &j); err != nil {
		return JobProfile{}, fmt.Errorf("decoding job profile: %w", err)
	}
	return j, j.Validate()
}

func decode(raw map[string]any, out any) error {
	if raw == nil {
		return errors.New("nothing to decode")
	}

	normalized := make(map[string]any, len(raw))
	for k, v := range raw {
		normalized[strings.ReplaceAll(strings.ToLower(k), "_", "-")] = v
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(normalized)
}
