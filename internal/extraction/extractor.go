package extraction

import (
	"time"

	"github.com/spigell/resume-screener/internal/ai"
	"go.uber.org/zap"
)

// Extractor builds a Profile out of resume text. It keeps no state between
// calls and can be shared across goroutines as long as its EntityRecognizer
// can.
type Extractor struct {
	logger           *zap.Logger
	entities         ai.EntityRecognizer
	now              func() time.Time
	correctMonthSpan bool
}

type Option func(*Extractor)

// WithEntityRecognizer enables person name recognition as a name source.
func WithEntityRecognizer(r ai.EntityRecognizer) Option {
	return func(e *Extractor) {
		e.entities = r
	}
}

// WithClock sets the time used for open ended ranges such as "2020 - Present".
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithCorrectedMonthSpan makes date ranges count months as
// (end year - start year) * 12 + (end month - start month).
func WithCorrectedMonthSpan() Option {
	return func(e *Extractor) {
		e.correctMonthSpan = true
	}
}

func New(logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Extractor{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract runs every field extractor over text. It never fails; fields it
// cannot find fall back to their documented defaults and the reason is
// reported in Result.Warnings.
func (e *Extractor) Extract(text, filename string) *Result {
	name, warnings := e.extractName(text, filename)
	contact := ExtractContact(text)

	profile := &Profile{
		Name:            name,
		Email:           contact.Email,
		Phone:           contact.Phone,
		Skills:          ExtractSkills(text),
		Experience:      ExtractExperience(text),
		ExperienceYears: e.ExtractTotalExperienceYears(text),
		Education:       ExtractEducation(text),
		Links:           ExtractLinks(text),
		Certifications:  ExtractCertifications(text),
		Location:        ExtractLocation(text),
		Salary:          ExtractSalary(text),
	}

	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.Education == nil {
		profile.Education = []Education{}
	}
	if profile.Certifications == nil {
		profile.Certifications = []string{}
	}

	if profile.Email == "" {
		warnings = append(warnings, "no email address found")
	}
	if profile.Phone == "" {
		warnings = append(warnings, "no phone number found")
	}
	if len(profile.Skills) == 0 {
		warnings = append(warnings, "no skills found")
	}

	e.logger.Debug("profile extracted",
		zap.String("filename", filename),
		zap.String("name", profile.Name),
		zap.Int("skills", len(profile.Skills)),
		zap.Float64("experience_years", profile.ExperienceYears),
		zap.String("location", profile.Location),
		zap.Strings("warnings", warnings),
	)

	return &Result{Profile: profile, Warnings: warnings}
}
