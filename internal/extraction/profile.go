package extraction

const (
	UnknownName         = "Unknown"
	LocationUnspecified = "Not Specified"
	DurationUnknown     = "N/A"
	CurrencyINR         = "INR"
)

// Profile is the structured view of a single resume.
type Profile struct {
	Name            string       `json:"name"`
	Email           string       `json:"email,omitempty"`
	Phone           string       `json:"phone,omitempty"`
	Skills          []string     `json:"skills"`
	Education       []Education  `json:"education"`
	Experience      []Experience `json:"experience"`
	ExperienceYears float64      `json:"experience_years"`
	Links           Links        `json:"links"`
	Certifications  []string     `json:"certifications"`
	Location        string       `json:"location"`
	Salary          *SalaryRange `json:"salary_expectations,omitempty"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution,omitempty"`
}

type Experience struct {
	Duration string `json:"duration"`
}

type Links struct {
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type SalaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
}

// Result wraps a Profile with the degradations noticed while building it.
type Result struct {
	Profile  *Profile `json:"profile"`
	Warnings []string `json:"warnings,omitempty"`
}

// Degrees returns the degree names in extraction order.
func (p *Profile) Degrees() []string {
	degrees := make([]string, 0, len(p.Education))
	for _, e := range p.Education {
		degrees = append(degrees, e.Degree)
	}
	return degrees
}
