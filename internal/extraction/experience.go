package extraction

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const maxExperienceEntries = 5

var (
	experienceHeading = regexp.MustCompile(`(?i)(?:professional\s+)?(?:work\s+)?experience:?`)
	sectionEnd        = regexp.MustCompile(`(?i)education:|skills:`)

	experienceRange = regexp.MustCompile(`(?i)(\d{4}|\w{3,9}\s+\d{4})\s*[-–—]\s*(\d{4}|\w{3,9}\s+\d{4}|Present|Current)`)
	spanRange       = regexp.MustCompile(`(?i)(\w+\s+\d{4}|\d{4})\s*[-–—]\s*(\w+\s+\d{4}|\d{4}|Present|Current)`)

	// ExplicitYearsPatterns are phrases that state total experience outright.
	ExplicitYearsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+(?:of\s+)?(?:total\s+)?experience`),
		regexp.MustCompile(`(?i)(?:total\s+)?experience\s*:?\s*(\d+)\+?\s*years?`),
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s+in\s+(?:the\s+)?industry`),
	}
)

var monthNames = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"jun": time.June, "jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// experienceSection returns the text between the first experience heading
// and the next "education:" or "skills:" marker.
func experienceSection(text string) (string, bool) {
	loc := experienceHeading.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	body := text[loc[1]:]
	if end := sectionEnd.FindStringIndex(body); end != nil {
		body = body[:end[0]]
	}
	return body, true
}

// ExtractExperience returns up to five date ranges from the experience
// section. Without a section, ranges anywhere in text count as entries
// with an unknown duration.
func ExtractExperience(text string) []Experience {
	section, ok := experienceSection(text)
	if !ok {
		matches := experienceRange.FindAllStringSubmatch(text, maxExperienceEntries)
		entries := make([]Experience, 0, len(matches))
		for range matches {
			entries = append(entries, Experience{Duration: DurationUnknown})
		}
		return entries
	}

	matches := experienceRange.FindAllStringSubmatch(section, maxExperienceEntries)
	entries := make([]Experience, 0, len(matches))
	for _, m := range matches {
		entries = append(entries, Experience{Duration: m[1] + " - " + m[2]})
	}
	return entries
}

// ExplicitYears returns the number from the first explicit experience phrase.
func ExplicitYears(text string) (float64, bool) {
	for _, pattern := range ExplicitYearsPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			years, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return float64(years), true
		}
	}
	return 0, false
}

// ExtractTotalExperienceYears prefers an explicit statement, then the sum of
// all date ranges, then two years per experience entry.
func (e *Extractor) ExtractTotalExperienceYears(text string) float64 {
	if years, ok := ExplicitYears(text); ok {
		return years
	}

	now := e.now()
	total := 0
	for _, m := range spanRange.FindAllStringSubmatch(text, -1) {
		start, ok := parseRangeDate(m[1])
		if !ok {
			continue
		}

		var end time.Time
		switch strings.ToLower(m[2]) {
		case "present", "current":
			end = now
		default:
			if end, ok = parseRangeDate(m[2]); !ok {
				continue
			}
		}

		total += max(0, e.monthSpan(start, end))
	}

	if total > 0 {
		return math.Round(float64(total)/12*10) / 10
	}

	return float64(len(ExtractExperience(text))) * 2
}

// monthSpan keeps the historical arithmetic, which subtracts the start year
// from the end month, unless corrected month spans were requested.
func (e *Extractor) monthSpan(start, end time.Time) int {
	months := (end.Year() - start.Year()) * 12
	if e.correctMonthSpan {
		return months + int(end.Month()) - int(start.Month())
	}
	return months + int(end.Month()) - start.Year()
}

// parseRangeDate accepts "January 2020", "Jan 2020" and "2020".
// A bare year means January of that year.
func parseRangeDate(s string) (time.Time, bool) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		year, ok := parseYear(fields[0])
		if !ok {
			return time.Time{}, false
		}
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), true
	case 2:
		month, ok := monthNames[strings.ToLower(fields[0])]
		if !ok {
			return time.Time{}, false
		}
		year, ok := parseYear(fields[1])
		if !ok {
			return time.Time{}, false
		}
		return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
	default:
		return time.Time{}, false
	}
}

func parseYear(s string) (int, bool) {
	if len(s) != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 {
		return 0, false
	}
	return year, true
}
