package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

// Cities is the location allow-list, checked in order.
var Cities = []string{
	"Mumbai", "Delhi", "Bengaluru", "Bangalore", "Hyderabad",
	"Chennai", "Kolkata", "Pune", "Ahmedabad", "Jaipur",
	"Surat", "Lucknow", "Kanpur", "Nagpur", "Indore",
	"Thane", "Bhopal", "Visakhapatnam", "Pimpri", "Patna",
	"Vadodara", "Ghaziabad", "Ludhiana", "Agra", "Nashik",
	"Remote", "Hybrid", "Work from Home", "WFH",
}

var locationPhrases = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:current\s+)?location[:\s]+([A-Za-z\s,]+)`),
	regexp.MustCompile(`(?i)address[:\s]+([A-Za-z\s,]+)`),
	regexp.MustCompile(`(?i)based\s+in[:\s]+([A-Za-z\s,]+)`),
}

// ExtractLocation looks for a known city after an explicit location phrase
// first and anywhere in text second.
func ExtractLocation(text string) string {
	for _, pattern := range locationPhrases {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if city := findCity(m[1]); city != "" {
			return city
		}
	}

	if city := findCity(text); city != "" {
		return city
	}

	return LocationUnspecified
}

func findCity(text string) string {
	lower := strings.ToLower(text)
	for _, city := range Cities {
		if strings.Contains(lower, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}

// Free text certification names stop at the end of the line. Short
// acronyms only count as whole words.
var certificationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(AWS Certified[\w \t]+)`),
	regexp.MustCompile(`(?i)(Microsoft Certified[\w \t]+)`),
	regexp.MustCompile(`(?i)(Azure[\w \t]+Certified)`),
	regexp.MustCompile(`(?i)(Google Cloud[\w \t]+Certified)`),
	regexp.MustCompile(`(?i)(Certified[\w \t]+Professional)`),
	regexp.MustCompile(`(?i)\b(PMP|CISSP|CEH|CCNA|CCNP|CCIE|CKA|CKAD)\b`),
	regexp.MustCompile(`(?i)\b(Certified\s+Scrum\s+Master|CSM)\b`),
	regexp.MustCompile(`(?i)\b(Certified\s+Product\s+Owner|CSPO)\b`),
	regexp.MustCompile(`(?i)(Oracle\s+Certified[\w \t]+)`),
	regexp.MustCompile(`(?i)(Red\s+Hat\s+Certified[\w \t]+)`),
}

// ExtractCertifications returns certification mentions in pattern order,
// deduplicated by exact text.
func ExtractCertifications(text string) []string {
	var (
		certs []string
		seen  = map[string]struct{}{}
	)

	for _, pattern := range certificationPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			cert := strings.TrimSpace(m[1])
			if len(cert) <= 2 {
				continue
			}
			if _, ok := seen[cert]; ok {
				continue
			}
			seen[cert] = struct{}{}
			certs = append(certs, cert)
		}
	}

	return certs
}

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:expected\s+)?(?:salary|compensation|ctc)[\s:]+(?:rs\.?|inr|₹)?\s*([\d,]+)(?:\s*k|\s*lakh|\s*lakhs)?(?:\s*-\s*([\d,]+)(?:\s*k|\s*lakh|\s*lakhs)?)?`),
	regexp.MustCompile(`(?i)(?:current|last)\s+(?:salary|ctc)[\s:]+(?:rs\.?|inr|₹)?\s*([\d,]+)(?:\s*k|\s*lakh|\s*lakhs)?`),
}

// ExtractSalary returns the stated salary range in rupees, or nil.
// Amounts in lakh are multiplied by 100000 and amounts in k by 1000.
func ExtractSalary(text string) *SalaryRange {
	for _, pattern := range salaryPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		whole := strings.ToLower(m[0])
		multiplier := 1.0
		switch {
		case strings.Contains(whole, "lakh"):
			multiplier = 100000
		case strings.Contains(whole, "k"):
			multiplier = 1000
		}

		minAmount, ok := parseAmount(m[1], multiplier)
		if !ok {
			continue
		}

		maxAmount := minAmount
		if len(m) > 2 && m[2] != "" {
			if maxAmount, ok = parseAmount(m[2], multiplier); !ok {
				continue
			}
		}

		return &SalaryRange{Min: minAmount, Max: maxAmount, Currency: CurrencyINR}
	}

	return nil
}

func parseAmount(raw string, multiplier float64) (int, bool) {
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return int(value * multiplier), true
}
