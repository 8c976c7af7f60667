package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// SkillKeywords is the technical skill dictionary, lower case.
var SkillKeywords = []string{
	// languages
	"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust",
	"php", "ruby", "swift", "kotlin", "scala", "r", "matlab", "perl",
	"c", "objective-c", "dart", "elixir", "clojure", "haskell", "lua",

	// frontend
	"react", "angular", "vue", "vue.js", "svelte", "next.js", "nuxt", "gatsby",
	"jquery", "redux", "webpack", "html", "html5", "css", "css3", "sass",
	"tailwind", "bootstrap", "material-ui", "mui",

	// backend
	"node.js", "nodejs", "express", "django", "flask", "spring", "spring boot",
	"asp.net", ".net", "rails", "laravel", "fastapi", "nestjs",

	// databases
	"sql", "mysql", "postgresql", "postgres", "mongodb", "redis", "oracle",
	"sql server", "dynamodb", "cassandra", "elasticsearch", "firebase",

	// cloud and devops
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "terraform",
	"ansible", "git", "github", "gitlab", "ci/cd", "devops",

	// data and ml
	"machine learning", "deep learning", "tensorflow", "pytorch", "keras",
	"pandas", "numpy", "scikit-learn", "nlp", "computer vision", "opencv",
	"spark", "hadoop", "kafka", "airflow",

	// tools
	"jira", "confluence", "postman", "figma", "excel", "power bi", "tableau",
	"sap", "salesforce", "servicenow",

	// practices
	"rest api", "graphql", "microservices", "agile", "scrum", "testing",
	"junit", "pytest", "selenium", "api", "json", "xml",
}

var (
	skillKeywordSet = toSet(SkillKeywords)

	sectionHeaders = toSet([]string{
		"professional experience", "work experience", "experience", "employment history",
		"education", "academic background", "qualifications", "skills", "technical skills",
		"core competencies", "summary", "objective", "profile", "about me",
		"additional information", "certifications", "achievements", "projects",
		"references", "hobbies", "interests", "languages", "contact",
		"personal information", "declaration", "career objective",
		"professional summary", "key skills", "areas of expertise",
		"training", "courses", "workshops", "seminars", "publications",
	})

	softSkills = toSet([]string{
		"communication", "leadership", "teamwork", "problem solving", "critical thinking",
		"time management", "adaptability", "collaboration", "creativity",
		"attention to detail", "work ethic", "interpersonal skills",
		"analytical skills", "organizational skills", "presentation skills",
		"ability to work in a team", "ability to work under pressure",
		"multitasking", "flexibility", "initiative", "motivation",
		"team player", "self-motivated", "detail-oriented", "results-driven",
		"customer service", "client relations", "stakeholder management",
		"conflict resolution", "decision making", "strategic thinking",
	})

	genericPhrases = toSet([]string{
		"basic computer skills", "good communication skills", "team management",
		"project management", "time management", "resource management",
		"relationship management", "performance management", "change management",
		"risk management", "quality management", "business management",
		"recruitment", "hiring", "onboarding", "training", "coaching",
		"coordinating", "scheduling", "planning", "organizing", "monitoring",
		"handling", "managing", "overseeing", "conducting", "assisting",
		"supporting", "maintaining", "ensuring", "implementing", "developing",
		"experience in", "knowledge of", "familiar with", "proficient in",
		"expert in", "skilled in", "strong", "excellent", "good", "basic",
		"advanced", "intermediate", "beginner", "working knowledge",
	})

	nonSkillWords = toSet([]string{
		"ability", "experience", "knowledge", "skills", "background",
		"expertise", "proficiency", "understanding", "management",
		"team", "work", "working", "handled", "responsible", "duties",
		"role", "position", "job", "career", "professional", "summary",
	})

	skillLeadIn    = regexp.MustCompile(`^(experience in|knowledge of|familiar with|proficient in|skilled in)\s+`)
	skillToken     = regexp.MustCompile(`^[a-z0-9+#.\-/]+$`)
	digitsOnly     = regexp.MustCompile(`^\d+$`)
	acronym        = regexp.MustCompile(`^[A-Z]{2,5}$`)
	skillSplitter  = regexp.MustCompile(`[,;|\n•·]`)
	bulletPrefix   = regexp.MustCompile(`^[-–—]\s*`)
	numberPrefix   = regexp.MustCompile(`^\d+\.\s*`)
	capitalizedTok = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9+#./-]{1,19}\b`)

	// A section body runs until the first blank line.
	skillSections = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:technical\s+)?skills?:?\s*([^\n]+(?:\n[^\n]+)*)`),
		regexp.MustCompile(`(?i)(?:core\s+)?competencies:?\s*([^\n]+(?:\n[^\n]+)*)`),
		regexp.MustCompile(`(?i)technologies:?\s*([^\n]+(?:\n[^\n]+)*)`),
	}

	skillWordPatterns = compileSkillWordPatterns(SkillKeywords)
)

func compileSkillWordPatterns(keywords []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(keywords))
	for _, k := range keywords {
		patterns = append(patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(k)+`\b`))
	}
	return patterns
}

// IsValidTechnicalSkill filters out section headers, soft skills and
// generic phrases. Known dictionary terms, single technical tokens, short
// acronyms and near dictionary matches are accepted.
func IsValidTechnicalSkill(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	lower = strings.TrimSpace(skillLeadIn.ReplaceAllString(lower, ""))

	n := len([]rune(lower))
	if n < 2 || n > 30 {
		return false
	}

	for _, set := range []map[string]struct{}{sectionHeaders, softSkills, genericPhrases, nonSkillWords} {
		if _, ok := set[lower]; ok {
			return false
		}
	}

	if _, ok := skillKeywordSet[lower]; ok {
		return true
	}

	if skillToken.MatchString(lower) && !digitsOnly.MatchString(lower) {
		return true
	}

	if acronym.MatchString(text) {
		return true
	}

	// Substring matches in both directions are intentionally loose.
	if n >= 3 {
		for _, known := range SkillKeywords {
			if strings.Contains(lower, known) || strings.Contains(known, lower) {
				return true
			}
		}
	}

	return false
}

type skillSet struct {
	order []string
	seen  map[string]struct{}
}

func (s *skillSet) add(skill string) {
	key := strings.ToLower(skill)
	if _, ok := s.seen[key]; ok {
		return
	}
	s.seen[key] = struct{}{}
	s.order = append(s.order, skill)
}

// ExtractSkills unions dictionary hits, items listed under skill style
// headings and capitalized dictionary tokens. The result is validated,
// deduplicated case-insensitively and sorted.
func ExtractSkills(text string) []string {
	set := &skillSet{seen: map[string]struct{}{}}

	lower := strings.ToLower(text)
	for i, pattern := range skillWordPatterns {
		if pattern.MatchString(lower) {
			set.add(titleCase(SkillKeywords[i]))
		}
	}

	for _, section := range skillSections {
		match := section.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		for _, item := range skillSplitter.Split(match[1], -1) {
			item = strings.TrimSpace(item)
			item = bulletPrefix.ReplaceAllString(item, "")
			item = numberPrefix.ReplaceAllString(item, "")
			if IsValidTechnicalSkill(item) {
				set.add(titleCase(item))
			}
		}
	}

	for _, word := range capitalizedTok.FindAllString(text, -1) {
		if _, ok := skillKeywordSet[strings.ToLower(word)]; ok {
			set.add(word)
		}
	}

	skills := make([]string, 0, len(set.order))
	for _, skill := range set.order {
		if IsValidTechnicalSkill(skill) {
			skills = append(skills, skill)
		}
	}
	sort.Strings(skills)

	return skills
}
