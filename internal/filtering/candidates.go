package filtering

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spigell/resume-screener/internal/extraction"
)

const (
	CandidateHashField  = "UniqueHash"
	CandidateEmailField = "Email"
	CandidatePhoneField = "Phone"
)

type Candidates struct {
	Items []*Candidate
}

// Candidate is one screened resume.
type Candidate struct {
	File       string              `json:"file"`
	UniqueHash string              `json:"unique_hash"`
	Profile    *extraction.Profile `json:"profile"`
	Score      float64             `json:"score"`
	ResumeText string              `json:"resume_text,omitempty"`
	Warnings   []string            `json:"warnings,omitempty"`
}

// UniqueHash identifies a candidate by trimmed, lower-cased name and email.
// It is the md5 of the two normalized values concatenated, so it only equals
// the hash of the raw pair when both are already lower-case and trimmed.
func UniqueHash(name, email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(name)) + strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func (c *Candidate) GetStringField(name string) string {
	switch name {
	case CandidateHashField:
		return c.UniqueHash
	case CandidateEmailField:
		if c.Profile == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(c.Profile.Email))
	case CandidatePhoneField:
		if c.Profile == nil {
			return ""
		}
		return strings.TrimSpace(c.Profile.Phone)
	default:
		return ""
	}
}

func (c *Candidate) name() string {
	if c.Profile == nil {
		return ""
	}
	return c.Profile.Name
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

// Exclude removes every candidate whose field equals one of targets and
// returns the files of the removed candidates. Empty targets never match.
func (c *Candidates) Exclude(field string, targets []string) []string {
	set := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		if t != "" {
			set[t] = struct{}{}
		}
	}

	var excluded []string
	kept := c.Items[:0]
	for _, candidate := range c.Items {
		if _, ok := set[candidate.GetStringField(field)]; ok {
			excluded = append(excluded, candidate.File)
			continue
		}
		kept = append(kept, candidate)
	}
	c.Items = kept

	return excluded
}

// SortByScore orders candidates by descending score, then by file name.
func (c *Candidates) SortByScore() {
	sort.SliceStable(c.Items, func(i, j int) bool {
		if c.Items[i].Score != c.Items[j].Score {
			return c.Items[i].Score > c.Items[j].Score
		}
		return c.Items[i].File < c.Items[j].File
	})
}

func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ToExcluded converts the candidates into exclude file entries.
func (c *Candidates) ToExcluded(reason string) *ExcludedCandidates {
	excluded := &ExcludedCandidates{}
	for _, candidate := range c.Items {
		excluded.Items = append(excluded.Items, &ExcludedCandidate{
			Hash:       candidate.UniqueHash,
			Name:       candidate.name(),
			Email:      candidate.GetStringField(CandidateEmailField),
			Phone:      candidate.GetStringField(CandidatePhoneField),
			Reason:     reason,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// ReportByLocation groups a short summary of every candidate by location.
func (c *Candidates) ReportByLocation() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, candidate := range c.Items {
		p := candidate.Profile
		if p == nil {
			continue
		}
		key := p.Location
		if key == "" {
			key = extraction.LocationUnspecified
		}
		report[key] = append(report[key], map[string]string{
			"name":       p.Name,
			"email":      p.Email,
			"phone":      p.Phone,
			"experience": fmt.Sprintf("%g years", p.ExperienceYears),
			"score":      fmt.Sprintf("%.2f", candidate.Score),
			"skills":     strings.Join(p.Skills, ", "),
			"degrees":    strings.Join(p.Degrees(), ", "),
			"file":       candidate.File,
		})
	}
	return report
}
