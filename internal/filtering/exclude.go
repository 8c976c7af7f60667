package filtering

import (
	"encoding/json"
	"os"
	"strings"
	"time"

	"github.com/spigell/resume-screener/internal/extraction"
)

type ExcludedCandidates struct {
	Items []*ExcludedCandidate
}

type ExcludedCandidate struct {
	Hash       string
	Name       string
	Email      string
	Phone      string
	Reason     string
	ExcludedAt time.Time
}

// ExcludedFromFile reads an exclude file. An empty file holds no entries.
func ExcludedFromFile(path string) (*ExcludedCandidates, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedCandidates{}, nil
	}

	var excluded ExcludedCandidates
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedCandidates) Append(s *ExcludedCandidates) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedCandidates) Hashes() []string {
	hashes := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		hashes = append(hashes, item.Hash)
	}
	return hashes
}

// Emails returns the trimmed, lower-cased emails of all entries.
func (e *ExcludedCandidates) Emails() []string {
	emails := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if email := strings.ToLower(strings.TrimSpace(item.Email)); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}

// Phones returns the entries' phone numbers normalized to +91XXXXXXXXXX.
// Entries with fewer than ten digits are skipped.
func (e *ExcludedCandidates) Phones() []string {
	phones := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if phone := extraction.NormalizePhone(item.Phone); phone != "" {
			phones = append(phones, phone)
		}
	}
	return phones
}

func (e *ExcludedCandidates) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
