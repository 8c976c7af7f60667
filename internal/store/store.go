package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/matching"
	"github.com/spigell/resume-screener/internal/screening"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS batches (
	id           TEXT PRIMARY KEY,
	folder       TEXT NOT NULL,
	filters_json TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	total        INTEGER NOT NULL,
	successful   INTEGER NOT NULL,
	failed       INTEGER NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS potentials (
	batch_id         TEXT NOT NULL REFERENCES batches(id),
	unique_hash      TEXT NOT NULL,
	name             TEXT NOT NULL,
	email            TEXT,
	phone            TEXT,
	location         TEXT,
	experience_years REAL NOT NULL,
	skills_json      TEXT NOT NULL,
	score            REAL NOT NULL,
	file             TEXT NOT NULL,
	resume_text      TEXT,
	created_at       TEXT NOT NULL,
	UNIQUE (batch_id, unique_hash)
)`,
}

// Batch is a stored screening run.
type Batch struct {
	ID         string                `json:"id"`
	Folder     string                `json:"folder"`
	Filters    matching.MatchFilters `json:"filters"`
	CreatedAt  time.Time             `json:"created_at"`
	Total      int                   `json:"total"`
	Successful int                   `json:"successful"`
	Failed     int                   `json:"failed"`
}

// Potential is a candidate that passed every screening step of a batch.
type Potential struct {
	BatchID         string    `json:"batch_id"`
	UniqueHash      string    `json:"unique_hash"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location"`
	ExperienceYears float64   `json:"experience_years"`
	Skills          []string  `json:"skills"`
	Score           float64   `json:"score"`
	File            string    `json:"file"`
	ResumeText      string    `json:"resume_text"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store persists screening batches in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing store schema: %w", err)
		}
	}

	logger.Debug("store opened", zap.String("path", path))

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveBatch stores the batch counters and every remaining candidate in one
// transaction. A summary without a batch id gets a new one. Candidates
// repeating a unique hash within the batch are stored once.
func (s *Store) SaveBatch(ctx context.Context, summary *screening.Summary, filters matching.MatchFilters) (string, error) {
	if summary == nil {
		return "", errors.New("nothing to save")
	}

	id := summary.BatchID
	if id == "" {
		id = uuid.NewString()
	}

	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return "", fmt.Errorf("encoding filters: %w", err)
	}

	createdAt := s.now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, folder, filters_json, created_at, total, successful, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, summary.Folder, string(filtersJSON), createdAt,
		summary.Total, summary.Successful, summary.Failed,
	); err != nil {
		return "", fmt.Errorf("inserting batch %s: %w", id, err)
	}

	saved := 0
	if summary.Candidates != nil {
		for _, c := range summary.Candidates.Items {
			ok, err := insertPotential(ctx, tx, id, c, createdAt)
			if err != nil {
				return "", err
			}
			if ok {
				saved++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing batch %s: %w", id, err)
	}

	s.logger.Info("batch stored", zap.String("batch_id", id), zap.Int("potentials", saved))

	return id, nil
}

func insertPotential(ctx context.Context, tx *sql.Tx, batchID string, c *filtering.Candidate, createdAt string) (bool, error) {
	if c == nil || c.Profile == nil {
		return false, nil
	}
	p := c.Profile

	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return false, fmt.Errorf("encoding skills of %s: %w", c.File, err)
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO potentials
		 (batch_id, unique_hash, name, email, phone, location, experience_years, skills_json, score, file, resume_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		batchID, c.UniqueHash, p.Name, p.Email, p.Phone, p.Location,
		p.ExperienceYears, string(skillsJSON), c.Score, c.File, c.ResumeText, createdAt,
	)
	if err != nil {
		return false, fmt.Errorf("inserting potential %s: %w", c.File, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Batches lists stored batches, newest first.
func (s *Store) Batches(ctx context.Context) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, folder, filters_json, created_at, total, successful, failed
		 FROM batches ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		var (
			b           Batch
			filtersJSON string
			createdAt   string
		)
		if err := rows.Scan(&b.ID, &b.Folder, &filtersJSON, &createdAt, &b.Total, &b.Successful, &b.Failed); err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		if err := json.Unmarshal([]byte(filtersJSON), &b.Filters); err != nil {
			return nil, fmt.Errorf("decoding filters of batch %s: %w", b.ID, err)
		}
		if b.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("decoding created_at of batch %s: %w", b.ID, err)
		}
		batches = append(batches, b)
	}

	return batches, rows.Err()
}

// ListPotentials returns the potentials of a batch ordered by descending score.
func (s *Store) ListPotentials(ctx context.Context, batchID string) ([]Potential, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT batch_id, unique_hash, name, email, phone, location, experience_years,
		        skills_json, score, file, resume_text, created_at
		 FROM potentials WHERE batch_id = ? ORDER BY score DESC, file`, batchID)
	if err != nil {
		return nil, fmt.Errorf("listing potentials of batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var potentials []Potential
	for rows.Next() {
		var (
			p          Potential
			email      sql.NullString
			phone      sql.NullString
			location   sql.NullString
			resumeText sql.NullString
			skillsJSON string
			createdAt  string
		)
		if err := rows.Scan(&p.BatchID, &p.UniqueHash, &p.Name, &email, &phone, &location,
			&p.ExperienceYears, &skillsJSON, &p.Score, &p.File, &resumeText, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning potential: %w", err)
		}
		p.Email, p.Phone, p.Location, p.ResumeText = email.String, phone.String, location.String, resumeText.String

		if err := json.Unmarshal([]byte(skillsJSON), &p.Skills); err != nil {
			return nil, fmt.Errorf("decoding skills of %s: %w", p.File, err)
		}
		if p.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("decoding created_at of %s: %w", p.File, err)
		}
		potentials = append(potentials, p)
	}

	return potentials, rows.Err()
}
