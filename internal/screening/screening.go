package screening

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/spigell/resume-screener/internal/document"
	"github.com/spigell/resume-screener/internal/extraction"
	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/spigell/resume-screener/internal/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkers       = 4
	DefaultMinTextLength = 100
	// MaxResumeText bounds the resume text kept on every candidate.
	MaxResumeText = 5000

	maxLoggedFailures = 10
)

const (
	FailureInsufficientText = "insufficient_text"
	FailureRead             = "read_error"
)

// Failure records a document that could not be screened.
type Failure struct {
	File   string `json:"file"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

// Summary is the outcome of screening a single folder.
type Summary struct {
	BatchID    string                `json:"batch_id"`
	Folder     string                `json:"folder"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Total      int                   `json:"total"`
	Successful int                   `json:"successful"`
	Failed     int                   `json:"failed"`
	Failures   []Failure             `json:"failures"`
	Steps      []filtering.Applied   `json:"steps"`
	Candidates *filtering.Candidates `json:"candidates"`
}

// Runner screens every supported document of a folder. Filtering steps keep
// per run state, so a Runner runs one batch at a time.
type Runner struct {
	logger    *zap.Logger
	parser    *document.Parser
	extractor *extraction.Extractor

	workers int
	minText int
	steps   []filtering.Filter
	newID   func() string
}

type Option func(*Runner)

// WithWorkers bounds the number of documents processed at once. Non-positive values are ignored.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithMinTextLength overrides DefaultMinTextLength. Non-positive values are ignored.
func WithMinTextLength(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.minText = n
		}
	}
}

// WithSteps replaces the default filtering steps.
func WithSteps(steps []filtering.Filter) Option {
	return func(r *Runner) {
		r.steps = steps
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(r *Runner) {
		r.newID = newID
	}
}

func New(logger *zap.Logger, parser *document.Parser, extractor *extraction.Extractor, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if parser == nil {
		parser = document.New(logger)
	}
	if extractor == nil {
		extractor = extraction.New(logger)
	}

	r := &Runner{
		logger:    logger,
		parser:    parser,
		extractor: extractor,
		workers:   DefaultWorkers,
		minText:   DefaultMinTextLength,
		steps:     filtering.Default(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Discover lists the supported documents directly inside folder, sorted by name.
func Discover(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("reading folder %s: %w", folder, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !document.IsSupported(filepath.Ext(entry.Name())) {
			continue
		}
		files = append(files, filepath.Join(folder, entry.Name()))
	}
	sort.Strings(files)

	return files, nil
}

type result struct {
	candidate *filtering.Candidate
	failure   *Failure
}

// Run parses and extracts every document of folder, then applies the filtering
// steps to the extracted candidates. Per document failures are collected in
// the summary; only setup errors and cancellation abort the batch.
func (r *Runner) Run(ctx context.Context, folder string, cfg *filtering.Config) (*Summary, error) {
	if cfg == nil {
		cfg = &filtering.Config{}
	}
	if err := filtering.Validate(cfg, r.steps); err != nil {
		return nil, fmt.Errorf("invalid screening config: %w", err)
	}

	files, err := Discover(folder)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		BatchID:   r.newID(),
		Folder:    folder,
		StartedAt: time.Now().UTC(),
		Total:     len(files),
		Failures:  []Failure{},
	}
	log := logger.WithBatch(r.logger, summary.BatchID, folder)
	log.Info("screening started",
		zap.Int("documents", len(files)),
		zap.Int("workers", r.workers),
		zap.Int64("max_file_size", r.parser.MaxFileSize()),
	)

	results := make([]result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.process(file, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening %s: %w", folder, err)
	}

	candidates := &filtering.Candidates{}
	for _, res := range results {
		if res.failure != nil {
			summary.Failures = append(summary.Failures, *res.failure)
			continue
		}
		candidates.Items = append(candidates.Items, res.candidate)
	}
	summary.Successful = candidates.Len()
	summary.Failed = len(summary.Failures)

	r.logFailures(log, summary.Failures)

	filtered, applied, err := filtering.Run(ctx, cfg, filtering.Deps{Logger: log}, r.steps, candidates)
	if err != nil {
		return nil, fmt.Errorf("filtering candidates: %w", err)
	}
	filtered.SortByScore()

	summary.Steps = applied
	summary.Candidates = filtered
	summary.FinishedAt = time.Now().UTC()

	log.Info("screening finished",
		zap.Int("total", summary.Total),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed),
		zap.Int("potentials", filtered.Len()),
		zap.Duration("took", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	return summary, nil
}

func (r *Runner) process(file string, log *zap.Logger) result {
	log = logger.WithFields(log, logger.DocumentFields(file, document.NormalizeExtension(filepath.Ext(file)))...)

	parsed, err := r.parser.ParseFile(file)
	if err != nil {
		kind := document.KindOf(err)
		var docErr *document.Error
		if !errors.As(err, &docErr) {
			kind = FailureRead
		}
		log.Debug("document rejected", zap.String("kind", kind), zap.Error(err))
		return result{failure: &Failure{File: file, Kind: kind, Reason: err.Error()}}
	}

	text := document.SanitizeText(parsed.Text)
	if n := len([]rune(text)); n < r.minText {
		return result{failure: &Failure{
			File:   file,
			Kind:   FailureInsufficientText,
			Reason: fmt.Sprintf("insufficient text: %d characters, need at least %d", n, r.minText),
		}}
	}

	extracted := r.extractor.Extract(text, filepath.Base(file))
	profile := extracted.Profile

	warnings := append(append([]string{}, parsed.Warnings...), extracted.Warnings...)

	log.Debug("document screened",
		zap.String("name", profile.Name),
		zap.Int("skills", len(profile.Skills)),
		zap.String("text", logger.TruncateForLog(text, 80)),
	)

	return result{candidate: &filtering.Candidate{
		File:       file,
		UniqueHash: filtering.UniqueHash(profile.Name, profile.Email),
		Profile:    profile,
		ResumeText: headRunes(text, MaxResumeText),
		Warnings:   warnings,
	}}
}

func (r *Runner) logFailures(log *zap.Logger, failures []Failure) {
	for i, f := range failures {
		if i == maxLoggedFailures {
			log.Warn("more documents failed", zap.Int("omitted", len(failures)-maxLoggedFailures))
			return
		}
		log.Warn("document failed",
			zap.String(logger.FieldFile, f.File),
			zap.String("kind", f.Kind),
			zap.String("reason", f.Reason),
		)
	}
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
