package document

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	// DefaultMaxFileSize is the largest document accepted by the Parser.
	DefaultMaxFileSize = 10 * 1024 * 1024
	// MinTextLength is the shortest text the Parser returns.
	MinTextLength = 50
)

const (
	FormatPDF  = ".pdf"
	FormatDOCX = ".docx"
	FormatDOC  = ".doc"
	FormatTXT  = ".txt"
)

// SupportedFormats lists accepted extensions in a stable order.
var SupportedFormats = []string{FormatPDF, FormatDOCX, FormatDOC, FormatTXT}

// Result is the sanitized text of a document together with notes about
// anything that was skipped while reading it.
type Result struct {
	Text     string   `json:"text"`
	Format   string   `json:"format"`
	Pages    int      `json:"pages,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Parser turns raw resume documents into plain text.
// It holds no per-document state and is safe for concurrent use.
type Parser struct {
	logger      *zap.Logger
	maxFileSize int64
	lookPath    func(file string) (string, error)
}

type Option func(*Parser)

// WithMaxFileSize overrides DefaultMaxFileSize. Non-positive values are ignored.
func WithMaxFileSize(size int64) Option {
	return func(p *Parser) {
		if size > 0 {
			p.maxFileSize = size
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Parser{
		logger:      logger,
		maxFileSize: DefaultMaxFileSize,
		lookPath:    exec.LookPath,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// MaxFileSize returns the configured size bound in bytes.
func (p *Parser) MaxFileSize() int64 {
	return p.maxFileSize
}

// NormalizeExtension lowercases ext and makes sure it has a leading dot.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// IsSupported reports whether ext is one of SupportedFormats.
func IsSupported(ext string) bool {
	ext = NormalizeExtension(ext)
	for _, f := range SupportedFormats {
		if f == ext {
			return true
		}
	}
	return false
}

func (p *Parser) validate(size int64, ext string) error {
	if size == 0 {
		return newError(ErrEmptyFile, "", nil)
	}

	if size > p.maxFileSize {
		return newError(ErrOversizeFile, fmt.Sprintf("%.2fMB exceeds limit of %.2fMB",
			float64(size)/(1024*1024), float64(p.maxFileSize)/(1024*1024)), nil)
	}

	if !IsSupported(ext) {
		return newError(ErrUnsupportedFormat, fmt.Sprintf("%q, supported: %s", ext, strings.Join(SupportedFormats, ", ")), nil)
	}

	return nil
}

// ParseFile validates the file on disk before reading it, then parses it.
func (p *Parser) ParseFile(path string) (*Result, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	ext := NormalizeExtension(filepath.Ext(path))
	if err := p.validate(stat.Size(), ext); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return p.Parse(content, ext)
}

// Parse extracts sanitized text from content according to ext.
// Every failure is an *Error whose Kind is one of the Err* sentinels.
func (p *Parser) Parse(content []byte, ext string) (*Result, error) {
	ext = NormalizeExtension(ext)
	if err := p.validate(int64(len(content)), ext); err != nil {
		return nil, err
	}

	log := p.logger.With(zap.String("format", ext), zap.Int("size", len(content)))

	res := &Result{Format: ext}

	var (
		text string
		err  error
	)
	switch ext {
	case FormatPDF:
		text, err = p.parsePDF(content, res, log)
	case FormatDOCX, FormatDOC:
		text, err = p.parseWord(content, ext, log)
	case FormatTXT:
		text, err = parseText(content)
	}
	if err != nil {
		log.Debug("parsing failed", zap.Error(err))
		return nil, err
	}

	text = SanitizeText(text)
	if len([]rune(text)) < MinTextLength {
		return nil, newError(ErrEmptyExtraction, fmt.Sprintf("insufficient text: %d characters, need at least %d", len([]rune(text)), MinTextLength), nil)
	}

	res.Text = text
	log.Debug("document parsed", zap.Int("characters", len(text)), zap.Int("warnings", len(res.Warnings)))

	return res, nil
}
