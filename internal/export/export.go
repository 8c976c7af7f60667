package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/resume-screener/internal/filtering"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Sheet is the worksheet holding the potentials.
const Sheet = "Potentials"

var headers = []string{
	"Name",
	"Email",
	"Phone",
	"Location",
	"Experience (years)",
	"Score",
	"Skills",
	"File",
}

// Exporter writes screened candidates as XLSX workbooks.
type Exporter struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger}
}

// WriteFile saves the candidates into a new workbook at path.
func (e *Exporter) WriteFile(path string, c *filtering.Candidates) error {
	f, err := e.workbook(c)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}

	e.logger.Info("potentials exported", zap.String("path", path), zap.Int("rows", c.Len()))
	return nil
}

// Write streams the workbook to w.
func (e *Exporter) Write(w io.Writer, c *filtering.Candidates) error {
	f, err := e.workbook(c)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (e *Exporter) workbook(c *filtering.Candidates) (*excelize.File, error) {
	if c == nil {
		c = &filtering.Candidates{}
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(Sheet, "A1", &headers); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, candidate := range c.Items {
		p := candidate.Profile
		if p == nil {
			continue
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			f.Close()
			return nil, err
		}

		values := []any{
			p.Name,
			p.Email,
			p.Phone,
			p.Location,
			p.ExperienceYears,
			candidate.Score,
			strings.Join(p.Skills, ", "),
			candidate.File,
		}
		if err := f.SetSheetRow(Sheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing row %d: %w", row, err)
		}
		row++
	}

	_ = f.SetColWidth(Sheet, "A", "B", 28)
	_ = f.SetColWidth(Sheet, "C", "D", 16)
	_ = f.SetColWidth(Sheet, "E", "F", 12)
	_ = f.SetColWidth(Sheet, "G", "G", 48)
	_ = f.SetColWidth(Sheet, "H", "H", 40)

	return f, nil
}
