package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// parsePDF reads every page in order. Pages that fail to render are
// skipped and recorded as warnings. The reader tries the empty password
// on encrypted documents by itself.
func (p *Parser) parsePDF(content []byte, res *Result, log *zap.Logger) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newError(ErrCorruptFile, "invalid PDF structure", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", classifyPDFError(err)
	}

	total := reader.NumPage()
	if total == 0 {
		return "", newError(ErrCorruptFile, "PDF has no pages", nil)
	}
	res.Pages = total

	var b strings.Builder
	for i := 1; i <= total; i++ {
		pageText, err := readPage(reader, i)
		if err != nil {
			log.Warn("skipping pdf page", zap.Int("page", i), zap.Error(err))
			res.warn("page %d skipped: %v", i, err)
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			log.Debug("no text on pdf page", zap.Int("page", i))
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}

	if strings.TrimSpace(b.String()) == "" {
		return "", newError(ErrEmptyExtraction, "PDF appears to be empty or scanned", nil)
	}

	return b.String(), nil
}

func readPage(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", num, r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", nil
	}

	return page.GetPlainText(nil)
}

func classifyPDFError(err error) error {
	if errors.Is(err, pdf.ErrInvalidPassword) || strings.Contains(strings.ToLower(err.Error()), "encrypt") {
		return newError(ErrCorruptFile, "PDF is password-protected", err)
	}
	return newError(ErrCorruptFile, "corrupted or invalid PDF", err)
}
