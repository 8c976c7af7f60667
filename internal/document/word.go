package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"code.sajari.com/docconv"
	"go.uber.org/zap"
)

var zipMagic = []byte("PK\x03\x04")

// parseWord handles both .docx and .doc. Office Open XML content is read
// directly from the zip container; anything else is handed to the legacy
// Word converter.
func (p *Parser) parseWord(content []byte, ext string, log *zap.Logger) (string, error) {
	var (
		text string
		err  error
	)

	if bytes.HasPrefix(content, zipMagic) {
		text, err = parseDOCX(content)
	} else {
		log.Debug("content is not a zip container, using legacy word converter", zap.String("declared", ext))
		text, err = p.parseLegacyDOC(content)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", newError(ErrEmptyExtraction, "document contains no text", nil)
	}

	return text, nil
}

// legacyConverter is the external tool docconv runs for binary .doc files.
const legacyConverter = "wvText"

func (p *Parser) parseLegacyDOC(content []byte) (string, error) {
	if _, err := p.lookPath(legacyConverter); err != nil {
		return "", newError(ErrUnsupportedFormat,
			"legacy .doc needs the "+legacyConverter+" converter (wv package) on PATH", err)
	}

	text, _, err := docconv.ConvertDoc(bytes.NewReader(content))
	if err != nil {
		return "", newError(ErrCorruptFile, "failed to read Word document", err)
	}
	return text, nil
}

func parseDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", newError(ErrCorruptFile, "invalid DOCX archive", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", newError(ErrCorruptFile, "word/document.xml not found", nil)
	}

	rc, err := body.Open()
	if err != nil {
		return "", newError(ErrCorruptFile, "opening word/document.xml", err)
	}
	defer rc.Close()

	paragraphs, cells, err := walkDocumentXML(rc)
	if err != nil {
		return "", newError(ErrCorruptFile, "invalid document.xml", err)
	}

	parts := make([]string, 0, len(paragraphs)+len(cells))
	parts = append(parts, paragraphs...)
	parts = append(parts, cells...)

	return strings.Join(parts, "\n"), nil
}

// walkDocumentXML returns body paragraphs in document order and then the
// text of top level table cells in row-major order. Blank entries are dropped.
func walkDocumentXML(r io.Reader) ([]string, []string, error) {
	dec := xml.NewDecoder(r)

	var (
		paragraphs []string
		cells      []string

		tableDepth int
		inText     bool
		paragraph  strings.Builder
		cellParts  []string
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tc":
				if tableDepth == 1 {
					cellParts = cellParts[:0]
				}
			case "p":
				paragraph.Reset()
			case "t":
				inText = true
			case "tab":
				paragraph.WriteString("\t")
			case "br", "cr":
				paragraph.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "tc":
				if tableDepth == 1 {
					cell := strings.Join(cellParts, "\n")
					if strings.TrimSpace(cell) != "" {
						cells = append(cells, cell)
					}
				}
			case "p":
				text := paragraph.String()
				switch {
				case tableDepth == 0:
					if strings.TrimSpace(text) != "" {
						paragraphs = append(paragraphs, text)
					}
				case tableDepth == 1:
					cellParts = append(cellParts, text)
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		}
	}

	return paragraphs, cells, nil
}
