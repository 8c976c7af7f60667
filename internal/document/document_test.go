package document

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleResume = "Jane Doe\nSenior Software Engineer\nSkills: Python, Go, Docker\nExperience: 6 years building backend services.\n"

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`))
	require.NoError(t, err)

	w, err = zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body +
		`</w:body></w:document>`))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func TestParseValidation(t *testing.T) {
	t.Parallel()

	parser := New(zap.NewNop())

	cases := []struct {
		name    string
		content []byte
		ext     string
		kind    error
	}{
		{name: "empty file", content: nil, ext: ".pdf", kind: ErrEmptyFile},
		{name: "oversize file", content: make([]byte, 11*1024*1024), ext: ".pdf", kind: ErrOversizeFile},
		{name: "oversize wins over extension", content: make([]byte, 11*1024*1024), ext: ".exe", kind: ErrOversizeFile},
		{name: "unsupported extension", content: []byte(sampleResume), ext: ".rtf", kind: ErrUnsupportedFormat},
		{name: "garbage pdf", content: []byte("definitely not a pdf document at all"), ext: ".pdf", kind: ErrCorruptFile},
		{name: "short text", content: []byte("too short"), ext: ".txt", kind: ErrEmptyExtraction},
		{name: "blank text", content: []byte("   \n\t  "), ext: ".txt", kind: ErrEmptyExtraction},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := parser.Parse(tc.content, tc.ext)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tc.kind)

			var perr *Error
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseText(t *testing.T) {
	t.Parallel()

	parser := New(nil)

	res, err := parser.Parse([]byte("\ufeff"+strings.ReplaceAll(sampleResume, "\n", "\r\n")), "TXT")
	require.NoError(t, err)
	assert.Equal(t, FormatTXT, res.Format)
	assert.True(t, strings.HasPrefix(res.Text, "Jane Doe\n"))
	assert.NotContains(t, res.Text, "\r\n")
}

func TestParseTextFallsBackToLatin1(t *testing.T) {
	t.Parallel()

	content := []byte("Jos\xe9 Mart\xednez\nBackend developer with Python and Django experience across teams.")
	res, err := New(nil).Parse(content, ".txt")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "José Martínez")
}

func TestParseDOCXOrdersParagraphsBeforeTables(t *testing.T) {
	t.Parallel()

	body := para("Jane Doe") +
		`<w:tbl><w:tr><w:tc>` + para("Python") + `</w:tc><w:tc>` + para("Go") + `</w:tc></w:tr>` +
		`<w:tr><w:tc>` + para("   ") + `</w:tc><w:tc>` + para("Docker") + `</w:tc></w:tr></w:tbl>` +
		para("Senior engineer with a long record of building distributed systems.") +
		para("  ")

	res, err := New(nil).Parse(buildDOCX(t, body), ".docx")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior engineer with a long record of building distributed systems.\nPython\nGo\nDocker", res.Text)
}

func TestParseDOCWithZipContainer(t *testing.T) {
	t.Parallel()

	body := para("John Smith, platform engineer focused on Kubernetes and Terraform automation.")
	res, err := New(nil).Parse(buildDOCX(t, body), ".doc")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "John Smith")
}

func TestParseLegacyDOCWithoutConverter(t *testing.T) {
	t.Parallel()

	parser := New(nil)
	var looked string
	parser.lookPath = func(file string) (string, error) {
		looked = file
		return "", exec.ErrNotFound
	}

	content := append([]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}, []byte(sampleResume)...)
	_, err := parser.Parse(content, ".doc")
	require.Error(t, err)
	assert.Equal(t, "wvText", looked)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, err, exec.ErrNotFound)
	assert.Contains(t, err.Error(), "wvText")
}

func TestParseDOCXWithoutText(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Parse(buildDOCX(t, para(" ")), ".docx")
	assert.ErrorIs(t, err, ErrEmptyExtraction)
}

func TestParseDOCXMissingBody(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = New(nil).Parse(buf.Bytes(), ".docx")
	assert.ErrorIs(t, err, ErrCorruptFile)
}

func TestClassifyPDFError(t *testing.T) {
	t.Parallel()

	err := classifyPDFError(pdf.ErrInvalidPassword)
	assert.ErrorIs(t, err, ErrCorruptFile)
	assert.ErrorIs(t, err, pdf.ErrInvalidPassword)
	assert.Contains(t, err.Error(), "password-protected")

	err = classifyPDFError(assert.AnError)
	assert.ErrorIs(t, err, ErrCorruptFile)
	assert.NotContains(t, err.Error(), "password-protected")
}

// buildPDF writes a minimal PDF with one text line per page. A blank entry
// yields a page with an empty content stream. trailer is appended to the
// trailer dictionary as is.
func buildPDF(t *testing.T, trailer string, pages ...string) []byte {
	t.Helper()

	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	for i, text := range pages {
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R %s >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, trailer, xref)

	return buf.Bytes()
}

func TestParsePDFJoinsPagesInOrder(t *testing.T) {
	t.Parallel()

	first := "Jane Doe Senior Software Engineer skilled in Go and Python"
	second := "Six years of experience building backend services in Pune"

	res, err := New(nil).Parse(buildPDF(t, "", first, second), ".pdf")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, res.Format)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, []string{first, second}, strings.Split(res.Text, "\n"))
}

func TestParsePDFWithOnlyBlankPages(t *testing.T) {
	t.Parallel()

	_, err := New(nil).Parse(buildPDF(t, "", "", ""), ".pdf")
	assert.ErrorIs(t, err, ErrEmptyExtraction)
}

func TestParsePDFEncrypted(t *testing.T) {
	t.Parallel()

	id := strings.Repeat("ab", 16)
	owner := strings.Repeat("01", 32)
	user := strings.Repeat("02", 32)
	encrypt := fmt.Sprintf("/Encrypt << /Filter /Standard /V 1 /R 2 /O <%s> /U <%s> /P -44 >> /ID [<%s> <%s>]",
		owner, user, id, id)

	_, err := New(nil).Parse(buildPDF(t, encrypt, "Jane Doe Senior Software Engineer skilled in Go and Python"), ".pdf")
	assert.ErrorIs(t, err, ErrCorruptFile)
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "Jane Doe.TXT")
	require.NoError(t, os.WriteFile(path, []byte(sampleResume), 0o600))

	res, err := New(nil).ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatTXT, res.Format)

	empty := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = New(nil).ParseFile(empty)
	assert.ErrorIs(t, err, ErrEmptyFile)

	small := New(nil, WithMaxFileSize(10))
	_, err = small.ParseFile(path)
	assert.ErrorIs(t, err, ErrOversizeFile)
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", KindOf(nil))
	assert.Equal(t, "corrupt_file", KindOf(newError(ErrCorruptFile, "x", nil)))
	assert.Equal(t, "unknown", KindOf(assert.AnError))
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "  plain  ", want: "plain"},
		{in: "a\x00b", want: "ab"},
		{in: "line\x07one\nline\ttwo\r\n", want: "lineone\nline\ttwo"},
		{in: "\x1b[0mtext", want: "[0mtext"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeText(tc.in), "input %q", tc.in)
	}
}
