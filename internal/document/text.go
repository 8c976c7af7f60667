package document

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

type textEncoding struct {
	name    string
	decoder func() *encoding.Decoder
}

// textEncodings is tried in order; the first decoding that yields
// non-blank content wins. A nil decoder means strict UTF-8.
var textEncodings = []textEncoding{
	{name: "utf-8"},
	{name: "latin-1", decoder: charmap.ISO8859_1.NewDecoder},
	{name: "cp1252", decoder: charmap.Windows1252.NewDecoder},
	{name: "iso-8859-1", decoder: charmap.ISO8859_1.NewDecoder},
}

func parseText(content []byte) (string, error) {
	for _, enc := range textEncodings {
		text, ok := decodeText(content, enc)
		if !ok {
			continue
		}
		text = strings.ReplaceAll(text, "\r\n", "\n")
		if strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
	}

	return "", newError(ErrEmptyExtraction, "could not read text file with any supported encoding", nil)
}

func decodeText(content []byte, enc textEncoding) (string, bool) {
	if enc.decoder == nil {
		if !utf8.Valid(content) {
			return "", false
		}
		return strings.TrimPrefix(string(content), "\ufeff"), true
	}

	out, err := enc.decoder().Bytes(content)
	if err != nil {
		return "", false
	}
	return string(out), true
}
