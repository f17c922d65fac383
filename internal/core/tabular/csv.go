package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	perr "compsync/internal/platform/errors"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// delimiters in preference order for ties
var delimiters = []rune{',', ';', '\t', '|'}

func decodeCSV(data []byte) (*Table, error) {
	text, enc, err := toUTF8(data)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidFormat, "cannot decode text encoding")
	}
	if bytes.IndexByte(text, 0) >= 0 {
		return nil, perr.InvalidFormatf("upload looks binary, expected CSV text")
	}

	delim := sniffDelimiter(text)
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeInvalidFormat, "malformed CSV")
		}
		records = append(records, rec)
	}

	t := &Table{Encoding: enc, Delimiter: delim}
	build(t, records)
	return t, nil
}

// toUTF8 strips a byte order mark and transcodes UTF-16; invalid UTF-8 without
// a mark is read as Windows-1252, the usual export of older spreadsheet tools
func toUTF8(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], "utf-8-bom", nil
	case bytes.HasPrefix(data, bomUTF16LE):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		return out, "utf-16le", err
	case bytes.HasPrefix(data, bomUTF16BE):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		return out, "utf-16be", err
	case utf8.Valid(data):
		return data, "utf-8", nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	return out, "windows-1252", err
}

// sniffDelimiter counts candidates outside quotes on the first non-blank line
func sniffDelimiter(text []byte) rune {
	line := firstLine(text)
	counts := make(map[rune]int, len(delimiters))
	quoted := false
	for _, r := range string(line) {
		if r == '"' {
			quoted = !quoted
			continue
		}
		if !quoted {
			counts[r]++
		}
	}
	best := ','
	for _, d := range delimiters {
		if counts[d] > counts[best] {
			best = d
		}
	}
	return best
}

func firstLine(text []byte) []byte {
	for len(text) > 0 {
		line := text
		if i := bytes.IndexByte(text, '\n'); i >= 0 {
			line, text = text[:i], text[i+1:]
		} else {
			text = nil
		}
		if len(bytes.TrimSpace(line)) > 0 {
			return line
		}
	}
	return nil
}
