// Package tabular turns an uploaded CSV or xlsx byte buffer into header-keyed rows.
// The container is sniffed from the bytes; the declared content type is only a hint,
// since browsers routinely label CSV files as spreadsheets.
package tabular

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	perr "compsync/internal/platform/errors"
)

// Format is the container an upload was decoded from
type Format string

// known formats
const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatXLS     Format = "xls"
	FormatUnknown Format = "unknown"
)

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Cell is one value under its source header
type Cell struct {
	Header string
	Value  string
}

// Row is one non-blank data line
type Row struct {
	// Position is the 0-based index among non-blank data rows
	Position int
	Cells    []Cell
}

// Value returns the cell under header, first match wins
func (r Row) Value(header string) (string, bool) {
	for _, c := range r.Cells {
		if c.Header == header {
			return c.Value, true
		}
	}
	return "", false
}

// Table is a decoded upload
type Table struct {
	Format   Format
	Declared string
	Detected string

	// Sheet is the selected worksheet for spreadsheets
	Sheet string
	// Encoding and Delimiter describe delimited text
	Encoding  string
	Delimiter rune

	Headers []string
	Rows    []Row
}

// Sniff classifies data by container signature, then by content, never by declared alone
func Sniff(data []byte, declared string) Format {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(data, oleMagic):
		return FormatXLS
	case bytes.HasPrefix(data, bomUTF8), bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		return FormatCSV
	}
	m := mimetype.Detect(data)
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return FormatCSV
		}
		if m.Is("application/zip") {
			return FormatXLSX
		}
		if m.Is("application/x-ole-storage") {
			return FormatXLS
		}
	}
	// mimetype gives up on text in legacy 8-bit encodings; accept them when the
	// caller also says text and the bytes carry no NUL
	if textual(declared) && bytes.IndexByte(data, 0) < 0 {
		return FormatCSV
	}
	return FormatUnknown
}

func textual(declared string) bool {
	d := strings.ToLower(strings.TrimSpace(declared))
	return d == "" || strings.HasPrefix(d, "text/") || strings.Contains(d, "csv") ||
		strings.Contains(d, "excel") || strings.Contains(d, "spreadsheet")
}

// Decode parses data into a Table. A blank buffer is an empty table, not an error;
// anything that cannot be read as rows is INVALID_FORMAT.
func Decode(data []byte, declared string) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Table{Format: FormatCSV, Declared: declared, Detected: "text/plain"}, nil
	}

	format := Sniff(data, declared)
	var (
		t   *Table
		err error
	)
	switch format {
	case FormatXLSX:
		t, err = decodeXLSX(data)
	case FormatCSV:
		t, err = decodeCSV(data)
	case FormatXLS:
		return nil, perr.InvalidFormatf("legacy .xls workbooks are not supported, save the file as .xlsx or .csv")
	default:
		return nil, perr.InvalidFormatf("unrecognised upload content (%s)", mimetype.Detect(data).String())
	}
	if err != nil {
		return nil, err
	}
	t.Format = format
	t.Declared = declared
	t.Detected = mimetype.Detect(data).String()
	return t, nil
}

// build turns raw records into a header row plus non-blank data rows.
// Leading blank lines are skipped before the header. Short rows are padded,
// long rows truncated to the header width.
func build(t *Table, records [][]string) {
	i := 0
	for i < len(records) && blank(records[i]) {
		i++
	}
	if i == len(records) {
		return
	}

	raw := records[i]
	headers := make([]string, len(raw))
	for j, h := range raw {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = "column_" + strconv.Itoa(j+1)
		}
		headers[j] = h
	}
	t.Headers = headers

	pos := 0
	for _, rec := range records[i+1:] {
		if blank(rec) {
			continue
		}
		cells := make([]Cell, len(headers))
		for j, h := range headers {
			cells[j].Header = h
			if j < len(rec) {
				cells[j].Value = strings.TrimSpace(rec[j])
			}
		}
		t.Rows = append(t.Rows, Row{Position: pos, Cells: cells})
		pos++
	}
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
