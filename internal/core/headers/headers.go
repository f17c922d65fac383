// Package headers maps arbitrary upload column names onto the canonical employee fields.
// Matching is by folded key (case, spacing, punctuation and width ignored) against a fixed
// alias vocabulary. Nothing here fails: an unknown column is carried along as an extra.
package headers

import (
	"strings"

	"compsync/internal/core/canon"
	"compsync/internal/core/normalize"
	"compsync/internal/core/tabular"
)

// Kind says how a column is used
type Kind uint8

// column kinds
const (
	KindExtra Kind = iota
	KindField
	KindFullName
)

// Column is the resolved meaning of one source header
type Column struct {
	Index  int
	Header string
	Kind   Kind
	// Field is set for KindField
	Field canon.Field
}

// Lookup resolves a single header
func Lookup(header string) (canon.Field, bool) {
	f, ok := lookup[normalize.Key(header)]
	return f, ok
}

// IsFullName reports whether header is a combined name column
func IsFullName(header string) bool { return fullKeys[normalize.Key(header)] }

// Detect resolves a header row. The first column claiming a field owns it;
// later claimants and unknown headers become extras, as does any second full name column.
func Detect(headers []string) []Column {
	cols := make([]Column, len(headers))
	owned := make(map[canon.Field]bool, len(headers))
	full := false
	for i, h := range headers {
		cols[i] = Column{Index: i, Header: h}
		if f, ok := Lookup(h); ok {
			if !owned[f] {
				owned[f] = true
				cols[i].Kind, cols[i].Field = KindField, f
			}
			continue
		}
		if IsFullName(h) && !full {
			full = true
			cols[i].Kind = KindFullName
		}
	}
	return cols
}

// Mapped returns field name by header for every column that resolved, for run reports
func Mapped(cols []Column) map[string]string {
	out := make(map[string]string, len(cols))
	for _, c := range cols {
		switch c.Kind {
		case KindField:
			out[c.Header] = c.Field.String()
		case KindFullName:
			out[c.Header] = "fullName"
		}
	}
	return out
}

// Canonicalize maps every row using the header layout of the first row
func Canonicalize(rows []tabular.Row) []canon.Row {
	if len(rows) == 0 {
		return nil
	}
	hs := make([]string, len(rows[0].Cells))
	for i, c := range rows[0].Cells {
		hs[i] = c.Header
	}
	cols := Detect(hs)
	out := make([]canon.Row, len(rows))
	for i, r := range rows {
		out[i] = Apply(cols, r)
	}
	return out
}

// Apply maps one row with a resolved layout. Blank cells leave their field absent.
func Apply(cols []Column, r tabular.Row) canon.Row {
	row := canon.Row{Position: r.Position}
	var full canon.Extra
	for i, cell := range r.Cells {
		col := Column{Header: cell.Header}
		if i < len(cols) {
			col = cols[i]
		}
		v := strings.TrimSpace(cell.Value)
		switch col.Kind {
		case KindField:
			if v != "" {
				*row.Slot(col.Field) = canon.Some(v)
			}
		case KindFullName:
			full = canon.Extra{Key: cell.Header, Value: v}
		default:
			row.Extras = append(row.Extras, canon.Extra{Key: cell.Header, Value: cell.Value})
		}
	}
	splitFullName(&row, full)
	return row
}

// splitFullName fills first and last name from a combined value, each only when
// the row has no explicit column for it. "Rao, Asha" is read surname first.
// A full name that fills neither is kept as an extra.
func splitFullName(row *canon.Row, full canon.Extra) {
	if full.Value == "" {
		return
	}
	first, last := splitName(full.Value)
	used := false
	if !row.FirstName.Set && first != "" {
		row.FirstName, used = canon.Some(first), true
	}
	if !row.LastName.Set && last != "" {
		row.LastName, used = canon.Some(last), true
	}
	if !used {
		row.Extras = append(row.Extras, full)
	}
}

func splitName(full string) (first, last string) {
	if surname, given, ok := strings.Cut(full, ","); ok {
		surname, given = strings.TrimSpace(surname), strings.TrimSpace(given)
		if surname != "" && given != "" && !strings.Contains(surname, " ") {
			full = given + " " + surname
		}
	}
	parts := normalize.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
