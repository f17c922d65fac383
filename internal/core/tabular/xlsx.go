package tabular

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	perr "compsync/internal/platform/errors"
	"compsync/internal/platform/logger"
)

// decodeXLSX reads the worksheet with the most non-empty rows; ties keep the earlier sheet.
// Cells are read raw so date serials and unformatted numbers reach the normalizer intact.
func decodeXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidFormat, "cannot open spreadsheet")
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Named("tabular").Debug().Err(err).Msg("close workbook")
		}
	}()

	var (
		bestName string
		bestRows [][]string
		bestN    = -1
	)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidFormat, "cannot read sheet %q", name)
		}
		n := 0
		for _, r := range rows {
			if !blank(r) {
				n++
			}
		}
		if n > bestN {
			bestName, bestRows, bestN = name, rows, n
		}
	}
	if bestN < 0 {
		return nil, perr.InvalidFormatf("spreadsheet has no worksheets")
	}

	t := &Table{Sheet: bestName}
	build(t, bestRows)
	return t, nil
}
