package export

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// MaxSheetName is Excel's tab name limit.
const MaxSheetName = 31

// SheetName makes name usable as an Excel tab: forbidden characters become
// "_" and the result is cut to MaxSheetName runes.
func SheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Sheet"
	}
	if utf8.RuneCountInString(name) > MaxSheetName {
		name = string([]rune(name)[:MaxSheetName])
	}
	return name
}

// WriteXLSX writes one worksheet per sheet, each with a bold header row.
func WriteXLSX(w io.Writer, sheets ...Sheet) (err error) {
	if len(sheets) == 0 {
		return errors.New("export: no sheets")
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	first := f.GetSheetName(0)
	for i, sh := range sheets {
		name := SheetName(sh.Name)
		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeSheet(f, name, sh, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, name string, sh Sheet, headerStyle int) error {
	if len(sh.Columns) == 0 {
		return nil
	}
	header := make([]any, len(sh.Columns))
	for i, c := range sh.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(sh.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range sh.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := rowValues(sh.Columns, row, cellValue)
		if err := f.SetSheetRow(name, cell, &vals); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(sh.Columns))
	if err != nil {
		return err
	}
	return f.SetColWidth(name, "A", lastCol, 22)
}
