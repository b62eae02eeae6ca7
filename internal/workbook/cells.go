package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/balkashynov/inctrack/internal/models"
)

// ensureSheet adds the sheet if it is missing and writes the header when
// the first row is blank
func ensureSheet(f *excelize.File, sheet string, headers []string) (bool, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return false, err
	}
	if idx == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return false, err
		}
	} else {
		for col := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			v, err := f.GetCellValue(sheet, cell)
			if err != nil {
				return false, err
			}
			if strings.TrimSpace(v) != "" {
				return false, nil
			}
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return false, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return false, err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return false, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheet, "A", lastCol, 22); err != nil {
		return false, err
	}
	return true, nil
}

// columnIndexes maps each wanted header to its 0-based column in the header
// row, falling back to the standard position when the header is not found.
// Workbooks written by older versions carry extra columns such as "Updated On".
func columnIndexes(header []string, wanted []string) []int {
	cols := make([]int, len(wanted))
	for i, name := range wanted {
		cols[i] = i
		for j, v := range header {
			if strings.EqualFold(strings.TrimSpace(v), name) {
				cols[i] = j
				break
			}
		}
	}
	return cols
}

// nextRow returns the 1-based row number after the last used row
func nextRow(f *excelize.File, sheet string) (int, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 2, nil
	}
	return len(rows) + 1, nil
}

// setTimeCell writes t as a real Excel date using the workbook's wall clock
func (w *Workbook) setTimeCell(f *excelize.File, sheet, cell string, t time.Time, numFmt string) error {
	local := t.In(w.loc)
	wall := time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), 0, time.UTC)
	if err := f.SetCellValue(sheet, cell, wall); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell, cell, style)
}

// parseTime reads a date cell. Excel serial numbers and the text layouts
// yyyy-mm-dd hh:mm:ss / yyyy-mm-dd are accepted.
func (w *Workbook) parseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		t = t.Round(time.Second)
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, w.loc), true
	}

	for _, layout := range []string{models.DateTimeLayout, models.DateLayout, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, raw, w.loc); err == nil {
			return t.In(w.loc), true
		}
	}
	return time.Time{}, false
}

// cell returns column col (0-based) of a row, or "" when the row is short
func cell(row []string, col int) string {
	if col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sameSecond compares two timestamps at the stored precision
func sameSecond(a, b time.Time) bool {
	return a.Truncate(time.Second).Equal(b.Truncate(time.Second))
}
