package workbook

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/balkashynov/inctrack/internal/models"
	"github.com/balkashynov/inctrack/internal/tracker"
)

// Tickets is the INCIDENTS sheet: Created On | Ticket ID | Description
type Tickets struct {
	wb *Workbook
}

const (
	colCreatedOn = iota
	colTicketID
	colDescription
)

// EnsureSchema creates the workbook and the INCIDENTS sheet when missing
func (t *Tickets) EnsureSchema() error {
	return t.wb.ensureSheet(IncidentsSheet, IncidentHeaders)
}

// ListAll returns every incident in insertion order
func (t *Tickets) ListAll() ([]models.Incident, error) {
	rows, err := t.wb.rows(IncidentsSheet)
	if err != nil {
		return nil, err
	}

	incidents := []models.Incident{}
	if len(rows) == 0 {
		return incidents, nil
	}
	cols := columnIndexes(rows[0], IncidentHeaders)

	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		incident := models.Incident{
			TicketID:    cell(row, cols[colTicketID]),
			Description: cell(row, cols[colDescription]),
		}
		if created, ok := t.wb.parseTime(cell(row, cols[colCreatedOn])); ok {
			incident.CreatedOn = created
		}
		incidents = append(incidents, incident)
	}
	return incidents, nil
}

// Append adds one incident below the last row.
// Text that does not fit in a cell is rejected, excelize would cut it.
func (t *Tickets) Append(incident models.Incident) error {
	if err := fitsCell("ticket ID", incident.TicketID); err != nil {
		return err
	}
	if err := fitsCell("description", incident.Description); err != nil {
		return err
	}
	return t.wb.update(func(f *excelize.File) (bool, error) {
		if _, err := ensureSheet(f, IncidentsSheet, IncidentHeaders); err != nil {
			return false, fmt.Errorf("failed to prepare %s: %w", IncidentsSheet, err)
		}
		rows, err := f.GetRows(IncidentsSheet, excelize.Options{RawCellValue: true})
		if err != nil {
			return false, err
		}
		var header []string
		if len(rows) > 0 {
			header = rows[0]
		}
		cols := columnIndexes(header, IncidentHeaders)
		row := len(rows) + 1
		if row < 2 {
			row = 2
		}

		dateCell, _ := excelize.CoordinatesToCellName(cols[colCreatedOn]+1, row)
		if err := t.wb.setTimeCell(f, IncidentsSheet, dateCell, incident.CreatedOn, dateNumFmt); err != nil {
			return false, fmt.Errorf("failed to write created on: %w", err)
		}
		idCell, _ := excelize.CoordinatesToCellName(cols[colTicketID]+1, row)
		if err := f.SetCellStr(IncidentsSheet, idCell, incident.TicketID); err != nil {
			return false, err
		}
		descCell, _ := excelize.CoordinatesToCellName(cols[colDescription]+1, row)
		if err := f.SetCellStr(IncidentsSheet, descCell, incident.Description); err != nil {
			return false, err
		}
		return true, nil
	})
}

func fitsCell(field, value string) error {
	if n := utf8.RuneCountInString(value); n > excelize.TotalCellChars {
		return fmt.Errorf("%s has %d characters, at most %d fit: %w", field, n, excelize.TotalCellChars, tracker.ErrValueTooLong)
	}
	return nil
}
